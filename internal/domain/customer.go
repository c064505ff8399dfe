package domain

import "time"

// Customer is the single managed resource.
type Customer struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Surname     string    `json:"surname"`
	Email       string    `json:"email"`
	Initials    string    `json:"initials,omitempty"`
	Mobile      string    `json:"mobile,omitempty"`
	LastUpdated time.Time `json:"lastupdated"`
}
