package seed

import (
	"context"
	"errors"
	"fmt"

	"customer-manager/internal/domain"
	customersvc "customer-manager/internal/service/customer"
	"github.com/rs/zerolog"
)

// Creator stores one customer.
type Creator interface {
	Create(ctx context.Context, in customersvc.Input) (*domain.Customer, error)
}

var demoCustomers = []customersvc.Input{
	{Name: "Ada", Surname: "Lovelace", Email: "ada.lovelace@example.com", Initials: "A", Mobile: "+447700900001"},
	{Name: "Alan", Surname: "Turing", Email: "alan.turing@example.com", Initials: "AM", Mobile: "+447700900002"},
	{Name: "Grace", Surname: "Hopper", Email: "grace.hopper@example.com", Initials: "GB"},
	{Name: "Edsger", Surname: "Dijkstra", Email: "edsger.dijkstra@example.com", Initials: "EW", Mobile: "+31 20 555 0103"},
	{Name: "Barbara", Surname: "Liskov", Email: "barbara.liskov@example.com"},
}

// Apply inserts demo customers for manual testing. It is idempotent: customers
// whose email already exists are left untouched. It returns how many were created.
func Apply(ctx context.Context, creator Creator, log zerolog.Logger) (int, error) {
	created := 0
	for _, in := range demoCustomers {
		if _, err := creator.Create(ctx, in); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				log.Debug().Str("email", in.Email).Msg("demo customer already present")
				continue
			}
			return created, fmt.Errorf("create customer %s: %w", in.Email, err)
		}
		created++
	}
	return created, nil
}
