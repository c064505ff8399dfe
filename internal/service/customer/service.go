package customer

import (
	"context"
	"strings"
	"time"

	"customer-manager/internal/domain"
	"customer-manager/internal/events"
	custrepo "customer-manager/internal/repository/customer"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Input carries the writable customer fields for create and update.
type Input struct {
	Name     string `json:"name" validate:"required"`
	Surname  string `json:"surname" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Initials string `json:"initials"`
	Mobile   string `json:"mobile" validate:"omitempty,mobile"`
}

func (in Input) normalized() Input {
	return Input{
		Name:     strings.TrimSpace(in.Name),
		Surname:  strings.TrimSpace(in.Surname),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Initials: strings.TrimSpace(in.Initials),
		Mobile:   strings.TrimSpace(in.Mobile),
	}
}

// Service validates customer writes and forwards them to the repository.
type Service struct {
	repo     custrepo.Repository
	events   events.Publisher
	logger   zerolog.Logger
	validate *validator.Validate
	now      func() time.Time
}

// New creates a Service. A nil publisher disables change events.
func New(repo custrepo.Repository, publisher events.Publisher, logger zerolog.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:     repo,
		events:   publisher,
		logger:   logger.With().Str("service", "customer").Logger(),
		validate: newValidator(),
		now: func() time.Time {
			// document stores keep millisecond precision
			return time.Now().UTC().Truncate(time.Millisecond)
		},
	}
}

// Create validates in and stores a new customer.
func (s *Service) Create(ctx context.Context, in Input) (*domain.Customer, error) {
	c, err := s.prepare(in)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.CustomerCreated, *created)
	return created, nil
}

// List returns one page of customers.
func (s *Service) List(ctx context.Context, q domain.ListQuery) (*domain.Page, error) {
	return s.repo.List(ctx, q)
}

// Get returns the customer with the given id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Customer, error) {
	return s.repo.GetByID(ctx, id)
}

// Update overwrites every writable field of the customer.
func (s *Service) Update(ctx context.Context, id string, in Input) (*domain.Customer, error) {
	c, err := s.prepare(in)
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, id, c)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.CustomerUpdated, *updated)
	return updated, nil
}

// Delete removes the customer and returns what was removed.
func (s *Service) Delete(ctx context.Context, id string) (*domain.Customer, error) {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.CustomerDeleted, *removed)
	return removed, nil
}

func (s *Service) prepare(in Input) (domain.Customer, error) {
	in = in.normalized()
	if err := s.validate.Struct(in); err != nil {
		return domain.Customer{}, toValidationError(err)
	}
	return domain.Customer{
		Name:        in.Name,
		Surname:     in.Surname,
		Email:       in.Email,
		Initials:    in.Initials,
		Mobile:      in.Mobile,
		LastUpdated: s.now(),
	}, nil
}

// publish never fails the request; the store is the source of truth.
func (s *Service) publish(ctx context.Context, t events.Type, c domain.Customer) {
	if err := s.events.Publish(ctx, events.New(t, c)); err != nil {
		s.logger.Warn().Err(err).Str("event", string(t)).Str("customer_id", c.ID).Msg("publish customer event failed")
	}
}
