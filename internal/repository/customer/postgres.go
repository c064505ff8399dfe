package customer

import (
	"context"
	"errors"
	"fmt"

	"customer-manager/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const customerColumns = `id::text, name, surname, email, initials, mobile, lastupdated`

// sortColumns whitelists ORDER BY targets; values are spliced into SQL.
var sortColumns = map[domain.SortField]string{
	domain.SortByID:          "id",
	domain.SortByName:        "name",
	domain.SortBySurname:     "surname",
	domain.SortByEmail:       "email",
	domain.SortByInitials:    "initials",
	domain.SortByMobile:      "mobile",
	domain.SortByLastUpdated: "lastupdated",
}

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger zerolog.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger.With().Str("repo", "customer_postgres").Logger()}
}

func (r *postgresRepo) Create(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	const q = `
INSERT INTO customers (name, surname, email, initials, mobile, lastupdated)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + customerColumns
	return r.scanCustomer(r.pool.QueryRow(ctx, q, c.Name, c.Surname, c.Email, c.Initials, c.Mobile, c.LastUpdated))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrInvalidID
	}
	const q = `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return r.scanCustomer(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) Update(ctx context.Context, id string, c domain.Customer) (*domain.Customer, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrInvalidID
	}
	const q = `
UPDATE customers
SET name = $2, surname = $3, email = $4, initials = $5, mobile = $6, lastupdated = $7
WHERE id = $1
RETURNING ` + customerColumns
	return r.scanCustomer(r.pool.QueryRow(ctx, q, id, c.Name, c.Surname, c.Email, c.Initials, c.Mobile, c.LastUpdated))
}

func (r *postgresRepo) Delete(ctx context.Context, id string) (*domain.Customer, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrInvalidID
	}
	const q = `DELETE FROM customers WHERE id = $1 RETURNING ` + customerColumns
	return r.scanCustomer(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) List(ctx context.Context, lq domain.ListQuery) (*domain.Page, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM customers`).Scan(&total); err != nil {
		return nil, r.mapError(err)
	}

	column, ok := sortColumns[lq.SortField]
	if !ok {
		column = sortColumns[domain.SortByLastUpdated]
	}
	dir := "DESC"
	if lq.SortDirection == domain.Ascending {
		dir = "ASC"
	}
	q := fmt.Sprintf(`SELECT %s FROM customers ORDER BY %s %s, id %s LIMIT $1 OFFSET $2`, customerColumns, column, dir, dir)

	rows, err := r.pool.Query(ctx, q, lq.Limit, lq.Offset)
	if err != nil {
		return nil, r.mapError(err)
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0, lq.Limit)
	for rows.Next() {
		c, err := r.scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapError(err)
	}

	page := domain.NewPage(customers, total, lq.Offset, lq.Limit)
	return &page, nil
}

func (r *postgresRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *postgresRepo) scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Surname,
		&c.Email,
		&c.Initials,
		&c.Mobile,
		&c.LastUpdated,
	)
	if err != nil {
		return nil, r.mapError(err)
	}
	c.LastUpdated = c.LastUpdated.UTC()
	return &c, nil
}

func (r *postgresRepo) mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return domain.Conflict(duplicateEmailMessage)
		case "22P02":
			return domain.ErrInvalidID
		}
	}
	r.logger.Error().Err(err).Msg("customer store error")
	return err
}
