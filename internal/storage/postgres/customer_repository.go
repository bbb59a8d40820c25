package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vladislavdragonenkov/orderstore/internal/domain"
)

type customerRepository struct {
	db *sqlx.DB
}

// NewCustomerRepository создаёт PostgreSQL-реализацию CustomerRepository.
func NewCustomerRepository(store *Store) domain.CustomerRepository {
	return &customerRepository{db: store.X()}
}

func (r *customerRepository) Create(ctx context.Context, customer domain.Customer) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.db.NamedExecContext(ctx, `
		INSERT INTO customers (id, name, street, number, zip, city, active)
		VALUES (:id, :name, :street, :number, :zip, :city, :active)
	`, customerToRow(customer)); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %w", domain.ErrAlreadyExists, err)
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *customerRepository) Update(ctx context.Context, customer domain.Customer) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.db.NamedExecContext(ctx, `
		UPDATE customers
		SET name = :name,
		    street = :street,
		    number = :number,
		    zip = :zip,
		    city = :city,
		    active = :active
		WHERE id = :id
	`, customerToRow(customer))
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

func (r *customerRepository) Find(ctx context.Context, id string) (domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var row customerRow
	if err := r.db.GetContext(ctx, &row, `
		SELECT id, name, street, number, zip, city, active
		FROM customers
		WHERE id = $1
	`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, domain.ErrCustomerNotFound
		}
		return domain.Customer{}, fmt.Errorf("select customer: %w", err)
	}
	return row.toDomain(), nil
}

func (r *customerRepository) FindAll(ctx context.Context) ([]domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var rows []customerRow
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT id, name, street, number, zip, city, active
		FROM customers
		ORDER BY id ASC
	`); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	customers := make([]domain.Customer, 0, len(rows))
	for _, row := range rows {
		customers = append(customers, row.toDomain())
	}
	return customers, nil
}

var _ domain.CustomerRepository = (*customerRepository)(nil)
