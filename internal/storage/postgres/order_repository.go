package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/vladislavdragonenkov/orderstore/internal/domain"
)

const (
	opTimeout = 5 * time.Second

	// PostgreSQL принимает не больше 65535 параметров на запрос, у позиции их 7.
	maxItemsPerInsert = 1000
)

const (
	insertOrderSQL = `
		INSERT INTO orders (id, customer_id, total)
		VALUES (:id, :customer_id, :total)`
	// sqlx разворачивает VALUES под срез строк; срез режется на пачки по maxItemsPerInsert.
	insertOrderItemsSQL = `
		INSERT INTO order_items (id, name, price, product_id, quantity, order_id, position)
		VALUES (:id, :name, :price, :product_id, :quantity, :order_id, :position)`
	selectOrderItemColumns = `id, name, price, product_id, quantity, order_id, position`
)

type orderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.X()}
}

// Create вставляет строку заказа и строки позиций одной транзакцией.
func (r *orderRepository) Create(ctx context.Context, order domain.Order) (err error) {
	if err = order.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	row, items := orderToRows(order)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.NamedExecContext(ctx, insertOrderSQL, row); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %w", domain.ErrAlreadyExists, err)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	if err = insertOrderItems(ctx, tx, items); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create order: %w", err)
	}
	return nil
}

// Update обновляет customer_id и total по ID и полностью заменяет позиции.
func (r *orderRepository) Update(ctx context.Context, order domain.Order) (err error) {
	if err = order.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	row, items := orderToRows(order)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.NamedExecContext(ctx, `
		UPDATE orders
		SET customer_id = :customer_id,
		    total = :total
		WHERE id = :id
	`, row)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		err = domain.ErrOrderNotFound
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, order.ID); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	if err = insertOrderItems(ctx, tx, items); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update order: %w", err)
	}
	return nil
}

// Find загружает заказ с позициями. Пустая выборка превращается в ErrOrderNotFound.
func (r *orderRepository) Find(ctx context.Context, id string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var row orderRow
	if err := r.db.GetContext(ctx, &row, `
		SELECT id, customer_id, total
		FROM orders
		WHERE id = $1
	`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}

	var items []orderItemRow
	if err := r.db.SelectContext(ctx, &items, `
		SELECT `+selectOrderItemColumns+`
		FROM order_items
		WHERE order_id = $1
		ORDER BY position ASC, id ASC
	`, id); err != nil {
		return domain.Order{}, fmt.Errorf("load order items: %w", err)
	}

	return orderFromRows(row, items), nil
}

// FindAll загружает все заказы двумя запросами и раскладывает позиции по заказам.
func (r *orderRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var rows []orderRow
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT id, customer_id, total
		FROM orders
		ORDER BY id ASC
	`); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	var items []orderItemRow
	if err := r.db.SelectContext(ctx, &items, `
		SELECT `+selectOrderItemColumns+`
		FROM order_items
		ORDER BY order_id ASC, position ASC, id ASC
	`); err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}

	byOrder := make(map[string][]orderItemRow, len(rows))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}

	orders := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, orderFromRows(row, byOrder[row.ID]))
	}
	return orders, nil
}

func insertOrderItems(ctx context.Context, tx *sqlx.Tx, items []orderItemRow) error {
	for _, chunk := range chunkOrderItems(items, maxItemsPerInsert) {
		if _, err := tx.NamedExecContext(ctx, insertOrderItemsSQL, chunk); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %w", domain.ErrAlreadyExists, err)
			}
			return fmt.Errorf("insert order items: %w", err)
		}
	}
	return nil
}

// chunkOrderItems делит позиции на пачки не больше size; пустой срез даёт nil.
func chunkOrderItems(items []orderItemRow, size int) [][]orderItemRow {
	if len(items) == 0 || size <= 0 {
		return nil
	}
	chunks := make([][]orderItemRow, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

var _ domain.OrderRepository = (*orderRepository)(nil)
