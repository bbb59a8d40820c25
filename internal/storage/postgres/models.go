package postgres

import "github.com/vladislavdragonenkov/orderstore/internal/domain"

// Строки таблиц в том виде, в каком их читает и пишет sqlx.
// Имена колонок задаются тегами db и совпадают со схемой из sql/migrations.

type customerRow struct {
	ID     string `db:"id"`
	Name   string `db:"name"`
	Street string `db:"street"`
	Number int    `db:"number"`
	Zip    string `db:"zip"`
	City   string `db:"city"`
	Active bool   `db:"active"`
}

type productRow struct {
	ID    string `db:"id"`
	Name  string `db:"name"`
	Price int64  `db:"price"`
}

type orderRow struct {
	ID         string `db:"id"`
	CustomerID string `db:"customer_id"`
	// Total хранится денормализованно, чтобы отчёты не пересчитывали позиции.
	Total int64 `db:"total"`
}

type orderItemRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Price     int64  `db:"price"`
	ProductID string `db:"product_id"`
	Quantity  int32  `db:"quantity"`
	OrderID   string `db:"order_id"`
	Position  int    `db:"position"`
}

func customerToRow(c domain.Customer) customerRow {
	return customerRow{
		ID:     c.ID,
		Name:   c.Name,
		Street: c.Address.Street,
		Number: c.Address.Number,
		Zip:    c.Address.Zip,
		City:   c.Address.City,
		Active: c.Active,
	}
}

func (r customerRow) toDomain() domain.Customer {
	return domain.Customer{
		ID:   r.ID,
		Name: r.Name,
		Address: domain.Address{
			Street: r.Street,
			Number: r.Number,
			Zip:    r.Zip,
			City:   r.City,
		},
		Active: r.Active,
	}
}

func productToRow(p domain.Product) productRow {
	return productRow{ID: p.ID, Name: p.Name, Price: p.PriceMinor}
}

func (r productRow) toDomain() domain.Product {
	return domain.Product{ID: r.ID, Name: r.Name, PriceMinor: r.Price}
}

// orderToRows раскладывает агрегат на строку заказа и строки позиций.
func orderToRows(o domain.Order) (orderRow, []orderItemRow) {
	items := make([]orderItemRow, 0, len(o.Items))
	for i, item := range o.Items {
		items = append(items, orderItemRow{
			ID:        item.ID,
			Name:      item.Name,
			Price:     item.PriceMinor,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			OrderID:   o.ID,
			Position:  i,
		})
	}

	return orderRow{ID: o.ID, CustomerID: o.CustomerID, Total: o.Total()}, items
}

// orderFromRows собирает агрегат обратно. Позиции ожидаются уже упорядоченными.
func orderFromRows(row orderRow, items []orderItemRow) domain.Order {
	order := domain.Order{
		ID:         row.ID,
		CustomerID: row.CustomerID,
		Items:      make([]domain.OrderItem, 0, len(items)),
	}
	for _, item := range items {
		order.Items = append(order.Items, domain.OrderItem{
			ID:         item.ID,
			Name:       item.Name,
			PriceMinor: item.Price,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
		})
	}
	return order
}
