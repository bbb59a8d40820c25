package domain

import "context"

// Repository — общий контракт хранилища агрегата.
type Repository[T any] interface {
	// Create сохраняет новую сущность. Повторный ID приводит к ErrAlreadyExists.
	Create(ctx context.Context, entity T) error
	// Update перезаписывает скалярные поля сущности по ID.
	Update(ctx context.Context, entity T) error
	// Find возвращает сущность по ID или ошибку "not found" соответствующего типа.
	Find(ctx context.Context, id string) (T, error)
	// FindAll возвращает все сущности; пустая таблица даёт пустой срез.
	FindAll(ctx context.Context) ([]T, error)
}

// CustomerRepository описывает требования к хранилищу клиентов.
type CustomerRepository interface {
	Repository[Customer]
}

// ProductRepository описывает требования к хранилищу товаров.
type ProductRepository interface {
	Repository[Product]
}

// OrderRepository описывает требования к хранилищу заказов.
// Заказ сохраняется вместе с позициями как одно целое.
type OrderRepository interface {
	Repository[Order]
}
