package domain

import "errors"

var (
	// Ошибки инвариантов клиента.
	ErrCustomerIDRequired   = errors.New("customer id is required")
	ErrCustomerNameRequired = errors.New("customer name is required")
	// ErrAddressRequired возвращается при активации клиента без адреса.
	ErrAddressRequired = errors.New("address is mandatory to activate a customer")

	// Ошибки адреса.
	ErrStreetRequired = errors.New("address street is required")
	ErrNumberInvalid  = errors.New("address number must be greater than zero")
	ErrZipRequired    = errors.New("address zip is required")
	ErrCityRequired   = errors.New("address city is required")

	// Ошибки товара.
	ErrProductIDRequired   = errors.New("product id is required")
	ErrProductNameRequired = errors.New("product name is required")
	ErrProductPriceInvalid = errors.New("product price must be non-negative")

	// Ошибки заказа и его позиций.
	ErrOrderIDRequired    = errors.New("order id is required")
	ErrCustomerRequired   = errors.New("order customer_id is required")
	ErrItemsRequired      = errors.New("order must contain at least one item")
	ErrItemIDRequired     = errors.New("item id is required")
	ErrItemProductInvalid = errors.New("item product_id is required")
	ErrItemQtyInvalid     = errors.New("item quantity must be greater than zero")
	ErrItemPriceInvalid   = errors.New("item price must be non-negative")

	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrCustomerNotFound возвращается, если клиент не найден в репозитории.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrProductNotFound возвращается, если товар не найден в репозитории.
	ErrProductNotFound = errors.New("product not found")
	// ErrAlreadyExists сигнализирует о повторной вставке записи с тем же ID.
	ErrAlreadyExists = errors.New("entity already exists")
)

// IsNotFound проверяет, относится ли ошибка к отсутствию сущности в хранилище.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrProductNotFound)
}

// joinErrors объединяет нарушения инвариантов в одну ошибку (nil для пустого списка).
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
