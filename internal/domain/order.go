package domain

// OrderItem представляет одну позицию заказа.
type OrderItem struct {
	ID   string
	Name string
	// PriceMinor — цена за единицу в минимальных денежных единицах.
	PriceMinor int64
	// ProductID — ссылка на товар каталога.
	ProductID string
	Quantity  int32
}

// NewOrderItem создаёт позицию заказа и проверяет её инварианты.
func NewOrderItem(id, name string, priceMinor int64, productID string, quantity int32) (OrderItem, error) {
	item := OrderItem{
		ID:         id,
		Name:       name,
		PriceMinor: priceMinor,
		ProductID:  productID,
		Quantity:   quantity,
	}
	if err := joinErrors(item.Validate()); err != nil {
		return OrderItem{}, err
	}
	return item, nil
}

// Validate возвращает список нарушенных инвариантов позиции.
func (i OrderItem) Validate() []error {
	var errs []error

	if i.ID == "" {
		errs = append(errs, ErrItemIDRequired)
	}
	if i.ProductID == "" {
		errs = append(errs, ErrItemProductInvalid)
	}
	if i.Quantity <= 0 {
		errs = append(errs, ErrItemQtyInvalid)
	}
	if i.PriceMinor < 0 {
		errs = append(errs, ErrItemPriceInvalid)
	}

	return errs
}

// Subtotal — стоимость позиции: qty * price.
func (i OrderItem) Subtotal() int64 {
	return int64(i.Quantity) * i.PriceMinor
}

// Order агрегирует заказ и его позиции. Позиции принадлежат заказу целиком.
type Order struct {
	ID         string
	CustomerID string
	Items      []OrderItem
}

// NewOrder создаёт заказ. Срез позиций копируется, чтобы вызывающий код не мог
// изменить агрегат в обход методов.
func NewOrder(id, customerID string, items []OrderItem) (Order, error) {
	o := Order{
		ID:         id,
		CustomerID: customerID,
		Items:      append([]OrderItem(nil), items...),
	}
	if err := o.Validate(); err != nil {
		return Order{}, err
	}
	return o, nil
}

// ValidateInvariants проверяет инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.ID == "" {
		errs = append(errs, ErrOrderIDRequired)
	}
	if o.CustomerID == "" {
		errs = append(errs, ErrCustomerRequired)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}
	for _, item := range o.Items {
		errs = append(errs, item.Validate()...)
	}

	return errs
}

// Validate объединяет нарушения инвариантов в одну ошибку; nil для корректного заказа.
// Репозитории вызывают его перед каждой записью.
func (o *Order) Validate() error {
	return joinErrors(o.ValidateInvariants())
}

// Total возвращает сумму заказа: сумма subtotal по всем позициям.
func (o *Order) Total() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	return total
}

// ChangeCustomer переназначает заказ другому клиенту.
func (o *Order) ChangeCustomer(customerID string) error {
	if customerID == "" {
		return ErrCustomerRequired
	}
	o.CustomerID = customerID
	return nil
}

// AddItem добавляет позицию в конец заказа.
func (o *Order) AddItem(item OrderItem) error {
	if err := joinErrors(item.Validate()); err != nil {
		return err
	}
	o.Items = append(o.Items, item)
	return nil
}

// Clone возвращает копию заказа с собственным срезом позиций.
func (o Order) Clone() Order {
	o.Items = append([]OrderItem(nil), o.Items...)
	return o
}
