package domain

// Customer — клиент магазина. Адрес встроен как value object.
type Customer struct {
	ID      string
	Name    string
	Address Address
	Active  bool
}

// NewCustomer создаёт неактивного клиента без адреса.
func NewCustomer(id, name string) (Customer, error) {
	c := Customer{ID: id, Name: name}
	if err := joinErrors(c.Validate()); err != nil {
		return Customer{}, err
	}
	return c, nil
}

// Validate проверяет инварианты клиента: id и имя не пустые.
func (c *Customer) Validate() []error {
	var errs []error

	if c.ID == "" {
		errs = append(errs, ErrCustomerIDRequired)
	}
	if c.Name == "" {
		errs = append(errs, ErrCustomerNameRequired)
	}

	return errs
}

// ChangeName меняет имя клиента.
func (c *Customer) ChangeName(name string) error {
	if name == "" {
		return ErrCustomerNameRequired
	}
	c.Name = name
	return nil
}

// ChangeAddress заменяет адрес целиком.
func (c *Customer) ChangeAddress(addr Address) {
	c.Address = addr
}

// Activate включает клиента. Без адреса активация запрещена.
func (c *Customer) Activate() error {
	if c.Address.IsZero() {
		return ErrAddressRequired
	}
	c.Active = true
	return nil
}

func (c *Customer) Deactivate() {
	c.Active = false
}

func (c *Customer) IsActive() bool {
	return c.Active
}
