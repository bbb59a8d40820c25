package domain

// Product описывает товар каталога.
type Product struct {
	ID   string
	Name string
	// PriceMinor — цена в минимальных денежных единицах (например, центы).
	PriceMinor int64
}

// NewProduct создаёт товар и проверяет его инварианты.
func NewProduct(id, name string, priceMinor int64) (Product, error) {
	p := Product{ID: id, Name: name, PriceMinor: priceMinor}
	if err := joinErrors(p.Validate()); err != nil {
		return Product{}, err
	}
	return p, nil
}

// Validate возвращает список нарушенных инвариантов товара.
func (p *Product) Validate() []error {
	var errs []error

	if p.ID == "" {
		errs = append(errs, ErrProductIDRequired)
	}
	if p.Name == "" {
		errs = append(errs, ErrProductNameRequired)
	}
	if p.PriceMinor < 0 {
		errs = append(errs, ErrProductPriceInvalid)
	}

	return errs
}

func (p *Product) ChangeName(name string) error {
	if name == "" {
		return ErrProductNameRequired
	}
	p.Name = name
	return nil
}

func (p *Product) ChangePrice(priceMinor int64) error {
	if priceMinor < 0 {
		return ErrProductPriceInvalid
	}
	p.PriceMinor = priceMinor
	return nil
}
