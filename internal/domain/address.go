package domain

import "fmt"

// Address — value object адреса клиента; собственной идентичности не имеет.
type Address struct {
	Street string
	Number int
	Zip    string
	City   string
}

// NewAddress создаёт адрес и проверяет, что все поля заполнены.
func NewAddress(street string, number int, zip, city string) (Address, error) {
	addr := Address{Street: street, Number: number, Zip: zip, City: city}
	if err := joinErrors(addr.Validate()); err != nil {
		return Address{}, err
	}
	return addr, nil
}

// Validate возвращает список нарушенных инвариантов адреса.
func (a Address) Validate() []error {
	var errs []error

	if a.Street == "" {
		errs = append(errs, ErrStreetRequired)
	}
	if a.Number <= 0 {
		errs = append(errs, ErrNumberInvalid)
	}
	if a.Zip == "" {
		errs = append(errs, ErrZipRequired)
	}
	if a.City == "" {
		errs = append(errs, ErrCityRequired)
	}

	return errs
}

// IsZero сообщает, что адрес не задан.
func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) String() string {
	return fmt.Sprintf("%s, %d, %s %s", a.Street, a.Number, a.Zip, a.City)
}
