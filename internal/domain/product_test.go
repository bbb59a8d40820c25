package domain

import (
	"errors"
	"testing"
)

func TestNewProduct(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		pname    string
		price    int64
		errCount int
	}{
		{name: "valid", id: "123", pname: "Produto 1", price: 1000},
		{name: "zero price is valid", id: "123", pname: "Produto 1", price: 0},
		{name: "negative price", id: "123", pname: "Produto 1", price: -1, errCount: 1},
		{name: "all fields broken", price: -1, errCount: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{ID: tt.id, Name: tt.pname, PriceMinor: tt.price}
			if errs := p.Validate(); len(errs) != tt.errCount {
				t.Fatalf("expected %d errors, got %d: %v", tt.errCount, len(errs), errs)
			}

			_, err := NewProduct(tt.id, tt.pname, tt.price)
			if (err != nil) != (tt.errCount > 0) {
				t.Fatalf("NewProduct error mismatch: %v", err)
			}
		})
	}
}

func TestProductChange(t *testing.T) {
	p, err := NewProduct("123", "Produto 1", 1000)
	if err != nil {
		t.Fatalf("new product: %v", err)
	}

	if err := p.ChangePrice(-10); !errors.Is(err, ErrProductPriceInvalid) {
		t.Fatalf("expected ErrProductPriceInvalid, got %v", err)
	}
	if err := p.ChangeName(""); !errors.Is(err, ErrProductNameRequired) {
		t.Fatalf("expected ErrProductNameRequired, got %v", err)
	}
	if err := p.ChangePrice(1500); err != nil {
		t.Fatalf("change price: %v", err)
	}
	if err := p.ChangeName("Produto 2"); err != nil {
		t.Fatalf("change name: %v", err)
	}
	if p.PriceMinor != 1500 || p.Name != "Produto 2" {
		t.Fatalf("unexpected product %+v", p)
	}
}
