package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/vladislavdragonenkov/orderstore/internal/domain"
)

// formatMinor выводит сумму в минорных единицах как "12.34".
func formatMinor(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%d.%02d", sign, amount/100, amount%100)
}

func printCustomer(w io.Writer, c domain.Customer) {
	address := "-"
	if !c.Address.IsZero() {
		address = c.Address.String()
	}
	_, _ = fmt.Fprintf(w, "customer %s\tname=%q\taddress=%q\tactive=%t\n", c.ID, c.Name, address, c.Active)
}

func printProduct(w io.Writer, p domain.Product) {
	_, _ = fmt.Fprintf(w, "product %s\tname=%q\tprice=%s\n", p.ID, p.Name, formatMinor(p.PriceMinor))
}

func printOrder(w io.Writer, o domain.Order) {
	_, _ = fmt.Fprintf(w, "order %s\tcustomer=%s\titems=%d\ttotal=%s\n", o.ID, o.CustomerID, len(o.Items), formatMinor(o.Total()))
	for _, item := range o.Items {
		_, _ = fmt.Fprintf(w, "  item %s\tproduct=%s\tname=%q\tqty=%d\tprice=%s\tsubtotal=%s\n",
			item.ID, item.ProductID, item.Name, item.Quantity, formatMinor(item.PriceMinor), formatMinor(item.Subtotal()))
	}
}

// requireArgs проверяет количество позиционных аргументов команды.
func requireArgs(args []string, names ...string) error {
	if len(args) != len(names) {
		return fmt.Errorf("expected arguments: %s", strings.Join(names, " "))
	}
	return nil
}
