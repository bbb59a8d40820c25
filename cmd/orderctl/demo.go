package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/vladislavdragonenkov/orderstore/internal/app"
	"github.com/vladislavdragonenkov/orderstore/internal/domain"
)

func demoCommand() *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "run a sample scenario against in-memory storage",
		Action: func(c *cli.Context) error {
			inMemory := func(cfg *app.Config) { cfg.StorageDriver = app.StorageDriverMemory }
			return withDependencies(c, inMemory, func(ctx context.Context, deps *app.Dependencies) error {
				order, err := runDemo(ctx, deps)
				if err != nil {
					return err
				}
				printOrder(c.App.Writer, order)
				return nil
			})
		},
	}
}

// runDemo создаёт активного клиента, два товара и заказ, затем читает заказ обратно.
func runDemo(ctx context.Context, deps *app.Dependencies) (domain.Order, error) {
	customer, err := domain.NewCustomer("123", "Carlos Henrique")
	if err != nil {
		return domain.Order{}, err
	}
	address, err := domain.NewAddress("Rua Dep. Fernando Ferrari", 245, "19013730", "Presidente Prudente")
	if err != nil {
		return domain.Order{}, err
	}
	customer.ChangeAddress(address)
	if err := customer.Activate(); err != nil {
		return domain.Order{}, err
	}
	if err := deps.Customers.Create(ctx, customer); err != nil {
		return domain.Order{}, fmt.Errorf("create customer: %w", err)
	}

	products := []domain.Product{
		{ID: "p1", Name: "Item 1", PriceMinor: 1000},
		{ID: "p2", Name: "Item 2", PriceMinor: 2000},
	}
	for _, product := range products {
		if err := deps.Products.Create(ctx, product); err != nil {
			return domain.Order{}, fmt.Errorf("create product: %w", err)
		}
	}

	order, err := buildOrder(ctx, deps, "1", customer.ID, []itemSpec{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p2", Quantity: 2},
	})
	if err != nil {
		return domain.Order{}, err
	}
	if err := deps.Orders.Create(ctx, order); err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}

	return deps.Orders.Find(ctx, order.ID)
}
