package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/vladislavdragonenkov/orderstore/internal/app"
	"github.com/vladislavdragonenkov/orderstore/internal/domain"
)

func orderCommand() *cli.Command {
	return &cli.Command{
		Name:  "order",
		Usage: "manage orders",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "create an order from existing products",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "order id (generated when empty)"},
					&cli.StringFlag{Name: "customer", Required: true},
					&cli.StringSliceFlag{Name: "item", Usage: "PRODUCT_ID[:QTY], repeatable", Required: true},
				},
				Action: func(c *cli.Context) error {
					specs, err := parseItemSpecs(c.StringSlice("item"))
					if err != nil {
						return err
					}
					id := c.String("id")
					if id == "" {
						id = uuid.NewString()
					}
					return withDependencies(c, nil, func(ctx context.Context, deps *app.Dependencies) error {
						order, err := buildOrder(ctx, deps, id, c.String("customer"), specs)
						if err != nil {
							return err
						}
						if err := deps.Orders.Create(ctx, order); err != nil {
							return fmt.Errorf("create order: %w", err)
						}
						printOrder(c.App.Writer, order)
						return nil
					})
				},
			},
			{
				Name:      "get",
				Usage:     "show an order with its items",
				ArgsUsage: "ORDER_ID",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c.Args().Slice(), "ORDER_ID"); err != nil {
						return err
					}
					return withDependencies(c, nil, func(ctx context.Context, deps *app.Dependencies) error {
						order, err := deps.Orders.Find(ctx, c.Args().First())
						if err != nil {
							return err
						}
						printOrder(c.App.Writer, order)
						return nil
					})
				},
			},
			{
				Name:  "list",
				Usage: "list orders",
				Action: func(c *cli.Context) error {
					return withDependencies(c, nil, func(ctx context.Context, deps *app.Dependencies) error {
						orders, err := deps.Orders.FindAll(ctx)
						if err != nil {
							return err
						}
						for _, order := range orders {
							printOrder(c.App.Writer, order)
						}
						return nil
					})
				},
			},
			{
				Name:      "change-customer",
				Usage:     "move an order to another customer",
				ArgsUsage: "ORDER_ID CUSTOMER_ID",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c.Args().Slice(), "ORDER_ID", "CUSTOMER_ID"); err != nil {
						return err
					}
					return withDependencies(c, nil, func(ctx context.Context, deps *app.Dependencies) error {
						order, err := changeOrderCustomer(ctx, deps, c.Args().Get(0), c.Args().Get(1))
						if err != nil {
							return err
						}
						printOrder(c.App.Writer, order)
						return nil
					})
				},
			},
		},
	}
}

type itemSpec struct {
	ProductID string
	Quantity  int32
}

// parseItemSpecs разбирает значения флага --item вида PRODUCT_ID[:QTY].
func parseItemSpecs(values []string) ([]itemSpec, error) {
	specs := make([]itemSpec, 0, len(values))
	for _, value := range values {
		productID, rawQty, hasQty := strings.Cut(strings.TrimSpace(value), ":")
		if productID == "" {
			return nil, fmt.Errorf("invalid item %q: product id is empty", value)
		}

		qty := int64(1)
		if hasQty {
			parsed, err := strconv.ParseInt(rawQty, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid item %q: %w", value, err)
			}
			qty = parsed
		}
		if qty <= 0 {
			return nil, fmt.Errorf("invalid item %q: %w", value, domain.ErrItemQtyInvalid)
		}

		specs = append(specs, itemSpec{ProductID: productID, Quantity: int32(qty)})
	}
	return specs, nil
}

// buildOrder проверяет клиента и подставляет в позиции имя и цену товара.
func buildOrder(ctx context.Context, deps *app.Dependencies, id, customerID string, specs []itemSpec) (domain.Order, error) {
	if _, err := deps.Customers.Find(ctx, customerID); err != nil {
		return domain.Order{}, err
	}

	items := make([]domain.OrderItem, 0, len(specs))
	for _, spec := range specs {
		product, err := deps.Products.Find(ctx, spec.ProductID)
		if err != nil {
			return domain.Order{}, err
		}
		item, err := domain.NewOrderItem(uuid.NewString(), product.Name, product.PriceMinor, product.ID, spec.Quantity)
		if err != nil {
			return domain.Order{}, err
		}
		items = append(items, item)
	}

	return domain.NewOrder(id, customerID, items)
}

func changeOrderCustomer(ctx context.Context, deps *app.Dependencies, orderID, customerID string) (domain.Order, error) {
	if _, err := deps.Customers.Find(ctx, customerID); err != nil {
		return domain.Order{}, err
	}

	order, err := deps.Orders.Find(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if err := order.ChangeCustomer(customerID); err != nil {
		return domain.Order{}, err
	}
	if err := deps.Orders.Update(ctx, order); err != nil {
		return domain.Order{}, fmt.Errorf("update order: %w", err)
	}
	return order, nil
}
