package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/vladislavdragonenkov/orderstore/internal/app"
	"github.com/vladislavdragonenkov/orderstore/internal/domain"
)

func customerCommand() *cli.Command {
	return &cli.Command{
		Name:  "customer",
		Usage: "manage customers",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "create a customer",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "customer id (generated when empty)"},
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "street"},
					&cli.IntFlag{Name: "number"},
					&cli.StringFlag{Name: "zip"},
					&cli.StringFlag{Name: "city"},
					&cli.BoolFlag{Name: "activate", Usage: "activate the customer, requires an address"},
				},
				Action: func(c *cli.Context) error {
					customer, err := customerFromFlags(c)
					if err != nil {
						return err
					}
					return withDependencies(c, nil, func(ctx context.Context, deps *app.Dependencies) error {
						if err := deps.Customers.Create(ctx, customer); err != nil {
							return fmt.Errorf("create customer: %w", err)
						}
						printCustomer(c.App.Writer, customer)
						return nil
					})
				},
			},
			{
				Name:      "get",
				Usage:     "show a customer",
				ArgsUsage: "CUSTOMER_ID",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c.Args().Slice(), "CUSTOMER_ID"); err != nil {
						return err
					}
					return withDependencies(c, nil, func(ctx context.Context, deps *app.Dependencies) error {
						customer, err := deps.Customers.Find(ctx, c.Args().First())
						if err != nil {
							return err
						}
						printCustomer(c.App.Writer, customer)
						return nil
					})
				},
			},
			{
				Name:  "list",
				Usage: "list customers",
				Action: func(c *cli.Context) error {
					return withDependencies(c, nil, func(ctx context.Context, deps *app.Dependencies) error {
						customers, err := deps.Customers.FindAll(ctx)
						if err != nil {
							return err
						}
						for _, customer := range customers {
							printCustomer(c.App.Writer, customer)
						}
						return nil
					})
				},
			},
			{
				Name:      "activate",
				Usage:     "activate a customer with an address",
				ArgsUsage: "CUSTOMER_ID",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c.Args().Slice(), "CUSTOMER_ID"); err != nil {
						return err
					}
					return withDependencies(c, nil, func(ctx context.Context, deps *app.Dependencies) error {
						customer, err := deps.Customers.Find(ctx, c.Args().First())
						if err != nil {
							return err
						}
						if err := customer.Activate(); err != nil {
							return err
						}
						if err := deps.Customers.Update(ctx, customer); err != nil {
							return fmt.Errorf("update customer: %w", err)
						}
						printCustomer(c.App.Writer, customer)
						return nil
					})
				},
			},
		},
	}
}

// customerFromFlags собирает клиента; адрес задаётся, только если указана улица.
func customerFromFlags(c *cli.Context) (domain.Customer, error) {
	id := c.String("id")
	if id == "" {
		id = uuid.NewString()
	}

	customer, err := domain.NewCustomer(id, c.String("name"))
	if err != nil {
		return domain.Customer{}, err
	}

	if c.IsSet("street") {
		address, err := domain.NewAddress(c.String("street"), c.Int("number"), c.String("zip"), c.String("city"))
		if err != nil {
			return domain.Customer{}, err
		}
		customer.ChangeAddress(address)
	}

	if c.Bool("activate") {
		if err := customer.Activate(); err != nil {
			return domain.Customer{}, err
		}
	}
	return customer, nil
}
