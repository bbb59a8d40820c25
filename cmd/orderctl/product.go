package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/vladislavdragonenkov/orderstore/internal/app"
	"github.com/vladislavdragonenkov/orderstore/internal/domain"
)

func productCommand() *cli.Command {
	return &cli.Command{
		Name:  "product",
		Usage: "manage products",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "create a product",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "product id (generated when empty)"},
					&cli.StringFlag{Name: "name", Required: true},
					&cli.Int64Flag{Name: "price", Usage: "price in minor units", Required: true},
				},
				Action: func(c *cli.Context) error {
					id := c.String("id")
					if id == "" {
						id = uuid.NewString()
					}
					product, err := domain.NewProduct(id, c.String("name"), c.Int64("price"))
					if err != nil {
						return err
					}
					return withDependencies(c, nil, func(ctx context.Context, deps *app.Dependencies) error {
						if err := deps.Products.Create(ctx, product); err != nil {
							return fmt.Errorf("create product: %w", err)
						}
						printProduct(c.App.Writer, product)
						return nil
					})
				},
			},
			{
				Name:      "get",
				Usage:     "show a product",
				ArgsUsage: "PRODUCT_ID",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c.Args().Slice(), "PRODUCT_ID"); err != nil {
						return err
					}
					return withDependencies(c, nil, func(ctx context.Context, deps *app.Dependencies) error {
						product, err := deps.Products.Find(ctx, c.Args().First())
						if err != nil {
							return err
						}
						printProduct(c.App.Writer, product)
						return nil
					})
				},
			},
			{
				Name:  "list",
				Usage: "list products",
				Action: func(c *cli.Context) error {
					return withDependencies(c, nil, func(ctx context.Context, deps *app.Dependencies) error {
						products, err := deps.Products.FindAll(ctx)
						if err != nil {
							return err
						}
						for _, product := range products {
							printProduct(c.App.Writer, product)
						}
						return nil
					})
				},
			},
		},
	}
}
