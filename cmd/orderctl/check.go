package main

import (
	"context"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/vladislavdragonenkov/orderstore/internal/app"
	"github.com/vladislavdragonenkov/orderstore/internal/health"
)

const checkTimeout = 10 * time.Second

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "check storage, schema and Kafka and print a JSON report",
		Action: func(c *cli.Context) error {
			return withDependencies(c, nil, func(ctx context.Context, deps *app.Dependencies) error {
				ctx, cancel := context.WithTimeout(ctx, checkTimeout)
				defer cancel()

				report := deps.Health.Run(ctx)
				if err := report.WriteJSON(c.App.Writer); err != nil {
					return err
				}
				return checkResult(report)
			})
		},
	}
}

// checkResult превращает отчёт в код выхода: 2 и список упавших проверок, если система нерабочая.
func checkResult(report health.Report) error {
	if report.Healthy() {
		return nil
	}
	return cli.Exit("orderctl: unhealthy: "+strings.Join(report.Failing(), ", "), 2)
}
