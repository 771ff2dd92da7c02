package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/docket/internal/api"
	"github.com/JaimeStill/docket/internal/config"
	"github.com/JaimeStill/docket/internal/infrastructure"
)

// app is the short-lived runtime behind a CLI command. It shares the
// service's configuration and domain wiring but never starts a lifecycle.
type app struct {
	infra  *infrastructure.Infrastructure
	domain *api.Domain
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	if err := infra.Database.Ping(ctx); err != nil {
		infra.Database.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}

	runtime := api.NewRuntime(cfg, infra)

	return &app{
		infra:  infra,
		domain: api.NewDomain(runtime),
	}, nil
}

func (a *app) Close() error {
	return a.infra.Database.Close()
}

// withApp opens the runtime for the duration of fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
