package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/truthlens/newsroom/config"
	"github.com/truthlens/newsroom/content"
	"github.com/truthlens/newsroom/hub"
	"github.com/truthlens/newsroom/kvstore"
	"github.com/truthlens/newsroom/settings"
)

// newRootCmd builds the cli; loadConfig runs before every subcommand
func newRootCmd(loadConfig func() error) *cobra.Command {
	root := &cobra.Command{
		Use:   "newsroom",
		Short: "TruthLens newsroom backend",
		Long: `newsroom serves the TruthLens public site api, the admin console api and the
generic document store, backed by memory, a json file, redis, sqlite or postgres.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig()
		},
	}
	root.AddCommand(newServeCmd(), newRestoreCmd(), newDumpCmd())
	return root
}

type app struct {
	store    kvstore.Store
	hub      *hub.Hub
	settings *settings.Service
	content  *content.Service
}

func openApp(ctx context.Context) (*app, error) {
	store, err := kvstore.Open(ctx, config.Cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", config.Cfg.Store.Backend, err)
	}
	h := hub.New()
	st := settings.New(store, h)
	ct := content.New(store, st, content.Options{
		JwtSecret: config.Cfg.Jwt.Secret,
		TokenTTL:  time.Duration(config.Cfg.Jwt.ExpireHours) * time.Hour,
		Events:    h,
	})
	return &app{store: store, hub: h, settings: st, content: ct}, nil
}

func (a *app) Close() error {
	a.hub.Close()
	return a.store.Close()
}
