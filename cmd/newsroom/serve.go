package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/truthlens/newsroom/config"
	"github.com/truthlens/newsroom/content"
	"github.com/truthlens/newsroom/dlog"
	"github.com/truthlens/newsroom/httpserve"
	"github.com/truthlens/newsroom/permission"
)

func newServeCmd() *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the http server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := permission.LoadPermissionTable(ctx, a.store); err != nil {
				dlog.Warn().Err(err).Msg("Step2.3: using the default permission table")
			}
			go permission.KeepLoading(ctx, a.store, time.Minute)

			adm := config.Cfg.Admin
			if err := a.content.EnsureAdmin(ctx, adm.Name, adm.Email, adm.Password); err != nil {
				return err
			}
			if seed {
				existing, err := a.content.Articles(ctx, content.ArticleFilter{Limit: 1})
				if err != nil {
					return err
				}
				if len(existing) == 0 {
					if err := runRestore(ctx, a, ""); err != nil {
						return err
					}
				}
			}
			srv := httpserve.New(config.Cfg.Http, a.store, a.settings, a.content, a.hub)
			return srv.ListenAndServe(ctx)
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "restore the bundled seed data when the store holds no articles")
	return cmd
}

