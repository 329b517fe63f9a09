package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/truthlens/newsroom/restore"
)

func newRestoreCmd() *cobra.Command {
	var seedFile string
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Load seed authors, articles, jobs and site settings into the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			return runRestore(cmd.Context(), a, seedFile)
		},
	}
	cmd.Flags().StringVar(&seedFile, "seed", "", "yaml seed file, the bundled seed when empty")
	return cmd
}

func runRestore(ctx context.Context, a *app, seedFile string) error {
	var (
		seed *restore.Seed
		err  error
	)
	if seedFile == "" {
		seed, err = restore.DefaultSeed()
	} else {
		var f *os.File
		if f, err = os.Open(seedFile); err != nil {
			return err
		}
		defer f.Close()
		seed, err = restore.LoadSeed(f)
	}
	if err != nil {
		return err
	}
	rs := &restore.Restorer{Content: a.content, Settings: a.settings}
	rep, err := rs.Run(ctx, seed)
	if err != nil {
		return fmt.Errorf("restore aborted: %w", err)
	}
	if rep.Failures > 0 {
		return fmt.Errorf("restore finished with %d failed records", rep.Failures)
	}
	return nil
}
