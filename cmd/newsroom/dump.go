package main

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newDumpCmd() *cobra.Command {
	var (
		prefix string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write every stored document as one json object",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			all, err := a.store.All(cmd.Context())
			if err != nil {
				return err
			}
			for key := range all {
				if !strings.HasPrefix(key, prefix) {
					delete(all, key)
				}
			}
			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(all)
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "only documents whose key starts with prefix")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, stdout when empty")
	return cmd
}
