package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/funvibe/interop/internal/profile"
)

func newProfileCmd(g *globalFlags) *cobra.Command {
	var (
		dbPath string
		site   string
		format string
	)
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "List recorded call-site snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				cfg, err := g.load()
				if err != nil {
					return err
				}
				dbPath = cfg.ProfileDB
			}
			if dbPath == "" {
				return fmt.Errorf("no profile database: pass --profile-db or set profile_db in the config")
			}

			store, err := profile.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			rows, err := store.List(cmd.Context(), site)
			if err != nil {
				return err
			}
			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), rows)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tSITE\tTARGET\tSTATE\tKINDS\tMEGAMORPHIC\tFALLBACKS\tFAILURES")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%t\t%d\t%d\n",
					shortID(r.RunID), r.Site, r.Target, r.State, strings.Join(r.Kinds, ","),
					r.Megamorphic, r.Fallbacks, r.Failures)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&dbPath, "profile-db", "", "SQLite profile file")
	cmd.Flags().StringVar(&site, "site", "", "Only show this call site")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text|json)")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
