package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/funvibe/interop/internal/config"
	"github.com/funvibe/interop/internal/convert"
	"github.com/funvibe/interop/internal/profile"
	"github.com/funvibe/interop/internal/script"
	"github.com/funvibe/interop/internal/value"
)

type runFlags struct {
	target    string
	limit     int
	profileDB string
	format    string
}

// Result is the outcome of one input.
type Result struct {
	Input  string `json:"input"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Report is what `coerce run` prints.
type Report struct {
	RunID   string             `json:"run_id"`
	Results []Result           `json:"results"`
	Site    convert.CacheState `json:"site"`
}

func newRunCmd(g *globalFlags) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Feed a fixture's inputs through one call site",
		Long: "Reads a YAML fixture of boundary values, coerces each one at a single\n" +
			"call site and prints the results followed by the site's cache state.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, g, f, args[0])
		},
	}
	cmd.Flags().StringVarP(&f.target, "target", "t", "", "Coercion target ("+strings.Join(config.Targets, "|")+"), overrides the fixture")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "Cache limit, overrides the config")
	cmd.Flags().StringVar(&f.profileDB, "profile-db", "", "SQLite file to record the site snapshot in")
	cmd.Flags().StringVarP(&f.format, "format", "f", "text", "Output format (text|json)")
	return cmd
}

func runRun(cmd *cobra.Command, g *globalFlags, f *runFlags, path string) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	s, err := script.Load(path)
	if err != nil {
		return err
	}
	if f.target != "" {
		if !config.IsTarget(f.target) {
			return fmt.Errorf("unknown target %q", f.target)
		}
		s.Target = f.target
	}
	vals, err := s.Values()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	limit := cfg.LimitFor(s.Target)
	if cmd.Flags().Changed("limit") {
		if err := config.CheckLimit(f.limit); err != nil {
			return fmt.Errorf("--limit: %w", err)
		}
		limit = f.limit
	}
	opts := []convert.Option{
		convert.WithSiteID(s.Site),
		convert.WithLimit(limit),
		convert.WithLogger(g.logger(cfg, cmd.ErrOrStderr())),
	}

	report := Report{RunID: profile.NewRunID()}
	switch s.Target {
	case config.TargetI1:
		report.Results, report.Site = drive(convert.I1, vals, opts)
	case config.TargetI8:
		report.Results, report.Site = drive(convert.I8, vals, opts)
	case config.TargetI16:
		report.Results, report.Site = drive(convert.I16, vals, opts)
	case config.TargetI32:
		report.Results, report.Site = drive(convert.I32, vals, opts)
	case config.TargetI64:
		report.Results, report.Site = drive(convert.I64, vals, opts)
	case config.TargetFloat:
		report.Results, report.Site = drive(convert.Float, vals, opts)
	case config.TargetDouble:
		report.Results, report.Site = drive(convert.Double, vals, opts)
	}

	dbPath := f.profileDB
	if dbPath == "" {
		dbPath = cfg.ProfileDB
	}
	if dbPath != "" {
		if err := record(cmd.Context(), dbPath, report); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if f.format == "json" {
		return writeJSON(out, report)
	}
	writeText(out, report, isTerminal(out))
	return nil
}

// drive feeds every value through one fresh call site.
func drive[T any](table *convert.Table[T], vals []value.Value, opts []convert.Option) ([]Result, convert.CacheState) {
	node := convert.NewNode(table, opts...)
	results := make([]Result, len(vals))
	for i, v := range vals {
		results[i].Input = v.Inspect()
		res, err := node.Execute(v)
		if err != nil {
			results[i].Error = err.Error()
			continue
		}
		results[i].Output = fmt.Sprint(res)
	}
	return results, node.Snapshot()
}

func record(ctx context.Context, path string, report Report) error {
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := profile.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(ctx, report.RunID, report.Site)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

const (
	colorRed   = "\x1b[31m"
	colorGreen = "\x1b[32m"
	colorReset = "\x1b[0m"
)

func writeText(w io.Writer, r Report, color bool) {
	paint := func(c, s string) string {
		if !color {
			return s
		}
		return c + s + colorReset
	}
	for _, res := range r.Results {
		if res.Error != "" {
			fmt.Fprintf(w, "%-24s %s\n", res.Input, paint(colorRed, "error: "+res.Error))
			continue
		}
		fmt.Fprintf(w, "%-24s %s\n", res.Input, paint(colorGreen, res.Output))
	}
	st := r.Site
	fmt.Fprintf(w, "\nsite %s (%s): %s, %d/%d entries [%s]\n",
		st.Site, st.Target, st.State, len(st.Kinds), st.Limit, strings.Join(st.Kinds, ", "))
	fmt.Fprintf(w, "megamorphic=%t hits=%d specializations=%d fallbacks=%d failures=%d\n",
		st.Megamorphic, st.Hits, st.Specializations, st.Fallbacks, st.Failures)
}
