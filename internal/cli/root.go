// Package cli implements the coerce command tree.
package cli

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/funvibe/interop/internal/config"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=...".
var Version = "dev"

type globalFlags struct {
	configPath string
	logLevel   string
}

// NewRootCommand builds the coerce command tree.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "coerce",
		Short: "Drive boundary-value coercions through call-site caches",
		Long: "Feeds recorded boundary values through a coercion call site and reports\n" +
			"each result, the rules the site learned and whether it went megamorphic.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "Path to coerce.yaml (optional)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (debug|info|warn|error|disabled)")

	root.AddCommand(newRunCmd(g), newProfileCmd(g), newVersionCmd())
	return root
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func (g *globalFlags) load() (*config.Config, error) {
	if g.configPath == "" {
		return config.Default(), nil
	}
	return config.LoadConfig(g.configPath)
}

// logger writes human-readable logs to stderr; the flag wins over the config.
func (g *globalFlags) logger(cfg *config.Config, w io.Writer) zerolog.Logger {
	lvl := cfg.Level()
	if g.logLevel != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(g.logLevel)); err == nil {
			lvl = parsed
		}
	}
	out := zerolog.ConsoleWriter{Out: w, NoColor: !isTerminal(w)}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
