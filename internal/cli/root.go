// Package cli wires the pass-tui commands together.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/treykane/pass-tui/internal/app"
	"github.com/treykane/pass-tui/internal/backend"
	"github.com/treykane/pass-tui/internal/config"
	"github.com/treykane/pass-tui/internal/logging"
	"github.com/treykane/pass-tui/internal/session"
	"github.com/treykane/pass-tui/internal/store"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

var cliLog = logging.New("cli")

// options holds the persistent root flags.
type options struct {
	storeDir   string
	configPath string
	noConfig   bool
	logLevel   string
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree. The root command opens the browser.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "pass-tui",
		Short: "Browse a pass password store in the terminal",
		Long: "pass-tui shows a password store as a tree, reveals entries through pass,\n" +
			"and adds, edits, renames and deletes them without leaving the terminal.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.storeDir, "store", "s", "", "Password store directory (default: $PASSWORD_STORE_DIR or ~/.password-store)")
	flags.StringVarP(&opts.configPath, "config", "c", "", "Config file (default: "+config.ConfigPath()+")")
	flags.BoolVar(&opts.noConfig, "no-config", false, "Ignore the config file")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	root.AddCommand(newLsCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	root.AddCommand(newVersionCmd())
	return root
}

// loadConfig reads the config file. The default file is optional; a file
// named with --config must exist.
func loadConfig(opts *options) (config.Config, error) {
	if opts.noConfig {
		return config.Default(), nil
	}
	path, explicit := opts.configPath, true
	if path == "" {
		path, explicit = config.ConfigPath(), false
	}

	cfg, err := config.Load(path)
	if errors.Is(err, config.ErrNotConfigured) {
		if explicit {
			return config.Config{}, fmt.Errorf("config file %s does not exist", path)
		}
		return cfg, nil
	}
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// applyLogLevel prefers --log-level over log.level from the config file.
// With neither, the level from the environment stays.
func applyLogLevel(opts *options, cfg config.Config) {
	switch {
	case opts.logLevel != "":
		logging.SetLevel(opts.logLevel)
	case cfg.Log.Level != "":
		logging.SetLevel(cfg.Log.Level)
	}
}

// openSession resolves the store root and indexes it.
func openSession(opts *options, cfg config.Config, b backend.Backend) (*session.Session, error) {
	root, err := config.ResolveStoreDir(opts.storeDir, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve store dir: %w", err)
	}
	if pass, ok := b.(*backend.PassCLI); ok {
		pass.StoreDir = root
	}
	s, err := session.New(session.Options{Root: root, Ignore: cfg.Ignore, Backend: b})
	if err != nil {
		if errors.Is(err, store.ErrStoreNotFound) {
			return nil, fmt.Errorf("%w\nset %s or pass --store to point at your password store", err, config.EnvStoreDir)
		}
		return nil, err
	}
	return s, nil
}

func runTUI(opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	applyLogLevel(opts, cfg)

	closeLog, err := redirectLogs(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	s, err := openSession(opts, cfg, &backend.PassCLI{})
	if err != nil {
		return err
	}

	m := app.New(s,
		app.WithPreviewOnSelect(cfg.Preview.OnSelect),
		app.WithWatch(cfg.Watch, cfg.Ignore),
		app.WithKeybindings(cfg.Keys),
	)
	defer func() {
		if err := m.Close(); err != nil {
			cliLog.Warn("close store watcher", "error", err)
		}
	}()

	cliLog.Info("starting browser", "root", s.Root(), "version", version)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// redirectLogs sends log output to a file while the TUI owns the terminal.
// The returned func restores stderr.
func redirectLogs(cfg config.Config) (func(), error) {
	path := cfg.Log.File
	if path == "" {
		path = config.DefaultLogPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logging.SetOutput(f)
	return func() {
		logging.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "pass-tui", version)
		},
	}
}

// writeLine writes to a command's output; write errors on stdout are not
// actionable here.
func writeLine(w io.Writer, line string) {
	_, _ = fmt.Fprintln(w, line)
}
