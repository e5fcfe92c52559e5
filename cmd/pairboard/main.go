package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/pairboard/internal/board"
	"github.com/jask/pairboard/internal/config"
	"github.com/jask/pairboard/internal/database"
	"github.com/jask/pairboard/internal/database/repository"
	"github.com/jask/pairboard/internal/logging"
	"github.com/jask/pairboard/internal/tui"
)

// cli holds what the root command's PersistentPreRunE opens for every
// subcommand.
type cli struct {
	cfgPath string
	verbose bool

	cfg    config.Config
	db     *sql.DB
	kv     *repository.KVRepo
	board  *board.Board
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "pairboard",
		Short: "Drag people from a pool into named slots",
		Long: `pairboard keeps a pool of people and a list of named slots, one person per
slot. Run it without arguments for the interactive board (drag with the mouse),
or use the subcommands to edit the board from scripts.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsSetup(cmd) {
				return nil
			}
			return c.open(cmd.Context())
		},
		RunE: c.run(c.runInteractive),
	}
	root.PersistentFlags().StringVar(&c.cfgPath, "config", "", "Config file (default: $PAIRBOARD_CONFIG or ~/.config/pairboard/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Log at debug level")

	root.AddCommand(
		c.showCmd(),
		c.addCmd(),
		c.assignCmd(),
		c.unassignCmd(),
		c.deleteCmd(),
		c.resetCmd(),
		c.infoCmd(),
		c.configCmd(),
	)
	return root
}

// skipsSetup is true for commands that must work without a database.
func skipsSetup(cmd *cobra.Command) bool {
	for p := cmd; p != nil; p = p.Parent() {
		switch {
		case p.Annotations["setup"] == "none":
			return true
		case p.Name() == "completion", p.Name() == "help":
			return true
		}
	}
	return false
}

func (c *cli) loadConfig() (config.Config, error) {
	if c.cfgPath != "" {
		return config.LoadFile(c.cfgPath)
	}
	return config.Load()
}

func (c *cli) configPath() string {
	if c.cfgPath != "" {
		return c.cfgPath
	}
	if p := os.Getenv("PAIRBOARD_CONFIG"); p != "" {
		return p
	}
	return config.DefaultPath()
}

func (c *cli) open(ctx context.Context) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	policy, err := board.ParseDeletePolicy(cfg.Board.SlotDelete)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger, err := logging.New(cfg.Log, c.verbose)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	c.cfg, c.db, c.logger = cfg, db, logger
	c.kv = repository.NewKVRepo(db)
	c.board = board.New(board.Options{
		KV:     c.kv,
		Key:    cfg.Storage.Key,
		Policy: policy,
		Logger: logger,
	})
	c.board.Load(ctx)
	return nil
}

// run wraps a RunE so whatever open set up is released however fn returns.
func (c *cli) run(fn func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer c.close()
		return fn(cmd, args)
	}
}

func (c *cli) close() {
	if c.db != nil {
		_ = c.db.Close()
		c.db = nil
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}

func (c *cli) runInteractive(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app := tui.New(ctx, c.cfg.UI, c.board, c.logger)
	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
