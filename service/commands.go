package service

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"miniblog/app/config"
	"miniblog/app/logger"
	"miniblog/app/repositories"

	"github.com/spf13/cobra"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

// errLogged marks failures that were logged before being returned.
var errLogged = errors.New("command failed")

type rootOptions struct {
	envFile  string
	logLevel string
	logJSON  bool
}

// Execute runs the CLI against os.Args and returns the process exit code.
func Execute() int {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errLogged) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		}
		return 1
	}
	return 0
}

// NewRootCommand builds the miniblog command tree. Running it without a
// subcommand serves the API.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "miniblog",
		Short:         "Mini blog backend API",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Environment file loaded before reading variables")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&opts.logJSON, "log-json", false, "Emit logs as JSON")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newBackupCommand(opts))
	cmd.AddCommand(newRestoreCommand(opts))
	cmd.AddCommand(newVersionCommand())
	return cmd
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Provision the posts table and serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
}

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Provision the posts table and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			app, err := Bootstrap(cmd.Context(), cfg, log)
			if err != nil {
				log.Error("posts table could not be created", "error", err)
				return fmt.Errorf("%w: %w", errLogged, err)
			}
			app.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "Posts table ready")
			return nil
		},
	}
}

func newBackupCommand(opts *rootOptions) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write a backup of the badger store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			path, err := backup(cfg, outDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database backed up successfully to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "output", "data/backups", "Directory the backup file is written to")
	return cmd
}

func newRestoreCommand(opts *rootOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Restore the badger store from a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			if err := restore(cfg, args[0], force); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database restored successfully")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing store")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "miniblog %s\n", Version)
		},
	}
}

// setup loads configuration, applies flag overrides and installs the
// process logger.
func setup(cmd *cobra.Command, opts *rootOptions) (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return nil, nil, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if cmd.Flags().Changed("log-json") {
		cfg.Log.JSON = opts.logJSON
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	log := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		JSON:   cfg.Log.JSON,
		Output: cmd.ErrOrStderr(),
	})
	logger.SetDefault(log)
	return cfg, log, nil
}

func runServe(cmd *cobra.Command, opts *rootOptions) error {
	cfg, log, err := setup(cmd, opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := Bootstrap(ctx, cfg, log)
	if err != nil {
		log.Error("posts table could not be created", "error", err)
		return fmt.Errorf("%w: %w", errLogged, err)
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		log.Error("server stopped", "error", err)
		return fmt.Errorf("%w: %w", errLogged, err)
	}
	return nil
}

func requireBadger(cfg *config.Config) error {
	if cfg.Store.Driver != config.DriverBadger {
		return fmt.Errorf("backup and restore need STORE_DRIVER=%s, got %q", config.DriverBadger, cfg.Store.Driver)
	}
	if cfg.Store.BadgerDir == "" {
		return errors.New("BADGER_DIR is not set")
	}
	return nil
}

// backup writes a full badger backup into outDir and returns its path.
func backup(cfg *config.Config, outDir string) (string, error) {
	if err := requireBadger(cfg); err != nil {
		return "", err
	}
	if _, err := os.Stat(cfg.Store.BadgerDir); os.IsNotExist(err) {
		return "", fmt.Errorf("no database exists to backup at %s", cfg.Store.BadgerDir)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	db, err := repositories.OpenBadger(cfg.Store.BadgerDir)
	if err != nil {
		return "", err
	}
	defer db.Close()

	path := filepath.Join(outDir, fmt.Sprintf("backup_%d.db", time.Now().UnixNano()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	defer f.Close()

	if _, err := db.Backup(f, 0); err != nil {
		return "", fmt.Errorf("failed to backup database: %w", err)
	}
	return path, nil
}

// restore loads file into the configured badger directory. An existing
// store is only replaced when force is set.
func restore(cfg *config.Config, file string, force bool) (err error) {
	if err := requireBadger(cfg); err != nil {
		return err
	}
	fi, err := os.Stat(file)
	if err != nil {
		return fmt.Errorf("backup file does not exist: %s", file)
	}
	if fi.Size() == 0 {
		return fmt.Errorf("backup file is empty: %s", file)
	}

	dir := cfg.Store.BadgerDir
	if _, err := os.Stat(dir); err == nil {
		if !force {
			return fmt.Errorf("existing database found at %s, use --force to replace it", dir)
		}
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to remove existing database: %w", err)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := repositories.OpenBadger(dir)
	if err != nil {
		return err
	}
	defer db.Close()

	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer f.Close()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic occurred during restore: %v", r)
		}
	}()
	if err := db.Load(f, 4); err != nil {
		return fmt.Errorf("failed to restore database: %w", err)
	}
	return nil
}

