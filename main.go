package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	flagValues MigrationConfig
)

var rootCmd = &cobra.Command{
	Use:           "my2pg [flags] mysql-host mysql-db pg-host pg-db",
	Short:         "MySQL to PostgreSQL schema and data conversion",
	Args:          cobra.ExactArgs(4),
	RunE:          runCommand,
	SilenceErrors: true,
}

func init() {
	bindFlags(rootCmd, &flagValues, &configPath)
}

// bindFlags registers the command-line flags of cmd on fv and cfgPath.
func bindFlags(cmd *cobra.Command, fv *MigrationConfig, cfgPath *string) {
	f := cmd.Flags()
	f.StringVar(cfgPath, "config", "", "path to a TOML config file")
	f.BoolVar(&fv.SchemaOnly, "schema-only", false, "create the tables but copy no data")
	f.BoolVar(&fv.DataOnly, "data-only", false, "assume the tables already exist, and only convert data")
	f.BoolVar(&fv.DropTables, "drop-tables", false, "drop existing PostgreSQL tables (if any) before creating")
	f.BoolVarP(&fv.DryRun, "dry-run", "n", false, "make no changes to the PostgreSQL database")
	f.StringVar(&fv.StartingTable, "starting-table", "", "name of the table to start conversion with")
	f.StringVar(&fv.Snapshot, "snapshot", "", "path of a schema snapshot file to reuse between runs")
	f.CountVarP(&fv.Verbose, "verbose", "v", "display more output as the conversion runs (repeatable)")
	f.StringVar(&fv.MySQL.User, "mysql-user", "", "MySQL user for login")
	f.StringVar(&fv.MySQL.Password, "mysql-password", "", "MySQL password")
	f.StringVar(&fv.Postgres.User, "pg-user", "", "PostgreSQL user for login")
	f.StringVar(&fv.Postgres.Password, "pg-password", "", "PostgreSQL password")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errInterrupted) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string) error {
	cfg := &MigrationConfig{}
	if configPath != "" {
		loaded, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	applyFlags(cmd, cfg, &flagValues)
	cfg.applyArgs(args)
	if err := cfg.validate(); err != nil {
		return err
	}
	cmd.SilenceUsage = true

	logger, runID := newLogger(cfg.Verbose)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := runMigration(ctx, cfg, logger, runID)
	printSummary(cmd.OutOrStdout(), results)
	if err != nil {
		logger.Error("migration failed", zap.Error(err), zap.Stack("stack"))
		return err
	}
	return nil
}

// applyFlags copies the flags given on the command line over cfg.
func applyFlags(cmd *cobra.Command, cfg, fv *MigrationConfig) {
	changed := cmd.Flags().Changed
	if changed("schema-only") {
		cfg.SchemaOnly = fv.SchemaOnly
	}
	if changed("data-only") {
		cfg.DataOnly = fv.DataOnly
	}
	if changed("drop-tables") {
		cfg.DropTables = fv.DropTables
	}
	if changed("dry-run") {
		cfg.DryRun = fv.DryRun
	}
	if changed("starting-table") {
		cfg.StartingTable = fv.StartingTable
	}
	if changed("snapshot") {
		cfg.Snapshot = fv.Snapshot
	}
	if changed("verbose") {
		cfg.Verbose = fv.Verbose
	}
	if changed("mysql-user") {
		cfg.MySQL.User = fv.MySQL.User
	}
	if changed("mysql-password") {
		cfg.MySQL.Password = fv.MySQL.Password
	}
	if changed("pg-user") {
		cfg.Postgres.User = fv.Postgres.User
	}
	if changed("pg-password") {
		cfg.Postgres.Password = fv.Postgres.Password
	}
}

// runMigration connects to both databases and runs the migration over one
// connection each.
func runMigration(ctx context.Context, cfg *MigrationConfig, logger *zap.Logger, runID string) ([]TableResult, error) {
	logger.Info("connecting to databases",
		zap.String("mysql", cfg.MySQL.Host+"/"+cfg.MySQL.Database),
		zap.String("postgres", cfg.Postgres.Host+"/"+cfg.Postgres.Database),
		zap.Bool("dry_run", cfg.DryRun))

	mysqlDB, mysqlConn, err := openMySQL(ctx, cfg.MySQL)
	if err != nil {
		return nil, err
	}
	defer mysqlDB.Close()
	defer mysqlConn.Close()

	pgConn, err := connectPostgres(ctx, cfg.Postgres)
	if err != nil {
		return nil, err
	}
	defer pgConn.Close(context.WithoutCancel(ctx))

	m := &migrator{
		cfg:     cfg,
		catalog: &mysqlCatalog{db: mysqlConn},
		rows:    &mysqlRowSource{db: mysqlConn},
		target:  targetExecutor(cfg, pgConn, logger),
		logger:  logger,
		runID:   runID,
	}
	results, err := m.run(ctx)
	logger.Info("closing database connections")
	return results, err
}

func targetExecutor(cfg *MigrationConfig, conn *pgx.Conn, logger *zap.Logger) statementExecutor {
	if cfg.DryRun {
		return dryRunExecutor{logger: logger}
	}
	return conn
}

// printSummary writes one line per transferred table.
func printSummary(w io.Writer, results []TableResult) {
	for _, r := range results {
		fmt.Fprintf(w, "Table %s: %d rows converted (%d errors)\n", r.Table, r.Converted, r.Errors)
	}
}
