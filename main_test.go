package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func parseTestFlags(t *testing.T, args ...string) (*cobra.Command, *MigrationConfig, string) {
	t.Helper()
	var fv MigrationConfig
	var cfgPath string
	cmd := &cobra.Command{Use: "test"}
	bindFlags(cmd, &fv, &cfgPath)
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd, &fv, cfgPath
}

func TestApplyFlags_OverrideConfigFile(t *testing.T) {
	cmd, fv, cfgPath := parseTestFlags(t, "--config", "m.toml", "--data-only", "-vv", "--pg-user", "admin", "--starting-table", "orders")
	assert.Equal(t, "m.toml", cfgPath)

	cfg := &MigrationConfig{
		DropTables: true,
		Verbose:    1,
		MySQL:      MySQLConfig{User: "root", Password: "from-file"},
		Postgres:   PostgresConfig{User: "app"},
	}
	applyFlags(cmd, cfg, fv)

	assert.True(t, cfg.DataOnly)
	assert.True(t, cfg.DropTables, "unset flags keep the file value")
	assert.Equal(t, 2, cfg.Verbose)
	assert.Equal(t, "admin", cfg.Postgres.User)
	assert.Equal(t, "root", cfg.MySQL.User)
	assert.Equal(t, "from-file", cfg.MySQL.Password)
	assert.Equal(t, "orders", cfg.StartingTable)
}

func TestApplyFlags_ExplicitFalse(t *testing.T) {
	cmd, fv, _ := parseTestFlags(t, "--drop-tables=false", "-n")
	cfg := &MigrationConfig{DropTables: true}
	applyFlags(cmd, cfg, fv)
	assert.False(t, cfg.DropTables)
	assert.True(t, cfg.DryRun)
}

func TestRootCmd_RequiresFourArgs(t *testing.T) {
	assert.Error(t, rootCmd.Args(rootCmd, []string{"mysql", "shop", "pg"}))
	assert.NoError(t, rootCmd.Args(rootCmd, []string{"mysql", "shop", "pg", "shop"}))
}

func TestTargetExecutor_DryRun(t *testing.T) {
	exec := targetExecutor(&MigrationConfig{DryRun: true}, nil, zap.NewNop())
	assert.IsType(t, dryRunExecutor{}, exec)
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, []TableResult{
		{Table: "customers", Converted: 120},
		{Table: "orders", Converted: 99, Errors: 1},
	})
	assert.Equal(t, "Table customers: 120 rows converted (0 errors)\nTable orders: 99 rows converted (1 errors)\n", buf.String())
}
