package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// migrator runs the phases of one migration strictly in sequence: schema
// read, all DDL, then table-by-table data transfer.
type migrator struct {
	cfg     *MigrationConfig
	catalog catalogSource
	rows    rowSource
	target  statementExecutor
	logger  *zap.Logger
	runID   string
}

func (m *migrator) run(ctx context.Context) ([]TableResult, error) {
	schema, err := m.loadSchema(ctx)
	if err != nil {
		return nil, err
	}
	m.logger.Info("schema loaded", zap.Int("tables", len(schema.Tables)))
	for _, t := range schema.Tables {
		m.logger.Debug("table",
			zap.String("table", t.Name), zap.Int("columns", len(t.Columns)), zap.Int("indexes", len(t.Indexes)))
	}
	m.warnCompatibility(schema)

	if !m.cfg.DataOnly {
		if err := m.createTables(ctx, schema); err != nil {
			return nil, err
		}
	}
	if m.cfg.SchemaOnly {
		return nil, nil
	}

	if err := runHooks(ctx, m.target, m.cfg, m.cfg.Hooks.BeforeData, "before_data", m.logger); err != nil {
		return nil, err
	}
	results, err := m.transferData(ctx, schema)
	if err != nil {
		return results, err
	}
	if err := runHooks(ctx, m.target, m.cfg, m.cfg.Hooks.AfterData, "after_data", m.logger); err != nil {
		return results, err
	}
	if err := resetSequences(ctx, m.target, schema, m.logger); err != nil {
		return results, fmt.Errorf("reset sequences: %w", err)
	}
	return results, nil
}

// warnCompatibility logs every schema feature that will not carry over as is.
func (m *migrator) warnCompatibility(schema *Schema) {
	for _, w := range collectTypeWarnings(schema) {
		m.logger.Warn("type compatibility: " + w)
	}
	for _, w := range collectGeneratedColumnWarnings(schema) {
		m.logger.Warn(w)
	}
	for _, w := range collectCollationWarnings(schema) {
		m.logger.Warn("collation compatibility: " + w)
	}
	for _, w := range collectIndexWarnings(schema) {
		m.logger.Warn("index compatibility: " + w)
	}
}

// loadSchema restores the snapshot when one applies, otherwise introspects
// the source and, on a full run, saves a new snapshot.
func (m *migrator) loadSchema(ctx context.Context) (*Schema, error) {
	useSnap, err := m.cfg.useSnapshot()
	if err != nil {
		return nil, err
	}
	if useSnap {
		path := m.cfg.resolvePath(m.cfg.Snapshot)
		m.logger.Info("restoring schema snapshot", zap.String("path", path))
		schema, err := loadSnapshot(ctx, path, m.cfg.MySQL.Database)
		if err != nil {
			return nil, fmt.Errorf("load snapshot: %w", err)
		}
		return schema, nil
	}

	m.logger.Info("reading structure of MySQL database", zap.String("schema", m.cfg.MySQL.Database))
	schema, err := readSchema(ctx, m.catalog, m.cfg.MySQL.Database, m.cfg.StartingTable, m.logger)
	if err != nil {
		if isInterrupt(ctx, err) {
			return nil, interrupted(err)
		}
		return nil, err
	}

	objs, err := m.catalog.SourceObjects(ctx, m.cfg.MySQL.Database)
	if err != nil {
		err = fmt.Errorf("introspect source objects: %w", err)
		if isInterrupt(ctx, err) {
			return nil, interrupted(err)
		}
		return nil, err
	}
	for _, w := range sourceObjectWarnings(objs) {
		m.logger.Warn(w)
	}

	if m.cfg.writeSnapshot() {
		path := m.cfg.resolvePath(m.cfg.Snapshot)
		if err := saveSnapshot(ctx, path, schema, m.runID); err != nil {
			return nil, fmt.Errorf("save snapshot: %w", err)
		}
		m.logger.Info("schema snapshot written", zap.String("path", path))
	}
	return schema, nil
}

// createTables issues the DDL of every table, in table order.
func (m *migrator) createTables(ctx context.Context, schema *Schema) error {
	for _, t := range schema.Tables {
		m.logger.Info("creating table", zap.String("table", t.Name))
		for _, stmt := range generateDDL(t, m.cfg.DropTables, m.logger) {
			if err := execSQL(ctx, m.target, "create table "+t.Name, stmt); err != nil {
				return err
			}
		}
	}
	return nil
}

// transferData copies the tables one at a time in schema order.
func (m *migrator) transferData(ctx context.Context, schema *Schema) ([]TableResult, error) {
	m.logger.Info("converting data")
	results := make([]TableResult, 0, len(schema.Tables))
	for _, t := range schema.Tables {
		m.logger.Debug("converting data in table", zap.String("table", t.Name))
		res, err := transferTable(ctx, m.rows, m.target, t, m.logger)
		if err != nil {
			return results, err
		}
		results = append(results, res)

		fields := []zap.Field{zap.String("table", t.Name), zap.Int64("rows", res.Converted), zap.Int64("errors", res.Errors)}
		if res.Errors > 0 {
			m.logger.Warn("table converted with errors", fields...)
		} else {
			m.logger.Info("table converted", fields...)
		}
	}
	return results, nil
}
