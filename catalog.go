package main

import (
	"context"
	"fmt"
	"hash/fnv"
	"slices"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// maxIdentLen is PostgreSQL's NAMEDATALEN-1.
const maxIdentLen = 63

// readSchema introspects every base table of schemaName whose name sorts at or
// after startingTable. Any catalog failure aborts introspection.
func readSchema(ctx context.Context, src catalogSource, schemaName, startingTable string, logger *zap.Logger) (*Schema, error) {
	names, err := src.TableNames(ctx, schemaName)
	if err != nil {
		return nil, fmt.Errorf("introspect tables: %w", err)
	}
	sort.Strings(names)
	if startingTable != "" {
		i := sort.SearchStrings(names, startingTable)
		names = names[i:]
	}

	schema := &Schema{Name: schemaName}
	for _, name := range names {
		logger.Debug("reading table", zap.String("table", name))

		colRows, err := src.ColumnRows(ctx, schemaName, name)
		if err != nil {
			return nil, fmt.Errorf("introspect columns for %s: %w", name, err)
		}
		statRows, err := src.StatisticsRows(ctx, schemaName, name)
		if err != nil {
			return nil, fmt.Errorf("introspect indexes for %s: %w", name, err)
		}

		schema.Tables = append(schema.Tables, Table{
			Name:    name,
			Columns: buildColumns(colRows),
			Indexes: buildIndexes(name, statRows),
		})
	}
	return schema, nil
}

// buildColumns converts catalog rows into Columns in ordinal order.
func buildColumns(rows []ColumnRow) []Column {
	cols := make([]Column, 0, len(rows))
	for _, r := range rows {
		extra := strings.ToLower(r.Extra)
		col := newColumn(
			r.Name,
			strings.ToLower(strings.TrimSpace(r.ColumnType)),
			r.Position,
			r.Default,
			r.Nullable,
			strings.Contains(extra, "auto_increment"),
		)
		col.Generated = strings.Contains(extra, "generated")
		col.Charset, col.Collation = r.Charset, r.Collation
		cols = append(cols, col)
	}
	slices.SortStableFunc(cols, func(a, b Column) int { return a.Position - b.Position })
	return cols
}

// buildIndexes merges per-key-part statistics rows into one Index per index
// name. Key parts are ordered by SEQ_IN_INDEX regardless of arrival order.
func buildIndexes(table string, rows []StatisticsRow) []Index {
	type keyPart struct {
		seq  int
		name string
	}
	byName := make(map[string]*Index)
	parts := make(map[string][]keyPart)

	for _, r := range rows {
		idx, ok := byName[r.IndexName]
		if !ok {
			idx = &Index{
				SourceName: r.IndexName,
				Table:      table,
				Kind:       strings.ToUpper(r.IndexType),
				Unique:     !r.NonUnique,
				Primary:    r.IndexName == "PRIMARY",
			}
			byName[r.IndexName] = idx
		}
		if r.Nullable {
			idx.Nullable = true
		}
		if r.SubPart {
			idx.HasPrefix = true
		}
		if r.ColumnName == nil {
			idx.HasExpression = true
			continue
		}
		parts[r.IndexName] = append(parts[r.IndexName], keyPart{seq: r.SeqInIndex, name: *r.ColumnName})
	}

	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Strings(names)

	indexes := make([]Index, 0, len(names))
	used := make(map[string]bool)
	for _, n := range names {
		idx := byName[n]
		kp := parts[n]
		slices.SortStableFunc(kp, func(a, b keyPart) int { return a.seq - b.seq })
		for _, p := range kp {
			idx.Columns = append(idx.Columns, p.name)
		}
		idx.Name = indexName(table, idx.Columns)
		if !idx.Primary {
			idx.Name = uniqueIndexName(idx.Name, used)
		}
		indexes = append(indexes, *idx)
	}
	return indexes
}

// uniqueIndexName numbers repeated names within one table, since MySQL
// allows several indexes over the same columns.
func uniqueIndexName(name string, used map[string]bool) string {
	candidate := name
	for n := 2; used[candidate]; n++ {
		suffix := fmt.Sprintf("_%d", n)
		candidate = truncateIdent(name, maxIdentLen-len(suffix)) + suffix
	}
	used[candidate] = true
	return candidate
}

// indexName synthesizes a target index name from the table and its columns,
// so that equally named source indexes on different tables cannot collide.
// Names over the identifier limit keep a prefix plus a hash of the full name.
func indexName(table string, columns []string) string {
	name := "idx_" + strings.Join(append([]string{table}, columns...), "_")
	if len(name) <= maxIdentLen {
		return name
	}
	h := fnv.New32a()
	h.Write([]byte(name))
	suffix := fmt.Sprintf("_%08x", h.Sum32())
	return truncateIdent(name, maxIdentLen-len(suffix)) + suffix
}

// truncateIdent cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncateIdent(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
