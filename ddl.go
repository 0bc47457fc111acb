package main

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// generateDDL renders the statements that (re)create one table and its indexes.
func generateDDL(t Table, dropExisting bool, logger *zap.Logger) []string {
	var stmts []string
	table := targetIdent(t.Name)

	if dropExisting {
		stmts = append(stmts, fmt.Sprintf("DROP TABLE IF EXISTS %s;", table))
	}

	primaries := t.primaryIndexes()
	if len(primaries) > 1 {
		logger.Warn("multiple primary indexes on table; using the first",
			zap.String("table", t.Name), zap.Int("candidates", len(primaries)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", table)
	lines := make([]string, 0, len(t.Columns)+1)
	for _, col := range t.Columns {
		lines = append(lines, "  "+columnDecl(col))
	}
	if len(primaries) > 0 {
		lines = append(lines, fmt.Sprintf("  PRIMARY KEY (%s)", targetIdentList(primaries[0].Columns)))
	}
	b.WriteString(strings.Join(lines, ",\n"))
	b.WriteString("\n);")
	stmts = append(stmts, b.String())

	for _, idx := range t.Indexes {
		if idx.Primary {
			continue
		}
		if len(idx.Columns) == 0 {
			logger.Warn("skipping index without plain columns",
				zap.String("table", t.Name), zap.String("index", idx.SourceName))
			continue
		}
		unique := ""
		if idx.Unique {
			unique = "UNIQUE "
		}
		stmts = append(stmts, fmt.Sprintf("CREATE %sINDEX %s ON %s (%s);",
			unique, targetIdent(idx.Name), table, targetIdentList(idx.Columns)))
	}
	return stmts
}

// columnDecl renders "name type [DEFAULT d] [NOT NULL]".
func columnDecl(col Column) string {
	pgType := mapType(col.Type, col.AutoIncrement)
	decl := targetIdent(col.Name) + " " + pgType
	if d, ok := renderDefault(col, pgType); ok {
		decl += " DEFAULT " + d
	}
	if !col.Nullable {
		decl += " NOT NULL"
	}
	return decl
}

// renderDefault returns the DEFAULT expression for col, if it has one.
// Character and date/time defaults are quoted but embedded quotes are not escaped.
func renderDefault(col Column, pgType string) (string, bool) {
	if col.Default == nil || strings.HasSuffix(pgType, "serial") {
		return "", false
	}
	raw := *col.Default

	if isTemporalType(col.baseType()) && isZeroDate(raw) {
		return "NULL", true
	}
	if strings.EqualFold(raw, "null") {
		return "NULL", true
	}
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "current_timestamp") || lower == "now()" {
		return "CURRENT_TIMESTAMP", true
	}

	if isCharacterType(pgType) {
		return "'" + raw + "'", true
	}
	if raw == "" {
		return "", false
	}
	if isDateTimeType(col.baseType()) {
		return "'" + raw + "'", true
	}
	return raw, true
}

func isDateTimeType(base string) bool {
	return isTemporalType(base) || base == "time"
}

func isCharacterType(pgType string) bool {
	return pgType == "text" || strings.HasPrefix(pgType, "varchar") || strings.HasPrefix(pgType, "char")
}
