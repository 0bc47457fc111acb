package main

import "fmt"

// indexCompatReason explains why an index will not behave on PostgreSQL the
// way it did on MySQL. Such indexes are still created as plain btree indexes
// over their plain columns.
func indexCompatReason(idx Index) (string, bool) {
	if idx.HasExpression {
		return "functional key parts are dropped", true
	}
	if idx.HasPrefix {
		return "prefix lengths (SUB_PART) are dropped; the whole column is indexed", true
	}
	if idx.Kind != "" && idx.Kind != "BTREE" {
		return fmt.Sprintf("index type %s is created as a btree index", idx.Kind), true
	}
	return "", false
}

func collectIndexWarnings(schema *Schema) []string {
	var warnings []string
	for _, t := range schema.Tables {
		for _, idx := range t.Indexes {
			if reason, ok := indexCompatReason(idx); ok {
				warnings = append(warnings, fmt.Sprintf("%s.%s (%s): %s", t.Name, idx.SourceName, idx.Name, reason))
			}
		}
	}
	return warnings
}
