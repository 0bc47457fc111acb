package main

import (
	"fmt"
	"sort"
	"strings"
)

// latin1SafeCharsets hold only characters the latin1 connection can carry
// without substitution.
var latin1SafeCharsets = map[string]bool{
	"latin1": true,
	"ascii":  true,
	"binary": true,
}

// collectCollationWarnings reports character columns whose text may not
// survive the trip. Non-latin1 columns are read through the latin1 connection,
// so characters outside latin1 arrive as '?'. Case-insensitive (_ci)
// collations become case-sensitive comparisons in PostgreSQL, which matters
// most for unique indexes.
func collectCollationWarnings(schema *Schema) []string {
	lossy := make(map[string][]string)
	ciCounts := make(map[string]int)
	ciUnique := make(map[string][]string)

	for _, t := range schema.Tables {
		uniqueCols := make(map[string]bool)
		for _, idx := range t.Indexes {
			if idx.Unique {
				for _, c := range idx.Columns {
					uniqueCols[c] = true
				}
			}
		}

		for _, col := range t.Columns {
			ref := t.Name + "." + col.Name
			if cs := strings.ToLower(col.Charset); cs != "" && !latin1SafeCharsets[cs] {
				lossy[cs] = append(lossy[cs], ref)
			}
			if !strings.HasSuffix(strings.ToLower(col.Collation), "_ci") {
				continue
			}
			ciCounts[col.Collation]++
			if uniqueCols[col.Name] {
				ciUnique[col.Collation] = append(ciUnique[col.Collation], ref)
			}
		}
	}

	var warnings []string
	for _, cs := range sortedKeys(lossy) {
		warnings = append(warnings, fmt.Sprintf(
			"%d column(s) use charset %s; characters outside latin1 are replaced with '?': %s",
			len(lossy[cs]), cs, strings.Join(lossy[cs], ", ")))
	}
	for _, coll := range sortedKeys(ciCounts) {
		warnings = append(warnings, fmt.Sprintf(
			"%d column(s) use %s (case-insensitive); PostgreSQL text comparisons are case-sensitive by default",
			ciCounts[coll], coll))
	}
	for _, coll := range sortedKeys(ciUnique) {
		warnings = append(warnings, fmt.Sprintf(
			"unique index/PK on %s column(s); values equal under %s may now both be accepted: %s",
			coll, coll, strings.Join(ciUnique[coll], ", ")))
	}
	return warnings
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
