package main

import "strings"

// pgReservedWords are PostgreSQL reserved key words. Source identifiers that
// collide with one of them get a trailing underscore on the target side.
var pgReservedWords = map[string]bool{
	"all": true, "analyse": true, "analyze": true, "and": true, "any": true,
	"array": true, "as": true, "asc": true, "asymmetric": true, "authorization": true,
	"between": true, "binary": true, "both": true, "case": true, "cast": true,
	"check": true, "collate": true, "collation": true, "column": true, "concurrently": true,
	"constraint": true, "create": true, "cross": true, "current_catalog": true,
	"current_date": true, "current_role": true, "current_schema": true, "current_time": true,
	"current_timestamp": true, "current_user": true, "default": true, "deferrable": true,
	"desc": true, "distinct": true, "do": true, "else": true, "end": true, "except": true,
	"false": true, "fetch": true, "for": true, "foreign": true, "freeze": true,
	"from": true, "full": true, "grant": true, "group": true, "having": true,
	"ilike": true, "in": true, "initially": true, "inner": true, "intersect": true,
	"into": true, "is": true, "isnull": true, "join": true, "lateral": true,
	"leading": true, "left": true, "like": true, "limit": true, "localtime": true,
	"localtimestamp": true, "natural": true, "not": true, "notnull": true, "null": true,
	"offset": true, "on": true, "only": true, "or": true, "order": true, "outer": true,
	"overlaps": true, "placing": true, "primary": true, "references": true,
	"returning": true, "right": true, "select": true, "session_user": true,
	"similar": true, "some": true, "symmetric": true, "system_user": true, "table": true,
	"tablesample": true, "then": true, "to": true, "trailing": true, "true": true,
	"union": true, "unique": true, "user": true, "using": true, "variadic": true,
	"verbose": true, "when": true, "where": true, "window": true, "with": true,
}

// sanitizeIdent appends an underscore to names that are PostgreSQL reserved
// words, compared case-insensitively. Other names are returned unchanged.
func sanitizeIdent(name string) string {
	if pgReservedWords[strings.ToLower(name)] {
		return name + "_"
	}
	return name
}

// pgNeedsQuoting reports whether a name contains characters that are invalid
// in an unquoted PostgreSQL identifier. Upper-case letters are allowed: they
// fold to lower case, which is how tables are addressed after migration.
func pgNeedsQuoting(name string) bool {
	if name == "" {
		return true
	}
	for i, r := range name {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_' {
			continue
		}
		if i > 0 && (r >= '0' && r <= '9' || r == '$') {
			continue
		}
		return true
	}
	return false
}

// targetIdent returns the identifier used for name in generated SQL.
func targetIdent(name string) string {
	s := sanitizeIdent(name)
	if pgNeedsQuoting(s) {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// targetIdentList sanitizes and joins column names with ", ".
func targetIdentList(names []string) string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = targetIdent(n)
	}
	return strings.Join(out, ", ")
}

// mysqlQuoteIdent quotes a source identifier for MySQL queries.
func mysqlQuoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
