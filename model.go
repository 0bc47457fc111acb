package main

// Column represents a single column from MySQL INFORMATION_SCHEMA.COLUMNS.
type Column struct {
	Name          string
	Type          string // full COLUMN_TYPE, lower-cased, e.g. "int(10) unsigned", "enum('a','b')"
	Position      int
	Default       *string // nil when the column has no default
	Nullable      bool
	AutoIncrement bool
	Generated     bool // MySQL generated column; copied as plain data
	Charset       string
	Collation     string
}

// newColumn builds a Column from the fields of one catalog row.
func newColumn(name, columnType string, position int, dflt *string, nullable, autoIncrement bool) Column {
	return Column{
		Name:          name,
		Type:          columnType,
		Position:      position,
		Default:       dflt,
		Nullable:      nullable,
		AutoIncrement: autoIncrement,
	}
}

// Index represents a MySQL index (may span multiple columns).
type Index struct {
	Name          string // synthesized target name, see indexName
	SourceName    string // INDEX_NAME as reported by the source
	Table         string
	Kind          string   // BTREE, FULLTEXT, SPATIAL, HASH
	Columns       []string // source column names, ordered by SEQ_IN_INDEX
	Unique        bool
	Nullable      bool
	Primary       bool
	HasPrefix     bool // MySQL prefix index (SUB_PART)
	HasExpression bool // functional key part without a plain column
}

// Table holds the full introspected definition of a MySQL table.
type Table struct {
	Name    string
	Columns []Column
	Indexes []Index
}

// primaryIndexes returns every index designated as the primary key.
func (t Table) primaryIndexes() []Index {
	var out []Index
	for _, idx := range t.Indexes {
		if idx.Primary {
			out = append(out, idx)
		}
	}
	return out
}

// Schema holds all introspected tables of one MySQL database, sorted by name.
type Schema struct {
	Name   string
	Tables []Table
}
