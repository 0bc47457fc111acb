package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexCompatReason(t *testing.T) {
	tests := []struct {
		name string
		idx  Index
		ok   bool
	}{
		{"plain btree", Index{SourceName: "a", Kind: "BTREE", Columns: []string{"a"}}, false},
		{"unknown kind", Index{SourceName: "a", Columns: []string{"a"}}, false},
		{"prefix", Index{SourceName: "p", Kind: "BTREE", Columns: []string{"a"}, HasPrefix: true}, true},
		{"expression", Index{SourceName: "e", Kind: "BTREE", HasExpression: true}, true},
		{"fulltext", Index{SourceName: "f", Kind: "FULLTEXT", Columns: []string{"body"}}, true},
		{"hash", Index{SourceName: "h", Kind: "HASH", Columns: []string{"k"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := indexCompatReason(tt.idx)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestCollectIndexWarnings(t *testing.T) {
	schema := &Schema{Tables: []Table{{
		Name: "posts",
		Indexes: []Index{
			{Name: "idx_posts_title", SourceName: "title", Kind: "BTREE", Columns: []string{"title"}},
			{Name: "idx_posts_body", SourceName: "body_ft", Kind: "FULLTEXT", Columns: []string{"body"}},
		},
	}}}

	warnings := collectIndexWarnings(schema)
	require.Len(t, warnings, 1)
	assert.Equal(t, "posts.body_ft (idx_posts_body): index type FULLTEXT is created as a btree index", warnings[0])
}
