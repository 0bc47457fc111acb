package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// runHooks reads each SQL file of a hook phase, expands {{schema}} to the
// target database name and executes its statements in order.
func runHooks(ctx context.Context, exec statementExecutor, cfg *MigrationConfig, files []string, phase string, logger *zap.Logger) error {
	if len(files) == 0 {
		return nil
	}
	logger.Info("running hooks", zap.String("phase", phase), zap.Int("files", len(files)))

	for _, f := range files {
		data, err := os.ReadFile(cfg.resolvePath(f))
		if err != nil {
			return fmt.Errorf("hook %s: read %s: %w", phase, f, err)
		}
		text := strings.ReplaceAll(string(data), "{{schema}}", cfg.Postgres.Database)
		stmts := splitStatements(text)
		logger.Debug("hook file", zap.String("file", f), zap.Int("statements", len(stmts)))
		for i, stmt := range stmts {
			if err := execSQL(ctx, exec, fmt.Sprintf("hook %s: %s: statement %d", phase, f, i+1), stmt); err != nil {
				return err
			}
		}
	}
	return nil
}

// splitStatements splits SQL text on semicolons that are outside quoted
// strings, quoted identifiers, comments and dollar-quoted bodies.
func splitStatements(text string) []string {
	var (
		stmts []string
		start int
	)
	flush := func(end int) {
		if s := strings.TrimSpace(text[start:end]); s != "" {
			stmts = append(stmts, s)
		}
	}

	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case c == '\'' || c == '"':
			i = skipQuoted(text, i, c)
		case c == '-' && strings.HasPrefix(text[i:], "--"):
			if nl := strings.IndexByte(text[i:], '\n'); nl >= 0 {
				i += nl
			} else {
				i = len(text) - 1
			}
		case c == '/' && strings.HasPrefix(text[i:], "/*"):
			i = skipBlockComment(text, i)
		case c == '$':
			if tag := dollarTag(text[i:]); tag != "" {
				if end := strings.Index(text[i+len(tag):], tag); end >= 0 {
					i += len(tag) + end + len(tag) - 1
				} else {
					i = len(text) - 1
				}
			}
		case c == ';':
			flush(i)
			start = i + 1
		}
	}
	flush(len(text))
	return stmts
}

// skipQuoted returns the index of the quote closing the literal opened at i.
// A doubled quote character is an escaped quote.
func skipQuoted(text string, i int, q byte) int {
	for j := i + 1; j < len(text); j++ {
		if text[j] != q {
			continue
		}
		if j+1 < len(text) && text[j+1] == q {
			j++
			continue
		}
		return j
	}
	return len(text) - 1
}

// skipBlockComment returns the index of the final '/' of a (possibly nested)
// block comment opened at i.
func skipBlockComment(text string, i int) int {
	depth := 0
	for j := i; j < len(text)-1; j++ {
		switch text[j : j+2] {
		case "/*":
			depth++
			j++
		case "*/":
			depth--
			j++
			if depth == 0 {
				return j
			}
		}
	}
	return len(text) - 1
}

// dollarTag returns the $tag$ or $$ opening s, or "" when s does not start one.
func dollarTag(s string) string {
	if len(s) < 2 || s[0] != '$' {
		return ""
	}
	for j := 1; j < len(s); j++ {
		c := s[j]
		switch {
		case c == '$':
			return s[:j+1]
		case c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && j > 1:
		default:
			return ""
		}
	}
	return ""
}
