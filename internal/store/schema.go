package store

import (
	"bufio"
	"embed"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:embed schema/*.sql
var schemaFiles embed.FS

// statements splits a SQL script into single statements. A statement ends on the line that
// contains a semicolon; lines starting with "--" are skipped.
func statements(script string) []string {
	var result []string
	scanner := bufio.NewScanner(strings.NewReader(script))
	scanner.Split(bufio.ScanLines)
	builder := strings.Builder{}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		builder.WriteString(line)
		builder.WriteString(" ")
		if strings.Contains(line, ";") {
			result = append(result, strings.TrimSpace(builder.String()))
			builder = strings.Builder{}
		}
	}
	if rest := strings.TrimSpace(builder.String()); rest != "" {
		result = append(result, rest)
	}
	return result
}

// applySchema creates the contacts table for the dialect if it does not exist yet. Every
// statement of the script is idempotent.
func applySchema(db *sqlx.DB, d dialect) error {
	script, err := schemaFiles.ReadFile("schema/" + d.schema)
	if err != nil {
		return fmt.Errorf("reading schema: %w", err)
	}
	for _, stmt := range statements(string(script)) {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}
