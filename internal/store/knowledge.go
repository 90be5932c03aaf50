package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// KnowledgeEntry methods

// ListKnowledgeEntries returns entries in insertion order, which is also the
// order the assistant tests them in.
func (s *SQLiteStore) ListKnowledgeEntries(ctx context.Context) ([]KnowledgeEntry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, key, kind, title, description, items_json, seek_care, remedies_json FROM knowledge_entries ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query knowledge_entries: %w", err)
	}
	defer rows.Close()

	var entries []KnowledgeEntry
	for rows.Next() {
		var e KnowledgeEntry
		var items, remedies sql.NullString
		if err := rows.Scan(&e.ID, &e.Key, &e.Kind, &e.Title, &e.Description, &items, &e.SeekCare, &remedies); err != nil {
			return nil, fmt.Errorf("failed to scan knowledge_entries row: %w", err)
		}
		if err := decodeList(items, &e.Items); err != nil {
			return nil, fmt.Errorf("entry %q items: %w", e.Key, err)
		}
		if err := decodeList(remedies, &e.Remedies); err != nil {
			return nil, fmt.Errorf("entry %q remedies: %w", e.Key, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ReplaceKnowledgeEntries swaps the whole knowledge base in one transaction.
func (s *SQLiteStore) ReplaceKnowledgeEntries(ctx context.Context, entries []KnowledgeEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM knowledge_entries"); err != nil {
		return fmt.Errorf("failed to clear knowledge_entries: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO knowledge_entries (key, kind, title, description, items_json, seek_care, remedies_json) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare knowledge insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		items, err := json.Marshal(e.Items)
		if err != nil {
			return fmt.Errorf("failed to marshal items for %q: %w", e.Key, err)
		}
		remedies, err := json.Marshal(e.Remedies)
		if err != nil {
			return fmt.Errorf("failed to marshal remedies for %q: %w", e.Key, err)
		}
		if _, err := stmt.ExecContext(ctx, e.Key, e.Kind, e.Title, e.Description, string(items), e.SeekCare, string(remedies)); err != nil {
			return fmt.Errorf("failed to insert knowledge entry %q: %w", e.Key, err)
		}
	}
	return tx.Commit()
}

func decodeList(raw sql.NullString, dst *[]string) error {
	if !raw.Valid || raw.String == "" || raw.String == "null" {
		return nil
	}
	return json.Unmarshal([]byte(raw.String), dst)
}

// knowledgeColumns is the expected header of an import table.
var knowledgeColumns = []string{"key", "kind", "title", "description", "items", "seek_care", "remedies"}

// IngestKnowledgeFromFile reads a markdown table with the columns
// | key | kind | title | description | items | seek_care | remedies |
// (list cells separated by ";") and replaces the stored knowledge base.
func (s *SQLiteStore) IngestKnowledgeFromFile(ctx context.Context, filePath string, logger zerolog.Logger) (int, error) {
	contentBytes, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to read data file %s: %w", filePath, err)
	}

	entries, err := ParseKnowledgeTable(string(contentBytes), logger)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		logger.Warn().Str("file", filePath).Msg("No knowledge rows found; existing entries left untouched")
		return 0, nil
	}

	if err := s.ReplaceKnowledgeEntries(ctx, entries); err != nil {
		return 0, fmt.Errorf("failed to store knowledge entries: %w", err)
	}
	logger.Info().Int("entries", len(entries)).Str("file", filePath).Msg("Knowledge base imported")
	return len(entries), nil
}

// ParseKnowledgeTable parses the markdown table format accepted by
// IngestKnowledgeFromFile. Malformed rows are skipped and logged.
func ParseKnowledgeTable(content string, logger zerolog.Logger) ([]KnowledgeEntry, error) {
	var entries []KnowledgeEntry
	headerSeen := false

	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, "|") || !strings.HasSuffix(trimmed, "|") {
			logger.Debug().Int("line", i+1).Msg("Skipping line not matching table row format")
			continue
		}

		cells := splitRow(trimmed)
		if !headerSeen {
			if !isKnowledgeHeader(cells) {
				return nil, fmt.Errorf("line %d: expected header %s", i+1, strings.Join(knowledgeColumns, " | "))
			}
			headerSeen = true
			continue
		}
		if isSeparatorRow(cells) {
			continue
		}
		if len(cells) != len(knowledgeColumns) {
			logger.Warn().Int("line", i+1).Int("cells", len(cells)).Msg("Skipping malformed table row")
			continue
		}

		entry := KnowledgeEntry{
			Key:         cells[0],
			Kind:        strings.ToLower(cells[1]),
			Title:       cells[2],
			Description: cells[3],
			Items:       splitList(cells[4]),
			SeekCare:    cells[5],
			Remedies:    splitList(cells[6]),
		}
		if entry.Key == "" || entry.Title == "" || entry.SeekCare == "" {
			logger.Warn().Int("line", i+1).Msg("Skipping row without key, title or seek_care")
			continue
		}
		switch entry.Kind {
		case KindSymptom, KindProcedure, KindSpecialty:
		default:
			logger.Warn().Int("line", i+1).Str("kind", entry.Kind).Msg("Skipping row with unknown kind")
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func splitRow(row string) []string {
	parts := strings.Split(strings.Trim(row, "|"), "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

func isKnowledgeHeader(cells []string) bool {
	if len(cells) != len(knowledgeColumns) {
		return false
	}
	for i, c := range cells {
		if strings.ToLower(c) != knowledgeColumns[i] {
			return false
		}
	}
	return true
}

func isSeparatorRow(cells []string) bool {
	for _, c := range cells {
		if strings.Trim(c, "-: ") != "" {
			return false
		}
	}
	return true
}

func splitList(cell string) []string {
	var out []string
	for _, item := range strings.Split(cell, ";") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
