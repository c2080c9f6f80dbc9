// Package ingest replaces a source's backing resource with uploaded content.
// It is the normalization boundary: rows are parsed from JSON or CSV, coerced
// and validated against the source's schema, and only the closed set of typed
// record variants is ever written to disk.
package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/voxdata/connector/internal/domain"
	"github.com/voxdata/connector/internal/store"
)

// Ingestor writes validated uploads into the data directory.
type Ingestor struct {
	dir    string
	logger *slog.Logger
}

func New(dir string, logger *slog.Logger) *Ingestor {
	return &Ingestor{dir: dir, logger: logger}
}

// Ingest parses content (CSV when filename ends in .csv, JSON otherwise),
// validates every row against the source's schema, and atomically replaces
// the backing file. The previous file stays intact on any failure. Returns
// the number of records written.
func (in *Ingestor) Ingest(ctx context.Context, source, filename string, content []byte) (int, error) {
	name, ok := store.SourceFiles[source]
	if !ok {
		return 0, domain.ErrInvalidRequest("source must be crm, support, or analytics").WithParam("source")
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var (
		rows []map[string]any
		err  error
	)
	if strings.HasSuffix(strings.ToLower(filename), ".csv") {
		rows, err = parseCSV(content)
	} else {
		rows, err = parseJSON(content)
	}
	if err != nil {
		return 0, err
	}

	records, err := normalize(source, rows)
	if err != nil {
		return 0, err
	}

	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return 0, domain.ErrServer("encoding records: %v", err)
	}
	if err := writeAtomic(filepath.Join(in.dir, name), out); err != nil {
		return 0, err
	}

	in.logger.Info("replaced backing resource",
		slog.String("source", source),
		slog.Int("records", len(rows)),
	)
	return len(rows), nil
}

func parseJSON(content []byte) ([]map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()

	var rows []map[string]any
	if err := dec.Decode(&rows); err == nil {
		return rows, nil
	}

	// A single object counts as a one-row upload.
	dec = json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()
	var single map[string]any
	if err := dec.Decode(&single); err != nil {
		return nil, domain.ErrInvalidRequest("invalid JSON: %v", err)
	}
	return []map[string]any{single}, nil
}

func parseCSV(content []byte) ([]map[string]any, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	header, err := reader.Read()
	if err != nil {
		return nil, domain.ErrInvalidRequest("invalid CSV: %v", err)
	}

	var rows []map[string]any
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, domain.ErrInvalidRequest("invalid CSV: %v", err)
		}
		row := make(map[string]any, len(header))
		for i, col := range header {
			if i < len(fields) {
				row[col] = fields[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// integerFields lists the columns coerced from CSV strings before validation.
var integerFields = map[string][]string{
	"crm":       {"customer_id"},
	"support":   {"ticket_id", "customer_id"},
	"analytics": {"value"},
}

// normalize coerces rows, checks them against the source schema, and decodes
// them into the typed variant for the source. Row numbering in errors is
// 1-based to match what an uploader sees in a spreadsheet.
func normalize(source string, rows []map[string]any) (any, error) {
	schema := gojsonschema.NewGoLoader(schemaFor(source))

	for i, row := range rows {
		for _, field := range integerFields[source] {
			coerceInt(row, field)
		}

		result, err := gojsonschema.Validate(schema, gojsonschema.NewGoLoader(row))
		if err != nil {
			return nil, domain.ErrServer("schema validation: %v", err)
		}
		if !result.Valid() {
			var msgs []string
			for _, desc := range result.Errors() {
				msgs = append(msgs, desc.String())
			}
			return nil, domain.ErrInvalidRequest("row %d: %s", i+1, strings.Join(msgs, "; "))
		}
	}

	raw, err := json.Marshal(rows)
	if err != nil {
		return nil, domain.ErrServer("encoding rows: %v", err)
	}

	var records any
	switch source {
	case "crm":
		records = &[]domain.Customer{}
	case "support":
		records = &[]domain.Ticket{}
	default:
		records = &[]domain.AnalyticsPoint{}
	}
	if err := json.Unmarshal(raw, records); err != nil {
		return nil, domain.ErrInvalidRequest("rows do not match the %s record shape: %v", source, err)
	}
	return records, nil
}

func coerceInt(row map[string]any, field string) {
	s, ok := row[field].(string)
	if !ok {
		return
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		row[field] = n
	}
}

// writeAtomic replaces path via temp-file-then-rename so concurrent loads
// never observe a partially written resource.
func writeAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.ErrServer("creating data dir: %v", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return domain.ErrServer("creating temp file: %v", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return domain.ErrServer("writing temp file: %v", err)
	}
	if err := tmp.Close(); err != nil {
		return domain.ErrServer("closing temp file: %v", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return domain.ErrServer("replacing %s: %v", filepath.Base(path), err)
	}
	return nil
}

func schemaFor(source string) map[string]any {
	switch source {
	case "crm":
		return map[string]any{
			"type":     "object",
			"required": []string{"customer_id", "name", "email", "created_at", "status"},
			"properties": map[string]any{
				"customer_id": map[string]any{"type": "integer"},
				"name":        map[string]any{"type": "string"},
				"email":       map[string]any{"type": "string"},
				"created_at":  map[string]any{"type": "string", "format": "date-time"},
				"status":      map[string]any{"type": "string", "enum": []string{"active", "inactive"}},
			},
		}
	case "support":
		return map[string]any{
			"type":     "object",
			"required": []string{"ticket_id", "customer_id", "subject", "priority", "created_at", "status"},
			"properties": map[string]any{
				"ticket_id":   map[string]any{"type": "integer"},
				"customer_id": map[string]any{"type": "integer"},
				"subject":     map[string]any{"type": "string"},
				"priority":    map[string]any{"type": "string", "enum": []string{"low", "medium", "high"}},
				"created_at":  map[string]any{"type": "string", "format": "date-time"},
				"status":      map[string]any{"type": "string", "enum": []string{"open", "closed"}},
			},
		}
	default:
		return map[string]any{
			"type":     "object",
			"required": []string{"metric", "date", "value"},
			"properties": map[string]any{
				"metric": map[string]any{"type": "string"},
				"date":   map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
				"value":  map[string]any{"type": "integer"},
			},
		}
	}
}
