// Package store loads homogeneous record collections from the flat-file
// backing resources, one JSON file per source.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/voxdata/connector/internal/domain"
)

// SourceFiles maps recognized source names to their backing file. The upload
// path writes these same files; the store re-reads them on every call.
var SourceFiles = map[string]string{
	"crm":       "customers.json",
	"support":   "support_tickets.json",
	"analytics": "analytics.json",
}

// Recognized reports whether source names a known dataset.
func Recognized(source string) bool {
	_, ok := SourceFiles[source]
	return ok
}

// FileStore reads record collections from a data directory. It holds no
// mutable state and is safe for concurrent use.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Load reads and decodes the entire backing resource for source. It returns
// ErrorTypeNotFound when the file is absent and ErrorTypeMalformedData when
// the content cannot be decoded into the source's record shape. Decoding is
// all-or-nothing: one bad row fails the whole load.
func (s *FileStore) Load(ctx context.Context, source string) ([]domain.Record, error) {
	name, ok := SourceFiles[source]
	if !ok {
		return nil, domain.ErrInvalidRequest("unrecognized source %q", source).WithParam("source")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrResourceNotFound("no backing resource for source %q", source)
		}
		return nil, domain.ErrServer("reading %s: %v", name, err)
	}

	switch source {
	case "crm":
		return decode[domain.Customer](source, raw)
	case "support":
		return decode[domain.Ticket](source, raw)
	default:
		return decode[domain.AnalyticsPoint](source, raw)
	}
}

func decode[T domain.Record](source string, raw []byte) ([]domain.Record, error) {
	var rows []T
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, domain.ErrMalformedData("source %q: %v", source, err)
	}
	records := make([]domain.Record, len(rows))
	for i, row := range rows {
		records[i] = row
	}
	return records, nil
}
