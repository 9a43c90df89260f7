// Package registry persists the message-format definitions announced during
// writer sessions, so operators can answer "what schema does message id N
// have in this log" without re-reading the log itself.
package registry

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/skyforge/sdlog/pkg/codec"
)

const formatKeyPrefix = "fmt/"

// FormatRecord mirrors the contents of one FMT record: the message id, the
// type name, the format string, the column names and the total record length
// including the 3-byte header.
type FormatRecord struct {
	ID      uint8  `json:"id"`
	Name    string `json:"name"`
	Format  string `json:"format"`
	Columns string `json:"columns"`
	Length  uint16 `json:"length"`
}

// Registry is a pebble-backed store of format definitions keyed by writer
// session.
type Registry struct {
	db *pebble.DB
}

// Open opens (or creates) the registry database at path.
func Open(path string) (*Registry, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open format registry: %w", err)
	}
	return &Registry{db: db}, nil
}

// Close closes the underlying database.
func (r *Registry) Close() error {
	return r.db.Close()
}

// NewSession mints a fresh session id.
func (r *Registry) NewSession() ksuid.KSUID {
	return ksuid.New()
}

// PutFormat stores the definition of format under the given session.
func (r *Registry) PutFormat(session ksuid.KSUID, format *codec.MessageFormat) error {
	record := FormatRecord{
		ID:      format.ID(),
		Name:    format.Type(),
		Format:  format.FormatString(),
		Columns: format.ColumnNames(","),
		Length:  format.Size() + 3,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal format record: %w", err)
	}

	key := formatKey(session, format.ID())
	if err := r.db.Set(key, data, pebble.NoSync); err != nil {
		return fmt.Errorf("failed to store format record: %w", err)
	}
	return nil
}

// Formats lists the format definitions recorded for one session, in message
// id order.
func (r *Registry) Formats(session ksuid.KSUID) ([]FormatRecord, error) {
	prefix := []byte(formatKeyPrefix + session.String() + "/")

	iter, err := r.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: upperBound(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate format registry: %w", err)
	}
	defer iter.Close()

	var records []FormatRecord
	for iter.First(); iter.Valid(); iter.Next() {
		var record FormatRecord
		if err := json.Unmarshal(iter.Value(), &record); err != nil {
			return nil, fmt.Errorf("corrupt format record at %q: %w", iter.Key(), err)
		}
		records = append(records, record)
	}
	return records, iter.Error()
}

// Sessions lists the distinct session ids present in the registry.
func (r *Registry) Sessions() ([]string, error) {
	prefix := []byte(formatKeyPrefix)

	iter, err := r.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: upperBound(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate format registry: %w", err)
	}
	defer iter.Close()

	var sessions []string
	seen := make(map[string]bool)
	for iter.First(); iter.Valid(); iter.Next() {
		key := strings.TrimPrefix(string(iter.Key()), formatKeyPrefix)
		session, _, ok := strings.Cut(key, "/")
		if !ok || seen[session] {
			continue
		}
		seen[session] = true
		sessions = append(sessions, session)
	}
	return sessions, iter.Error()
}

// formatKey builds "fmt/<session>/<id>" with the id zero-padded so that
// lexicographic iteration yields message id order.
func formatKey(session ksuid.KSUID, id uint8) []byte {
	return []byte(fmt.Sprintf("%s%s/%03d", formatKeyPrefix, session.String(), id))
}

func upperBound(prefix []byte) []byte {
	bound := make([]byte, len(prefix))
	copy(bound, prefix)
	for i := len(bound) - 1; i >= 0; i-- {
		if bound[i] < 0xFF {
			bound[i]++
			return bound[:i+1]
		}
	}
	return nil
}
