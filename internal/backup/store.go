// Package backup snapshots the whole namespace into a single document and
// restores it, and renders the user collection for export.
package backup

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/udx-labs/userdesk/internal/kvstore"
	"github.com/udx-labs/userdesk/internal/logging"
	"github.com/udx-labs/userdesk/internal/models"
)

// Formats accepted by Export and Import.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

type Store struct {
	kv  *kvstore.Store
	log logging.Logger
	now func() time.Time
}

func NewStore(kv *kvstore.Store, log logging.Logger) *Store {
	return &Store{kv: kv, log: log, now: time.Now}
}

// CreateBackup snapshots every currently present owned key except the
// reserved backup key, persists the document under that key, and returns
// it. Backups are always full snapshots; there is no incremental form.
func (s *Store) CreateBackup(ctx context.Context) models.BackupDocument {
	doc := models.BackupDocument{
		Version:   models.BackupVersion,
		CreatedAt: s.now(),
		Data:      map[string]json.RawMessage{},
	}

	for _, key := range s.kv.Keys(ctx) {
		if key == kvstore.KeyBackup {
			continue
		}
		if raw, ok := s.kv.GetRaw(ctx, key); ok {
			doc.Data[key] = raw
		}
	}

	if !s.kv.Set(ctx, kvstore.KeyBackup, doc) {
		s.log.Warn(ctx, "backup document not persisted", "keys", len(doc.Data))
	}
	return doc
}

// RestoreBackup overwrites every key in doc's data map except the reserved
// backup key. With a nil doc it falls back to the last stored backup and
// returns false when none exists. Restoration is not transactional: a
// failure partway leaves earlier keys already overwritten.
func (s *Store) RestoreBackup(ctx context.Context, doc *models.BackupDocument) bool {
	if doc == nil {
		var stored models.BackupDocument
		if !s.kv.Get(ctx, kvstore.KeyBackup, &stored) {
			s.log.Warn(ctx, "no backup data to restore")
			return false
		}
		doc = &stored
	}
	if doc.Data == nil {
		s.log.Warn(ctx, "backup document carries no data")
		return false
	}

	for key, raw := range doc.Data {
		if key == kvstore.KeyBackup {
			// self-reference guard
			continue
		}
		s.kv.SetRaw(ctx, key, raw)
	}

	s.log.Info(ctx, "backup restored", "keys", len(doc.Data), "createdAt", doc.CreatedAt)
	return true
}

// Export renders the data in the requested format: "json" yields the
// pretty-printed backup document (taking a fresh snapshot), "csv" only the
// user collection. Unknown formats yield "".
func (s *Store) Export(ctx context.Context, format string) string {
	switch strings.ToLower(format) {
	case FormatJSON:
		doc := s.CreateBackup(ctx)
		b, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			s.log.Warn(ctx, "backup document not serializable", "error", err)
			return ""
		}
		return string(b)
	case FormatCSV:
		var users []models.User
		s.kv.Get(ctx, kvstore.KeyUsers, &users)
		return UsersToCSV(users)
	default:
		s.log.Warn(ctx, "unknown export format", "format", format)
		return ""
	}
}

// Import parses text in the given format and restores it. Only "json" is
// implemented; everything else returns false.
func (s *Store) Import(ctx context.Context, text, format string) bool {
	if strings.ToLower(format) != FormatJSON {
		s.log.Warn(ctx, "unsupported import format", "format", format)
		return false
	}

	var doc models.BackupDocument
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		s.log.Warn(ctx, "import data not parseable", "error", err)
		return false
	}
	return s.RestoreBackup(ctx, &doc)
}
