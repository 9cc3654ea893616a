package kvstore

import (
	"context"
	"fmt"
)

// Usage describes how much of the medium this namespace occupies.
type Usage struct {
	TotalBytes int64            `json:"totalBytes"`
	PerKey     map[string]int64 `json:"perKey"`
	Formatted  string           `json:"formattedSize"`
}

// Usage measures the encoded size of every owned key. Key names count
// toward the total, as they occupy the medium too.
func (s *Store) Usage(ctx context.Context) Usage {
	u := Usage{PerKey: map[string]int64{}}

	rows, err := s.q.QueryContext(ctx, `
		SELECT key, length(value) FROM kv_entries WHERE substr(key, 1, ?) = ?
	`, len(s.prefix), s.prefix)
	if err != nil {
		s.log.Warn(ctx, "storage usage query failed", "error", err)
		u.Formatted = formatBytes(0)
		return u
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var size int64
		if err := rows.Scan(&key, &size); err != nil {
			s.log.Warn(ctx, "storage usage scan failed", "error", err)
			break
		}
		short := key[len(s.prefix):]
		total := size + int64(len(key))
		u.PerKey[short] = total
		u.TotalBytes += total
	}
	if err := rows.Err(); err != nil {
		s.log.Warn(ctx, "storage usage iteration failed", "error", err)
	}

	u.Formatted = formatBytes(u.TotalBytes)
	return u
}

func formatBytes(n int64) string {
	const unit = 1024
	switch {
	case n >= unit*unit:
		return fmt.Sprintf("%.2f MB", float64(n)/(unit*unit))
	case n >= unit:
		return fmt.Sprintf("%.2f KB", float64(n)/unit)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
