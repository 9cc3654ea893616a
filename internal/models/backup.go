package models

import (
	"encoding/json"
	"time"
)

// BackupVersion is stamped on every backup document.
const BackupVersion = "1.0"

// BackupDocument is a full point-in-time snapshot of every owned storage
// key's decoded value. There is no incremental form.
type BackupDocument struct {
	Version   string                     `json:"version"`
	CreatedAt time.Time                  `json:"createdAt"`
	Data      map[string]json.RawMessage `json:"data"`
}
