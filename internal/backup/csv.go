package backup

import (
	"strconv"
	"strings"
	"time"

	"github.com/udx-labs/userdesk/internal/models"
)

// csvColumns is the header row; it mirrors the user record's wire field
// names. Password hashes are never exported.
var csvColumns = []string{
	"id", "name", "email", "role", "status",
	"registeredDate", "lastLogin", "notes", "createdAt", "updatedAt",
}

// UsersToCSV renders the collection as CSV: a header line plus one line per
// user, every value double-quoted with embedded quotes doubled. An empty
// collection yields the empty string, not a lone header.
func UsersToCSV(users []models.User) string {
	if len(users) == 0 {
		return ""
	}

	var b strings.Builder
	writeRow(&b, csvColumns)

	for _, u := range users {
		lastLogin := ""
		if u.LastLogin != nil {
			lastLogin = u.LastLogin.Format(time.RFC3339)
		}
		writeRow(&b, []string{
			strconv.Itoa(u.ID),
			u.Name,
			u.Email,
			string(u.Role),
			string(u.Status),
			u.RegisteredDate.String(),
			lastLogin,
			u.Notes,
			u.CreatedAt.Format(time.RFC3339),
			u.UpdatedAt.Format(time.RFC3339),
		})
	}

	return b.String()
}

func writeRow(b *strings.Builder, values []string) {
	for i, v := range values {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(v, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
