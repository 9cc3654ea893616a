package models

import "time"

// Session is the single current-user slot. The embedded User is a snapshot
// taken at login, not a live reference into the user collection.
type Session struct {
	User         User      `json:"user"`
	LoginTime    time.Time `json:"loginTime"`
	LastActivity time.Time `json:"lastActivity"`
	SessionID    string    `json:"sessionId"`
}

// SessionFlag is the lightweight logged-in marker kept beside the session
// record so callers can answer "is anyone logged in" without decoding the
// full session. It carries the signed token minted at login.
//
// The flag says nothing about activity-based expiry; combine IsLoggedIn
// checks with Store.IsSessionExpired.
type SessionFlag struct {
	IsLoggedIn   bool      `json:"isLoggedIn"`
	SessionStart time.Time `json:"sessionStart"`
	SessionID    string    `json:"sessionId"`
	Token        string    `json:"token"`
}
