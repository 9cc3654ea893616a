package models

// Settings is the seeded system-settings record.
type Settings struct {
	Theme                 string `json:"theme"`
	Language              string `json:"language"`
	PageSize              int    `json:"pageSize"`
	SessionTimeoutMinutes int    `json:"sessionTimeoutMinutes"`
}

// DefaultSettings is what a fresh store is seeded with.
func DefaultSettings() Settings {
	return Settings{
		Theme:                 "light",
		Language:              "en",
		PageSize:              10,
		SessionTimeoutMinutes: 30,
	}
}

// Stats is the aggregate returned by the user repository.
type Stats struct {
	Total               int `json:"total"`
	Active              int `json:"active"`
	Inactive            int `json:"inactive"`
	Admins              int `json:"admins"`
	RegularUsers        int `json:"regularUsers"`
	RecentRegistrations int `json:"recentRegistrations"`
}
