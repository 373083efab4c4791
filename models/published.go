package models

import "time"

// Published is embedded by every content model. Rows with IsPublished
// unset are hidden from public listings.
type Published struct {
	IsPublished bool      `json:"is_published" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
}

// PublishedOrDefault resolves an optional publish flag from a request.
// Content is published unless the client says otherwise.
func PublishedOrDefault(flag *bool) bool {
	if flag == nil {
		return true
	}
	return *flag
}
