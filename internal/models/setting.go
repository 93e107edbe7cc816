package models

import "time"

// Setting is a key/value row for runtime platform settings (SMTP host, site
// name). Read on demand per request, never cached in process.
type Setting struct {
	Key       string    `gorm:"type:varchar(100);primaryKey" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
