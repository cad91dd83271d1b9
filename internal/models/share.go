package models

import "time"

// ShareArtifact is a rendered screen published under a share link.
// Stored in Postgres when a DATABASE_URL is configured, otherwise held in
// the in-memory fallback store. Canvas state itself is never persisted.
type ShareArtifact struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	ScreenName string    `json:"screen_name"`
	FileName   string    `json:"file_name"`
	PNG        []byte    `json:"-" gorm:"type:bytea"`
	CreatedAt  time.Time `json:"created_at"`
}
