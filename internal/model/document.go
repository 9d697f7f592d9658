package model

import "time"

// Document is one entry in the entity store: a JSON payload addressed by
// (collection, key). Everything the mirror sees lives in this table.
type Document struct {
	Collection string `gorm:"primaryKey;size:64"`
	Key        string `gorm:"primaryKey;size:256"`
	Data       []byte `gorm:"not null"`
	UpdatedAt  time.Time
}
