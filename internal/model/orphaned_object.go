package model

import "time"

// OrphanedObject records a blob left in external storage after its metadata
// row was removed, pending best-effort cleanup.
type OrphanedObject struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	StorageKey string    `gorm:"column:storage_key;size:512;not null"`
	Reason     string    `gorm:"column:reason;size:120;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (OrphanedObject) TableName() string {
	return "orphaned_objects"
}
