package models

import "gorm.io/datatypes"

// Document is a single schemaless record in the backing store. Every entity
// the platform persists (courses, lecture sub-collections, user profiles)
// lives in this one table, addressed by collection path and document id.
// Collection reads follow insertion order (the serial primary key), which the
// catalog aggregation relies on for its last-seen-wins dedup.
type Document struct {
	ID         uint           `gorm:"primarykey" json:"-"`
	Collection string         `gorm:"size:255;not null;uniqueIndex:idx_collection_doc" json:"collection"`
	DocID      string         `gorm:"size:255;not null;uniqueIndex:idx_collection_doc" json:"doc_id"`
	Data       datatypes.JSON `json:"data"`
}
