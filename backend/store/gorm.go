package store

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"learnio/backend/models"
)

// GormStore implements DocumentStore over a single documents table.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) GetDocument(ctx context.Context, collection, id string) (map[string]interface{}, error) {
	var doc models.Document
	err := s.DB.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decodeData(doc.Data)
}

func (s *GormStore) GetCollection(ctx context.Context, collection string) ([]Doc, error) {
	var docs []models.Document
	err := s.DB.WithContext(ctx).
		Where("collection = ?", collection).
		Order("id ASC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}

	out := make([]Doc, 0, len(docs))
	for _, doc := range docs {
		data, err := decodeData(doc.Data)
		if err != nil {
			return nil, err
		}
		out = append(out, Doc{ID: doc.DocID, Data: data})
	}
	return out, nil
}

func (s *GormStore) SetDocument(ctx context.Context, collection, id string, data map[string]interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}

	doc := models.Document{Collection: collection, DocID: id, Data: raw}
	return s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "doc_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data"}),
		}).
		Create(&doc).Error
}

func (s *GormStore) UpdateDocument(ctx context.Context, collection, id string, patch map[string]interface{}) error {
	var doc models.Document
	err := s.DB.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	data, err := decodeData(doc.Data)
	if err != nil {
		return err
	}
	for key, value := range patch {
		data[key] = value
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).
		Model(&models.Document{}).
		Where("collection = ? AND doc_id = ?", collection, id).
		Update("data", raw).Error
}

func decodeData(raw []byte) (map[string]interface{}, error) {
	data := map[string]interface{}{}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}
