package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/andrewpaige1/tcm-study-api/models"
)

var (
	ErrUnknownCollection = errors.New("unknown collection")
	ErrNotFound          = errors.New("record not found")
	ErrInvalidDocument   = errors.New("document must be a JSON object")
)

// Collections lists every collection served by the data API.
var Collections = []string{
	"extraformulas",
	"nccaomformulas",
	"caleandnccaomformulas",
	"nccaomherbs",
	"caleandnccaomherbs",
	"caleherbs",
	"extraherbs",
	"formulacategorylist",
	"herbcategorylist",
	"herbgroupslist",
}

func ValidCollection(name string) bool {
	for _, c := range Collections {
		if c == name {
			return true
		}
	}
	return false
}

// CollectionStore keeps schemaless documents grouped by collection name.
type CollectionStore struct {
	DB *gorm.DB
}

func NewCollectionStore(db *gorm.DB) *CollectionStore {
	return &CollectionStore{DB: db}
}

func (s *CollectionStore) List(ctx context.Context, collection string) ([]models.Record, error) {
	if !ValidCollection(collection) {
		return nil, ErrUnknownCollection
	}
	var recs []models.Record
	if err := s.DB.WithContext(ctx).Where("collection = ?", collection).Order("id asc").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return recs, nil
}

func (s *CollectionStore) Get(ctx context.Context, collection, id string) (models.Record, error) {
	if !ValidCollection(collection) {
		return models.Record{}, ErrUnknownCollection
	}
	var rec models.Record
	err := s.DB.WithContext(ctx).Where("collection = ? AND public_id = ?", collection, id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Record{}, ErrNotFound
	}
	if err != nil {
		return models.Record{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return rec, nil
}

func (s *CollectionStore) Create(ctx context.Context, collection string, doc json.RawMessage) (models.Record, error) {
	if !ValidCollection(collection) {
		return models.Record{}, ErrUnknownCollection
	}
	fields, err := decodeObject(doc)
	if err != nil {
		return models.Record{}, err
	}
	delete(fields, "_id")
	data, err := json.Marshal(fields)
	if err != nil {
		return models.Record{}, err
	}
	publicID, err := gonanoid.New()
	if err != nil {
		return models.Record{}, fmt.Errorf("generate id: %w", err)
	}
	rec := models.Record{
		PublicID:   publicID,
		Collection: collection,
		Data:       datatypes.JSON(data),
	}
	if err := s.DB.WithContext(ctx).Create(&rec).Error; err != nil {
		return models.Record{}, fmt.Errorf("create %s: %w", collection, err)
	}
	return rec, nil
}

// Patch shallow-merges patch into the stored document. A null value removes
// the field.
func (s *CollectionStore) Patch(ctx context.Context, collection, id string, patch json.RawMessage) (models.Record, error) {
	changes, err := decodeObject(patch)
	if err != nil {
		return models.Record{}, err
	}
	rec, err := s.Get(ctx, collection, id)
	if err != nil {
		return models.Record{}, err
	}
	fields, err := decodeObject(json.RawMessage(rec.Data))
	if err != nil {
		return models.Record{}, err
	}
	for k, v := range changes {
		if k == "_id" {
			continue
		}
		if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			delete(fields, k)
			continue
		}
		fields[k] = v
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return models.Record{}, err
	}
	rec.Data = datatypes.JSON(data)
	if err := s.DB.WithContext(ctx).Model(&rec).Update("data", rec.Data).Error; err != nil {
		return models.Record{}, fmt.Errorf("patch %s/%s: %w", collection, id, err)
	}
	return rec, nil
}

func (s *CollectionStore) Delete(ctx context.Context, collection, id string) error {
	if !ValidCollection(collection) {
		return ErrUnknownCollection
	}
	result := s.DB.WithContext(ctx).Where("collection = ? AND public_id = ?", collection, id).Delete(&models.Record{})
	if result.Error != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceAll swaps the whole content of a collection in one transaction.
// Used by the import command.
func (s *CollectionStore) ReplaceAll(ctx context.Context, collection string, docs []json.RawMessage) (int, error) {
	if !ValidCollection(collection) {
		return 0, ErrUnknownCollection
	}
	recs := make([]models.Record, 0, len(docs))
	for i, doc := range docs {
		fields, err := decodeObject(doc)
		if err != nil {
			return 0, fmt.Errorf("document %d: %w", i, err)
		}
		delete(fields, "_id")
		data, err := json.Marshal(fields)
		if err != nil {
			return 0, err
		}
		publicID, err := gonanoid.New()
		if err != nil {
			return 0, err
		}
		recs = append(recs, models.Record{PublicID: publicID, Collection: collection, Data: datatypes.JSON(data)})
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("collection = ?", collection).Delete(&models.Record{}).Error; err != nil {
			return err
		}
		if len(recs) == 0 {
			return nil
		}
		return tx.CreateInBatches(recs, 200).Error
	})
	if err != nil {
		return 0, fmt.Errorf("replace %s: %w", collection, err)
	}
	return len(recs), nil
}

// Collection returns every document of name with its public id under "_id".
// It lets the catalog loader read straight from the database.
func (s *CollectionStore) Collection(ctx context.Context, name string) ([]json.RawMessage, error) {
	recs, err := s.List(ctx, name)
	if err != nil {
		return nil, err
	}
	docs := make([]json.RawMessage, 0, len(recs))
	for _, rec := range recs {
		doc, err := Document(rec)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Document renders a record the way the data API serves it.
func Document(rec models.Record) (json.RawMessage, error) {
	fields, err := decodeObject(json.RawMessage(rec.Data))
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", rec.PublicID, err)
	}
	id, _ := json.Marshal(rec.PublicID)
	fields["_id"] = id
	return json.Marshal(fields)
}

func decodeObject(doc json.RawMessage) (map[string]json.RawMessage, error) {
	doc = bytes.TrimSpace(doc)
	if len(doc) == 0 || doc[0] != '{' {
		return nil, ErrInvalidDocument
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	return fields, nil
}
