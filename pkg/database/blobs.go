package database

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlobStore persists opaque state documents keyed by string constants.
// It satisfies the Persister interface of the store and audit packages.
type BlobStore struct {
	DB *gorm.DB
}

// Save upserts one blob.
func (b *BlobStore) Save(key string, data []byte) error {
	return b.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&Blob{Key: key, Data: data}).Error
}

// Load fetches one blob. A missing key returns (nil, nil) so callers can
// treat first launch and empty state the same way.
func (b *BlobStore) Load(key string) ([]byte, error) {
	var blob Blob
	if err := b.DB.First(&blob, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return blob.Data, nil
}
