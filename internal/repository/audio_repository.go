package repository

import (
	"ai-agent-platform/backend/internal/models"

	"gorm.io/gorm"
)

type AudioMetadataRepository interface {
	Create(meta *models.AudioMetadata) error
	GetByMessageID(messageID uint) (*models.AudioMetadata, error)
}

type GormAudioMetadataRepository struct {
	db *gorm.DB
}

func NewGormAudioMetadataRepository(db *gorm.DB) *GormAudioMetadataRepository {
	return &GormAudioMetadataRepository{db: db}
}

func (r *GormAudioMetadataRepository) Create(meta *models.AudioMetadata) error {
	return r.db.Create(meta).Error
}

func (r *GormAudioMetadataRepository) GetByMessageID(messageID uint) (*models.AudioMetadata, error) {
	var meta models.AudioMetadata
	if err := r.db.Where("message_id = ?", messageID).First(&meta).Error; err != nil {
		return nil, err
	}
	return &meta, nil
}
