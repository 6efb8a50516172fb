package repository

import (
	"ai-agent-platform/backend/internal/models"

	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(message *models.Message) error
	GetByID(id uint) (*models.Message, error)
	ListBySession(sessionID uint) ([]models.Message, error)
}

type GormMessageRepository struct {
	db *gorm.DB
}

func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

func (r *GormMessageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *GormMessageRepository) GetByID(id uint) (*models.Message, error) {
	var message models.Message
	if err := r.db.Preload("AudioMetadata").First(&message, id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// ListBySession returns the full session history oldest-first. ID breaks
// creation-time ties so two writes in the same instant keep a stable order.
func (r *GormMessageRepository) ListBySession(sessionID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Preload("AudioMetadata").
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if messages == nil {
		messages = []models.Message{}
	}
	return messages, err
}
