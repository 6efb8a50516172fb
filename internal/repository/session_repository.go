package repository

import (
	"ai-agent-platform/backend/internal/models"

	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(session *models.ChatSession) error
	GetByID(id uint) (*models.ChatSession, error)
	ListByAgent(agentID uint, offset, limit int) ([]models.ChatSession, int64, error)
}

type GormSessionRepository struct {
	db *gorm.DB
}

func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

func (r *GormSessionRepository) Create(session *models.ChatSession) error {
	return r.db.Create(session).Error
}

func (r *GormSessionRepository) GetByID(id uint) (*models.ChatSession, error) {
	var session models.ChatSession
	if err := r.db.First(&session, id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *GormSessionRepository) ListByAgent(agentID uint, offset, limit int) ([]models.ChatSession, int64, error) {
	var total int64
	if err := r.db.Model(&models.ChatSession{}).Where("agent_id = ?", agentID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sessions []models.ChatSession
	err := r.db.Where("agent_id = ?", agentID).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&sessions).Error
	if sessions == nil {
		sessions = []models.ChatSession{}
	}
	return sessions, total, err
}
