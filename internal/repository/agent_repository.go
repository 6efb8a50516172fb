package repository

import (
	"ai-agent-platform/backend/internal/models"

	"gorm.io/gorm"
)

type AgentRepository interface {
	Create(agent *models.Agent) error
	GetByID(id uint) (*models.Agent, error)
	List(offset, limit int) ([]models.Agent, int64, error)
	ListActive() ([]models.Agent, error)
	Save(agent *models.Agent) error
	Delete(id uint) (bool, error)
}

type GormAgentRepository struct {
	db *gorm.DB
}

func NewGormAgentRepository(db *gorm.DB) *GormAgentRepository {
	return &GormAgentRepository{db: db}
}

func (r *GormAgentRepository) Create(agent *models.Agent) error {
	return r.db.Create(agent).Error
}

func (r *GormAgentRepository) GetByID(id uint) (*models.Agent, error) {
	var agent models.Agent
	if err := r.db.First(&agent, id).Error; err != nil {
		return nil, err
	}
	return &agent, nil
}

func (r *GormAgentRepository) List(offset, limit int) ([]models.Agent, int64, error) {
	var total int64
	if err := r.db.Model(&models.Agent{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var agents []models.Agent
	err := r.db.Order("id ASC").Offset(offset).Limit(limit).Find(&agents).Error
	if agents == nil {
		agents = []models.Agent{}
	}
	return agents, total, err
}

func (r *GormAgentRepository) ListActive() ([]models.Agent, error) {
	var agents []models.Agent
	err := r.db.Where("is_active = ?", true).Order("id ASC").Find(&agents).Error
	if agents == nil {
		agents = []models.Agent{}
	}
	return agents, err
}

func (r *GormAgentRepository) Save(agent *models.Agent) error {
	return r.db.Save(agent).Error
}

// Delete removes an agent and reports whether a row existed. Sessions owned
// by the agent are left in place; the schema does not cascade agent deletes.
func (r *GormAgentRepository) Delete(id uint) (bool, error) {
	res := r.db.Delete(&models.Agent{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
