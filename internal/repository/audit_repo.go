package repository

import (
	"agrimart-api/internal/model"

	"gorm.io/gorm"
)

// AuditLogRepository is deliberately append-only: records can be created and
// listed, never changed or removed.
type AuditLogRepository interface {
	Create(entry *model.AuditLog) error
	FindAll() ([]model.AuditLog, error)
}

type auditLogRepo struct {
	db *gorm.DB
}

func NewAuditLogRepo(db *gorm.DB) AuditLogRepository {
	return &auditLogRepo{db}
}

func (r *auditLogRepo) Create(entry *model.AuditLog) error {
	return r.db.Create(entry).Error
}

func (r *auditLogRepo) FindAll() ([]model.AuditLog, error) {
	var logs []model.AuditLog
	err := r.db.Preload("Viewer").Preload("TargetUser").
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}
