package repository

import (
	"time"

	"go-barcode-generator/internal/models"
)

// HistoryStore records generated symbols. The HTTP and CLI layers accept
// it as an optional collaborator.
type HistoryStore interface {
	Record(records ...*models.GenerationRecord) error
	Recent(limit int) ([]models.GenerationRecord, error)
	ByProject(project string, limit int) ([]models.GenerationRecord, error)
}

type HistoryRepository struct {
	db *Database
}

func NewHistoryRepository(db *Database) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Record inserts records in one batch, stamping CreatedAt when unset.
func (r *HistoryRepository) Record(records ...*models.GenerationRecord) error {
	if len(records) == 0 {
		return nil
	}
	now := time.Now()
	for _, rec := range records {
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
	}
	return r.db.Create(records).Error
}

// Recent returns the newest records first.
func (r *HistoryRepository) Recent(limit int) ([]models.GenerationRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	var records []models.GenerationRecord
	err := r.db.Order("created_at DESC, id DESC").Limit(limit).Find(&records).Error
	return records, err
}

// ByProject returns the records generated for one project, newest first.
func (r *HistoryRepository) ByProject(project string, limit int) ([]models.GenerationRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	var records []models.GenerationRecord
	err := r.db.Where("project = ?", project).Order("created_at DESC, id DESC").Limit(limit).Find(&records).Error
	return records, err
}
