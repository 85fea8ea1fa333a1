package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/obaptiste/dashboard-api/internal/domain/report"
)

// GormRevenueRepository implements RevenueRepository using GORM
type GormRevenueRepository struct {
	db *gorm.DB
}

// NewGormRevenueRepository creates a new GormRevenueRepository
func NewGormRevenueRepository(db *gorm.DB) *GormRevenueRepository {
	return &GormRevenueRepository{db: db}
}

// FindAll returns every monthly revenue row
func (r *GormRevenueRepository) FindAll(ctx context.Context) ([]report.Revenue, error) {
	rows := []report.Revenue{}
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Ensure GormRevenueRepository implements RevenueRepository
var _ report.RevenueRepository = (*GormRevenueRepository)(nil)
