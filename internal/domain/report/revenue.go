package report

import "context"

// Revenue is a read-only row of the monthly revenue reference table backing
// the dashboard chart.
type Revenue struct {
	Month   string `gorm:"type:varchar(4);primaryKey" json:"month"`
	Revenue int64  `gorm:"not null" json:"revenue"`
}

// TableName returns the table name for GORM
func (Revenue) TableName() string {
	return "revenue"
}

// RevenueRepository defines read operations for the revenue table
type RevenueRepository interface {
	FindAll(ctx context.Context) ([]Revenue, error)
}
