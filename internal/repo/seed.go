package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/28dev-al/recovery-office-backend/internal/domain"
)

// Seed inserts the default service catalogue when the services table is
// empty. It is intended for development databases and is a no-op otherwise.
func Seed(ctx context.Context, db *gorm.DB) error {
	var n int64
	if err := db.WithContext(ctx).Model(&domain.Service{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	defaults := []domain.Service{
		{
			Name:            "Initial Consultation",
			Description:     "Free assessment of your case and recovery options.",
			DurationMinutes: 60,
			Price:           0,
			Category:        "consultation",
			IsActive:        true,
			Slug:            "initial-consultation",
		},
		{
			Name:            "Investment Fraud Recovery",
			Description:     "Specialist recovery for investment and securities fraud.",
			DurationMinutes: 90,
			Price:           500,
			Category:        "recovery",
			IsActive:        true,
			Slug:            "investment-fraud-recovery",
		},
		{
			Name:            "Cryptocurrency Recovery",
			Description:     "Tracing and recovery of misappropriated digital assets.",
			DurationMinutes: 75,
			Price:           750,
			Category:        "recovery",
			IsActive:        true,
			Slug:            "cryptocurrency-recovery",
		},
		{
			Name:            "Regulatory Complaint Assistance",
			Description:     "Preparation and filing of complaints with financial regulators.",
			DurationMinutes: 45,
			Price:           300,
			Category:        "compliance",
			IsActive:        true,
			Slug:            "regulatory-complaint-assistance",
		},
	}
	for i := range defaults {
		if _, err := CreateService(ctx, db, &defaults[i]); err != nil {
			return err
		}
	}
	return nil
}
