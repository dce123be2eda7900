package repo

import (
	"context"

	"github.com/instasoft/devatshop/internal/models"
)

func (r *GormRepo) ListPayments(ctx context.Context, userID uint) ([]models.Payment, error) {
	payments := []models.Payment{}
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}
