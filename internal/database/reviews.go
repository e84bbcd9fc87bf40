package database

import (
	"errors"

	"real-estate-marketplace/internal/apperr"
	"real-estate-marketplace/internal/models"

	"gorm.io/gorm"
)

// CreateReview appends a review
func (s *Store) CreateReview(r *models.Review) error {
	if err := s.db.Create(r).Error; err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to save review", err)
	}
	return nil
}

// ReviewByID retrieves a review by ID
func (s *Store) ReviewByID(id string) (*models.Review, error) {
	var review models.Review
	err := s.db.Where("id = ?", id).First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.E(apperr.KindNotFound, "review not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to look up review", err)
	}
	return &review, nil
}

// ListReviews retrieves all reviews, newest first
func (s *Store) ListReviews() ([]models.Review, error) {
	var reviews []models.Review
	if err := s.db.Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list reviews", err)
	}
	return reviews, nil
}

// DeleteReview hard-deletes a review
func (s *Store) DeleteReview(id string) error {
	result := s.db.Where("id = ?", id).Delete(&models.Review{})
	if result.Error != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to delete review", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.E(apperr.KindNotFound, "review not found")
	}
	return nil
}
