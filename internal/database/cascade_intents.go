package database

import (
	"time"

	"real-estate-marketplace/internal/apperr"
	"real-estate-marketplace/internal/models"
)

// CreateCascadeIntent records that a multi-document cascade is starting.
// The record is written before the first dependent write.
func (s *Store) CreateCascadeIntent(kind models.CascadeKind, subjectEmail string) (*models.CascadeIntent, error) {
	intent := models.CascadeIntent{
		Kind:         kind,
		SubjectEmail: subjectEmail,
		Status:       models.CascadeIntentPending,
	}
	if err := s.db.Create(&intent).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to record cascade intent", err)
	}
	return &intent, nil
}

// MarkCascadeIntentDone closes out a completed cascade
func (s *Store) MarkCascadeIntentDone(id uint) error {
	now := time.Now()
	err := s.db.Model(&models.CascadeIntent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       models.CascadeIntentDone,
			"completed_at": &now,
		}).Error
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to update cascade intent", err)
	}
	return nil
}

// PendingCascadeIntents retrieves cascades that started but never
// finished, oldest first
func (s *Store) PendingCascadeIntents() ([]models.CascadeIntent, error) {
	var intents []models.CascadeIntent
	err := s.db.Where("status = ?", models.CascadeIntentPending).
		Order("created_at ASC").
		Find(&intents).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list cascade intents", err)
	}
	return intents, nil
}
