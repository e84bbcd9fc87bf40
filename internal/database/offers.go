package database

import (
	"errors"

	"real-estate-marketplace/internal/apperr"
	"real-estate-marketplace/internal/models"

	"gorm.io/gorm"
)

// OfferFilters narrows offer listings to a buyer's or an agent's view.
type OfferFilters struct {
	BuyerEmail string
	AgentEmail string
	PropertyID string
}

// CreateOffer inserts a new offer. A concurrent duplicate submission can
// pass the FindDuplicateOffer pre-check and lose the race here; the
// unique index on the submission key is the real guard.
func (s *Store) CreateOffer(o *models.Offer) error {
	if o.SubmissionKey == "" {
		o.SubmissionKey = models.OfferSubmissionKey(
			o.Location, o.Title, o.Price, o.AgentEmail, o.BuyerEmail)
	}
	if err := s.db.Create(o).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.E(apperr.KindConflict, "this offer has already been submitted")
		}
		return apperr.Wrap(apperr.KindInternal, "failed to save offer", err)
	}
	return nil
}

// OfferByID retrieves an offer by ID
func (s *Store) OfferByID(id string) (*models.Offer, error) {
	var offer models.Offer
	err := s.db.Where("id = ?", id).First(&offer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.E(apperr.KindNotFound, "offer not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to look up offer", err)
	}
	return &offer, nil
}

// FindDuplicateOffer looks for a prior submission with the same composite
// key (location, title, price, agent, buyer). Returns nil when none exists.
func (s *Store) FindDuplicateOffer(location, title, price, agentEmail, buyerEmail string) (*models.Offer, error) {
	key := models.OfferSubmissionKey(location, title, price, agentEmail, buyerEmail)

	var offer models.Offer
	err := s.db.Where("submission_key = ?", key).First(&offer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to look up offer", err)
	}
	return &offer, nil
}

// ListOffers retrieves offers matching the filters, newest first
func (s *Store) ListOffers(filters OfferFilters) ([]models.Offer, error) {
	query := s.db.Model(&models.Offer{})

	if filters.BuyerEmail != "" {
		query = query.Where("buyer_email = ?", filters.BuyerEmail)
	}
	if filters.AgentEmail != "" {
		query = query.Where("agent_email = ?", filters.AgentEmail)
	}
	if filters.PropertyID != "" {
		query = query.Where("property_id = ?", filters.PropertyID)
	}

	var offers []models.Offer
	if err := query.Order("created_at DESC").Find(&offers).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list offers", err)
	}
	return offers, nil
}

// SetOfferStatus updates a single offer's status
func (s *Store) SetOfferStatus(id string, status models.OfferStatus) error {
	result := s.db.Model(&models.Offer{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to update offer status", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.E(apperr.KindNotFound, "offer not found")
	}
	return nil
}

// RejectSiblingOffers moves every other offer on the same property out of
// any non-terminal state into rejected. Already-rejected rows match zero
// rows, so re-applying the cascade is a no-op.
func (s *Store) RejectSiblingOffers(propertyID, acceptedID string) (int64, error) {
	result := s.db.Model(&models.Offer{}).
		Where("property_id = ? AND id <> ? AND status <> ?",
			propertyID, acceptedID, models.OfferStatusRejected).
		Update("status", models.OfferStatusRejected)
	if result.Error != nil {
		return 0, apperr.Wrap(apperr.KindInternal, "failed to reject sibling offers", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteOffer hard-deletes an offer
func (s *Store) DeleteOffer(id string) error {
	result := s.db.Where("id = ?", id).Delete(&models.Offer{})
	if result.Error != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to delete offer", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.E(apperr.KindNotFound, "offer not found")
	}
	return nil
}
