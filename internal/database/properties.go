package database

import (
	"errors"
	"time"

	"real-estate-marketplace/internal/apperr"
	"real-estate-marketplace/internal/models"

	"gorm.io/gorm"
)

// PropertyFilters narrows and orders property listings. Query is a
// substring match against title and location.
type PropertyFilters struct {
	Query      string
	AgentEmail string
	Status     models.PropertyStatus
	SortBy     string
	Limit      int
}

// CreateProperty inserts a new listing
func (s *Store) CreateProperty(p *models.Property) error {
	if err := s.db.Create(p).Error; err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to save property", err)
	}
	return nil
}

// PropertyByID retrieves a property by ID
func (s *Store) PropertyByID(id string) (*models.Property, error) {
	var property models.Property
	err := s.db.Where("id = ?", id).First(&property).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.E(apperr.KindNotFound, "property not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to look up property", err)
	}
	return &property, nil
}

// ListProperties retrieves listings matching the filters
func (s *Store) ListProperties(filters PropertyFilters) ([]models.Property, error) {
	query := s.db.Model(&models.Property{})

	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where("title LIKE ? OR location LIKE ?", like, like)
	}
	if filters.AgentEmail != "" {
		query = query.Where("agent_email = ?", filters.AgentEmail)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	switch filters.SortBy {
	case "price_asc":
		query = query.Order("price ASC")
	case "price_desc":
		query = query.Order("price DESC")
	default:
		query = query.Order("created_at DESC")
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}

	var properties []models.Property
	if err := query.Find(&properties).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list properties", err)
	}
	return properties, nil
}

// PropertiesByAgent retrieves every listing owned by the agent's identity
func (s *Store) PropertiesByAgent(email string) ([]models.Property, error) {
	return s.ListProperties(PropertyFilters{AgentEmail: email})
}

// UpdatePropertyFields mutates listing fields in place. Status and
// transaction id are owned by the lifecycle manager and never pass
// through here.
func (s *Store) UpdatePropertyFields(id string, fields map[string]interface{}) error {
	delete(fields, "status")
	delete(fields, "transaction_id")

	result := s.db.Model(&models.Property{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to update property", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.E(apperr.KindNotFound, "property not found")
	}
	return nil
}

// SetPropertyStatus advances a listing's status. A listing deleted since
// the caller's read affects zero rows and reports NotFound.
func (s *Store) SetPropertyStatus(id string, status models.PropertyStatus) error {
	result := s.db.Model(&models.Property{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to update property status", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.E(apperr.KindNotFound, "property not found")
	}
	return nil
}

// MarkPropertyBought sets the terminal status together with the payment
// transaction id
func (s *Store) MarkPropertyBought(id, transactionID string) error {
	result := s.db.Model(&models.Property{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         models.PropertyStatusBought,
			"transaction_id": transactionID,
		})
	if result.Error != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to update property status", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.E(apperr.KindNotFound, "property not found")
	}
	return nil
}

// SetWishlistMarker annotates a listing as wishlisted by a user
func (s *Store) SetWishlistMarker(id, userEmail string) error {
	return s.setMarker(id, "wishlisted_by", userEmail)
}

// ClearWishlistMarker removes the wishlist annotation entirely
func (s *Store) ClearWishlistMarker(id string) error {
	return s.setMarker(id, "wishlisted_by", nil)
}

// SetAdvertiseMarker annotates a listing as advertised
func (s *Store) SetAdvertiseMarker(id string) error {
	now := time.Now()
	return s.setMarker(id, "advertised_at", &now)
}

// ClearAdvertiseMarker removes the advertise annotation entirely
func (s *Store) ClearAdvertiseMarker(id string) error {
	return s.setMarker(id, "advertised_at", nil)
}

// setMarker writes or clears a marker column. Clearing stores NULL so an
// unset marker and one never set read the same.
func (s *Store) setMarker(id, column string, value interface{}) error {
	result := s.db.Model(&models.Property{}).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to update property", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.E(apperr.KindNotFound, "property not found")
	}
	return nil
}

// DeleteProperty hard-deletes a listing. No cascade to offers or
// bookings; stale references surface as not-found at read time.
func (s *Store) DeleteProperty(id string) error {
	result := s.db.Where("id = ?", id).Delete(&models.Property{})
	if result.Error != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to delete property", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.E(apperr.KindNotFound, "property not found")
	}
	return nil
}

// DeletePropertiesByAgent removes every listing owned by the agent's
// email and returns the ids of the deleted records. Deleting when none
// remain is a no-op, which keeps the fraud cascade re-appliable.
func (s *Store) DeletePropertiesByAgent(email string) ([]string, error) {
	var ids []string
	err := s.db.Model(&models.Property{}).
		Where("agent_email = ?", email).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to look up properties", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	if err := s.db.Where("agent_email = ?", email).Delete(&models.Property{}).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to delete properties", err)
	}
	return ids, nil
}

// CountPropertiesByAgent counts surviving listings for an agent identity
func (s *Store) CountPropertiesByAgent(email string) (int64, error) {
	var count int64
	err := s.db.Model(&models.Property{}).Where("agent_email = ?", email).Count(&count).Error
	if err != nil {
		return 0, apperr.Wrap(apperr.KindInternal, "failed to count properties", err)
	}
	return count, nil
}
