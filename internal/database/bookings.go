package database

import (
	"real-estate-marketplace/internal/apperr"
	"real-estate-marketplace/internal/models"
)

// CreateBooking appends a booking record. Written once per confirmed
// payment; there is no update path.
func (s *Store) CreateBooking(b *models.Booking) error {
	if err := s.db.Create(b).Error; err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to save booking", err)
	}
	return nil
}

// BookingsByBuyer retrieves a buyer's bookings, newest first
func (s *Store) BookingsByBuyer(email string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.Where("buyer_email = ?", email).Order("created_at DESC").Find(&bookings).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list bookings", err)
	}
	return bookings, nil
}
