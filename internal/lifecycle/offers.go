// Package lifecycle owns the offer and property state machines and their
// cross-document cascades. Everything else in the system is plain record
// CRUD against the store.
package lifecycle

import (
	"log"

	"real-estate-marketplace/internal/apperr"
	"real-estate-marketplace/internal/database"
	"real-estate-marketplace/internal/models"

	"github.com/google/uuid"
)

// OfferManager owns the offer state machine:
//
//	pending -> accepted (cascade-rejects siblings)
//	pending -> rejected
type OfferManager struct {
	store *database.Store
	locks *keyedMutex
}

func NewOfferManager(store *database.Store) *OfferManager {
	return &OfferManager{
		store: store,
		locks: newKeyedMutex(),
	}
}

// OfferDraft is a buyer's submission against an existing listing.
type OfferDraft struct {
	PropertyID string `json:"property_id" binding:"required"`
	BuyerName  string `json:"buyer_name"`
	BuyerEmail string `json:"buyer_email"`
	Amount     string `json:"amount" binding:"required"`
}

// Submit inserts a pending offer. The listing tuple is captured from the
// property at submission time; a prior submission with the same
// (location, title, price, agent, buyer) key yields Conflict.
func (m *OfferManager) Submit(draft OfferDraft) (*models.Offer, error) {
	property, err := m.store.PropertyByID(draft.PropertyID)
	if err != nil {
		return nil, err
	}
	if property.IsBought() {
		return nil, apperr.E(apperr.KindConflict, "property has already been bought")
	}

	existing, err := m.store.FindDuplicateOffer(
		property.Location, property.Title, property.Price,
		property.AgentEmail, draft.BuyerEmail,
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.E(apperr.KindConflict, "this offer has already been submitted")
	}

	offer := models.Offer{
		ID:         uuid.NewString(),
		PropertyID: property.ID,
		Location:   property.Location,
		Title:      property.Title,
		Price:      property.Price,
		AgentName:  property.AgentName,
		AgentEmail: property.AgentEmail,
		BuyerName:  draft.BuyerName,
		BuyerEmail: draft.BuyerEmail,
		Amount:     draft.Amount,
		Status:     models.OfferStatusPending,
	}
	if err := m.store.CreateOffer(&offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

// Accept moves the offer to accepted and rejects every competing offer on
// the same property as a dependent second write. Only the agent owning
// the underlying listing (or an admin) may accept. Both writes run inside
// one store transaction under the property's lock; the cascade update is
// idempotent, so a retry after a partial failure is safe.
func (m *OfferManager) Accept(id, callerEmail string, isAdmin bool) (*models.Offer, error) {
	offer, err := m.store.OfferByID(id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && offer.AgentEmail != callerEmail {
		return nil, apperr.E(apperr.KindUnauthorized, "unauthorized access")
	}

	unlock := m.locks.Lock(offer.PropertyID)
	defer unlock()

	var rejected int64
	err = m.store.Transaction(func(tx *database.Store) error {
		// Re-read under the lock: a concurrent accept may have already
		// rejected this offer.
		current, err := tx.OfferByID(id)
		if err != nil {
			return err
		}
		if current.Status == models.OfferStatusRejected {
			return apperr.E(apperr.KindConflict, "offer has already been rejected")
		}

		if err := tx.SetOfferStatus(id, models.OfferStatusAccepted); err != nil {
			return err
		}

		rejected, err = tx.RejectSiblingOffers(current.PropertyID, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	if rejected > 0 {
		log.Printf("OfferManager: accepted offer %s, rejected %d competing offers for property %s",
			id, rejected, offer.PropertyID)
	}

	offer.Status = models.OfferStatusAccepted
	return offer, nil
}

// Reject moves a single offer to rejected. No cascade. Gated to the
// owning agent the same way as Accept.
func (m *OfferManager) Reject(id, callerEmail string, isAdmin bool) (*models.Offer, error) {
	offer, err := m.store.OfferByID(id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && offer.AgentEmail != callerEmail {
		return nil, apperr.E(apperr.KindUnauthorized, "unauthorized access")
	}
	if err := m.store.SetOfferStatus(id, models.OfferStatusRejected); err != nil {
		return nil, err
	}
	offer.Status = models.OfferStatusRejected
	return offer, nil
}

// Withdraw removes a buyer's own offer. Admins may remove any offer.
func (m *OfferManager) Withdraw(id, callerEmail string, isAdmin bool) error {
	offer, err := m.store.OfferByID(id)
	if err != nil {
		return err
	}
	if !isAdmin && offer.BuyerEmail != callerEmail {
		return apperr.E(apperr.KindUnauthorized, "unauthorized access")
	}
	return m.store.DeleteOffer(id)
}
