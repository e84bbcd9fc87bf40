package lifecycle

import (
	"log"

	"real-estate-marketplace/internal/apperr"
	"real-estate-marketplace/internal/database"
	"real-estate-marketplace/internal/models"

	"github.com/google/uuid"
)

// Indexer mirrors property writes into the listing search index. May be
// nil when search is not configured; failures are logged, never surfaced,
// since the store is the source of truth.
type Indexer interface {
	IndexProperty(p *models.Property) error
	RemoveProperties(ids []string) error
}

// PropertyManager owns a listing's status transitions
// (listed -> verified -> bought), its markers, and the fraud cascade.
type PropertyManager struct {
	store *database.Store
	index Indexer
}

func NewPropertyManager(store *database.Store, index Indexer) *PropertyManager {
	return &PropertyManager{store: store, index: index}
}

// PropertyDraft is an agent's new listing.
type PropertyDraft struct {
	Title    string `json:"title" binding:"required"`
	Location string `json:"location" binding:"required"`
	Price    string `json:"price" binding:"required"`
	ImageURL string `json:"image_url"`
}

// Create inserts a listing with status listed, snapshotting the agent's
// identity onto the record.
func (m *PropertyManager) Create(draft PropertyDraft, agent *models.User) (*models.Property, error) {
	property := models.Property{
		ID:         uuid.NewString(),
		Title:      draft.Title,
		Location:   draft.Location,
		Price:      draft.Price,
		ImageURL:   draft.ImageURL,
		AgentName:  agent.Name,
		AgentEmail: agent.Email,
		Status:     models.PropertyStatusListed,
	}
	if err := m.store.CreateProperty(&property); err != nil {
		return nil, err
	}
	m.syncIndex(&property)
	return &property, nil
}

// Update edits listing fields. Status never passes through here.
func (m *PropertyManager) Update(id string, fields map[string]interface{}) (*models.Property, error) {
	if err := m.store.UpdatePropertyFields(id, fields); err != nil {
		return nil, err
	}
	property, err := m.store.PropertyByID(id)
	if err != nil {
		return nil, err
	}
	m.syncIndex(property)
	return property, nil
}

// Verify advances listed -> verified. Idempotent when already verified;
// a bought listing never regresses.
func (m *PropertyManager) Verify(id string) (*models.Property, error) {
	property, err := m.store.PropertyByID(id)
	if err != nil {
		return nil, err
	}

	switch property.Status {
	case models.PropertyStatusVerified:
		return property, nil
	case models.PropertyStatusBought:
		return nil, apperr.E(apperr.KindConflict, "property has already been bought")
	}

	if err := m.store.SetPropertyStatus(id, models.PropertyStatusVerified); err != nil {
		return nil, err
	}
	property.Status = models.PropertyStatusVerified
	m.syncIndex(property)
	return property, nil
}

// MarkBought records the terminal status after payment confirmation.
// Irreversible: a repeat call with the same transaction id is a no-op,
// any other repeat is Conflict.
func (m *PropertyManager) MarkBought(id, transactionID string) (*models.Property, error) {
	if transactionID == "" {
		return nil, apperr.E(apperr.KindInvalidArgument, "transaction id is required")
	}

	property, err := m.store.PropertyByID(id)
	if err != nil {
		return nil, err
	}
	if property.IsBought() {
		if property.TransactionID == transactionID {
			return property, nil
		}
		return nil, apperr.E(apperr.KindConflict, "property has already been bought")
	}

	if err := m.store.MarkPropertyBought(id, transactionID); err != nil {
		return nil, err
	}
	property.Status = models.PropertyStatusBought
	property.TransactionID = transactionID
	m.syncIndex(property)
	return property, nil
}

// SetWishlist sets the wishlist marker; independent of status.
func (m *PropertyManager) SetWishlist(id, userEmail string) error {
	return m.store.SetWishlistMarker(id, userEmail)
}

// ClearWishlist unsets the marker field entirely.
func (m *PropertyManager) ClearWishlist(id string) error {
	return m.store.ClearWishlistMarker(id)
}

// SetAdvertise sets the advertise marker; independent of status.
func (m *PropertyManager) SetAdvertise(id string) error {
	return m.store.SetAdvertiseMarker(id)
}

// ClearAdvertise unsets the marker field entirely.
func (m *PropertyManager) ClearAdvertise(id string) error {
	return m.store.ClearAdvertiseMarker(id)
}

// Delete hard-deletes a listing. Only the owning agent or an admin may
// delete; offers and bookings referencing it are left in place and read
// as not-found.
func (m *PropertyManager) Delete(id, callerEmail string, isAdmin bool) error {
	property, err := m.store.PropertyByID(id)
	if err != nil {
		return err
	}
	if !isAdmin && property.AgentEmail != callerEmail {
		return apperr.E(apperr.KindUnauthorized, "unauthorized access")
	}

	if err := m.store.DeleteProperty(id); err != nil {
		return err
	}
	m.removeFromIndex([]string{id})
	return nil
}

// DemoteToFraud performs, as one logical unit, the deletion of every
// listing the user authored and the role change to fraud. A durable
// intent record brackets the transactional pair so a crash between writes
// leaves a pending intent the reconciler re-applies. Returns the number
// of deleted listings.
func (m *PropertyManager) DemoteToFraud(userID string) (int, error) {
	user, err := m.store.UserByID(userID)
	if err != nil {
		return 0, err
	}

	intent, err := m.store.CreateCascadeIntent(models.CascadeKindFraudDemotion, user.Email)
	if err != nil {
		return 0, err
	}

	var deletedIDs []string
	err = m.store.Transaction(func(tx *database.Store) error {
		var txErr error
		deletedIDs, txErr = tx.DeletePropertiesByAgent(user.Email)
		if txErr != nil {
			return txErr
		}
		return tx.SetUserRole(user.ID, models.RoleFraud)
	})
	if err != nil {
		// Intent stays pending; the reconciler retries the cascade.
		return 0, err
	}

	if err := m.store.MarkCascadeIntentDone(intent.ID); err != nil {
		// The cascade itself committed. Leave the intent for the
		// reconciler, whose re-application is a no-op.
		log.Printf("PropertyManager: cascade committed but intent %d not closed: %v", intent.ID, err)
	}

	m.removeFromIndex(deletedIDs)
	log.Printf("PropertyManager: demoted %s to fraud, deleted %d listings", user.Email, len(deletedIDs))
	return len(deletedIDs), nil
}

// ReapplyFraudCascade re-runs both cascade steps for a subject email.
// Every step is idempotent, so this is safe to call any number of times.
// Used by the reconciler for crashed cascades and for listings created
// during the cascade window.
func (m *PropertyManager) ReapplyFraudCascade(subjectEmail string) (int, error) {
	var deletedIDs []string
	err := m.store.Transaction(func(tx *database.Store) error {
		var txErr error
		deletedIDs, txErr = tx.DeletePropertiesByAgent(subjectEmail)
		if txErr != nil {
			return txErr
		}
		return tx.SetUserRoleByEmail(subjectEmail, models.RoleFraud)
	})
	if err != nil {
		return 0, err
	}

	m.removeFromIndex(deletedIDs)
	return len(deletedIDs), nil
}

func (m *PropertyManager) syncIndex(p *models.Property) {
	if m.index == nil {
		return
	}
	if err := m.index.IndexProperty(p); err != nil {
		log.Printf("PropertyManager: failed to index property %s: %v", p.ID, err)
	}
}

func (m *PropertyManager) removeFromIndex(ids []string) {
	if m.index == nil || len(ids) == 0 {
		return
	}
	if err := m.index.RemoveProperties(ids); err != nil {
		log.Printf("PropertyManager: failed to deindex %d properties: %v", len(ids), err)
	}
}
