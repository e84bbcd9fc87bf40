package lifecycle

import (
	"testing"

	"real-estate-marketplace/internal/apperr"
	"real-estate-marketplace/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyCreate(t *testing.T) {
	store := setupTestStore(t)
	agent := seedAgent(t, store, "Agent", "agent@example.com")
	manager := NewPropertyManager(store, nil)

	property, err := manager.Create(PropertyDraft{
		Title: "Villa", Location: "Springfield", Price: "500000",
	}, agent)
	require.NoError(t, err)

	assert.Equal(t, models.PropertyStatusListed, property.Status)
	assert.Equal(t, "Agent", property.AgentName)
	assert.Equal(t, "agent@example.com", property.AgentEmail)
	assert.NotEmpty(t, property.ID)
}

func TestPropertyVerify(t *testing.T) {
	store := setupTestStore(t)
	agent := seedAgent(t, store, "Agent", "agent@example.com")
	manager := NewPropertyManager(store, nil)
	property := seedProperty(t, store, agent, "Villa", "500000")

	verified, err := manager.Verify(property.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PropertyStatusVerified, verified.Status)

	// Idempotent on repeat.
	again, err := manager.Verify(property.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PropertyStatusVerified, again.Status)
}

func TestPropertyVerify_NotFound(t *testing.T) {
	store := setupTestStore(t)
	manager := NewPropertyManager(store, nil)

	_, err := manager.Verify("missing")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestPropertyMarkBought_Irreversible(t *testing.T) {
	store := setupTestStore(t)
	agent := seedAgent(t, store, "Agent", "agent@example.com")
	manager := NewPropertyManager(store, nil)
	property := seedProperty(t, store, agent, "Villa", "500000")

	bought, err := manager.MarkBought(property.ID, "txn-1")
	require.NoError(t, err)
	assert.Equal(t, models.PropertyStatusBought, bought.Status)
	assert.Equal(t, "txn-1", bought.TransactionID)

	// Same transaction id is a no-op success.
	_, err = manager.MarkBought(property.ID, "txn-1")
	require.NoError(t, err)

	// A different transaction cannot re-buy.
	_, err = manager.MarkBought(property.ID, "txn-2")
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// Status never regresses: verify refuses on a bought listing.
	_, err = manager.Verify(property.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestPropertyMarkers_SetAndClear(t *testing.T) {
	store := setupTestStore(t)
	agent := seedAgent(t, store, "Agent", "agent@example.com")
	manager := NewPropertyManager(store, nil)
	property := seedProperty(t, store, agent, "Villa", "500000")

	require.NoError(t, manager.SetWishlist(property.ID, "buyer@example.com"))
	require.NoError(t, manager.SetAdvertise(property.ID))

	reloaded, err := store.PropertyByID(property.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.WishlistedBy)
	assert.Equal(t, "buyer@example.com", *reloaded.WishlistedBy)
	assert.NotNil(t, reloaded.AdvertisedAt)
	// Markers never touch status.
	assert.Equal(t, models.PropertyStatusListed, reloaded.Status)

	require.NoError(t, manager.ClearWishlist(property.ID))
	require.NoError(t, manager.ClearAdvertise(property.ID))

	reloaded, err = store.PropertyByID(property.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.WishlistedBy)
	assert.Nil(t, reloaded.AdvertisedAt)
}

func TestPropertyDelete_OwnerOnly(t *testing.T) {
	store := setupTestStore(t)
	agent := seedAgent(t, store, "Agent", "agent@example.com")
	manager := NewPropertyManager(store, nil)
	property := seedProperty(t, store, agent, "Villa", "500000")

	err := manager.Delete(property.ID, "other@example.com", false)
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	require.NoError(t, manager.Delete(property.ID, "agent@example.com", false))

	_, err = store.PropertyByID(property.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestPropertyDelete_AdminOverride(t *testing.T) {
	store := setupTestStore(t)
	agent := seedAgent(t, store, "Agent", "agent@example.com")
	manager := NewPropertyManager(store, nil)
	property := seedProperty(t, store, agent, "Villa", "500000")

	require.NoError(t, manager.Delete(property.ID, "admin@example.com", true))
}

func TestDemoteToFraud_Cascade(t *testing.T) {
	store := setupTestStore(t)
	agent := seedAgent(t, store, "Agent", "agent@example.com")
	other := seedAgent(t, store, "Other", "other@example.com")
	manager := NewPropertyManager(store, nil)

	seedProperty(t, store, agent, "Villa", "500000")
	seedProperty(t, store, agent, "Cottage", "200000")
	seedProperty(t, store, agent, "Flat", "300000")
	kept := seedProperty(t, store, other, "Bungalow", "400000")

	deleted, err := manager.DemoteToFraud(agent.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)

	// No listing authored by the demoted agent survives.
	count, err := store.CountPropertiesByAgent("agent@example.com")
	require.NoError(t, err)
	assert.Zero(t, count)

	// Role flipped to fraud.
	reloaded, err := store.UserByID(agent.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleFraud, reloaded.Role)

	// Other agents' listings are untouched.
	_, err = store.PropertyByID(kept.ID)
	assert.NoError(t, err)

	// The cascade intent is closed.
	pending, err := store.PendingCascadeIntents()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestDemoteToFraud_NotFound(t *testing.T) {
	store := setupTestStore(t)
	manager := NewPropertyManager(store, nil)

	_, err := manager.DemoteToFraud("missing")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDemoteToFraud_NoListings(t *testing.T) {
	store := setupTestStore(t)
	agent := seedAgent(t, store, "Agent", "agent@example.com")
	manager := NewPropertyManager(store, nil)

	deleted, err := manager.DemoteToFraud(agent.ID)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	reloaded, err := store.UserByID(agent.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleFraud, reloaded.Role)
}

func TestReapplyFraudCascade_Idempotent(t *testing.T) {
	store := setupTestStore(t)
	agent := seedAgent(t, store, "Agent", "agent@example.com")
	manager := NewPropertyManager(store, nil)
	seedProperty(t, store, agent, "Villa", "500000")

	deleted, err := manager.ReapplyFraudCascade("agent@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	// Second application is a no-op.
	deleted, err = manager.ReapplyFraudCascade("agent@example.com")
	require.NoError(t, err)
	assert.Zero(t, deleted)

	reloaded, err := store.UserByID(agent.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleFraud, reloaded.Role)
}

func TestPropertyUpdate_NeverTouchesStatus(t *testing.T) {
	store := setupTestStore(t)
	agent := seedAgent(t, store, "Agent", "agent@example.com")
	manager := NewPropertyManager(store, nil)
	property := seedProperty(t, store, agent, "Villa", "500000")

	_, err := manager.Verify(property.ID)
	require.NoError(t, err)

	updated, err := manager.Update(property.ID, map[string]interface{}{
		"price":  "550000",
		"status": models.PropertyStatusListed,
	})
	require.NoError(t, err)
	assert.Equal(t, "550000", updated.Price)
	assert.Equal(t, models.PropertyStatusVerified, updated.Status)
}

func TestOfferSubmit_BoughtPropertyConflict(t *testing.T) {
	store := setupTestStore(t)
	agent := seedAgent(t, store, "Agent", "agent@example.com")
	manager := NewPropertyManager(store, nil)
	property := seedProperty(t, store, agent, "Villa", "500000")

	_, err := manager.MarkBought(property.ID, "txn-1")
	require.NoError(t, err)

	offers := NewOfferManager(store)
	_, err = offers.Submit(OfferDraft{
		PropertyID: property.ID, BuyerEmail: "b1@example.com", Amount: "480000",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}
