package lifecycle

import (
	"sync"
	"testing"

	"real-estate-marketplace/internal/apperr"
	"real-estate-marketplace/internal/database"
	"real-estate-marketplace/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestStore(t *testing.T) *database.Store {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// A pooled second connection would see its own empty in-memory
	// database, so pin the pool to one connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	store := database.NewFromDB(db)
	require.NoError(t, store.InitSchema())
	return store
}

func seedAgent(t *testing.T, store *database.Store, name, email string) *models.User {
	user, err := store.UpsertUser(name, email)
	require.NoError(t, err)
	require.NoError(t, store.SetUserRole(user.ID, models.RoleAgent))
	user.Role = models.RoleAgent
	return user
}

func seedProperty(t *testing.T, store *database.Store, agent *models.User, title, price string) *models.Property {
	manager := NewPropertyManager(store, nil)
	property, err := manager.Create(PropertyDraft{
		Title:    title,
		Location: "Springfield",
		Price:    price,
	}, agent)
	require.NoError(t, err)
	return property
}

func TestOfferSubmit(t *testing.T) {
	store := setupTestStore(t)
	agent := seedAgent(t, store, "Agent", "agent@example.com")
	property := seedProperty(t, store, agent, "Villa", "500000")
	offers := NewOfferManager(store)

	offer, err := offers.Submit(OfferDraft{
		PropertyID: property.ID,
		BuyerName:  "Buyer",
		BuyerEmail: "buyer@example.com",
		Amount:     "480000",
	})
	require.NoError(t, err)

	assert.Equal(t, models.OfferStatusPending, offer.Status)
	assert.Equal(t, property.ID, offer.PropertyID)
	assert.Equal(t, "Villa", offer.Title)
	assert.Equal(t, "agent@example.com", offer.AgentEmail)
}

func TestOfferSubmit_DuplicateConflict(t *testing.T) {
	store := setupTestStore(t)
	agent := seedAgent(t, store, "Agent", "agent@example.com")
	property := seedProperty(t, store, agent, "Villa", "500000")
	offers := NewOfferManager(store)

	draft := OfferDraft{
		PropertyID: property.ID,
		BuyerName:  "Buyer",
		BuyerEmail: "buyer@example.com",
		Amount:     "480000",
	}

	_, err := offers.Submit(draft)
	require.NoError(t, err)

	_, err = offers.Submit(draft)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// Exactly one record survives.
	all, err := store.ListOffers(database.OfferFilters{PropertyID: property.ID})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestOfferSubmit_UnknownProperty(t *testing.T) {
	store := setupTestStore(t)
	offers := NewOfferManager(store)

	_, err := offers.Submit(OfferDraft{
		PropertyID: "missing",
		BuyerEmail: "buyer@example.com",
		Amount:     "100",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestOfferAccept_CascadeRejectsSiblings(t *testing.T) {
	store := setupTestStore(t)
	agent := seedAgent(t, store, "Agent", "agent@example.com")
	property := seedProperty(t, store, agent, "Villa", "500000")
	offers := NewOfferManager(store)

	first, err := offers.Submit(OfferDraft{
		PropertyID: property.ID, BuyerName: "B1", BuyerEmail: "b1@example.com", Amount: "480000",
	})
	require.NoError(t, err)
	second, err := offers.Submit(OfferDraft{
		PropertyID: property.ID, BuyerName: "B2", BuyerEmail: "b2@example.com", Amount: "490000",
	})
	require.NoError(t, err)

	accepted, err := offers.Accept(second.ID, agent.Email, false)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusAccepted, accepted.Status)

	reloadedFirst, err := store.OfferByID(first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusRejected, reloadedFirst.Status)

	reloadedSecond, err := store.OfferByID(second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusAccepted, reloadedSecond.Status)
}

func TestOfferAccept_LeavesOtherPropertiesAlone(t *testing.T) {
	store := setupTestStore(t)
	agent := seedAgent(t, store, "Agent", "agent@example.com")
	villa := seedProperty(t, store, agent, "Villa", "500000")
	cottage := seedProperty(t, store, agent, "Cottage", "200000")
	offers := NewOfferManager(store)

	villaOffer, err := offers.Submit(OfferDraft{
		PropertyID: villa.ID, BuyerEmail: "b1@example.com", Amount: "480000",
	})
	require.NoError(t, err)
	cottageOffer, err := offers.Submit(OfferDraft{
		PropertyID: cottage.ID, BuyerEmail: "b1@example.com", Amount: "190000",
	})
	require.NoError(t, err)

	_, err = offers.Accept(villaOffer.ID, agent.Email, false)
	require.NoError(t, err)

	reloaded, err := store.OfferByID(cottageOffer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusPending, reloaded.Status)
}

func TestOfferAccept_NotFound(t *testing.T) {
	store := setupTestStore(t)
	offers := NewOfferManager(store)

	_, err := offers.Accept("missing", "agent@example.com", false)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

// Concurrent accepts for different offers on the same property must end
// with exactly one accepted offer: the second accept sees its offer
// already rejected by the first cascade and fails with Conflict.
func TestOfferAccept_ConcurrentSameProperty(t *testing.T) {
	store := setupTestStore(t)
	agent := seedAgent(t, store, "Agent", "agent@example.com")
	property := seedProperty(t, store, agent, "Villa", "500000")
	offers := NewOfferManager(store)

	first, err := offers.Submit(OfferDraft{
		PropertyID: property.ID, BuyerEmail: "b1@example.com", Amount: "480000",
	})
	require.NoError(t, err)
	second, err := offers.Submit(OfferDraft{
		PropertyID: property.ID, BuyerEmail: "b2@example.com", Amount: "490000",
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{first.ID, second.ID} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = offers.Accept(id, agent.Email, false)
		}(i, id)
	}
	wg.Wait()

	all, err := store.ListOffers(database.OfferFilters{PropertyID: property.ID})
	require.NoError(t, err)

	acceptedCount := 0
	for _, o := range all {
		if o.Status == models.OfferStatusAccepted {
			acceptedCount++
		}
	}
	assert.Equal(t, 1, acceptedCount, "exactly one offer may hold accepted")

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
		}
	}
	assert.Equal(t, 1, succeeded)
}

// Only the agent owning the underlying listing may accept or reject an
// offer on it; another agent's attempt fails, an admin's succeeds.
func TestOfferAcceptReject_OnlyOwningAgent(t *testing.T) {
	store := setupTestStore(t)
	owner := seedAgent(t, store, "Owner", "owner@example.com")
	seedAgent(t, store, "Rival", "rival@example.com")
	property := seedProperty(t, store, owner, "Villa", "500000")
	offers := NewOfferManager(store)

	offer, err := offers.Submit(OfferDraft{
		PropertyID: property.ID, BuyerEmail: "b1@example.com", Amount: "480000",
	})
	require.NoError(t, err)

	_, err = offers.Accept(offer.ID, "rival@example.com", false)
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	_, err = offers.Reject(offer.ID, "rival@example.com", false)
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	reloaded, err := store.OfferByID(offer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusPending, reloaded.Status)

	// Admin override.
	accepted, err := offers.Accept(offer.ID, "admin@example.com", true)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusAccepted, accepted.Status)
}

func TestOfferReject(t *testing.T) {
	store := setupTestStore(t)
	agent := seedAgent(t, store, "Agent", "agent@example.com")
	property := seedProperty(t, store, agent, "Villa", "500000")
	offers := NewOfferManager(store)

	offer, err := offers.Submit(OfferDraft{
		PropertyID: property.ID, BuyerEmail: "b1@example.com", Amount: "480000",
	})
	require.NoError(t, err)

	rejected, err := offers.Reject(offer.ID, agent.Email, false)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusRejected, rejected.Status)
}

func TestOfferWithdraw_OnlyBuyerOrAdmin(t *testing.T) {
	store := setupTestStore(t)
	agent := seedAgent(t, store, "Agent", "agent@example.com")
	property := seedProperty(t, store, agent, "Villa", "500000")
	offers := NewOfferManager(store)

	offer, err := offers.Submit(OfferDraft{
		PropertyID: property.ID, BuyerEmail: "b1@example.com", Amount: "480000",
	})
	require.NoError(t, err)

	err = offers.Withdraw(offer.ID, "someone-else@example.com", false)
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	require.NoError(t, offers.Withdraw(offer.ID, "b1@example.com", false))

	_, err = store.OfferByID(offer.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

// Full scenario: agent lists, admin verifies, two buyers bid, agent
// accepts the second bid, the first flips to rejected.
func TestOfferScenario_TwoBuyers(t *testing.T) {
	store := setupTestStore(t)
	agent := seedAgent(t, store, "Agent", "a@x.com")
	properties := NewPropertyManager(store, nil)
	offers := NewOfferManager(store)

	property, err := properties.Create(PropertyDraft{
		Title: "Villa", Location: "Springfield", Price: "500000",
	}, agent)
	require.NoError(t, err)

	_, err = properties.Verify(property.ID)
	require.NoError(t, err)

	first, err := offers.Submit(OfferDraft{
		PropertyID: property.ID, BuyerEmail: "b1@x.com", Amount: "480000",
	})
	require.NoError(t, err)
	second, err := offers.Submit(OfferDraft{
		PropertyID: property.ID, BuyerEmail: "b2@x.com", Amount: "490000",
	})
	require.NoError(t, err)

	_, err = offers.Accept(second.ID, agent.Email, false)
	require.NoError(t, err)

	reloadedFirst, err := store.OfferByID(first.ID)
	require.NoError(t, err)
	reloadedSecond, err := store.OfferByID(second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusRejected, reloadedFirst.Status)
	assert.Equal(t, models.OfferStatusAccepted, reloadedSecond.Status)
}
