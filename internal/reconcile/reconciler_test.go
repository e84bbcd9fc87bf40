package reconcile

import (
	"testing"

	"real-estate-marketplace/internal/database"
	"real-estate-marketplace/internal/lifecycle"
	"real-estate-marketplace/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupReconciler(t *testing.T) (*Reconciler, *database.Store) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// Each pooled in-memory connection is a separate database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	store := database.NewFromDB(db)
	require.NoError(t, store.InitSchema())

	properties := lifecycle.NewPropertyManager(store, nil)
	return NewReconciler(store, properties, 10), store
}

func seedListing(t *testing.T, store *database.Store, agentEmail string) *models.Property {
	property := &models.Property{
		ID:         uuid.NewString(),
		Title:      "Listing",
		Location:   "Springfield",
		Price:      "100000",
		AgentName:  "Agent",
		AgentEmail: agentEmail,
		Status:     models.PropertyStatusListed,
	}
	require.NoError(t, store.CreateProperty(property))
	return property
}

func TestRunOnce_FinishesPendingIntent(t *testing.T) {
	reconciler, store := setupReconciler(t)

	agent, err := store.UpsertUser("Agent", "agent@example.com")
	require.NoError(t, err)
	seedListing(t, store, agent.Email)
	seedListing(t, store, agent.Email)

	// A crash mid-cascade leaves a pending intent with neither write
	// applied. The sweep must finish both steps and close the intent.
	_, err = store.CreateCascadeIntent(models.CascadeKindFraudDemotion, agent.Email)
	require.NoError(t, err)

	require.NoError(t, reconciler.RunOnce())

	reloaded, err := store.UserByEmail(agent.Email)
	require.NoError(t, err)
	assert.Equal(t, models.RoleFraud, reloaded.Role)

	count, err := store.CountPropertiesByAgent(agent.Email)
	require.NoError(t, err)
	assert.Zero(t, count)

	pending, err := store.PendingCascadeIntents()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRunOnce_SweepsStrayFraudListings(t *testing.T) {
	reconciler, store := setupReconciler(t)

	agent, err := store.UpsertUser("Agent", "agent@example.com")
	require.NoError(t, err)
	require.NoError(t, store.SetUserRole(agent.ID, models.RoleFraud))

	// Listing created in the window between the cascade's delete filter
	// and its role write.
	seedListing(t, store, agent.Email)

	require.NoError(t, reconciler.RunOnce())

	count, err := store.CountPropertiesByAgent(agent.Email)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRunOnce_LeavesHonestAgentsAlone(t *testing.T) {
	reconciler, store := setupReconciler(t)

	agent, err := store.UpsertUser("Agent", "agent@example.com")
	require.NoError(t, err)
	require.NoError(t, store.SetUserRole(agent.ID, models.RoleAgent))
	seedListing(t, store, agent.Email)

	require.NoError(t, reconciler.RunOnce())

	count, err := store.CountPropertiesByAgent(agent.Email)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRunOnce_NothingPending(t *testing.T) {
	reconciler, _ := setupReconciler(t)
	assert.NoError(t, reconciler.RunOnce())
}
