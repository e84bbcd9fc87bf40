// Package reconcile re-applies interrupted multi-document cascades on a
// schedule. Fraud demotions write a durable intent before their two
// dependent writes; a crash in between leaves the intent pending, and a
// listing created concurrently with a cascade escapes the delete-by-agent
// filter. Both are caught here by re-running the idempotent cascade.
package reconcile

import (
	"fmt"
	"log"

	"real-estate-marketplace/internal/database"
	"real-estate-marketplace/internal/lifecycle"
	"real-estate-marketplace/internal/models"

	"github.com/robfig/cron/v3"
)

// Reconciler runs the cascade repair sweep on a cron schedule.
type Reconciler struct {
	cron       *cron.Cron
	store      *database.Store
	properties *lifecycle.PropertyManager
	interval   int // minutes
	isRunning  bool
}

func NewReconciler(store *database.Store, properties *lifecycle.PropertyManager, intervalMinutes int) *Reconciler {
	if intervalMinutes <= 0 {
		intervalMinutes = 10
	}
	return &Reconciler{
		cron:       cron.New(),
		store:      store,
		properties: properties,
		interval:   intervalMinutes,
	}
}

// Start begins the periodic sweep
func (r *Reconciler) Start() error {
	spec := fmt.Sprintf("@every %dm", r.interval)
	_, err := r.cron.AddFunc(spec, func() {
		if err := r.RunOnce(); err != nil {
			log.Printf("Reconciler: sweep failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	r.cron.Start()
	r.isRunning = true
	log.Printf("Reconciler: started (every %d minutes)", r.interval)
	return nil
}

// Stop halts the periodic sweep
func (r *Reconciler) Stop() {
	if r.isRunning {
		r.cron.Stop()
		r.isRunning = false
		log.Println("Reconciler: stopped")
	}
}

// RunOnce executes a single sweep: finish pending intents first, then
// re-cover fraud-role users whose listings slipped through a cascade
// window. Also used by the manual admin trigger.
func (r *Reconciler) RunOnce() error {
	intents, err := r.store.PendingCascadeIntents()
	if err != nil {
		return err
	}

	for _, intent := range intents {
		if intent.Kind != models.CascadeKindFraudDemotion {
			log.Printf("Reconciler: skipping intent %d with unknown kind %q", intent.ID, intent.Kind)
			continue
		}

		deleted, err := r.properties.ReapplyFraudCascade(intent.SubjectEmail)
		if err != nil {
			log.Printf("Reconciler: failed to re-apply cascade for %s: %v", intent.SubjectEmail, err)
			continue
		}
		if err := r.store.MarkCascadeIntentDone(intent.ID); err != nil {
			log.Printf("Reconciler: failed to close intent %d: %v", intent.ID, err)
			continue
		}
		log.Printf("Reconciler: re-applied fraud cascade for %s (%d listings removed)",
			intent.SubjectEmail, deleted)
	}

	return r.sweepFraudListings()
}

// sweepFraudListings deletes listings still owned by fraud-role users.
func (r *Reconciler) sweepFraudListings() error {
	frauds, err := r.store.UsersByRole(models.RoleFraud)
	if err != nil {
		return err
	}

	for _, user := range frauds {
		count, err := r.store.CountPropertiesByAgent(user.Email)
		if err != nil {
			log.Printf("Reconciler: failed to count listings for %s: %v", user.Email, err)
			continue
		}
		if count == 0 {
			continue
		}

		deleted, err := r.properties.ReapplyFraudCascade(user.Email)
		if err != nil {
			log.Printf("Reconciler: failed to sweep listings for %s: %v", user.Email, err)
			continue
		}
		log.Printf("Reconciler: removed %d stray listings owned by fraud user %s", deleted, user.Email)
	}
	return nil
}
