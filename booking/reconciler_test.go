package booking

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/gameplannr/backend/models"
	"github.com/google/uuid"
)

func newAwaitingSession(s *memStore) *models.Session {
	req := newPendingRequest(s)
	session, err := AcceptRequest(s, req.ID, req.MentorID)
	if err != nil {
		panic(err)
	}
	return session
}

func TestConfirmPaymentIsIdempotent(t *testing.T) {
	store := newMemStore()
	session := newAwaitingSession(store)

	applied, status, err := ConfirmPayment(store, session.ID, "pi_abc")
	if err != nil {
		t.Fatalf("ConfirmPayment failed: %v", err)
	}
	if !applied || status != models.SessionPaid {
		t.Fatalf("first call: applied=%v status=%s, want applied=true status=paid", applied, status)
	}

	for i := 0; i < 5; i++ {
		applied, status, err = ConfirmPayment(store, session.ID, "pi_abc")
		if err != nil {
			t.Fatalf("replayed ConfirmPayment failed: %v", err)
		}
		if applied {
			t.Fatal("replayed ConfirmPayment reported applied=true")
		}
		if status != models.SessionPaid {
			t.Fatalf("replayed ConfirmPayment status = %s, want paid", status)
		}
	}

	final, _ := store.Session(session.ID)
	if final.ProviderPaymentReference == nil || *final.ProviderPaymentReference != "pi_abc" {
		t.Error("payment reference not recorded")
	}
}

func TestConfirmPaymentNeverRegresses(t *testing.T) {
	store := newMemStore()
	session := newAwaitingSession(store)
	store.sessions[session.ID].Status = models.SessionCompleted

	applied, status, err := ConfirmPayment(store, session.ID, "pi_late")
	if err != nil {
		t.Fatalf("ConfirmPayment failed: %v", err)
	}
	if applied {
		t.Error("late payment signal advanced a completed session")
	}
	if status != models.SessionCompleted {
		t.Errorf("reported status = %s, want completed", status)
	}
}

func TestConfirmPaymentRaceAppliesExactlyOnce(t *testing.T) {
	store := newMemStore()
	session := newAwaitingSession(store)

	const callers = 16
	var wg sync.WaitGroup
	appliedCount := make(chan bool, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			applied, _, err := ConfirmPayment(store, session.ID, "pi_race")
			if err != nil {
				t.Errorf("concurrent ConfirmPayment failed: %v", err)
				return
			}
			appliedCount <- applied
		}()
	}
	wg.Wait()
	close(appliedCount)

	wins := 0
	for applied := range appliedCount {
		if applied {
			wins++
		}
	}
	if wins != 1 {
		t.Errorf("%d concurrent calls reported applied=true, want exactly 1", wins)
	}

	final, _ := store.Session(session.ID)
	if final.Status != models.SessionPaid {
		t.Errorf("final status = %s, want paid", final.Status)
	}
}

func TestConfirmPaymentEventDeduplicates(t *testing.T) {
	store := newMemStore()
	session := newAwaitingSession(store)

	applied, status, err := ConfirmPaymentEvent(store, "evt_1", "checkout.session.completed", session.ID, "pi_evt")
	if err != nil {
		t.Fatalf("ConfirmPaymentEvent failed: %v", err)
	}
	if !applied || status != models.SessionPaid {
		t.Fatalf("first delivery: applied=%v status=%s", applied, status)
	}

	// Redeliver the same event three more times.
	for i := 0; i < 3; i++ {
		_, _, err := ConfirmPaymentEvent(store, "evt_1", "checkout.session.completed", session.ID, "pi_evt")
		if !errors.Is(err, ErrEventAlreadyProcessed) {
			t.Fatalf("redelivery %d error = %v, want ErrEventAlreadyProcessed", i+1, err)
		}
	}

	final, _ := store.Session(session.ID)
	if final.Status != models.SessionPaid {
		t.Errorf("final status = %s, want paid", final.Status)
	}
	if len(store.events) != 1 {
		t.Errorf("ledger holds %d entries, want 1", len(store.events))
	}
}

func TestConfirmPaymentEventDistinctEventsNoOp(t *testing.T) {
	store := newMemStore()
	session := newAwaitingSession(store)

	if _, _, err := ConfirmPaymentEvent(store, "evt_a", "checkout.session.completed", session.ID, "pi_1"); err != nil {
		t.Fatalf("first event failed: %v", err)
	}

	// A different event id for the same session is processed once but must
	// not move the already-advanced session.
	applied, status, err := ConfirmPaymentEvent(store, "evt_b", "checkout.session.completed", session.ID, "pi_2")
	if err != nil {
		t.Fatalf("second event failed: %v", err)
	}
	if applied {
		t.Error("second distinct event reported applied=true")
	}
	if status != models.SessionPaid {
		t.Errorf("status = %s, want paid", status)
	}
}

func TestConfirmPaymentEventUnknownSessionRollsBackLedger(t *testing.T) {
	store := newMemStore()
	missing := uuid.New()

	_, _, err := ConfirmPaymentEvent(store, "evt_orphan", "checkout.session.completed", missing, "pi_x")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}

	// The ledger entry must not survive, so the provider's retry can
	// succeed once the session row becomes visible.
	processed, _ := store.HasProcessedEvent("evt_orphan")
	if processed {
		t.Fatal("ledger recorded an event whose mutation was rolled back")
	}

	session := newAwaitingSession(store)
	// Simulate the retry finding the row this time, under the same id.
	applied, _, err := ConfirmPaymentEvent(store, "evt_orphan", "checkout.session.completed", session.ID, "pi_x")
	if err != nil || !applied {
		t.Fatalf("retried event: applied=%v err=%v, want applied=true", applied, err)
	}
}

func TestStatusMonotoneUnderInterleavedCalls(t *testing.T) {
	store := newMemStore()
	session := newAwaitingSession(store)
	mentorID := store.sessions[session.ID].MentorID

	rank := func(s models.SessionStatus) int { return statusRank[s] }

	last := rank(models.SessionAwaitingPayment)
	steps := []func(){
		func() { ConfirmPayment(store, session.ID, "pi_1") },
		func() { ConfirmPayment(store, session.ID, "pi_2") },
		func() { MarkComplete(store, session.ID, mentorID) },
		func() { ConfirmPayment(store, session.ID, "pi_3") },
		func() { MarkComplete(store, session.ID, mentorID) },
	}
	for i, step := range steps {
		step()
		current, _ := store.Session(session.ID)
		if rank(current.Status) < last {
			t.Fatalf("step %d regressed status to %s", i, current.Status)
		}
		last = rank(current.Status)
	}

	final, _ := store.Session(session.ID)
	if final.Status != models.SessionCompleted {
		t.Errorf("final status = %s, want completed", final.Status)
	}
	if final.ProviderPaymentReference == nil || *final.ProviderPaymentReference != "pi_1" {
		t.Error("payment reference was overwritten by a later no-op signal")
	}
}

func TestBindProviderTransactionIsWriteOnce(t *testing.T) {
	store := newMemStore()
	session := newAwaitingSession(store)

	applied, err := store.BindProviderTransaction(session.ID, "cs_first")
	if err != nil || !applied {
		t.Fatalf("first bind: applied=%v err=%v", applied, err)
	}

	applied, err = store.BindProviderTransaction(session.ID, "cs_second")
	if err != nil {
		t.Fatalf("second bind errored: %v", err)
	}
	if applied {
		t.Error("second bind overwrote the provider transaction id")
	}

	final, _ := store.Session(session.ID)
	if final.ProviderTransactionID == nil || *final.ProviderTransactionID != "cs_first" {
		t.Errorf("transaction id = %v, want cs_first", final.ProviderTransactionID)
	}
}

func TestConfirmPaymentManySessionsIndependent(t *testing.T) {
	store := newMemStore()

	sessions := make([]*models.Session, 8)
	for i := range sessions {
		sessions[i] = newAwaitingSession(store)
	}

	for i, session := range sessions {
		applied, _, err := ConfirmPayment(store, session.ID, fmt.Sprintf("pi_%d", i))
		if err != nil || !applied {
			t.Fatalf("session %d: applied=%v err=%v", i, applied, err)
		}
	}

	for i, session := range sessions {
		final, _ := store.Session(session.ID)
		want := fmt.Sprintf("pi_%d", i)
		if final.ProviderPaymentReference == nil || *final.ProviderPaymentReference != want {
			t.Errorf("session %d reference = %v, want %s", i, final.ProviderPaymentReference, want)
		}
	}
}
