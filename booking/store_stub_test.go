package booking

import (
	"sync"

	"github.com/gameplannr/backend/models"
	"github.com/google/uuid"
)

// memStore is an in-memory Store with the same atomicity guarantees as
// the GORM implementation: every conditional update happens under one
// lock, so racing transitions observe each other's writes.
type memStore struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*models.SessionRequest
	sessions map[uuid.UUID]*models.Session
	ratings  map[uuid.UUID]*models.Rating
	events   map[string]bool
}

func newMemStore() *memStore {
	return &memStore{
		requests: make(map[uuid.UUID]*models.SessionRequest),
		sessions: make(map[uuid.UUID]*models.Session),
		ratings:  make(map[uuid.UUID]*models.Rating),
		events:   make(map[string]bool),
	}
}

func (s *memStore) SessionRequest(id uuid.UUID) (*models.SessionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *req
	return &copied, nil
}

func (s *memStore) Session(id uuid.UUID) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *session
	return &copied, nil
}

func (s *memStore) CreateSessionRequest(req *models.SessionRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	copied := *req
	s.requests[req.ID] = &copied
	return nil
}

func (s *memStore) AcceptSessionRequest(requestID uuid.UUID, session *models.Session) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[requestID]
	if !ok || req.Status != models.RequestPending {
		return false, nil
	}
	req.Status = models.RequestAccepted
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	copied := *session
	s.sessions[session.ID] = &copied
	return true, nil
}

func (s *memStore) DeclineSessionRequest(requestID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[requestID]
	if !ok || req.Status != models.RequestPending {
		return false, nil
	}
	req.Status = models.RequestDeclined
	return true, nil
}

func (s *memStore) AdvanceSessionStatus(id uuid.UUID, expected []models.SessionStatus, next models.SessionStatus, fields map[string]interface{}) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.advanceLocked(id, expected, next, fields), nil
}

func (s *memStore) advanceLocked(id uuid.UUID, expected []models.SessionStatus, next models.SessionStatus, fields map[string]interface{}) bool {
	session, ok := s.sessions[id]
	if !ok {
		return false
	}
	matched := false
	for _, status := range expected {
		if session.Status == status {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	session.Status = next
	if ref, ok := fields["provider_payment_reference"].(string); ok {
		session.ProviderPaymentReference = &ref
	}
	return true
}

func (s *memStore) BindProviderTransaction(id uuid.UUID, txnID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok || session.Status != models.SessionAwaitingPayment || session.ProviderTransactionID != nil {
		return false, nil
	}
	session.ProviderTransactionID = &txnID
	return true, nil
}

func (s *memStore) HasProcessedEvent(eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[eventID], nil
}

func (s *memStore) ApplyPaymentEvent(eventID, eventType string, sessionID uuid.UUID, paymentRef string) (bool, models.SessionStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.events[eventID] {
		return false, "", ErrEventAlreadyProcessed
	}
	session, ok := s.sessions[sessionID]
	if !ok {
		// Ledger write and mutation commit together; an unmatched session
		// rolls both back so the provider's retry can succeed later.
		return false, "", ErrNotFound
	}
	s.events[eventID] = true
	applied := s.advanceLocked(sessionID, []models.SessionStatus{models.SessionAwaitingPayment}, models.SessionPaid, map[string]interface{}{"provider_payment_reference": paymentRef})
	return applied, session.Status, nil
}

func (s *memStore) CreateRating(rating *models.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.ratings[rating.SessionID]; exists {
		return ErrConflict
	}
	if rating.ID == uuid.Nil {
		rating.ID = uuid.New()
	}
	copied := *rating
	s.ratings[rating.SessionID] = &copied
	return nil
}

func (s *memStore) HasRating(sessionID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.ratings[sessionID]
	return exists, nil
}

func (s *memStore) SessionRequestsByParent(parentID uuid.UUID) ([]models.SessionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.SessionRequest
	for _, req := range s.requests {
		if req.ParentID == parentID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (s *memStore) SessionRequestsByMentor(mentorID uuid.UUID) ([]models.SessionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.SessionRequest
	for _, req := range s.requests {
		if req.MentorID == mentorID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (s *memStore) SessionsByParent(parentID uuid.UUID) ([]models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Session
	for _, session := range s.sessions {
		if session.ParentID == parentID {
			out = append(out, *session)
		}
	}
	return out, nil
}

func (s *memStore) SessionsByMentor(mentorID uuid.UUID) ([]models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Session
	for _, session := range s.sessions {
		if session.MentorID == mentorID {
			out = append(out, *session)
		}
	}
	return out, nil
}
