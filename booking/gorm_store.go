package booking

import (
	"errors"

	"github.com/gameplannr/backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStore implements Store on top of Postgres. Conditional updates are
// plain UPDATE ... WHERE status = ? statements; RowsAffected tells us
// whether the precondition held at commit time.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) SessionRequest(id uuid.UUID) (*models.SessionRequest, error) {
	var req models.SessionRequest
	if err := s.db.Preload("Parent").Preload("Mentor").First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (s *GormStore) Session(id uuid.UUID) (*models.Session, error) {
	var session models.Session
	if err := s.db.Preload("Parent").Preload("Mentor").First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (s *GormStore) CreateSessionRequest(req *models.SessionRequest) error {
	return s.db.Create(req).Error
}

func (s *GormStore) AcceptSessionRequest(requestID uuid.UUID, session *models.Session) (bool, error) {
	applied := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.SessionRequest{}).
			Where("id = ? AND status = ?", requestID, models.RequestPending).
			Update("status", models.RequestAccepted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := tx.Create(session).Error; err != nil {
			return err
		}
		applied = true
		return nil
	})
	return applied, err
}

func (s *GormStore) DeclineSessionRequest(requestID uuid.UUID) (bool, error) {
	res := s.db.Model(&models.SessionRequest{}).
		Where("id = ? AND status = ?", requestID, models.RequestPending).
		Update("status", models.RequestDeclined)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *GormStore) AdvanceSessionStatus(id uuid.UUID, expected []models.SessionStatus, next models.SessionStatus, fields map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"status": next}
	for k, v := range fields {
		updates[k] = v
	}

	res := s.db.Model(&models.Session{}).
		Where("id = ? AND status IN ?", id, expected).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *GormStore) BindProviderTransaction(id uuid.UUID, txnID string) (bool, error) {
	res := s.db.Model(&models.Session{}).
		Where("id = ? AND status = ? AND provider_transaction_id IS NULL", id, models.SessionAwaitingPayment).
		Update("provider_transaction_id", txnID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *GormStore) HasProcessedEvent(eventID string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.WebhookEvent{}).Where("event_id = ?", eventID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *GormStore) ApplyPaymentEvent(eventID, eventType string, sessionID uuid.UUID, paymentRef string) (bool, models.SessionStatus, error) {
	var (
		applied bool
		status  models.SessionStatus
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.WebhookEvent{}).Where("event_id = ?", eventID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEventAlreadyProcessed
		}

		ledger := models.WebhookEvent{EventID: eventID, EventType: eventType, SessionID: &sessionID}
		if err := tx.Create(&ledger).Error; err != nil {
			// Unique constraint on event_id is the backstop for two
			// deliveries racing past the count above.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEventAlreadyProcessed
			}
			return err
		}

		res := tx.Model(&models.Session{}).
			Where("id = ? AND status = ?", sessionID, models.SessionAwaitingPayment).
			Updates(map[string]interface{}{
				"status":                     models.SessionPaid,
				"provider_payment_reference": paymentRef,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			applied = true
			status = models.SessionPaid
			return nil
		}

		var session models.Session
		if err := tx.First(&session, "id = ?", sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		status = session.Status
		return nil
	})
	if err != nil {
		return false, "", err
	}
	return applied, status, nil
}

func (s *GormStore) CreateRating(rating *models.Rating) error {
	if err := s.db.Create(rating).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *GormStore) HasRating(sessionID uuid.UUID) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Rating{}).Where("session_id = ?", sessionID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *GormStore) SessionRequestsByParent(parentID uuid.UUID) ([]models.SessionRequest, error) {
	var requests []models.SessionRequest
	err := s.db.Preload("Mentor").
		Where("parent_id = ?", parentID).
		Order("created_at desc").
		Find(&requests).Error
	return requests, err
}

func (s *GormStore) SessionRequestsByMentor(mentorID uuid.UUID) ([]models.SessionRequest, error) {
	var requests []models.SessionRequest
	err := s.db.Preload("Parent").
		Where("mentor_id = ?", mentorID).
		Order("created_at desc").
		Find(&requests).Error
	return requests, err
}

func (s *GormStore) SessionsByParent(parentID uuid.UUID) ([]models.Session, error) {
	var sessions []models.Session
	err := s.db.Preload("Mentor").
		Where("parent_id = ?", parentID).
		Order("scheduled_date desc, scheduled_time desc").
		Find(&sessions).Error
	return sessions, err
}

func (s *GormStore) SessionsByMentor(mentorID uuid.UUID) ([]models.Session, error) {
	var sessions []models.Session
	err := s.db.Preload("Parent").
		Where("mentor_id = ?", mentorID).
		Order("scheduled_date desc, scheduled_time desc").
		Find(&sessions).Error
	return sessions, err
}
