package booking

import (
	"github.com/gameplannr/backend/models"
	"github.com/google/uuid"
)

// statusRank fixes the total order of session statuses. A transition is
// only ever allowed to a strictly higher rank.
var statusRank = map[models.SessionStatus]int{
	models.SessionAwaitingPayment: 0,
	models.SessionPaid:            1,
	models.SessionConfirmed:       2,
	models.SessionCompleted:       3,
}

// CanAdvance reports whether moving a session from one status to another
// respects the total order.
func CanAdvance(from, to models.SessionStatus) bool {
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// completableStatuses are the post-payment statuses a mentor may complete
// from. "confirmed" is kept alongside "paid" so rows written by the older
// redirect-driven flow still complete cleanly.
var completableStatuses = []models.SessionStatus{models.SessionPaid, models.SessionConfirmed}

// IsPostPayment reports whether the status is at or past paid.
func IsPostPayment(status models.SessionStatus) bool {
	rank, ok := statusRank[status]
	return ok && rank >= statusRank[models.SessionPaid]
}

// AcceptRequest lets the mentor of record accept a pending request. The
// derived session is created in the same transaction that flips the
// request, copying the scheduling details verbatim, and starts out
// awaiting payment.
func AcceptRequest(s Store, requestID, mentorID uuid.UUID) (*models.Session, error) {
	req, err := s.SessionRequest(requestID)
	if err != nil {
		return nil, err
	}
	if req.MentorID != mentorID {
		return nil, ErrForbidden
	}
	if req.Status != models.RequestPending {
		return nil, ErrPreconditionFailed
	}

	session := &models.Session{
		SessionRequestID: req.ID,
		ParentID:         req.ParentID,
		MentorID:         req.MentorID,
		ScheduledDate:    req.PreferredDate,
		ScheduledTime:    req.PreferredTime,
		Location:         req.Location,
		DurationMinutes:  req.DurationMinutes,
		Notes:            req.Notes,
		Status:           models.SessionAwaitingPayment,
	}

	applied, err := s.AcceptSessionRequest(req.ID, session)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Lost the race to a concurrent accept/decline.
		return nil, ErrPreconditionFailed
	}
	return session, nil
}

// DeclineRequest lets the mentor of record decline a pending request.
func DeclineRequest(s Store, requestID, mentorID uuid.UUID) error {
	req, err := s.SessionRequest(requestID)
	if err != nil {
		return err
	}
	if req.MentorID != mentorID {
		return ErrForbidden
	}
	if req.Status != models.RequestPending {
		return ErrPreconditionFailed
	}

	applied, err := s.DeclineSessionRequest(req.ID)
	if err != nil {
		return err
	}
	if !applied {
		return ErrPreconditionFailed
	}
	return nil
}

// MarkComplete lets the mentor of record close out a session that has
// reached a post-payment status.
func MarkComplete(s Store, sessionID, mentorID uuid.UUID) (*models.Session, error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	if session.MentorID != mentorID {
		return nil, ErrForbidden
	}
	if !IsPostPayment(session.Status) || session.Status == models.SessionCompleted {
		return nil, ErrPreconditionFailed
	}

	applied, err := s.AdvanceSessionStatus(session.ID, completableStatuses, models.SessionCompleted, nil)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrPreconditionFailed
	}
	session.Status = models.SessionCompleted
	return session, nil
}

// SubmitRating records the parent's 1-5 rating for a completed session.
// At most one rating per session.
func SubmitRating(s Store, sessionID, parentID uuid.UUID, rating int, comment *string) (*models.Rating, error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	if session.ParentID != parentID {
		return nil, ErrForbidden
	}
	if session.Status != models.SessionCompleted {
		return nil, ErrPreconditionFailed
	}

	exists, err := s.HasRating(session.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrConflict
	}

	r := &models.Rating{
		SessionID: session.ID,
		MentorID:  session.MentorID,
		ParentID:  session.ParentID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.CreateRating(r); err != nil {
		return nil, err
	}
	return r, nil
}
