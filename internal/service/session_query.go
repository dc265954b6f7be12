package service

import (
	"codepair/internal/cache"
	"codepair/internal/model"
	"codepair/internal/repository"
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// pageSize caps every session listing.
const pageSize = 20

// SessionQueryService serves read-only session projections. No side effects
// beyond refreshing the lobby cache.
type SessionQueryService struct {
	sessionRepo  repository.SessionRepo
	userRepo     repository.UserRepo
	sessionCache cache.SessionCache
}

// NewSessionQueryService creates a new session query service
func NewSessionQueryService(
	sessionRepo repository.SessionRepo,
	userRepo repository.UserRepo,
	sessionCache cache.SessionCache,
) *SessionQueryService {
	return &SessionQueryService{
		sessionRepo:  sessionRepo,
		userRepo:     userRepo,
		sessionCache: sessionCache,
	}
}

// ListActive returns open-or-full active sessions, newest first, with user
// identities resolved. Served read-through from Redis.
func (s *SessionQueryService) ListActive(ctx context.Context) ([]*model.SessionView, error) {
	cached, err := s.sessionCache.GetActiveList(ctx)
	if err != nil {
		log.Printf("[SessionQuery] Active list cache read failed: %v", err)
	}
	if cached != nil {
		return cached, nil
	}

	sessions, err := s.sessionRepo.FindActive(ctx, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list active sessions: %w", err)
	}

	views, err := s.buildViews(ctx, sessions)
	if err != nil {
		return nil, err
	}

	if err := s.sessionCache.SetActiveList(ctx, views); err != nil {
		log.Printf("[SessionQuery] Active list cache write failed: %v", err)
	}

	return views, nil
}

// ListRecentForUser returns the user's completed sessions, newest first.
func (s *SessionQueryService) ListRecentForUser(ctx context.Context, userID primitive.ObjectID) ([]*model.SessionView, error) {
	sessions, err := s.sessionRepo.FindRecentForUser(ctx, userID, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent sessions: %w", err)
	}

	return s.buildViews(ctx, sessions)
}

// GetByID returns one session with host and participant resolved.
func (s *SessionQueryService) GetByID(ctx context.Context, sessionID string) (*model.SessionView, error) {
	id, err := primitive.ObjectIDFromHex(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid session ID", ErrInvalidInput)
	}

	session, err := s.sessionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, ErrNotFound
	}

	views, err := s.buildViews(ctx, []*model.Session{session})
	if err != nil {
		return nil, err
	}

	return views[0], nil
}

// buildViews resolves every host and participant referenced by sessions in a
// single batched lookup.
func (s *SessionQueryService) buildViews(ctx context.Context, sessions []*model.Session) ([]*model.SessionView, error) {
	ids := make([]primitive.ObjectID, 0, len(sessions)*2)
	seen := make(map[primitive.ObjectID]bool)
	for _, sess := range sessions {
		if !seen[sess.Host] {
			seen[sess.Host] = true
			ids = append(ids, sess.Host)
		}
		if sess.Participant != nil && !seen[*sess.Participant] {
			seen[*sess.Participant] = true
			ids = append(ids, *sess.Participant)
		}
	}

	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve users: %w", err)
	}

	views := make([]*model.SessionView, 0, len(sessions))
	for _, sess := range sessions {
		view := &model.SessionView{
			ID:         sess.ID,
			Problem:    sess.Problem,
			Difficulty: sess.Difficulty,
			Host:       users[sess.Host].Summary(),
			CallID:     sess.CallID,
			Status:     sess.Status,
			CreatedAt:  sess.CreatedAt,
			UpdatedAt:  sess.UpdatedAt,
		}
		if sess.Participant != nil {
			view.Participant = users[*sess.Participant].Summary()
		}
		views = append(views, view)
	}

	return views, nil
}
