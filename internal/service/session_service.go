package service

import (
	"codepair/internal/cache"
	"codepair/internal/model"
	"codepair/internal/repository"
	"codepair/internal/stream"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lobby and session event types pushed over WebSocket.
const (
	EventSessionCreated  = "session_created"
	EventSessionJoined   = "session_joined"
	EventSessionLeft     = "session_left"
	EventSessionEnded    = "session_ended"
	EventSessionReopened = "session_reopened"
)

// SessionService coordinates the session lifecycle against the store and the
// two remote collaboration resources. Mongo is authoritative: once a status
// transition is persisted it is never walked back because a provider call
// failed. The only rollbacks are the Create compensations.
type SessionService struct {
	sessionRepo  repository.SessionRepo
	sessionCache cache.SessionCache
	chat         ChatProvider
	video        VideoProvider
	broadcaster  Broadcaster
}

// NewSessionService creates a new session service
func NewSessionService(
	sessionRepo repository.SessionRepo,
	sessionCache cache.SessionCache,
	chat ChatProvider,
	video VideoProvider,
) *SessionService {
	return &SessionService{
		sessionRepo:  sessionRepo,
		sessionCache: sessionCache,
		chat:         chat,
		video:        video,
	}
}

// SetBroadcaster wires the WebSocket hub after construction
func (s *SessionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Create provisions the chat channel, the session record and the video call,
// in that order, all keyed by one fresh callId. If a later step fails, the
// earlier steps are compensated in reverse; compensation failures are logged
// and the original error is still returned.
func (s *SessionService) Create(ctx context.Context, problem string, difficulty model.Difficulty, hostID primitive.ObjectID, hostStreamID string) (*model.Session, error) {
	if problem == "" || !difficulty.Valid() {
		return nil, fmt.Errorf("%w: problem and difficulty are required", ErrInvalidInput)
	}

	callID := newCallID()

	// Step 1: chat channel with the host as sole member
	channelName := problem + " Session"
	if err := s.chat.CreateChannel(ctx, callID, channelName, hostStreamID, []string{hostStreamID}); err != nil {
		return nil, fmt.Errorf("failed to create chat channel: %w", err)
	}

	// Step 2: authoritative record
	session := &model.Session{
		Problem:    problem,
		Difficulty: difficulty,
		Host:       hostID,
		CallID:     callID,
		Status:     model.SessionActive,
	}
	if err := s.sessionRepo.Insert(ctx, session); err != nil {
		s.compensateCreate(ctx, callID, nil)
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	// Step 3: video call, carrying the session context as call metadata
	meta := stream.CallMetadata{
		Problem:    problem,
		Difficulty: string(difficulty),
		SessionID:  session.ID.Hex(),
	}
	if err := s.video.GetOrCreateCall(ctx, callID, hostStreamID, meta); err != nil {
		s.compensateCreate(ctx, callID, session)
		return nil, fmt.Errorf("failed to create video call: %w", err)
	}

	s.invalidateActiveList(ctx)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastLobby(EventSessionCreated, map[string]string{"sessionId": session.ID.Hex()})
	}

	return session, nil
}

// compensateCreate undoes Create's earlier steps after a later one failed.
// Best effort: a crash between the channel creation and this call can leave
// an orphaned channel behind, which we accept rather than hide.
func (s *SessionService) compensateCreate(ctx context.Context, callID string, session *model.Session) {
	if err := s.chat.DeleteChannel(ctx, callID); err != nil {
		log.Printf("[Session] Create cleanup: channel delete failed for %s: %v", callID, err)
	}
	if session != nil {
		if err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
			log.Printf("[Session] Create cleanup: record delete failed for %s: %v", session.ID.Hex(), err)
		}
	}
}

// Join claims the participant seat with a single conditional update; two
// racing joiners cannot both succeed and the host can never join their own
// session. The chat membership add afterwards is best effort: when it fails
// the join stands and the returned flag tells the caller chat may lag.
func (s *SessionService) Join(ctx context.Context, sessionID string, userID primitive.ObjectID, userStreamID string) (*model.Session, bool, error) {
	id, err := primitive.ObjectIDFromHex(sessionID)
	if err != nil {
		return nil, false, fmt.Errorf("%w: invalid session ID", ErrInvalidInput)
	}

	session, err := s.sessionRepo.ClaimSeat(ctx, id, userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to join session: %w", err)
	}
	if session == nil {
		return nil, false, ErrNotJoinable
	}

	chatWarning := false
	if err := s.chat.AddMembers(ctx, session.CallID, []string{userStreamID}); err != nil {
		log.Printf("[Session] Failed to add %s to channel %s: %v", userStreamID, session.CallID, err)
		chatWarning = true
	}

	s.invalidateActiveList(ctx)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastSession(session.ID.Hex(), EventSessionJoined, map[string]string{"userId": userID.Hex()})
	}

	return session, chatWarning, nil
}

// End completes a session. Host only. Remote cleanup is attempted first but
// never blocks the transition: the session always lands on completed.
func (s *SessionService) End(ctx context.Context, sessionID string, userID primitive.ObjectID) (*model.Session, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsHost(userID) {
		return nil, fmt.Errorf("%w: only the host can end the session", ErrForbidden)
	}
	if session.Status == model.SessionCompleted {
		return nil, ErrAlreadyCompleted
	}

	return s.complete(ctx, session)
}

// Leave removes the requester from a session. A leaving host ends the session
// for both parties; a leaving participant reopens the seat.
func (s *SessionService) Leave(ctx context.Context, sessionID string, userID primitive.ObjectID, userStreamID string) (*model.Session, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Status == model.SessionCompleted {
		return nil, ErrAlreadyCompleted
	}

	if session.IsHost(userID) {
		return s.complete(ctx, session)
	}

	if !session.HasParticipant(userID) {
		return nil, fmt.Errorf("%w: you are not a participant of this session", ErrForbidden)
	}

	session.Participant = nil
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	if err := s.chat.RemoveMembers(ctx, session.CallID, []string{userStreamID}); err != nil {
		log.Printf("[Session] Failed to remove %s from channel %s: %v", userStreamID, session.CallID, err)
	}

	s.invalidateActiveList(ctx)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastSession(session.ID.Hex(), EventSessionLeft, map[string]string{"userId": userID.Hex()})
		s.broadcaster.BroadcastLobby(EventSessionReopened, map[string]string{"sessionId": session.ID.Hex()})
	}

	return session, nil
}

// complete tears down the remote call and channel, then marks the session
// completed. Each remote delete failure is logged and swallowed so a degraded
// provider can never strand a session on active.
func (s *SessionService) complete(ctx context.Context, session *model.Session) (*model.Session, error) {
	if err := s.video.DeleteCall(ctx, session.CallID, true); err != nil {
		log.Printf("[Session] Video call delete failed for %s: %v", session.CallID, err)
	}
	if err := s.chat.DeleteChannel(ctx, session.CallID); err != nil {
		log.Printf("[Session] Chat channel delete failed for %s: %v", session.CallID, err)
	}

	session.Status = model.SessionCompleted
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	s.invalidateActiveList(ctx)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastSession(session.ID.Hex(), EventSessionEnded, map[string]string{"sessionId": session.ID.Hex()})
		s.broadcaster.BroadcastLobby(EventSessionEnded, map[string]string{"sessionId": session.ID.Hex()})
	}

	return session, nil
}

func (s *SessionService) loadSession(ctx context.Context, sessionID string) (*model.Session, error) {
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

	return session, nil
}

func (s *SessionService) invalidateActiveList(ctx context.Context) {
	if err := s.sessionCache.InvalidateActiveList(ctx); err != nil {
		log.Printf("[Session] Failed to invalidate active list cache: %v", err)
	}
}

// newCallID generates the correlation key shared by the session record, the
// chat channel and the video call. The store's unique index catches the
// unlikely collision.
func newCallID() string {
	return fmt.Sprintf("session_%d_%s", time.Now().UnixMilli(), uuid.New().String()[:8])
}
