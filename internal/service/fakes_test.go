package service

import (
	"codepair/internal/model"
	"codepair/internal/stream"
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeSessionRepo is an in-memory SessionRepo. ClaimSeat checks and applies
// its condition under one lock, matching the store's conditional update.
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[primitive.ObjectID]*model.Session

	insertErr error
	updateErr error
	findErr   error

	findCalls int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[primitive.ObjectID]*model.Session)}
}

func cloneSession(s *model.Session) *model.Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.Participant != nil {
		p := *s.Participant
		c.Participant = &p
	}
	return &c
}

func (r *fakeSessionRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (r *fakeSessionRepo) Insert(ctx context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	if session.ID.IsZero() {
		session.ID = primitive.NewObjectID()
	}
	r.sessions[session.ID] = cloneSession(session)
	return nil
}

func (r *fakeSessionRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findCalls++
	if r.findErr != nil {
		return nil, r.findErr
	}
	return cloneSession(r.sessions[id]), nil
}

func (r *fakeSessionRepo) ClaimSeat(ctx context.Context, sessionID, userID primitive.ObjectID) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok || s.Status != model.SessionActive || s.Participant != nil || s.Host == userID {
		return nil, nil
	}
	p := userID
	s.Participant = &p
	return cloneSession(s), nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	r.sessions[session.ID] = cloneSession(session)
	return nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *fakeSessionRepo) FindActive(ctx context.Context, limit int64) ([]*model.Session, error) {
	return r.findWhere(limit, func(s *model.Session) bool {
		return s.Status == model.SessionActive
	})
}

func (r *fakeSessionRepo) FindRecentForUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]*model.Session, error) {
	return r.findWhere(limit, func(s *model.Session) bool {
		return s.Status == model.SessionCompleted &&
			(s.Host == userID || (s.Participant != nil && *s.Participant == userID))
	})
}

func (r *fakeSessionRepo) findWhere(limit int64, match func(*model.Session) bool) ([]*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findCalls++
	out := []*model.Session{}
	for _, s := range r.sessions {
		if match(s) {
			out = append(out, cloneSession(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeSessionRepo) get(id primitive.ObjectID) *model.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneSession(r.sessions[id])
}

// fakeChat is an in-memory ChatProvider tracking channel existence and
// membership, with injectable failures.
type fakeChat struct {
	mu       sync.Mutex
	channels map[string][]string // channel id -> member ids

	createErr error
	deleteErr error
	addErr    error
	removeErr error
}

func newFakeChat() *fakeChat {
	return &fakeChat{channels: make(map[string][]string)}
}

func (c *fakeChat) CreateChannel(ctx context.Context, id, name, creator string, members []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.createErr != nil {
		return c.createErr
	}
	c.channels[id] = append([]string{}, members...)
	return nil
}

func (c *fakeChat) DeleteChannel(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deleteErr != nil {
		return c.deleteErr
	}
	delete(c.channels, id)
	return nil
}

func (c *fakeChat) AddMembers(ctx context.Context, id string, members []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.addErr != nil {
		return c.addErr
	}
	c.channels[id] = append(c.channels[id], members...)
	return nil
}

func (c *fakeChat) RemoveMembers(ctx context.Context, id string, members []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.removeErr != nil {
		return c.removeErr
	}
	remaining := []string{}
	drop := make(map[string]bool, len(members))
	for _, m := range members {
		drop[m] = true
	}
	for _, m := range c.channels[id] {
		if !drop[m] {
			remaining = append(remaining, m)
		}
	}
	c.channels[id] = remaining
	return nil
}

func (c *fakeChat) hasChannel(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.channels[id]
	return ok
}

func (c *fakeChat) members(id string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string{}, c.channels[id]...)
}

// fakeVideo is an in-memory VideoProvider.
type fakeVideo struct {
	mu    sync.Mutex
	calls map[string]stream.CallMetadata

	createErr error
	deleteErr error
}

func newFakeVideo() *fakeVideo {
	return &fakeVideo{calls: make(map[string]stream.CallMetadata)}
}

func (v *fakeVideo) GetOrCreateCall(ctx context.Context, id, creator string, meta stream.CallMetadata) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.createErr != nil {
		return v.createErr
	}
	v.calls[id] = meta
	return nil
}

func (v *fakeVideo) DeleteCall(ctx context.Context, id string, hard bool) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.deleteErr != nil {
		return v.deleteErr
	}
	delete(v.calls, id)
	return nil
}

func (v *fakeVideo) hasCall(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.calls[id]
	return ok
}

// fakeCache is an in-memory SessionCache counting invalidations.
type fakeCache struct {
	mu          sync.Mutex
	list        []*model.SessionView
	invalidated int
}

func (c *fakeCache) SetActiveList(ctx context.Context, views []*model.SessionView) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list = views
	return nil
}

func (c *fakeCache) GetActiveList(ctx context.Context) ([]*model.SessionView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list, nil
}

func (c *fakeCache) InvalidateActiveList(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list = nil
	c.invalidated++
	return nil
}

// fakeUserRepo is an in-memory UserRepo.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*model.User)}
}

func (r *fakeUserRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (r *fakeUserRepo) Insert(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id], nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[primitive.ObjectID]*model.User)
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

// fakeUserProvider is an in-memory UserProvider.
type fakeUserProvider struct {
	mu        sync.Mutex
	upserted  map[string]string // stream id -> name
	upsertErr error
}

func newFakeUserProvider() *fakeUserProvider {
	return &fakeUserProvider{upserted: make(map[string]string)}
}

func (p *fakeUserProvider) UpsertUser(ctx context.Context, id, name, image string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.upsertErr != nil {
		return p.upsertErr
	}
	p.upserted[id] = name
	return nil
}

func (p *fakeUserProvider) UserToken(id string) (string, error) {
	return "stream-token-" + id, nil
}
