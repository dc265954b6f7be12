package service

import (
	"codepair/internal/stream"
	"context"
)

// ChatProvider is the messaging capability the coordinator needs.
type ChatProvider interface {
	CreateChannel(ctx context.Context, id, name, creator string, members []string) error
	DeleteChannel(ctx context.Context, id string) error
	AddMembers(ctx context.Context, id string, members []string) error
	RemoveMembers(ctx context.Context, id string, members []string) error
}

// VideoProvider is the video-call capability the coordinator needs.
type VideoProvider interface {
	GetOrCreateCall(ctx context.Context, id, creator string, meta stream.CallMetadata) error
	DeleteCall(ctx context.Context, id string, hard bool) error
}

// UserProvider mirrors users to the chat/video provider and mints their
// client-side tokens.
type UserProvider interface {
	UpsertUser(ctx context.Context, id, name, image string) error
	UserToken(id string) (string, error)
}
