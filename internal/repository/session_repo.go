package repository

import (
	"codepair/internal/model"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SessionRepo interface {
	EnsureIndexes(ctx context.Context) error
	Insert(ctx context.Context, session *model.Session) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Session, error)
	// ClaimSeat atomically sets the participant if, at the moment of the
	// write, the session is active, the seat is empty and userID is not the
	// host. Returns nil when the claim did not apply.
	ClaimSeat(ctx context.Context, sessionID, userID primitive.ObjectID) (*model.Session, error)
	Update(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindActive(ctx context.Context, limit int64) ([]*model.Session, error)
	FindRecentForUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]*model.Session, error)
}

type sessionRepo struct {
	collection *mongo.Collection
}

func NewSessionRepo(db *mongo.Database) SessionRepo {
	return &sessionRepo{
		collection: db.Collection("sessions"),
	}
}

// EnsureIndexes creates the unique callId index. Uniqueness of generated
// callIds is best-effort upstream; this constraint is the backstop.
func (r *sessionRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "callId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	})
	return err
}

func (r *sessionRepo) Insert(ctx context.Context, session *model.Session) error {
	now := time.Now().UTC()
	if session.ID.IsZero() {
		session.ID = primitive.NewObjectID()
	}
	session.CreatedAt = now
	session.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, session)
	return err
}

func (r *sessionRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Session, error) {
	var session model.Session
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Session not found
		}
		return nil, err
	}

	return &session, nil
}

func (r *sessionRepo) ClaimSeat(ctx context.Context, sessionID, userID primitive.ObjectID) (*model.Session, error) {
	filter := bson.M{
		"_id":         sessionID,
		"status":      model.SessionActive,
		"participant": nil,
		"host":        bson.M{"$ne": userID},
	}
	update := bson.M{"$set": bson.M{
		"participant": userID,
		"updatedAt":   time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var session model.Session
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Seat not claimable (full, completed, gone, or host)
		}
		return nil, err
	}

	return &session, nil
}

func (r *sessionRepo) Update(ctx context.Context, session *model.Session) error {
	session.UpdatedAt = time.Now().UTC()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": session.ID}, session)
	return err
}

func (r *sessionRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *sessionRepo) FindActive(ctx context.Context, limit int64) ([]*model.Session, error) {
	filter := bson.M{"status": model.SessionActive}
	return r.findMany(ctx, filter, limit)
}

func (r *sessionRepo) FindRecentForUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]*model.Session, error) {
	filter := bson.M{
		"status": model.SessionCompleted,
		"$or": []bson.M{
			{"host": userID},
			{"participant": userID},
		},
	}
	return r.findMany(ctx, filter, limit)
}

func (r *sessionRepo) findMany(ctx context.Context, filter bson.M, limit int64) ([]*model.Session, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sessions := []*model.Session{}
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}

	return sessions, nil
}
