package main

import (
	"codepair/internal/model"
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "codepair"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	userColl := client.Database(dbName).Collection("users")

	demoUsers := []struct {
		name  string
		email string
	}{
		{"Ada Lovelace", "ada@example.com"},
		{"Grace Hopper", "grace@example.com"},
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash demo password: %v", err)
	}

	now := time.Now().UTC()
	for _, du := range demoUsers {
		user := model.User{
			ID:           primitive.NewObjectID(),
			Name:         du.name,
			Email:        du.email,
			StreamID:     "user_" + uuid.New().String()[:8],
			PasswordHash: string(hash),
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		_, err := userColl.InsertOne(ctx, user)
		if err != nil {
			log.Fatalf("Failed to insert user %s: %v", du.email, err)
		}

		fmt.Printf("Seeded user %s (%s), password 'password123'\n", du.name, du.email)
	}
}
