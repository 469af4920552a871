// Command setup-admin provisions the super admin account. It is meant to be
// run once against a fresh database:
//
//	SUPER_ADMIN_EMAIL=... SUPER_ADMIN_PASSWORD=... go run ./cmd/setup-admin
//
// Running it again against an existing account promotes that account instead
// of creating a duplicate.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"inkdrop/database"
	"inkdrop/models"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	email := os.Getenv("SUPER_ADMIN_EMAIL")
	password := os.Getenv("SUPER_ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("SUPER_ADMIN_EMAIL and SUPER_ADMIN_PASSWORD must be set")
	}
	if len(password) < 6 {
		log.Fatal("SUPER_ADMIN_PASSWORD must be at least 6 characters")
	}

	if err := database.Connect(); err != nil {
		log.Fatal("Failed to connect to MongoDB: ", err)
	}
	defer database.Disconnect()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password: ", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	displayName := os.Getenv("SUPER_ADMIN_NAME")
	if displayName == "" {
		displayName = "Super Admin"
	}

	now := time.Now().Unix()
	result, err := database.Users.UpdateOne(
		ctx,
		bson.M{"email": email},
		bson.M{
			"$set": bson.M{
				"passwordHash": string(hash),
				"role":         models.RoleSuperAdmin,
				"isBanned":     false,
				"updatedAt":    now,
			},
			"$setOnInsert": bson.M{
				"_id":         primitive.NewObjectID(),
				"email":       email,
				"displayName": displayName,
				"createdAt":   now,
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		log.Fatal("Failed to provision super admin: ", err)
	}

	if result.UpsertedCount > 0 {
		log.Printf("Created super admin account %s", email)
	} else {
		log.Printf("Promoted existing account %s to super admin", email)
	}
}
