package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"inkdrop/database"
	"inkdrop/models"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InitVAPIDKeys loads the web push signing keys from the environment,
// generating a throwaway pair when none are configured so development
// still works.
func InitVAPIDKeys() {
	if os.Getenv("VAPID_PUBLIC_KEY") == "" || os.Getenv("VAPID_PRIVATE_KEY") == "" {
		privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
		if err != nil {
			log.Printf("[Push] Failed to generate VAPID keys: %v", err)
			return
		}

		os.Setenv("VAPID_PUBLIC_KEY", publicKey)
		os.Setenv("VAPID_PRIVATE_KEY", privateKey)

		log.Println("[Push] Generated new VAPID keys. Set these as environment variables for production:")
		log.Printf("[Push]   VAPID_PUBLIC_KEY: %s", publicKey)
		log.Printf("[Push]   VAPID_PRIVATE_KEY: %s", privateKey)
	}

	vapidPrivateKey = os.Getenv("VAPID_PRIVATE_KEY")
}

func GetVapidPublicKey(c *gin.Context) {
	publicKey := os.Getenv("VAPID_PUBLIC_KEY")
	if publicKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Push notifications are not configured"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"publicKey": publicKey})
}

func SubscribePush(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Endpoint string `json:"endpoint" binding:"required"`
		Keys     struct {
			P256dh string `json:"p256dh" binding:"required"`
			Auth   string `json:"auth" binding:"required"`
		} `json:"keys" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sub := webpush.Subscription{
		Endpoint: req.Endpoint,
		Keys: webpush.Keys{
			P256dh: req.Keys.P256dh,
			Auth:   req.Keys.Auth,
		},
	}

	// One subscription per user; a new browser registration replaces the old.
	_, err := database.PushSubs.UpdateOne(
		ctx,
		bson.M{"userId": userID},
		pushSubscriptionUpsert(userID, sub),
		options.Update().SetUpsert(true),
	)
	if err != nil {
		log.Printf("[SubscribePush] Failed to save subscription: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Push subscription saved successfully"})
}

// pushSubscriptionUpsert builds the replace-or-insert update for a user's
// subscription. The _id only appears in $setOnInsert: it is immutable, so
// $set-ing a fresh one on re-subscribe would fail the whole update.
func pushSubscriptionUpsert(userID primitive.ObjectID, sub webpush.Subscription) bson.M {
	return bson.M{
		"$set": bson.M{
			"userId": userID,
			"sub":    sub,
		},
		"$setOnInsert": bson.M{
			"_id": primitive.NewObjectID(),
		},
	}
}

func UnsubscribePush(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.PushSubs.DeleteOne(ctx, bson.M{"userId": userID}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Push subscription removed"})
}

// NotifyFollowersOfPost pushes a notification to every follower of the
// author. Delivery runs in the background; individual failures are logged
// and expired subscriptions are pruned.
func NotifyFollowersOfPost(authorID primitive.ObjectID, authorName string, postID primitive.ObjectID, title string) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[Push] Panic while notifying followers: %v", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		cursor, err := database.Follows.Find(ctx, bson.M{"followingId": authorID})
		if err != nil {
			log.Printf("[Push] Failed to load followers of %s: %v", authorID.Hex(), err)
			return
		}
		defer cursor.Close(ctx)

		var follows []models.Follow
		if err := cursor.All(ctx, &follows); err != nil {
			log.Printf("[Push] Failed to decode followers: %v", err)
			return
		}

		if authorName == "" {
			authorName = "Someone"
		}

		payload := map[string]interface{}{
			"title": authorName + " published a new post",
			"body":  title,
			"data": map[string]interface{}{
				"url":       "/posts/" + postID.Hex(),
				"timestamp": time.Now().Unix(),
			},
		}

		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			log.Printf("[Push] Failed to marshal payload: %v", err)
			return
		}

		for _, follow := range follows {
			sendPush(ctx, follow.FollowerID, payloadBytes)
		}
	}()
}

func sendPush(ctx context.Context, userID primitive.ObjectID, payload []byte) {
	var sub PushSubscription
	err := database.PushSubs.FindOne(ctx, bson.M{"userId": userID}).Decode(&sub)
	if err != nil {
		return
	}

	status, err := deliverPush(payload, &sub.Sub)
	if err != nil {
		log.Printf("[Push] Failed to send to user %s: %v", userID.Hex(), err)
		return
	}

	// Gone means the browser dropped the endpoint for good.
	if status == http.StatusGone {
		if _, err := database.PushSubs.DeleteOne(ctx, bson.M{"userId": userID}); err != nil {
			log.Printf("[Push] Failed to delete expired subscription: %v", err)
		}
	}
}

// deliverPush sends one notification and reports the push service's HTTP
// status. SendNotification only errors on transport or crypto failures;
// rejections come back as a response status on the nil-error path.
func deliverPush(payload []byte, sub *webpush.Subscription) (int, error) {
	resp, err := webpush.SendNotification(payload, sub, &webpush.Options{
		Subscriber:      "mailto:admin@inkdrop.app",
		VAPIDPrivateKey: vapidPrivateKey,
		TTL:             30,
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}
