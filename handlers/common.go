package handlers

import (
	"net/http"

	"inkdrop/websocket"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Shared state wired up from main.
var activityHub *websocket.Hub
var vapidPrivateKey string

// PushSubscription stores a browser push endpoint for one user.
type PushSubscription struct {
	ID     primitive.ObjectID   `bson:"_id,omitempty"`
	UserID primitive.ObjectID   `bson:"userId"`
	Sub    webpush.Subscription `bson:"sub"`
}

// SetActivityHub sets the websocket hub used for dashboard activity events.
func SetActivityHub(hub *websocket.Hub) {
	activityHub = hub
}

// SetVAPIDPrivateKey sets the key used to sign web push messages.
func SetVAPIDPrivateKey(key string) {
	vapidPrivateKey = key
}

// currentUserID pulls the authenticated user id out of the request context.
// Writes a 401 and returns false when it is missing or malformed.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return primitive.NilObjectID, false
	}
	return userID, true
}

func broadcastActivity(eventType string, payload map[string]interface{}) {
	if activityHub != nil {
		activityHub.Broadcast(eventType, payload)
	}
}
