package handlers

import (
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPushSubscriptionUpsertNeverRewritesID(t *testing.T) {
	userID := primitive.NewObjectID()
	sub := webpush.Subscription{Endpoint: "https://push.example/ep"}

	update := pushSubscriptionUpsert(userID, sub)

	set, ok := update["$set"].(bson.M)
	require.True(t, ok)
	// Re-subscribing matches the existing document; $set-ing _id there
	// would be rejected as an immutable field modification.
	assert.NotContains(t, set, "_id")
	assert.Equal(t, userID, set["userId"])
	assert.Equal(t, sub, set["sub"])

	insert, ok := update["$setOnInsert"].(bson.M)
	require.True(t, ok)
	assert.Contains(t, insert, "_id")
}

func testSubscription(t *testing.T, endpoint string) webpush.Subscription {
	t.Helper()

	key, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)

	auth := make([]byte, 16)
	_, err = rand.Read(auth)
	require.NoError(t, err)

	return webpush.Subscription{
		Endpoint: endpoint,
		Keys: webpush.Keys{
			P256dh: base64.RawURLEncoding.EncodeToString(key.PublicKey().Bytes()),
			Auth:   base64.RawURLEncoding.EncodeToString(auth),
		},
	}
}

func TestDeliverPushReportsGoneStatus(t *testing.T) {
	privateKey, _, err := webpush.GenerateVAPIDKeys()
	require.NoError(t, err)
	vapidPrivateKey = privateKey

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer server.Close()

	sub := testSubscription(t, server.URL)

	status, err := deliverPush([]byte(`{"title":"hi"}`), &sub)
	require.NoError(t, err)
	assert.Equal(t, http.StatusGone, status)
}

func TestDeliverPushReportsSuccessStatus(t *testing.T) {
	privateKey, _, err := webpush.GenerateVAPIDKeys()
	require.NoError(t, err)
	vapidPrivateKey = privateKey

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	sub := testSubscription(t, server.URL)

	status, err := deliverPush([]byte(`{"title":"hi"}`), &sub)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)
}
