package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"inkdrop/database"
	"inkdrop/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FollowUser creates a follow edge from the caller to the target user.
// Following yourself is a policy violation; following twice is a no-op
// thanks to the composite edge id.
func FollowUser(c *gin.Context) {
	followerID, ok := currentUserID(c)
	if !ok {
		return
	}

	followingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if followerID == followingID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot follow yourself"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := database.Users.CountDocuments(ctx, bson.M{"_id": followingID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	follow := models.Follow{
		ID:          models.FollowID(followerID, followingID),
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   time.Now().Unix(),
	}

	_, err = database.Follows.ReplaceOne(
		ctx,
		bson.M{"_id": follow.ID},
		follow,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		log.Printf("[FollowUser] Upsert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to follow user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User followed"})
}

func UnfollowUser(c *gin.Context) {
	followerID, ok := currentUserID(c)
	if !ok {
		return
	}

	followingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.Follows.DeleteOne(ctx, bson.M{"_id": models.FollowID(followerID, followingID)})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unfollow user"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Follow not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User unfollowed"})
}

// GetFollowStatus reports whether the caller follows the target user.
func GetFollowStatus(c *gin.Context) {
	followerID, ok := currentUserID(c)
	if !ok {
		return
	}

	followingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := database.Follows.CountDocuments(ctx, bson.M{"_id": models.FollowID(followerID, followingID)})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": count > 0})
}

// GetFollowCounts returns follower and following counts for a user.
func GetFollowCounts(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	followers, following, err := followCounts(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"followersCount": followers,
		"followingCount": following,
	})
}

func followCounts(ctx context.Context, userID primitive.ObjectID) (int64, int64, error) {
	followers, err := database.Follows.CountDocuments(ctx, bson.M{"followingId": userID})
	if err != nil {
		return 0, 0, err
	}
	following, err := database.Follows.CountDocuments(ctx, bson.M{"followerId": userID})
	if err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}

// GetFollowers lists the users following the target, newest edge first,
// each enriched with profile fields and their own follow counts.
func GetFollowers(c *gin.Context) {
	listFollowEdgeUsers(c, "followingId", func(f models.Follow) primitive.ObjectID { return f.FollowerID })
}

// GetFollowing lists the users the target follows, newest edge first.
func GetFollowing(c *gin.Context) {
	listFollowEdgeUsers(c, "followerId", func(f models.Follow) primitive.ObjectID { return f.FollowingID })
}

func listFollowEdgeUsers(c *gin.Context, edgeField string, otherSide func(models.Follow) primitive.ObjectID) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := database.Follows.Find(ctx, bson.M{edgeField: userID}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch follows"})
		return
	}
	defer cursor.Close(ctx)

	var follows []models.Follow
	if err := cursor.All(ctx, &follows); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode follows"})
		return
	}

	if len(follows) == 0 {
		c.JSON(http.StatusOK, []gin.H{})
		return
	}

	ids := make([]primitive.ObjectID, 0, len(follows))
	for _, f := range follows {
		ids = append(ids, otherSide(f))
	}

	userCursor, err := database.Users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	defer userCursor.Close(ctx)

	var users []models.User
	if err := userCursor.All(ctx, &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode users"})
		return
	}

	userByID := make(map[primitive.ObjectID]models.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}

	// Users deleted since the edge was written are skipped.
	response := make([]gin.H, 0, len(follows))
	for _, f := range follows {
		u, exists := userByID[otherSide(f)]
		if !exists {
			continue
		}

		followers, following, err := followCounts(ctx, u.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		response = append(response, gin.H{
			"id":             u.ID.Hex(),
			"displayName":    u.DisplayName,
			"email":          u.Email,
			"photoURL":       u.PhotoURL,
			"followersCount": followers,
			"followingCount": following,
		})
	}

	c.JSON(http.StatusOK, response)
}
