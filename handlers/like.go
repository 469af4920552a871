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

// LikePost records a like for the caller. The composite document id makes
// the write idempotent: liking twice replaces the same edge.
func LikePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := database.Posts.CountDocuments(ctx, bson.M{"_id": postID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	like := models.Like{
		ID:        models.LikeID(userID, postID),
		UserID:    userID,
		PostID:    postID,
		CreatedAt: time.Now().Unix(),
	}

	_, err = database.Likes.ReplaceOne(
		ctx,
		bson.M{"_id": like.ID},
		like,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		log.Printf("[LikePost] Upsert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to like post"})
		return
	}

	broadcastActivity("like_toggled", map[string]interface{}{
		"postId": postID.Hex(),
		"userId": userID.Hex(),
		"liked":  true,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Post liked"})
}

func UnlikePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.Likes.DeleteOne(ctx, bson.M{"_id": models.LikeID(userID, postID)}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unlike post"})
		return
	}

	broadcastActivity("like_toggled", map[string]interface{}{
		"postId": postID.Hex(),
		"userId": userID.Hex(),
		"liked":  false,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Post unliked"})
}

// GetPostLikes returns the like count and the user ids that liked the post,
// newest first.
func GetPostLikes(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := database.Likes.Find(ctx, bson.M{"postId": postID}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch likes"})
		return
	}
	defer cursor.Close(ctx)

	var likes []models.Like
	if err := cursor.All(ctx, &likes); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode likes"})
		return
	}

	userIDs := make([]string, 0, len(likes))
	for _, like := range likes {
		userIDs = append(userIDs, like.UserID.Hex())
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(likes),
		"userIds": userIDs,
	})
}

// GetLikeStatus reports whether the caller has liked the post.
func GetLikeStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := database.Likes.CountDocuments(ctx, bson.M{"_id": models.LikeID(userID, postID)})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": count > 0})
}

// GetUserLikes lists the post ids a user has liked, newest first.
func GetUserLikes(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := database.Likes.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch likes"})
		return
	}
	defer cursor.Close(ctx)

	var likes []models.Like
	if err := cursor.All(ctx, &likes); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode likes"})
		return
	}

	postIDs := make([]string, 0, len(likes))
	for _, like := range likes {
		postIDs = append(postIDs, like.PostID.Hex())
	}

	c.JSON(http.StatusOK, gin.H{"postIds": postIDs})
}
