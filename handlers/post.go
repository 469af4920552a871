package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"inkdrop/database"
	"inkdrop/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const searchScanLimit = 100

// CreatePost publishes a new blog post. Accepts multipart form data with
// optional "image" and "audio" files, which are uploaded to blob storage
// before the document write.
func CreatePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	content := c.PostForm("content")
	if title == "" || content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and content are required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var author models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&author); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch author"})
		return
	}

	now := time.Now().Unix()
	post := models.Post{
		ID:             primitive.NewObjectID(),
		Title:          title,
		Content:        content,
		AuthorID:       userID,
		AuthorName:     author.DisplayName,
		AuthorPhotoURL: author.PhotoURL,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	post.SetCategory(c.PostForm("category"), c.PostForm("customCategoryId"))

	if imageFile, header, err := c.Request.FormFile("image"); err == nil {
		defer imageFile.Close()
		url, publicID, err := uploadBlob(ctx, imageFile, blogImageFolder, userID.Hex(), header.Filename)
		if err != nil {
			log.Printf("[CreatePost] Image upload failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
			return
		}
		post.ImageURL = url
		post.ImageID = publicID
	}

	if audioFile, header, err := c.Request.FormFile("audio"); err == nil {
		defer audioFile.Close()
		url, publicID, err := uploadBlob(ctx, audioFile, blogAudioFolder, userID.Hex(), header.Filename)
		if err != nil {
			log.Printf("[CreatePost] Audio upload failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload audio"})
			return
		}
		post.AudioURL = url
		post.AudioID = publicID
	}

	if _, err := database.Posts.InsertOne(ctx, post); err != nil {
		log.Printf("[CreatePost] Insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	broadcastActivity("post_created", map[string]interface{}{
		"postId":     post.ID.Hex(),
		"title":      post.Title,
		"authorId":   post.AuthorID.Hex(),
		"authorName": post.AuthorName,
	})
	NotifyFollowersOfPost(post.AuthorID, post.AuthorName, post.ID, post.Title)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post created successfully",
		"postId":  post.ID.Hex(),
	})
}

// UpdatePost edits a post's title, content, category and optionally replaces
// its image. Only the author or an admin may edit.
func UpdatePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var post models.Post
	err = database.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	if !canModeratePost(ctx, userID, &post) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own posts"})
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	content := c.PostForm("content")
	if title == "" || content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and content are required"})
		return
	}

	updated := post
	updated.Title = title
	updated.Content = content
	updated.UpdatedAt = time.Now().Unix()
	updated.SetCategory(c.PostForm("category"), c.PostForm("customCategoryId"))

	if imageFile, header, err := c.Request.FormFile("image"); err == nil {
		defer imageFile.Close()

		// Old image removal is best effort; the edit proceeds either way.
		deleteBlob(ctx, post.ImageID)

		url, publicID, err := uploadBlob(ctx, imageFile, blogImageFolder, post.AuthorID.Hex(), header.Filename)
		if err != nil {
			log.Printf("[UpdatePost] Image upload failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
			return
		}
		updated.ImageURL = url
		updated.ImageID = publicID
	}

	update := bson.M{"$set": bson.M{
		"title":            updated.Title,
		"content":          updated.Content,
		"category":         updated.Category,
		"customCategoryId": updated.CustomCategoryID,
		"imageUrl":         updated.ImageURL,
		"imageId":          updated.ImageID,
		"updatedAt":        updated.UpdatedAt,
	}}
	if _, err := database.Posts.UpdateOne(ctx, bson.M{"_id": postID}, update); err != nil {
		log.Printf("[UpdatePost] Update error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post updated successfully"})
}

// DeletePost removes a post together with its comments and likes. Blob
// cleanup is best effort; the comment and like cascades run concurrently and
// are not transactional, so a failure can leave orphans behind.
func DeletePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var post models.Post
	err = database.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	if !canModeratePost(ctx, userID, &post) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own posts"})
		return
	}

	deleteBlob(ctx, post.ImageID)
	deleteBlob(ctx, post.AudioID)

	var wg sync.WaitGroup
	var commentsErr, likesErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, commentsErr = database.Comments.DeleteMany(ctx, bson.M{"postId": postID})
	}()
	go func() {
		defer wg.Done()
		_, likesErr = database.Likes.DeleteMany(ctx, bson.M{"postId": postID})
	}()
	wg.Wait()

	if commentsErr != nil || likesErr != nil {
		log.Printf("[DeletePost] Cascade error (comments: %v, likes: %v)", commentsErr, likesErr)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post data"})
		return
	}

	if _, err := database.Posts.DeleteOne(ctx, bson.M{"_id": postID}); err != nil {
		log.Printf("[DeletePost] Delete error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	broadcastActivity("post_deleted", map[string]interface{}{
		"postId": postID.Hex(),
	})

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// canModeratePost allows the post's author, admins and super admins.
func canModeratePost(ctx context.Context, userID primitive.ObjectID, post *models.Post) bool {
	if post.AuthorID == userID {
		return true
	}
	var user models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return false
	}
	return user.HasRole(models.RoleAdmin)
}

func GetPost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var post models.Post
	err = database.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	c.JSON(http.StatusOK, post)
}

func GetAllPosts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := database.Posts.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode posts"})
		return
	}

	c.JSON(http.StatusOK, posts)
}

func GetUserPosts(c *gin.Context) {
	authorID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := database.Posts.Find(ctx, bson.M{"authorId": authorID}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode posts"})
		return
	}

	c.JSON(http.StatusOK, posts)
}

// SearchPosts filters the newest posts by a case-insensitive title match.
// The store has no full-text search, so the scan is capped and the filter
// runs in memory.
func SearchPosts(c *gin.Context) {
	term := strings.ToLower(strings.TrimSpace(c.Query("q")))
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search term is required"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(searchScanLimit)
	cursor, err := database.Posts.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode posts"})
		return
	}

	matches := []models.Post{}
	for _, post := range posts {
		if strings.Contains(strings.ToLower(post.Title), term) {
			matches = append(matches, post)
			if len(matches) >= limit {
				break
			}
		}
	}

	c.JSON(http.StatusOK, matches)
}

// GetPostsByCategory lists posts in a default category, or a custom one when
// ?custom=true.
func GetPostsByCategory(c *gin.Context) {
	categoryID := c.Param("id")

	filter := bson.M{"category": categoryID}
	if c.Query("custom") == "true" {
		filter = bson.M{"customCategoryId": categoryID}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := database.Posts.Find(ctx, filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode posts"})
		return
	}

	c.JSON(http.StatusOK, posts)
}

// GetFollowingFeed lists the newest posts from authors the caller follows.
func GetFollowingFeed(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)
	if err != nil || limit <= 0 {
		limit = 10
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.Follows.Find(ctx, bson.M{"followerId": userID})
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
		c.JSON(http.StatusOK, []models.Post{})
		return
	}

	followingIDs := make([]primitive.ObjectID, 0, len(follows))
	for _, f := range follows {
		followingIDs = append(followingIDs, f.FollowingID)
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)
	postCursor, err := database.Posts.Find(ctx, bson.M{"authorId": bson.M{"$in": followingIDs}}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}
	defer postCursor.Close(ctx)

	posts := []models.Post{}
	if err := postCursor.All(ctx, &posts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode posts"})
		return
	}

	c.JSON(http.StatusOK, posts)
}
