package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSetCategoryDefault(t *testing.T) {
	var p Post
	p.SetCategory("technology", "")

	assert.Equal(t, "technology", p.Category)
	assert.Empty(t, p.CustomCategoryID)
}

func TestSetCategoryCustomWinsOverDefault(t *testing.T) {
	var p Post
	p.SetCategory("technology", "abc123")

	assert.Empty(t, p.Category)
	assert.Equal(t, "abc123", p.CustomCategoryID)
}

func TestSetCategoryEmptyFallsBackToOther(t *testing.T) {
	var p Post
	p.SetCategory("", "")

	assert.Equal(t, "other", p.Category)
	assert.Empty(t, p.CustomCategoryID)
}

func TestSetCategoryUnknownIDFallsBackToOther(t *testing.T) {
	var p Post
	p.SetCategory("not-a-category", "")

	assert.Equal(t, "other", p.Category)
	assert.Empty(t, p.CustomCategoryID)
}

func TestSetCategoryCustomClearsPreviousDefault(t *testing.T) {
	p := Post{Category: "travel"}
	p.SetCategory("", "abc123")

	assert.Empty(t, p.Category)
	assert.Equal(t, "abc123", p.CustomCategoryID)
}

func TestLikeIDComposite(t *testing.T) {
	userID := primitive.NewObjectID()
	postID := primitive.NewObjectID()

	assert.Equal(t, userID.Hex()+"_"+postID.Hex(), LikeID(userID, postID))
	// Same pair always yields the same id.
	assert.Equal(t, LikeID(userID, postID), LikeID(userID, postID))
}

func TestFollowIDComposite(t *testing.T) {
	follower := primitive.NewObjectID()
	following := primitive.NewObjectID()

	assert.Equal(t, follower.Hex()+"_"+following.Hex(), FollowID(follower, following))
	assert.NotEqual(t, FollowID(follower, following), FollowID(following, follower))
}

func TestHasRole(t *testing.T) {
	user := User{Role: RoleUser}
	admin := User{Role: RoleAdmin}
	super := User{Role: RoleSuperAdmin}

	assert.True(t, user.HasRole(RoleUser))
	assert.False(t, user.HasRole(RoleAdmin))

	assert.True(t, admin.HasRole(RoleAdmin))
	assert.False(t, admin.HasRole(RoleSuperAdmin))

	// Super admin passes every admin check.
	assert.True(t, super.HasRole(RoleAdmin))
	assert.True(t, super.HasRole(RoleSuperAdmin))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleUser))
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RoleSuperAdmin))
	assert.False(t, ValidRole("owner"))
	assert.False(t, ValidRole(""))
}

func TestValidCategoryID(t *testing.T) {
	assert.True(t, ValidCategoryID("technology"))
	assert.True(t, ValidCategoryID("other"))
	assert.False(t, ValidCategoryID("Technology"))
	assert.False(t, ValidCategoryID(""))
}
