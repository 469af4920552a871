package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Like uses a composite document id so that at most one like can exist per
// (user, post) pair. Writing the same like twice overwrites the edge instead
// of duplicating it.
type Like struct {
	ID        string             `bson:"_id" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	PostID    primitive.ObjectID `bson:"postId" json:"postId"`
	CreatedAt int64              `bson:"createdAt" json:"createdAt"`
}

// LikeID builds the composite key "{userId}_{postId}".
func LikeID(userID, postID primitive.ObjectID) string {
	return userID.Hex() + "_" + postID.Hex()
}
