package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Follow is a directed edge keyed by "{followerId}_{followingId}", so a pair
// of users can hold at most one edge per direction.
type Follow struct {
	ID          string             `bson:"_id" json:"id"`
	FollowerID  primitive.ObjectID `bson:"followerId" json:"followerId"`
	FollowingID primitive.ObjectID `bson:"followingId" json:"followingId"`
	CreatedAt   int64              `bson:"createdAt" json:"createdAt"`
}

// FollowID builds the composite key for a follow edge.
func FollowID(followerID, followingID primitive.ObjectID) string {
	return followerID.Hex() + "_" + followingID.Hex()
}
