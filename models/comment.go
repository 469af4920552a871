package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Comment struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PostID       primitive.ObjectID `bson:"postId" json:"postId"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	UserName     string             `bson:"userName" json:"userName"`
	UserPhotoURL string             `bson:"userPhotoURL,omitempty" json:"userPhotoURL,omitempty"`
	Content      string             `bson:"content" json:"content"`
	CreatedAt    int64              `bson:"createdAt" json:"createdAt"`
	UpdatedAt    int64              `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
