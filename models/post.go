package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Post struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title            string             `bson:"title" json:"title"`
	Content          string             `bson:"content" json:"content"`
	ImageURL         string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	ImageID          string             `bson:"imageId,omitempty" json:"-"`
	AudioURL         string             `bson:"audioUrl,omitempty" json:"audioUrl,omitempty"`
	AudioID          string             `bson:"audioId,omitempty" json:"-"`
	AuthorID         primitive.ObjectID `bson:"authorId" json:"authorId"`
	AuthorName       string             `bson:"authorName" json:"authorName"`
	AuthorPhotoURL   string             `bson:"authorPhotoURL,omitempty" json:"authorPhotoURL,omitempty"`
	Category         string             `bson:"category,omitempty" json:"category,omitempty"`
	CustomCategoryID string             `bson:"customCategoryId,omitempty" json:"customCategoryId,omitempty"`
	CreatedAt        int64              `bson:"createdAt" json:"createdAt"`
	UpdatedAt        int64              `bson:"updatedAt" json:"updatedAt"`
}

// SetCategory assigns the post's category keeping the default/custom fields
// mutually exclusive: a custom category id blanks the default id and vice
// versa. An empty or unknown default id falls back to "other".
func (p *Post) SetCategory(category, customCategoryID string) {
	if customCategoryID != "" {
		p.Category = ""
		p.CustomCategoryID = customCategoryID
		return
	}
	if !ValidCategoryID(category) {
		category = "other"
	}
	p.Category = category
	p.CustomCategoryID = ""
}
