package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// CustomCategory is an admin-managed category referenced by posts through
// customCategoryId. Deletion is blocked while any post references it.
type CustomCategory struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	IsCustom    bool               `bson:"isCustom" json:"isCustom"`
	CreatedAt   int64              `bson:"createdAt" json:"createdAt"`
	UpdatedAt   int64              `bson:"updatedAt" json:"updatedAt"`
}

type DefaultCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DefaultCategories is the built-in category set posts can use without an
// admin creating anything.
var DefaultCategories = []DefaultCategory{
	{ID: "technology", Name: "Technology"},
	{ID: "lifestyle", Name: "Lifestyle"},
	{ID: "travel", Name: "Travel"},
	{ID: "food", Name: "Food & Cooking"},
	{ID: "health", Name: "Health & Fitness"},
	{ID: "business", Name: "Business"},
	{ID: "education", Name: "Education"},
	{ID: "entertainment", Name: "Entertainment"},
	{ID: "personal", Name: "Personal"},
	{ID: "other", Name: "Other"},
}

// ValidCategoryID reports whether id names a default category.
func ValidCategoryID(id string) bool {
	for _, cat := range DefaultCategories {
		if cat.ID == id {
			return true
		}
	}
	return false
}
