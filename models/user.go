package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User roles, lowest to highest privilege.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DisplayName  string             `bson:"displayName" json:"displayName"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash,omitempty" json:"-"`
	PhotoURL     string             `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	PhotoID      string             `bson:"photoId,omitempty" json:"-"`
	Role         string             `bson:"role" json:"role"`
	IsBanned     bool               `bson:"isBanned" json:"isBanned"`
	CreatedAt    int64              `bson:"createdAt" json:"createdAt"`
	UpdatedAt    int64              `bson:"updatedAt" json:"updatedAt"`
}

// HasRole reports whether the user satisfies the required role. An admin
// check passes for super admins too.
func (u *User) HasRole(role string) bool {
	if u.Role == role {
		return true
	}
	return role == RoleAdmin && u.Role == RoleSuperAdmin
}

// ValidRole reports whether s is one of the known role values.
func ValidRole(s string) bool {
	return s == RoleUser || s == RoleAdmin || s == RoleSuperAdmin
}
