package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User roles
const (
	RoleStudent = "student"
	RoleMentor  = "mentor"
)

// User holds the structure for the users collection in mongo
type User struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name           string             `json:"name" bson:"name"`
	Email          string             `json:"email" bson:"email"`
	Password       string             `json:"-" bson:"password"` // bcrypt hash, never serialized
	Role           string             `json:"role" bson:"role"`
	GithubUsername string             `json:"githubUsername,omitempty" bson:"githubUsername,omitempty"`
	Bio            string             `json:"bio,omitempty" bson:"bio,omitempty"`
	Skills         []string           `json:"skills,omitempty" bson:"skills,omitempty"`
	Company        string             `json:"company,omitempty" bson:"company,omitempty"`
	Expertise      []string           `json:"expertise,omitempty" bson:"expertise,omitempty"`
}
