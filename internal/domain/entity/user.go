package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user can register with.
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
)

// User is the aggregate root for account data.
// Password holds a bcrypt hash and is never serialized to clients.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Username    string             `bson:"username" json:"username"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password" json:"-"`
	Role        string             `bson:"role" json:"role"`
	Date        time.Time          `bson:"date" json:"date"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
}

func (u *User) IsStudent() bool    { return u.Role == RoleStudent }
func (u *User) IsInstructor() bool { return u.Role == RoleInstructor }
