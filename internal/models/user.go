package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a learner account. Password holds the bcrypt hash and is never
// serialized to JSON.
type User struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Email            string               `bson:"email" json:"email"`
	Password         string               `bson:"password" json:"-"`
	FullName         string               `bson:"fullName" json:"fullName"`
	Bio              string               `bson:"bio" json:"bio"`
	ProfilePic       string               `bson:"profilePic" json:"profilePic"`
	NativeLanguage   string               `bson:"nativeLanguage" json:"nativeLanguage"`
	LearningLanguage string               `bson:"learningLanguage" json:"learningLanguage"`
	Location         string               `bson:"location" json:"location"`
	IsOnboarded      bool                 `bson:"isOnboarded" json:"isOnboarded"`
	Friends          []primitive.ObjectID `bson:"friends" json:"friends"`
	CreatedAt        time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// HasFriend reports whether id is in the user's friend set.
func (u *User) HasFriend(id primitive.ObjectID) bool {
	for _, f := range u.Friends {
		if f == id {
			return true
		}
	}
	return false
}

// PublicProfile is the subset of a user shown to other users.
type PublicProfile struct {
	ID               primitive.ObjectID `bson:"_id" json:"_id"`
	FullName         string             `bson:"fullName" json:"fullName"`
	ProfilePic       string             `bson:"profilePic" json:"profilePic"`
	NativeLanguage   string             `bson:"nativeLanguage" json:"nativeLanguage"`
	LearningLanguage string             `bson:"learningLanguage" json:"learningLanguage"`
}

// Public projects u onto its public profile.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:               u.ID,
		FullName:         u.FullName,
		ProfilePic:       u.ProfilePic,
		NativeLanguage:   u.NativeLanguage,
		LearningLanguage: u.LearningLanguage,
	}
}

// ProfileUpdate carries the onboarding fields written to a user.
type ProfileUpdate struct {
	FullName         string
	Bio              string
	NativeLanguage   string
	LearningLanguage string
	Location         string
	// ProfilePic is only written when non-empty.
	ProfilePic string
}
