package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
)

// FriendRequest is a directional proposal between two distinct users.
// PairKey identifies the unordered pair and is unique across the collection.
type FriendRequest struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Sender    primitive.ObjectID  `bson:"sender" json:"sender"`
	Recipient primitive.ObjectID  `bson:"recipient" json:"recipient"`
	Status    FriendRequestStatus `bson:"status" json:"status"`
	PairKey   string              `bson:"pairKey" json:"-"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// PairKey returns the same key for (a, b) and (b, a).
func PairKey(a, b primitive.ObjectID) string {
	x, y := a.Hex(), b.Hex()
	if x > y {
		x, y = y, x
	}
	return x + ":" + y
}

// FriendRequestFilter selects requests by sender and/or recipient and status.
// Zero-valued fields are not filtered on.
type FriendRequestFilter struct {
	Sender    primitive.ObjectID
	Recipient primitive.ObjectID
	Status    FriendRequestStatus
}

// Matches reports whether req satisfies the filter.
func (f FriendRequestFilter) Matches(req *FriendRequest) bool {
	if !f.Sender.IsZero() && req.Sender != f.Sender {
		return false
	}
	if !f.Recipient.IsZero() && req.Recipient != f.Recipient {
		return false
	}
	if f.Status != "" && req.Status != f.Status {
		return false
	}
	return true
}

// IncomingFriendRequest is a request with the sender's profile joined in.
type IncomingFriendRequest struct {
	ID        primitive.ObjectID  `json:"_id"`
	Sender    PublicProfile       `json:"sender"`
	Recipient primitive.ObjectID  `json:"recipient"`
	Status    FriendRequestStatus `json:"status"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// OutgoingFriendRequest is a request with the recipient's profile joined in.
type OutgoingFriendRequest struct {
	ID        primitive.ObjectID  `json:"_id"`
	Sender    primitive.ObjectID  `json:"sender"`
	Recipient PublicProfile       `json:"recipient"`
	Status    FriendRequestStatus `json:"status"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}
