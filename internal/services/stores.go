package services

import (
	"context"

	"github.com/Dias221467/Language_Exchange/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore is the credential store: user accounts and their friend sets.
// Lookups that match nothing return repository.ErrNotFound; a second account
// with the same email returns repository.ErrDuplicate.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, update models.ProfileUpdate) (*models.User, error)
	AddFriend(ctx context.Context, userID, friendID primitive.ObjectID) error
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	FindRecommended(ctx context.Context, exclude []primitive.ObjectID) ([]models.User, error)
}

// FriendRequestStore persists friend requests independently of users.
// CreateRequest returns repository.ErrDuplicate when the pair already has a record.
type FriendRequestStore interface {
	CreateRequest(ctx context.Context, req *models.FriendRequest) (*models.FriendRequest, error)
	FindBetween(ctx context.Context, a, b primitive.ObjectID) (*models.FriendRequest, error)
	GetRequestByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error)
	UpdateRequestStatus(ctx context.Context, id primitive.ObjectID, status models.FriendRequestStatus) error
	ListRequests(ctx context.Context, filter models.FriendRequestFilter) ([]models.FriendRequest, error)
}
