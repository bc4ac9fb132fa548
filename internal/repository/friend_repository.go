package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dias221467/Language_Exchange/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FriendRequestsCollection is the name of the friend requests collection.
const FriendRequestsCollection = "friend_requests"

type FriendRepository struct {
	collection *mongo.Collection
}

func NewFriendRepository(db *mongo.Database) *FriendRepository {
	return &FriendRepository{
		collection: db.Collection(FriendRequestsCollection),
	}
}

// CreateRequest inserts req. The unique pairKey index rejects a second record
// for the same pair with ErrDuplicate.
func (r *FriendRepository) CreateRequest(ctx context.Context, req *models.FriendRequest) (*models.FriendRequest, error) {
	now := time.Now()
	req.CreatedAt = now
	req.UpdatedAt = now
	req.PairKey = models.PairKey(req.Sender, req.Recipient)

	result, err := r.collection.InsertOne(ctx, req)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("failed to send friend request: %w", ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to send friend request: %w", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	req.ID = insertedID

	logrus.WithFields(logrus.Fields{
		"requestID": req.ID.Hex(),
		"sender":    req.Sender.Hex(),
		"recipient": req.Recipient.Hex(),
	}).Info("Friend request stored")
	return req, nil
}

// FindBetween returns the request connecting a and b in either direction.
func (r *FriendRepository) FindBetween(ctx context.Context, a, b primitive.ObjectID) (*models.FriendRequest, error) {
	return r.findOne(ctx, bson.M{"pairKey": models.PairKey(a, b)})
}

func (r *FriendRepository) GetRequestByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *FriendRepository) findOne(ctx context.Context, filter bson.M) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := r.collection.FindOne(ctx, filter).Decode(&request)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find friend request: %w", err)
	}
	return &request, nil
}

func (r *FriendRepository) UpdateRequestStatus(ctx context.Context, id primitive.ObjectID, status models.FriendRequestStatus) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListRequests returns the requests matching filter, oldest first.
func (r *FriendRepository) ListRequests(ctx context.Context, filter models.FriendRequestFilter) ([]models.FriendRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, requestFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find friend requests: %w", err)
	}
	defer cursor.Close(ctx)

	requests := []models.FriendRequest{}
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode friend requests: %w", err)
	}
	return requests, nil
}

func requestFilter(f models.FriendRequestFilter) bson.M {
	filter := bson.M{}
	if !f.Sender.IsZero() {
		filter["sender"] = f.Sender
	}
	if !f.Recipient.IsZero() {
		filter["recipient"] = f.Recipient
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return filter
}
