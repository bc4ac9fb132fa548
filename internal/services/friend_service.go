package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dias221467/Language_Exchange/internal/events"
	"github.com/Dias221467/Language_Exchange/internal/metrics"
	"github.com/Dias221467/Language_Exchange/internal/models"
	"github.com/Dias221467/Language_Exchange/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FriendService handles the friend request lifecycle.
type FriendService struct {
	requests FriendRequestStore
	users    UserStore
	events   events.Publisher
}

// NewFriendService creates a new FriendService.
func NewFriendService(requests FriendRequestStore, users UserStore, publisher events.Publisher) *FriendService {
	return &FriendService{
		requests: requests,
		users:    users,
		events:   publisher,
	}
}

// SendFriendRequest creates a pending request from actor to recipientID.
// At most one request may exist per unordered pair of users.
func (s *FriendService) SendFriendRequest(ctx context.Context, actor *models.User, recipientID string) (*models.FriendRequest, error) {
	rid, err := primitive.ObjectIDFromHex(recipientID)
	if err != nil {
		return nil, ErrRecipientNotFound
	}
	// Compare parsed ids; hex parsing accepts either case.
	if rid == actor.ID {
		return nil, ErrSelfRequest
	}

	recipient, err := s.users.GetUserByID(ctx, rid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRecipientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recipient: %w", err)
	}

	if recipient.HasFriend(actor.ID) {
		return nil, ErrAlreadyFriends
	}

	existing, err := s.requests.FindBetween(ctx, actor.ID, rid)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing requests: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateRequest
	}

	created, err := s.requests.CreateRequest(ctx, &models.FriendRequest{
		Sender:    actor.ID,
		Recipient: rid,
		Status:    models.FriendRequestPending,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrDuplicateRequest
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create friend request: %w", err)
	}

	metrics.RecordFriendRequest("sent")
	logrus.WithFields(logrus.Fields{
		"requestID": created.ID.Hex(),
		"sender":    actor.ID.Hex(),
		"recipient": rid.Hex(),
	}).Info("Friend request sent")

	s.publish(ctx, events.FriendEvent{
		Operation: events.OperationRequest,
		Type:      events.TypeFriendRequest,
		UserID:    rid.Hex(),
		Payload:   created,
	})
	return created, nil
}

// AcceptFriendRequest marks the request accepted and adds each party to the
// other's friend set. Only the recipient may accept.
func (s *FriendService) AcceptFriendRequest(ctx context.Context, actor *models.User, requestID string) (*models.FriendRequest, error) {
	id, err := primitive.ObjectIDFromHex(requestID)
	if err != nil {
		return nil, ErrRequestNotFound
	}

	request, err := s.requests.GetRequestByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load friend request: %w", err)
	}

	if request.Recipient != actor.ID {
		logrus.WithFields(logrus.Fields{
			"requestID": requestID,
			"userID":    actor.ID.Hex(),
		}).Warn("Friend request accept by non-recipient")
		return nil, ErrNotRecipient
	}

	if err := s.requests.UpdateRequestStatus(ctx, id, models.FriendRequestAccepted); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to update friend request: %w", err)
	}
	request.Status = models.FriendRequestAccepted

	if err := s.users.AddFriend(ctx, request.Sender, request.Recipient); err != nil {
		return nil, fmt.Errorf("failed to add friend to sender: %w", err)
	}
	if err := s.users.AddFriend(ctx, request.Recipient, request.Sender); err != nil {
		return nil, fmt.Errorf("failed to add friend to recipient: %w", err)
	}

	metrics.RecordFriendRequest("accepted")
	logrus.WithField("requestID", requestID).Info("Friend request accepted")

	s.publish(ctx, events.FriendEvent{
		Operation: events.OperationAccepted,
		Type:      events.TypeFriendRequest,
		UserID:    request.Sender.Hex(),
		Payload:   request,
	})
	return request, nil
}

// GetIncomingRequests returns pending requests addressed to the actor with
// each sender's public profile.
func (s *FriendService) GetIncomingRequests(ctx context.Context, actorID primitive.ObjectID) ([]models.IncomingFriendRequest, error) {
	reqs, err := s.requests.ListRequests(ctx, models.FriendRequestFilter{
		Recipient: actorID,
		Status:    models.FriendRequestPending,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list incoming requests: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.Sender)
	}
	profiles, err := loadProfiles(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.IncomingFriendRequest, 0, len(reqs))
	for _, r := range reqs {
		sender, ok := profiles[r.Sender]
		if !ok {
			logrus.WithField("requestID", r.ID.Hex()).Warn("Skipping request with missing sender")
			continue
		}
		out = append(out, models.IncomingFriendRequest{
			ID:        r.ID,
			Sender:    sender,
			Recipient: r.Recipient,
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		})
	}
	return out, nil
}

// GetAcceptedSentRequests returns the actor's sent requests that were accepted.
func (s *FriendService) GetAcceptedSentRequests(ctx context.Context, actorID primitive.ObjectID) ([]models.OutgoingFriendRequest, error) {
	return s.sentRequests(ctx, actorID, models.FriendRequestAccepted)
}

// GetOutgoingRequests returns the actor's sent requests still pending.
func (s *FriendService) GetOutgoingRequests(ctx context.Context, actorID primitive.ObjectID) ([]models.OutgoingFriendRequest, error) {
	return s.sentRequests(ctx, actorID, models.FriendRequestPending)
}

func (s *FriendService) sentRequests(ctx context.Context, actorID primitive.ObjectID, status models.FriendRequestStatus) ([]models.OutgoingFriendRequest, error) {
	reqs, err := s.requests.ListRequests(ctx, models.FriendRequestFilter{
		Sender: actorID,
		Status: status,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s requests: %w", status, err)
	}

	ids := make([]primitive.ObjectID, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.Recipient)
	}
	profiles, err := loadProfiles(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.OutgoingFriendRequest, 0, len(reqs))
	for _, r := range reqs {
		recipient, ok := profiles[r.Recipient]
		if !ok {
			logrus.WithField("requestID", r.ID.Hex()).Warn("Skipping request with missing recipient")
			continue
		}
		out = append(out, models.OutgoingFriendRequest{
			ID:        r.ID,
			Sender:    r.Sender,
			Recipient: recipient,
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		})
	}
	return out, nil
}

// publish is best effort; the request has already been committed.
func (s *FriendService) publish(ctx context.Context, event events.FriendEvent) {
	if err := s.events.Publish(ctx, event); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"operation": event.Operation,
			"userID":    event.UserID,
		}).Warn("Failed to publish friend event")
	}
}
