// Package memstore is an in-memory implementation of the user and friend
// request stores. It enforces the same unique constraints as the MongoDB
// indexes and is used for local development and tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Dias221467/Language_Exchange/internal/models"
	"github.com/Dias221467/Language_Exchange/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store holds users and friend requests behind one mutex.
type Store struct {
	mu       sync.RWMutex
	users    map[primitive.ObjectID]*models.User
	requests map[primitive.ObjectID]*models.FriendRequest
	now      func() time.Time
}

func New() *Store {
	return &Store{
		users:    make(map[primitive.ObjectID]*models.User),
		requests: make(map[primitive.ObjectID]*models.FriendRequest),
		now:      time.Now,
	}
}

// Users returns a view of the store satisfying the user store contract.
func (s *Store) Users() *UserStore { return &UserStore{s: s} }

// FriendRequests returns a view of the store satisfying the friend request
// store contract.
func (s *Store) FriendRequests() *FriendRequestStore { return &FriendRequestStore{s: s} }

type UserStore struct{ s *Store }

func copyUser(u *models.User) *models.User {
	c := *u
	c.Friends = append([]primitive.ObjectID{}, u.Friends...)
	return &c
}

func (us *UserStore) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	s := us.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return nil, fmt.Errorf("failed to insert user: %w", repository.ErrDuplicate)
		}
	}

	now := s.now()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Friends == nil {
		user.Friends = []primitive.ObjectID{}
	}
	s.users[user.ID] = copyUser(user)
	return user, nil
}

func (us *UserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s := us.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (us *UserStore) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s := us.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyUser(u), nil
}

func (us *UserStore) UpdateProfile(_ context.Context, id primitive.ObjectID, update models.ProfileUpdate) (*models.User, error) {
	s := us.s
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.FullName = update.FullName
	u.Bio = update.Bio
	u.NativeLanguage = update.NativeLanguage
	u.LearningLanguage = update.LearningLanguage
	u.Location = update.Location
	if update.ProfilePic != "" {
		u.ProfilePic = update.ProfilePic
	}
	u.IsOnboarded = true
	u.UpdatedAt = s.now()
	return copyUser(u), nil
}

// AddFriend mirrors $addToSet: a missing user is a silent no-op.
func (us *UserStore) AddFriend(_ context.Context, userID, friendID primitive.ObjectID) error {
	s := us.s
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok || u.HasFriend(friendID) {
		return nil
	}
	u.Friends = append(u.Friends, friendID)
	u.UpdatedAt = s.now()
	return nil
}

func (us *UserStore) GetUsersByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	s := us.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := []models.User{}
	seen := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if u, ok := s.users[id]; ok {
			users = append(users, *copyUser(u))
		}
	}
	return users, nil
}

func (us *UserStore) FindRecommended(_ context.Context, exclude []primitive.ObjectID) ([]models.User, error) {
	s := us.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	skip := make(map[primitive.ObjectID]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}

	users := []models.User{}
	for id, u := range s.users {
		if skip[id] || !u.IsOnboarded {
			continue
		}
		users = append(users, *copyUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

type FriendRequestStore struct{ s *Store }

func (fs *FriendRequestStore) CreateRequest(_ context.Context, req *models.FriendRequest) (*models.FriendRequest, error) {
	s := fs.s
	s.mu.Lock()
	defer s.mu.Unlock()

	key := models.PairKey(req.Sender, req.Recipient)
	for _, existing := range s.requests {
		if existing.PairKey == key {
			return nil, fmt.Errorf("failed to send friend request: %w", repository.ErrDuplicate)
		}
	}

	now := s.now()
	req.ID = primitive.NewObjectID()
	req.PairKey = key
	req.CreatedAt = now
	req.UpdatedAt = now
	c := *req
	s.requests[req.ID] = &c
	return req, nil
}

func (fs *FriendRequestStore) FindBetween(_ context.Context, a, b primitive.ObjectID) (*models.FriendRequest, error) {
	s := fs.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := models.PairKey(a, b)
	for _, req := range s.requests {
		if req.PairKey == key {
			c := *req
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (fs *FriendRequestStore) GetRequestByID(_ context.Context, id primitive.ObjectID) (*models.FriendRequest, error) {
	s := fs.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, ok := s.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *req
	return &c, nil
}

func (fs *FriendRequestStore) UpdateRequestStatus(_ context.Context, id primitive.ObjectID, status models.FriendRequestStatus) error {
	s := fs.s
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return repository.ErrNotFound
	}
	req.Status = status
	req.UpdatedAt = s.now()
	return nil
}

func (fs *FriendRequestStore) ListRequests(_ context.Context, filter models.FriendRequestFilter) ([]models.FriendRequest, error) {
	s := fs.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.FriendRequest{}
	for _, req := range s.requests {
		if filter.Matches(req) {
			out = append(out, *req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
