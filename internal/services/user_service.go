package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dias221467/Language_Exchange/internal/messaging"
	"github.com/Dias221467/Language_Exchange/internal/models"
	"github.com/Dias221467/Language_Exchange/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserService encapsulates onboarding and the friend directory.
type UserService struct {
	users    UserStore
	identity messaging.IdentityPublisher
}

// NewUserService creates a new instance of UserService.
func NewUserService(users UserStore, identity messaging.IdentityPublisher) *UserService {
	return &UserService{
		users:    users,
		identity: identity,
	}
}

// OnboardingInput is the onboarding request body. ProfilePic is optional.
type OnboardingInput struct {
	FullName         string `json:"fullName"`
	Bio              string `json:"bio"`
	NativeLanguage   string `json:"nativeLanguage"`
	LearningLanguage string `json:"learningLanguage"`
	Location         string `json:"location"`
	ProfilePic       string `json:"profilePic"`
}

// MissingFields lists the blank required fields in declaration order.
func (in OnboardingInput) MissingFields() []string {
	required := []struct {
		name  string
		value string
	}{
		{"fullName", in.FullName},
		{"bio", in.Bio},
		{"nativeLanguage", in.NativeLanguage},
		{"learningLanguage", in.LearningLanguage},
		{"location", in.Location},
	}

	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Onboard writes the profile fields, marks the user onboarded and pushes the
// new identity to the chat provider.
func (s *UserService) Onboard(ctx context.Context, actor *models.User, in OnboardingInput) (*models.User, error) {
	if missing := in.MissingFields(); len(missing) > 0 {
		logrus.WithFields(logrus.Fields{
			"userID":  actor.ID.Hex(),
			"missing": missing,
		}).Warn("Onboarding rejected with missing fields")
		return nil, ErrMissingFields.WithFields(missing...)
	}

	updated, err := s.users.UpdateProfile(ctx, actor.ID, models.ProfileUpdate{
		FullName:         strings.TrimSpace(in.FullName),
		Bio:              strings.TrimSpace(in.Bio),
		NativeLanguage:   strings.TrimSpace(in.NativeLanguage),
		LearningLanguage: strings.TrimSpace(in.LearningLanguage),
		Location:         strings.TrimSpace(in.Location),
		ProfilePic:       strings.TrimSpace(in.ProfilePic),
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.identity.Submit(identityOf(updated))

	logrus.WithField("userID", updated.ID.Hex()).Info("User onboarded")
	return updated, nil
}

// GetRecommendedUsers returns onboarded users other than the actor and the
// actor's friends.
func (s *UserService) GetRecommendedUsers(ctx context.Context, actor *models.User) ([]models.User, error) {
	exclude := make([]primitive.ObjectID, 0, len(actor.Friends)+1)
	exclude = append(exclude, actor.ID)
	exclude = append(exclude, actor.Friends...)

	users, err := s.users.FindRecommended(ctx, exclude)
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendations: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// GetFriends returns the public profiles of the actor's friends, reading the
// friend set fresh from the store.
func (s *UserService) GetFriends(ctx context.Context, actorID primitive.ObjectID) ([]models.PublicProfile, error) {
	user, err := s.users.GetUserByID(ctx, actorID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	profiles, err := loadProfiles(ctx, s.users, user.Friends)
	if err != nil {
		return nil, err
	}

	friends := make([]models.PublicProfile, 0, len(user.Friends))
	for _, id := range user.Friends {
		if p, ok := profiles[id]; ok {
			friends = append(friends, p)
		}
	}
	return friends, nil
}

// loadProfiles fetches the public profiles for ids keyed by id.
func loadProfiles(ctx context.Context, users UserStore, ids []primitive.ObjectID) (map[primitive.ObjectID]models.PublicProfile, error) {
	out := make(map[primitive.ObjectID]models.PublicProfile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	found, err := users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	for i := range found {
		out[found[i].ID] = found[i].Public()
	}
	return out, nil
}
