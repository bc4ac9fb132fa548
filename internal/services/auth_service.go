package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/Dias221467/Language_Exchange/internal/messaging"
	"github.com/Dias221467/Language_Exchange/internal/metrics"
	"github.com/Dias221467/Language_Exchange/internal/models"
	"github.com/Dias221467/Language_Exchange/internal/repository"
	"github.com/Dias221467/Language_Exchange/pkg/jwt"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	avatarCount       = 100

	// bcrypt refuses longer inputs.
	maxPasswordBytes = 72
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// bcryptCost is a variable so tests can lower it.
var bcryptCost = bcrypt.DefaultCost

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// compareDummy spends the same bcrypt work as a real comparison so unknown
// emails are not distinguishable by response time.
func compareDummy(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcryptCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// RandomAvatar picks one of the preset placeholder avatars uniformly.
func RandomAvatar() string {
	return fmt.Sprintf("https://avatar.iran.liara.run/public/%d.png", rand.IntN(avatarCount)+1)
}

// AuthService handles signup, login and session resolution.
type AuthService struct {
	users    UserStore
	tokens   *jwt.Manager
	identity messaging.IdentityPublisher
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(users UserStore, tokens *jwt.Manager, identity messaging.IdentityPublisher) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		identity: identity,
	}
}

// SignupInput is the signup request body.
type SignupInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// TokenExpiry is the lifetime of issued session tokens.
func (s *AuthService) TokenExpiry() time.Duration { return s.tokens.Expiry() }

// Signup validates the input, stores a new user and issues a session token.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, string, error) {
	email := strings.TrimSpace(in.Email)
	fullName := strings.TrimSpace(in.FullName)

	if email == "" || in.Password == "" || fullName == "" {
		logrus.Warn("Missing required fields during signup")
		return nil, "", ErrMissingFields
	}
	if len(in.Password) < minPasswordLength {
		return nil, "", ErrPasswordTooShort
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, "", ErrPasswordTooLong
	}
	if !emailRegex.MatchString(email) {
		logrus.WithField("email", email).Warn("Invalid email format during signup")
		return nil, "", ErrInvalidEmail
	}

	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		logrus.WithField("email", email).Warn("Email already in use")
		metrics.RecordAuth("signup", "rejected")
		return nil, "", ErrEmailTaken
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:      email,
		Password:   string(hashedPwd),
		FullName:   fullName,
		ProfilePic: RandomAvatar(),
		Friends:    []primitive.ObjectID{},
	}

	created, err := s.users.CreateUser(ctx, user)
	if errors.Is(err, repository.ErrDuplicate) {
		// Lost the race against a concurrent signup with the same email.
		metrics.RecordAuth("signup", "rejected")
		return nil, "", ErrEmailTaken
	}
	if err != nil {
		metrics.RecordAuth("signup", "error")
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	s.identity.Submit(identityOf(created))

	token, err := s.issueSession(created)
	if err != nil {
		return nil, "", err
	}

	metrics.RecordAuth("signup", "success")
	logrus.WithField("userID", created.ID.Hex()).Info("User signed up successfully")
	return created, token, nil
}

// Login checks the credentials and issues a session token. Unknown email and
// wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", ErrMissingFields
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		compareDummy(password)
		logrus.WithField("email", email).Warn("Login for unknown email")
		metrics.RecordAuth("login", "rejected")
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		metrics.RecordAuth("login", "error")
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		logrus.WithField("userID", user.ID.Hex()).Warn("Invalid credentials")
		metrics.RecordAuth("login", "rejected")
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueSession(user)
	if err != nil {
		return nil, "", err
	}

	metrics.RecordAuth("login", "success")
	logrus.WithField("userID", user.ID.Hex()).Info("User authenticated successfully")
	return user, token, nil
}

func (s *AuthService) issueSession(user *models.User) (string, error) {
	token, _, err := s.tokens.GenerateToken(user.ID.Hex())
	if err != nil {
		logrus.WithError(err).Error("Failed to generate session token")
		return "", fmt.Errorf("failed to issue session: %w", err)
	}
	return token, nil
}

// ResolveSession validates token and loads the user it was issued for.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidSession.Wrap(err)
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, ErrInvalidSession.Wrap(err)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSessionUserGone
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}
	return user, nil
}

func identityOf(u *models.User) messaging.Identity {
	return messaging.Identity{
		ID:    u.ID.Hex(),
		Name:  u.FullName,
		Image: u.ProfilePic,
	}
}
