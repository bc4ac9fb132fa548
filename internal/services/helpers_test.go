package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Dias221467/Language_Exchange/internal/events"
	"github.com/Dias221467/Language_Exchange/internal/messaging"
	"github.com/Dias221467/Language_Exchange/internal/models"
	"github.com/Dias221467/Language_Exchange/internal/repository/memstore"
	"github.com/Dias221467/Language_Exchange/pkg/jwt"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	bcryptCost = bcrypt.MinCost
}

type recordingIdentities struct {
	mu  sync.Mutex
	got []messaging.Identity
}

func (r *recordingIdentities) Submit(identity messaging.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, identity)
}

func (r *recordingIdentities) all() []messaging.Identity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]messaging.Identity(nil), r.got...)
}

type recordingEvents struct {
	mu   sync.Mutex
	got  []events.FriendEvent
	fail bool
}

func (r *recordingEvents) Publish(_ context.Context, event events.FriendEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("redis unavailable")
	}
	r.got = append(r.got, event)
	return nil
}

type testEnv struct {
	store      *memstore.Store
	tokens     *jwt.Manager
	identities *recordingIdentities
	events     *recordingEvents
	auth       *AuthService
	users      *UserService
	friends    *FriendService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tokens, err := jwt.NewManager("test-secret", jwt.DefaultExpiry)
	require.NoError(t, err)

	env := &testEnv{
		store:      memstore.New(),
		tokens:     tokens,
		identities: &recordingIdentities{},
		events:     &recordingEvents{},
	}
	env.auth = NewAuthService(env.store.Users(), tokens, env.identities)
	env.users = NewUserService(env.store.Users(), env.identities)
	env.friends = NewFriendService(env.store.FriendRequests(), env.store.Users(), env.events)
	return env
}

func (e *testEnv) signup(t *testing.T, email, name string) *models.User {
	t.Helper()
	user, _, err := e.auth.Signup(context.Background(), SignupInput{
		Email:    email,
		Password: "secret123",
		FullName: name,
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) onboard(t *testing.T, user *models.User) *models.User {
	t.Helper()
	updated, err := e.users.Onboard(context.Background(), user, OnboardingInput{
		FullName:         user.FullName,
		Bio:              "hi",
		NativeLanguage:   "english",
		LearningLanguage: "spanish",
		Location:         "Almaty",
	})
	require.NoError(t, err)
	return updated
}

// reload returns the stored state of user, as the session guard would.
func (e *testEnv) reload(t *testing.T, user *models.User) *models.User {
	t.Helper()
	fresh, err := e.store.Users().GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	return fresh
}
