package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/Dias221467/Language_Exchange/internal/events"
	"github.com/Dias221467/Language_Exchange/internal/models"
	"github.com/Dias221467/Language_Exchange/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSendFriendRequest(t *testing.T) {
	env := newTestEnv(t)
	ana := env.signup(t, "ana@example.com", "Ana")
	bob := env.signup(t, "bob@example.com", "Bob")

	req, err := env.friends.SendFriendRequest(context.Background(), ana, bob.ID.Hex())
	require.NoError(t, err)

	assert.Equal(t, ana.ID, req.Sender)
	assert.Equal(t, bob.ID, req.Recipient)
	assert.Equal(t, models.FriendRequestPending, req.Status)

	require.Len(t, env.events.got, 1)
	assert.Equal(t, events.OperationRequest, env.events.got[0].Operation)
	assert.Equal(t, bob.ID.Hex(), env.events.got[0].UserID)
}

func TestSendFriendRequestRejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ana := env.signup(t, "ana@example.com", "Ana")
	bob := env.signup(t, "bob@example.com", "Bob")

	_, err := env.friends.SendFriendRequest(ctx, ana, ana.ID.Hex())
	assert.ErrorIs(t, err, ErrSelfRequest)

	_, err = env.friends.SendFriendRequest(ctx, ana, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrRecipientNotFound)

	_, err = env.friends.SendFriendRequest(ctx, ana, "not-an-id")
	assert.ErrorIs(t, err, ErrRecipientNotFound)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = env.friends.SendFriendRequest(ctx, ana, bob.ID.Hex())
	require.NoError(t, err)

	_, err = env.friends.SendFriendRequest(ctx, ana, bob.ID.Hex())
	assert.ErrorIs(t, err, ErrDuplicateRequest)

	_, err = env.friends.SendFriendRequest(ctx, bob, ana.ID.Hex())
	assert.ErrorIs(t, err, ErrDuplicateRequest, "reverse direction is the same pair")
}

func TestSendFriendRequestToSelfWithUppercaseID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ana := env.signup(t, "ana@example.com", "Ana")

	_, err := env.friends.SendFriendRequest(ctx, ana, strings.ToUpper(ana.ID.Hex()))
	assert.ErrorIs(t, err, ErrSelfRequest)

	all, err := env.store.FriendRequests().ListRequests(ctx, models.FriendRequestFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.False(t, env.reload(t, ana).HasFriend(ana.ID))
}

func TestSendFriendRequestToFriend(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ana := env.signup(t, "ana@example.com", "Ana")
	bob := env.signup(t, "bob@example.com", "Bob")
	require.NoError(t, env.store.Users().AddFriend(ctx, bob.ID, ana.ID))

	_, err := env.friends.SendFriendRequest(ctx, ana, bob.ID.Hex())
	assert.ErrorIs(t, err, ErrAlreadyFriends)
}

func TestConcurrentOppositeRequestsCreateOneRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ana := env.signup(t, "ana@example.com", "Ana")
	bob := env.signup(t, "bob@example.com", "Bob")

	var wg sync.WaitGroup
	errs := make([]error, 20)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			from, to := ana, bob
			if i%2 == 1 {
				from, to = bob, ana
			}
			_, errs[i] = env.friends.SendFriendRequest(ctx, from, to.ID.Hex())
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrDuplicateRequest)
	}
	assert.Equal(t, 1, succeeded)

	all, err := env.store.FriendRequests().ListRequests(ctx, models.FriendRequestFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAcceptFriendRequestMakesMutualFriends(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ana := env.signup(t, "ana@example.com", "Ana")
	bob := env.signup(t, "bob@example.com", "Bob")

	req, err := env.friends.SendFriendRequest(ctx, ana, bob.ID.Hex())
	require.NoError(t, err)

	accepted, err := env.friends.AcceptFriendRequest(ctx, bob, req.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.FriendRequestAccepted, accepted.Status)

	assert.True(t, env.reload(t, ana).HasFriend(bob.ID))
	assert.True(t, env.reload(t, bob).HasFriend(ana.ID))

	require.Len(t, env.events.got, 2)
	assert.Equal(t, events.OperationAccepted, env.events.got[1].Operation)
	assert.Equal(t, ana.ID.Hex(), env.events.got[1].UserID)
}

func TestAcceptTwiceKeepsFriendSetsDuplicateFree(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ana := env.signup(t, "ana@example.com", "Ana")
	bob := env.signup(t, "bob@example.com", "Bob")

	req, err := env.friends.SendFriendRequest(ctx, ana, bob.ID.Hex())
	require.NoError(t, err)

	_, err = env.friends.AcceptFriendRequest(ctx, bob, req.ID.Hex())
	require.NoError(t, err)
	_, err = env.friends.AcceptFriendRequest(ctx, bob, req.ID.Hex())
	require.NoError(t, err)

	assert.Len(t, env.reload(t, ana).Friends, 1)
	assert.Len(t, env.reload(t, bob).Friends, 1)
}

func TestAcceptFriendRequestRejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ana := env.signup(t, "ana@example.com", "Ana")
	bob := env.signup(t, "bob@example.com", "Bob")

	req, err := env.friends.SendFriendRequest(ctx, ana, bob.ID.Hex())
	require.NoError(t, err)

	_, err = env.friends.AcceptFriendRequest(ctx, ana, req.ID.Hex())
	assert.ErrorIs(t, err, ErrNotRecipient)
	assert.Equal(t, 403, apperror.KindOf(err).HTTPStatus())

	_, err = env.friends.AcceptFriendRequest(ctx, bob, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrRequestNotFound)

	_, err = env.friends.AcceptFriendRequest(ctx, bob, "bogus")
	assert.ErrorIs(t, err, ErrRequestNotFound)

	assert.False(t, env.reload(t, ana).HasFriend(bob.ID))
}

func TestEventFailureDoesNotFailRequest(t *testing.T) {
	env := newTestEnv(t)
	env.events.fail = true
	ana := env.signup(t, "ana@example.com", "Ana")
	bob := env.signup(t, "bob@example.com", "Bob")

	_, err := env.friends.SendFriendRequest(context.Background(), ana, bob.ID.Hex())
	assert.NoError(t, err)
}

func TestRequestListings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ana := env.signup(t, "ana@example.com", "Ana")
	bob := env.onboard(t, env.signup(t, "bob@example.com", "Bob"))
	cara := env.signup(t, "cara@example.com", "Cara")

	toBob, err := env.friends.SendFriendRequest(ctx, ana, bob.ID.Hex())
	require.NoError(t, err)
	toCara, err := env.friends.SendFriendRequest(ctx, ana, cara.ID.Hex())
	require.NoError(t, err)
	_, err = env.friends.AcceptFriendRequest(ctx, bob, toBob.ID.Hex())
	require.NoError(t, err)

	incoming, err := env.friends.GetIncomingRequests(ctx, cara.ID)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, toCara.ID, incoming[0].ID)
	assert.Equal(t, "Ana", incoming[0].Sender.FullName)
	assert.Equal(t, ana.ProfilePic, incoming[0].Sender.ProfilePic)

	incoming, err = env.friends.GetIncomingRequests(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, incoming, "accepted requests are not incoming")

	accepted, err := env.friends.GetAcceptedSentRequests(ctx, ana.ID)
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	assert.Equal(t, bob.ID, accepted[0].Recipient.ID)
	assert.Equal(t, "spanish", accepted[0].Recipient.LearningLanguage)

	outgoing, err := env.friends.GetOutgoingRequests(ctx, ana.ID)
	require.NoError(t, err)
	require.Len(t, outgoing, 1)
	assert.Equal(t, cara.ID, outgoing[0].Recipient.ID)
	assert.Equal(t, models.FriendRequestPending, outgoing[0].Status)
}

func TestListingsSkipMissingCounterparts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ana := env.signup(t, "ana@example.com", "Ana")

	_, err := env.store.FriendRequests().CreateRequest(ctx, &models.FriendRequest{
		Sender:    ana.ID,
		Recipient: primitive.NewObjectID(),
		Status:    models.FriendRequestPending,
	})
	require.NoError(t, err)

	outgoing, err := env.friends.GetOutgoingRequests(ctx, ana.ID)
	require.NoError(t, err)
	assert.Empty(t, outgoing)
}
