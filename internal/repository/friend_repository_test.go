package repository

import (
	"testing"

	"github.com/Dias221467/Language_Exchange/internal/models"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRequestFilter(t *testing.T) {
	me := primitive.NewObjectID()

	assert.Equal(t, bson.M{}, requestFilter(models.FriendRequestFilter{}))
	assert.Equal(t,
		bson.M{"recipient": me, "status": models.FriendRequestPending},
		requestFilter(models.FriendRequestFilter{Recipient: me, Status: models.FriendRequestPending}),
	)
	assert.Equal(t,
		bson.M{"sender": me, "status": models.FriendRequestAccepted},
		requestFilter(models.FriendRequestFilter{Sender: me, Status: models.FriendRequestAccepted}),
	)
}
