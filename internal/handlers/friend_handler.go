package handlers

import (
	"net/http"

	"github.com/Dias221467/Language_Exchange/internal/models"
	"github.com/Dias221467/Language_Exchange/internal/services"
	"github.com/Dias221467/Language_Exchange/pkg/logger"
	"github.com/Dias221467/Language_Exchange/pkg/middleware"
	"github.com/gorilla/mux"
)

// FriendHandler manages HTTP endpoints related to friend requests.
type FriendHandler struct {
	Service *services.FriendService
}

// NewFriendHandler initializes a new FriendHandler.
func NewFriendHandler(service *services.FriendService) *FriendHandler {
	return &FriendHandler{Service: service}
}

// SendFriendRequestHandler sends a friend request to the user in the path.
func (h *FriendHandler) SendFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())
	recipientID := mux.Vars(r)["id"]

	request, err := h.Service.SendFriendRequest(r.Context(), actor, recipientID)
	if err != nil {
		logger.Log.WithError(err).Warnf("User %s failed to send friend request to %s", actor.ID.Hex(), recipientID)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, request)
}

// AcceptFriendRequestHandler accepts the request in the path.
func (h *FriendHandler) AcceptFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	if _, err := h.Service.AcceptFriendRequest(r.Context(), actor, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Friend request accepted"})
}

// GetFriendRequestsHandler returns pending incoming requests and the caller's
// accepted outgoing requests.
func (h *FriendHandler) GetFriendRequestsHandler(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	incoming, err := h.Service.GetIncomingRequests(r.Context(), actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	accepted, err := h.Service.GetAcceptedSentRequests(r.Context(), actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		IncomingReqs []models.IncomingFriendRequest `json:"incomingReqs"`
		AcceptedReqs []models.OutgoingFriendRequest `json:"acceptedReqs"`
	}{incoming, accepted})
}

// GetOutgoingFriendRequestsHandler returns the caller's pending sent requests.
func (h *FriendHandler) GetOutgoingFriendRequestsHandler(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	outgoing, err := h.Service.GetOutgoingRequests(r.Context(), actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outgoing)
}
