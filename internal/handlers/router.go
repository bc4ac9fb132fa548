package handlers

import (
	"net/http"

	"github.com/Dias221467/Language_Exchange/internal/metrics"
	"github.com/Dias221467/Language_Exchange/pkg/middleware"
	"github.com/gorilla/mux"
)

// Router bundles what NewRouter needs to register every route.
type Router struct {
	Auth     *AuthHandler
	Users    *UserHandler
	Friends  *FriendHandler
	Sessions middleware.SessionResolver
	Limiter  *middleware.RateLimiter
}

// NewRouter registers the API routes on a gorilla/mux router.
func NewRouter(rt Router) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	guard := middleware.AuthMiddleware(rt.Sessions)

	// Auth routes
	authRoutes := router.PathPrefix("/api/auth").Subrouter()
	authRoutes.Handle("/signup", rt.Limiter.Handler(http.HandlerFunc(rt.Auth.SignupHandler))).Methods(http.MethodPost)
	authRoutes.Handle("/login", rt.Limiter.Handler(http.HandlerFunc(rt.Auth.LoginHandler))).Methods(http.MethodPost)
	authRoutes.HandleFunc("/logout", rt.Auth.LogoutHandler).Methods(http.MethodPost)
	authRoutes.Handle("/onboarding", guard(http.HandlerFunc(rt.Auth.OnboardingHandler))).Methods(http.MethodPost)
	authRoutes.Handle("/me", guard(http.HandlerFunc(rt.Auth.MeHandler))).Methods(http.MethodGet)

	// Protected user and friend routes
	userRoutes := router.PathPrefix("/api/users").Subrouter()
	userRoutes.Use(guard)
	userRoutes.HandleFunc("", rt.Users.GetRecommendedUsersHandler).Methods(http.MethodGet)
	userRoutes.HandleFunc("/friends", rt.Users.GetFriendsHandler).Methods(http.MethodGet)
	userRoutes.HandleFunc("/friend-request/{id}", rt.Friends.SendFriendRequestHandler).Methods(http.MethodPost)
	userRoutes.HandleFunc("/friend-request/{id}/accept", rt.Friends.AcceptFriendRequestHandler).Methods(http.MethodPut)
	userRoutes.HandleFunc("/friend-requests", rt.Friends.GetFriendRequestsHandler).Methods(http.MethodGet)
	userRoutes.HandleFunc("/outgoing-friend-requests", rt.Friends.GetOutgoingFriendRequestsHandler).Methods(http.MethodGet)

	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.MetricsMiddleware)

	return router
}
