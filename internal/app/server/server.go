package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"linkup/internal/app/server/handlers"
	"linkup/internal/core/contracts"
	"linkup/internal/core/services"
	"linkup/pkg/middleware"
)

type Server struct {
	mux  *http.ServeMux
	addr string
	log  *slog.Logger
	http *http.Server
}

type Services struct {
	Users         *services.UserService
	Tokens        *services.TokenService
	Notifications *services.NotificationService
	Friends       *services.FriendService
	Follows       *services.FollowService
	Messages      *services.MessageService
	Posts         *services.PostService
	Chat          *services.ChatService
}

func NewServer(
	addr string,
	log *slog.Logger,
	svcs Services,
	hub contracts.Registry,
	blobs contracts.BlobStore,
) *Server {
	s := &Server{
		mux:  http.NewServeMux(),
		addr: addr,
		log:  log,
	}
	s.routes(svcs, hub, blobs)
	return s
}

func (s *Server) routes(svcs Services, hub contracts.Registry, blobs contracts.BlobStore) {
	auth := middleware.AuthMiddleware(svcs.Tokens)

	authHandler := handlers.NewAuthHandler(svcs.Users, svcs.Tokens)
	profileHandler := handlers.NewProfileHandler(svcs.Users)
	notificationHandler := handlers.NewNotificationHandler(svcs.Notifications)
	friendHandler := handlers.NewFriendHandler(svcs.Friends)
	followHandler := handlers.NewFollowHandler(svcs.Follows)
	conversationHandler := handlers.NewConversationHandler(svcs.Messages)
	postHandler := handlers.NewPostHandler(svcs.Posts)
	uploadHandler := handlers.NewUploadHandler(blobs)
	gatewayHandler := handlers.NewGatewayHandler(hub, svcs.Messages)
	chatHandler := handlers.NewChatHandler(hub, svcs.Chat, svcs.Users)

	// Public
	s.mux.HandleFunc("POST /auth/register", authHandler.Register)
	s.mux.HandleFunc("POST /auth/login", authHandler.Login)

	// Protected REST
	protected := func(pattern string, h http.HandlerFunc) {
		s.mux.Handle(pattern, auth(h))
	}
	protected("GET /profile", profileHandler.Get)
	protected("PUT /profile", profileHandler.Update)
	protected("GET /users/{id}/profile", profileHandler.GetByID)

	protected("GET /notifications", notificationHandler.List)
	protected("GET /notifications/unread-count", notificationHandler.UnreadCount)
	protected("POST /notifications/{id}/read", notificationHandler.MarkRead)
	protected("POST /notifications/read-all", notificationHandler.MarkAllRead)

	protected("POST /friends/requests", friendHandler.SendRequest)
	protected("POST /friends/{id}/accept", friendHandler.Accept)
	protected("POST /friends/{id}/reject", friendHandler.Reject)
	protected("DELETE /friends/requests/{id}", friendHandler.Cancel)
	protected("GET /friends/{id}/status", friendHandler.Status)
	protected("GET /friends/requests/pending", friendHandler.ListPending)
	protected("GET /friends/requests/sent", friendHandler.ListSent)

	protected("POST /follows/{id}", followHandler.Follow)
	protected("DELETE /follows/{id}", followHandler.Unfollow)

	protected("POST /posts", postHandler.Create)
	protected("GET /posts/latest", postHandler.Latest)
	protected("GET /posts/following", postHandler.Followed)
	protected("GET /posts/{id}", postHandler.Get)
	protected("PATCH /posts/{id}", postHandler.Update)
	protected("DELETE /posts/{id}", postHandler.Delete)
	protected("GET /users/{id}/posts", postHandler.ByAuthor)
	protected("POST /posts/{id}/comments", postHandler.Comment)
	protected("GET /posts/{id}/comments", postHandler.Comments)
	protected("GET /comments/{id}/replies", postHandler.Replies)
	protected("PUT /posts/{id}/reaction", postHandler.React)
	protected("DELETE /posts/{id}/reaction", postHandler.Unreact)

	protected("GET /conversations", conversationHandler.List)
	protected("POST /conversations", conversationHandler.Start)
	protected("GET /conversations/{id}/messages", conversationHandler.Messages)
	protected("POST /conversations/messages", conversationHandler.Send)

	protected("POST /utils/upload", uploadHandler.Upload)
	protected("GET /utils/uploads/{path...}", uploadHandler.Download)

	protected("GET /chat/online", chatHandler.Online)

	// Sockets
	protected("/ws/central", gatewayHandler.Handler)
	protected("/ws/chat", chatHandler.Handler)
}

func (s *Server) Start() error {
	chain := middleware.RequestLogger(s.log)(
		middleware.TracerMiddleware("linkup-backend")(s.mux),
	)
	s.http = &http.Server{
		Addr:        s.addr,
		Handler:     chain,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: it would kill long-lived socket upgrades.
	}
	s.log.Info("server - starting", "addr", s.addr)
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
