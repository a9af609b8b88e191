package http

import (
	"net/http"

	"github.com/adanest-api/internal/application/auth"
	"github.com/adanest-api/internal/application/challenge"
	"github.com/adanest-api/internal/application/chat"
	"github.com/adanest-api/internal/application/comment"
	"github.com/adanest-api/internal/application/like"
	"github.com/adanest-api/internal/application/media"
	"github.com/adanest-api/internal/application/post"
	"github.com/adanest-api/internal/application/reply"
	"github.com/adanest-api/internal/application/user"
	"github.com/adanest-api/internal/config"
	"github.com/adanest-api/internal/transport/http/handler"
	appmiddleware "github.com/adanest-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	if cfg.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(appmiddleware.Metrics(deps.Metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	limit := func(next http.Handler) http.Handler { return next }
	if deps.RateLimiter != nil {
		limit = deps.RateLimiter.Limit
	}

	mediaSvc := media.NewService(media.ServiceDeps{ObjectStore: deps.S3Store, FileRepo: deps.FileRepo})
	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo:  deps.UserRepo,
		Tokens:    deps.Tokens,
		Hasher:    deps.Hasher,
		Mailer:    deps.Mailer,
		AppURL:    cfg.AppURL,
		AccessTTL: cfg.AccessTokenExpiry,
		ResetTTL:  cfg.ResetTokenExpiry,
	})
	userSvc := user.NewService(user.ServiceDeps{
		UserRepo: deps.UserRepo,
		Hasher:   deps.Hasher,
		Media:    mediaSvc,
		Tokens:   deps.Tokens,
	})
	challengeSvc := challenge.NewService(challenge.ServiceDeps{ChallengeRepo: deps.ChallengeRepo, Metrics: deps.Metrics})
	postSvc := post.NewService(post.ServiceDeps{PostRepo: deps.PostRepo, Media: mediaSvc})
	commentSvc := comment.NewService(comment.ServiceDeps{CommentRepo: deps.CommentRepo, PostRepo: deps.PostRepo})
	replySvc := reply.NewService(reply.ServiceDeps{ReplyRepo: deps.ReplyRepo, CommentRepo: deps.CommentRepo})
	likeSvc := like.NewService(like.ServiceDeps{LikeRepo: deps.LikeRepo, PostRepo: deps.PostRepo})
	chatSvc := chat.NewService(chat.ServiceDeps{ChatRepo: deps.ChatRepo, UserRepo: deps.UserRepo, Publisher: deps.ChatPublisher})

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc, deps.Hasher)
	userH := handler.NewUserHandler(userSvc)
	challengeH := handler.NewChallengeHandler(challengeSvc)
	postH := handler.NewPostHandler(postSvc)
	commentH := handler.NewCommentHandler(commentSvc)
	replyH := handler.NewReplyHandler(replySvc)
	likeH := handler.NewLikeHandler(likeSvc)
	chatH := handler.NewChatHandler(chatSvc)
	nlpH := handler.NewNLPHandler(deps.NLP)
	mediaH := handler.NewMediaHandler(mediaSvc)

	// ── Public routes ────────────────────────────────────────────────────────
	r.Get("/health", healthH.Health)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}
	r.With(limit).Post("/auth/login", authH.Login)
	r.With(limit).Post("/auth/forgot-password", authH.ForgotPassword)
	r.With(limit).Put("/auth/reset-password", authH.ResetPassword)
	r.With(limit).Post("/users", userH.Register)
	r.Get("/posts", postH.List)
	r.Get("/posts/p/{id}", postH.Get)
	r.Get("/posts/search", postH.Search)

	// ── Authenticated routes ─────────────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(appmiddleware.Auth(deps.Tokens))

		r.Post("/auth/logout", authH.Logout)

		r.Put("/challenge/start", challengeH.Start)
		r.Put("/challenge/stop", challengeH.Stop)
		r.Get("/challenge/isstarted", challengeH.IsStarted)
		r.Get("/challenge", challengeH.List)

		r.Get("/users", userH.List)
		r.Get("/users/q", userH.Find)
		r.Put("/users", userH.Update)
		r.Delete("/users", userH.Delete)
		r.Post("/users/upload/avatar", userH.UploadAvatar)

		r.Post("/posts", postH.Create)
		r.Put("/posts/{id}", postH.Update)
		r.Delete("/posts/{id}", postH.Delete)
		r.Post("/posts/upload/cover", postH.UploadCover)

		r.Post("/comments", commentH.Create)
		r.Get("/comments", commentH.List)
		r.Get("/comments/{id}", commentH.Get)
		r.Put("/comments/{id}", commentH.Update)
		r.Delete("/comments/{id}", commentH.Delete)
		r.Get("/comments/post/{id}", commentH.ListByPost)
		r.Get("/comments/post/{id}/count", commentH.CountByPost)

		r.Post("/replies", replyH.Create)
		r.Get("/replies/{id}", replyH.Get)
		r.Get("/replies/comment/{id}", replyH.ListByComment)
		r.Put("/replies/{id}", replyH.Update)
		r.Delete("/replies/{id}", replyH.Delete)

		r.Put("/likes/{postId}", likeH.Toggle)
		r.Get("/likes/{postId}", likeH.Count)
		r.Get("/likes/{postId}/liked", likeH.IsLiked)

		r.Get("/chat", chatH.Messages)
		r.Get("/chat/admins", chatH.Admins)
		r.Post("/chat/send", chatH.Send)
		r.Put("/chat/read/{messageId}", chatH.MarkRead)
		r.Delete("/chat/{messageId}", chatH.Delete)

		r.Post("/nlp/process", nlpH.Process)
		r.Get("/media", mediaH.List)
	})

	return r
}
