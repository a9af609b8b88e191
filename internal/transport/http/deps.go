package http

import (
	"net/http"

	"github.com/adanest-api/internal/application/nlp"
	"github.com/adanest-api/internal/application/token"
	"github.com/adanest-api/internal/infrastructure/dynamo"
	s3infra "github.com/adanest-api/internal/infrastructure/s3"
	"github.com/adanest-api/internal/infrastructure/smtp"
	"github.com/adanest-api/internal/infrastructure/sns"
	"github.com/adanest-api/internal/observability"
	"github.com/adanest-api/internal/pkg/password"
	appmiddleware "github.com/adanest-api/internal/transport/http/middleware"
)

// Deps holds the infrastructure the router assembles services from.
// Tokens and RateLimiter are built by the caller, which owns their shutdown.
type Deps struct {
	UserRepo      *dynamo.UserRepo
	ChallengeRepo *dynamo.ChallengeRepo
	PostRepo      *dynamo.PostRepo
	CommentRepo   *dynamo.CommentRepo
	ReplyRepo     *dynamo.ReplyRepo
	LikeRepo      *dynamo.LikeRepo
	ChatRepo      *dynamo.ChatRepo
	FileRepo      *dynamo.FileRepo

	S3Store       *s3infra.Store
	Mailer        smtp.Mailer
	ChatPublisher sns.ChatPublisher
	Hasher        password.Hasher
	Tokens        token.Service
	NLP           nlp.Service

	Metrics        *observability.Metrics
	MetricsHandler http.Handler
	RateLimiter    *appmiddleware.RateLimiter
}
