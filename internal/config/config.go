package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string
	AppURL  string // public base URL used to build links in outgoing mail

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string
	S3PublicURL    string // base URL for public object links; derived from bucket when empty

	JWTSecret         string
	AccessTokenExpiry time.Duration
	ResetTokenExpiry  time.Duration
	SaltRounds        int

	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromName  string
	SMTPFromEmail string

	SNSRegion    string
	ChatTopicARN string // chat events are published only when set

	NLPCorpusPath  string
	AllowedOrigins []string // CORS allowed origins
	TrustProxy     bool     // take the client IP from X-Forwarded-For / X-Real-Ip
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users      string
	Tokens     string
	Challenges string
	Posts      string
	Comments   string
	Replies    string
	Likes      string
	Chats      string
	Files      string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),
		AppURL:  getEnv("APP_URL", "http://localhost:3000/"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:      getEnv("DYNAMO_TABLE_USERS", "users"),
			Tokens:     getEnv("DYNAMO_TABLE_TOKENS", "tokens"),
			Challenges: getEnv("DYNAMO_TABLE_CHALLENGES", "challenges"),
			Posts:      getEnv("DYNAMO_TABLE_POSTS", "posts"),
			Comments:   getEnv("DYNAMO_TABLE_COMMENTS", "comments"),
			Replies:    getEnv("DYNAMO_TABLE_REPLIES", "replies"),
			Likes:      getEnv("DYNAMO_TABLE_LIKES", "likes"),
			Chats:      getEnv("DYNAMO_TABLE_CHATS", "chats"),
			Files:      getEnv("DYNAMO_TABLE_FILES", "files"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "adanest-media"),
		S3PublicURL:  getEnv("S3_PUBLIC_URL", ""),

		JWTSecret:         getEnv("JWT_SECRET", ""),
		AccessTokenExpiry: getEnvDuration("ACCESS_TOKEN_EXPIRES_IN", 24*time.Hour),
		ResetTokenExpiry:  getEnvDuration("RESET_PASSWORD_EXPIRES_IN", 15*time.Minute),
		SaltRounds:        getEnvInt("SALT_ROUNDS", 10),

		SMTPHost:      getEnv("SMTP_HOST", "localhost"),
		SMTPPort:      getEnv("SMTP_PORT", "1025"),
		SMTPUsername:  getEnv("SMTP_USER", ""),
		SMTPPassword:  getEnv("SMTP_PASS", ""),
		SMTPFromName:  getEnv("SMTP_FROM_NAME", "Adanest"),
		SMTPFromEmail: getEnv("SMTP_FROM_EMAIL", "noreply@adanest.local"),

		SNSRegion:    getEnv("SNS_REGION", "us-east-1"),
		ChatTopicARN: getEnv("CHAT_TOPIC_ARN", ""),

		NLPCorpusPath:  getEnv("NLP_CORPUS_PATH", "./corpus.json"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		TrustProxy:     getEnvBool("TRUST_PROXY", false),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("15m", "24h") plus a day suffix ("7d").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, ok := parseDuration(v); ok {
		return d
	}
	return fallback
}

func parseDuration(v string) (time.Duration, bool) {
	if strings.HasSuffix(v, "d") {
		n, err := strconv.Atoi(strings.TrimSuffix(v, "d"))
		if err != nil || n < 0 {
			return 0, false
		}
		return time.Duration(n) * 24 * time.Hour, true
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, false
	}
	return d, true
}
