package config

import "time"

const (
	// Auth
	TokenTTL  = 72 * time.Hour
	JWTIssuer = "civicbot-service"

	// Audit
	AuditBufferSize = 256

	// Notification
	NotifyQueueSize    = 128
	WhatsAppTimeout    = 10 * time.Second
	DefaultCitizenLang = "en"

	// Assignee cache
	AssigneeCacheTTL = time.Minute

	// Activity feed
	AuditFeedChannel = "audit:feed"
	FeedSendBuffer   = 64

	// Listing
	DefaultPageSize = 50
	ActivityLimit   = 100
)
