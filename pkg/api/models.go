package api

import "time"

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

type CategoryRequest struct {
	Name string `json:"name"`
}

type CommentUpdateRequest struct {
	Content string `json:"content"`
}

type BookmarkStatus struct {
	Bookmarked bool `json:"bookmarked"`
}

// LogEntry is the audit record the logging middleware publishes to Kafka.
type LogEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	IP         string    `json:"ip"`
	StatusCode int       `json:"status_code"`
	RequestID  string    `json:"request_id"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	Duration   float64   `json:"duration_sec"`
	Service    string    `json:"service"`
}
