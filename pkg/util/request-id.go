package util

import (
	"context"

	"github.com/google/uuid"
)

type key string

const (
	requestIDKey = key("x-request-id")
	// RequestIDHeader is the HTTP header carrying the request id.
	RequestIDHeader = "X-Request-Id"
)

// WithRequestID returns a context with a request id.
// It will generate new request id if the provided id is empty.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = NewRequestID()
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// NewRequestID returns a uuid-v4 string to use as request id.
func NewRequestID() string {
	return uuid.NewString()
}

// GetRequestID returns a request id from ctx if available.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
