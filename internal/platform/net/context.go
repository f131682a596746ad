// Package net holds request scoped context helpers shared by transports
package net

import (
	"context"

	"sprintly/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// WithRequestID stores reqID where both chi and the logger can see it
func WithRequestID(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	return logger.WithRequest(ctx, reqID, "")
}

// WithProduct scopes ctx to a product so log lines carry product_id
func WithProduct(ctx context.Context, productID string) context.Context {
	return logger.WithRequest(ctx, "", productID)
}

// RequestID returns the request id on ctx, or ""
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }
