package main

import (
	"context"
	"net/http"

	"github.com/ekesta/portfolio/internal/authservice"
)

type contextKey string

const (
	claimsContextKey    = contextKey("claims")
	requestIDContextKey = contextKey("request_id")
)

func (app *application) contextSetClaims(r *http.Request, claims *authservice.Claims) *http.Request {
	ctx := context.WithValue(r.Context(), claimsContextKey, claims)
	return r.WithContext(ctx)
}

// contextGetClaims returns nil for anonymous requests.
func (app *application) contextGetClaims(r *http.Request) *authservice.Claims {
	claims, ok := r.Context().Value(claimsContextKey).(*authservice.Claims)
	if !ok {
		return nil
	}
	return claims
}

func contextSetRequestID(r *http.Request, id string) *http.Request {
	ctx := context.WithValue(r.Context(), requestIDContextKey, id)
	return r.WithContext(ctx)
}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDContextKey).(string)
	return id
}
