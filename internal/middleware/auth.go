package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/reginaldodesouza61/listas-compras/internal/auth"
	"github.com/reginaldodesouza61/listas-compras/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the context key for storing the authenticated user ID.
	UserIDKey contextKey = "user_id"
	// EmailKey is the context key for storing the authenticated user's email.
	EmailKey contextKey = "email"
	// TokenKey is the context key for the raw session token, used on sign-out.
	TokenKey contextKey = "token"
)

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// GetEmail extracts the user email from the context.
// Returns empty string if not found.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// GetToken extracts the session token from the context.
func GetToken(ctx context.Context) string {
	token, _ := ctx.Value(TokenKey).(string)
	return token
}

// GetIdentity returns the authenticated caller. The zero Identity means anonymous.
func GetIdentity(ctx context.Context) models.Identity {
	return models.Identity{ID: GetUserID(ctx), Email: GetEmail(ctx)}
}

// WithClaims adds the user info of claims to ctx.
func WithClaims(ctx context.Context, claims *auth.Claims, token string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, EmailKey, claims.Email)
	return context.WithValue(ctx, TokenKey, token)
}

// BearerToken parses an Authorization header value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", auth.ErrMissingToken
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", auth.ErrInvalidToken
	}
	return parts[1], nil
}

// Authenticate validates the bearer token in h and returns ctx enriched with the user info.
func Authenticate(ctx context.Context, jwtManager *auth.JWTManager, h http.Header) (context.Context, error) {
	tokenString, err := BearerToken(h.Get("Authorization"))
	if err != nil {
		return ctx, err
	}
	claims, err := jwtManager.Validate(tokenString)
	if err != nil {
		return ctx, err
	}
	return WithClaims(ctx, claims, tokenString), nil
}

// authInterceptor validates JWT tokens on unary and server-streaming calls.
type authInterceptor struct {
	jwtManager *auth.JWTManager
	required   bool
}

// RequireAuth returns an interceptor that validates JWT tokens and requires authentication.
// It extracts the token from the Authorization header, validates it, and adds
// the user ID and email to the request context.
func RequireAuth(jwtManager *auth.JWTManager) connect.Interceptor {
	return &authInterceptor{jwtManager: jwtManager, required: true}
}

// OptionalAuth returns an interceptor that validates JWT tokens if present, but allows
// requests without authentication. Useful for services mixing public procedures
// (sign-up, sign-in) with authenticated ones.
func OptionalAuth(jwtManager *auth.JWTManager) connect.Interceptor {
	return &authInterceptor{jwtManager: jwtManager}
}

func (i *authInterceptor) authenticate(ctx context.Context, h http.Header) (context.Context, error) {
	enriched, err := Authenticate(ctx, i.jwtManager, h)
	if err == nil {
		return enriched, nil
	}
	if !i.required && (errors.Is(err, auth.ErrMissingToken) || errors.Is(err, auth.ErrInvalidToken)) {
		// Continue with or without user context
		return ctx, nil
	}
	return ctx, connect.NewError(connect.CodeUnauthenticated, err)
}

func (i *authInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if req.Spec().IsClient {
			return next(ctx, req)
		}
		ctx, err := i.authenticate(ctx, req.Header())
		if err != nil {
			return nil, err
		}
		return next(ctx, req)
	}
}

func (i *authInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

func (i *authInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		ctx, err := i.authenticate(ctx, conn.RequestHeader())
		if err != nil {
			return err
		}
		return next(ctx, conn)
	}
}

// BearerInterceptor attaches a session token to outgoing client calls.
func BearerInterceptor(token string) connect.Interceptor {
	return &bearerInterceptor{token: token}
}

type bearerInterceptor struct {
	token string
}

func (b *bearerInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if req.Spec().IsClient && b.token != "" {
			req.Header().Set("Authorization", "Bearer "+b.token)
		}
		return next(ctx, req)
	}
}

func (b *bearerInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return func(ctx context.Context, spec connect.Spec) connect.StreamingClientConn {
		conn := next(ctx, spec)
		if b.token != "" {
			conn.RequestHeader().Set("Authorization", "Bearer "+b.token)
		}
		return conn
	}
}

func (b *bearerInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return next
}
