package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/reginaldodesouza61/listas-compras/internal/auth"
	"github.com/reginaldodesouza61/listas-compras/internal/middleware"
	"github.com/reginaldodesouza61/listas-compras/internal/models"
	"github.com/reginaldodesouza61/listas-compras/internal/storage"
	"github.com/reginaldodesouza61/listas-compras/pkg/api"
)

// PushConfig is what web clients need to register for push messages.
type PushConfig struct {
	Enabled   bool
	VAPIDKey  string
	ProjectID string
}

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	provider      *auth.ProviderAuthenticator
	jwtManager    *auth.JWTManager
	users         storage.UserStore
	push          PushConfig
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
// provider may be nil when sign-in with an external provider is not configured.
func NewAuthService(authenticator auth.Authenticator, provider *auth.ProviderAuthenticator, jwtManager *auth.JWTManager, users storage.UserStore, push PushConfig, logger *slog.Logger) *AuthService {
	if provider == nil {
		provider = auth.NewProviderAuthenticator(nil, users)
	}
	return &AuthService{
		authenticator: authenticator,
		provider:      provider,
		jwtManager:    jwtManager,
		users:         users,
		push:          push,
		logger:        logger,
	}
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	s.logger.Info("Register request", "email", req.Msg.Email)

	// Validate input
	if strings.TrimSpace(req.Msg.Email) == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidEmail)
	}

	// Register user
	user, err := s.authenticator.Register(ctx, req.Msg.Email, req.Msg.DisplayName, req.Msg.Password)
	if err != nil {
		s.logger.Error("Registration failed", "email", req.Msg.Email, "error", err)
		return nil, toConnectError(err)
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(&api.RegisterResponse{
		User:  toAPIUser(user),
		Token: token,
	}), nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	s.logger.Info("Login request", "email", req.Msg.Email)

	// Validate input
	if req.Msg.Email == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	// Authenticate user
	user, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", req.Msg.Email, "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	// Keep the directory entry fresh for member lookups
	user.DisplayName = models.ProfileName(user.DisplayName, user.Email)
	user.UpdatedAt = time.Now().Unix()
	if err := s.users.UpsertProfile(ctx, user); err != nil {
		s.logger.Error("Failed to project profile", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(&api.LoginResponse{
		User:  toAPIUser(user),
		Token: token,
	}), nil
}

// LoginWithProvider exchanges an identity provider ID token for a session token.
func (s *AuthService) LoginWithProvider(ctx context.Context, req *connect.Request[api.LoginWithProviderRequest]) (*connect.Response[api.LoginWithProviderResponse], error) {
	s.logger.Info("LoginWithProvider request")

	if req.Msg.IdToken == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrMissingToken)
	}

	user, err := s.provider.Authenticate(ctx, req.Msg.IdToken)
	if err != nil {
		s.logger.Warn("Provider login failed", "error", err)
		if errors.Is(err, auth.ErrProviderUnavailable) || errors.Is(err, auth.ErrInvalidToken) {
			return nil, toConnectError(err)
		}
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in with provider", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(&api.LoginWithProviderResponse{
		User:  toAPIUser(user),
		Token: token,
	}), nil
}

// Logout revokes the session token of the caller.
func (s *AuthService) Logout(ctx context.Context, req *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Logout request", "user_id", caller.ID)

	if err := s.jwtManager.Revoke(middleware.GetToken(ctx)); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.LogoutResponse{}), nil
}

// GetCurrentUser returns the currently authenticated user's information.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	// Get user ID from context (set by auth middleware)
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetCurrentUser request", "user_id", caller.ID)

	user, err := s.users.GetUserByID(ctx, caller.ID)
	if err != nil {
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}
	if user == nil {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("user not found"))
	}

	return connect.NewResponse(&api.GetCurrentUserResponse{User: toAPIUser(user)}), nil
}

// RegisterPushToken stores a messaging token for the caller's device.
func (s *AuthService) RegisterPushToken(ctx context.Context, req *connect.Request[api.RegisterPushTokenRequest]) (*connect.Response[api.RegisterPushTokenResponse], error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.Token == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("token required"))
	}

	if err := s.users.AddPushToken(ctx, caller.ID, req.Msg.Token); err != nil {
		s.logger.Error("Failed to store push token", "user_id", caller.ID, "error", err)
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}

	s.logger.Info("Push token registered", "user_id", caller.ID)
	return connect.NewResponse(&api.RegisterPushTokenResponse{}), nil
}

// GetPushConfig tells clients whether push messaging is available.
// The VAPID key is a public key and safe to expose.
func (s *AuthService) GetPushConfig(ctx context.Context, req *connect.Request[api.GetPushConfigRequest]) (*connect.Response[api.GetPushConfigResponse], error) {
	resp := &api.GetPushConfigResponse{Enabled: s.push.Enabled}
	if s.push.Enabled {
		resp.VapidKey = s.push.VAPIDKey
		resp.ProjectId = s.push.ProjectID
	}
	return connect.NewResponse(resp), nil
}

func (s *AuthService) issue(user *models.User) (string, error) {
	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return "", connect.NewError(connect.CodeInternal, err)
	}
	return token, nil
}
