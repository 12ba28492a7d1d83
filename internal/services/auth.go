package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/studiowebux/fitadmin/internal/executor"
	"github.com/studiowebux/fitadmin/internal/types"
)

const (
	pathSignIn = "/auth/login"
	pathSignUp = "/auth/signup"
	pathLogout = "/auth/logout"
)

// SignInRequest carries login credentials
type SignInRequest struct {
	Email    string `json:"email" yaml:"email"`
	Password string `json:"password" yaml:"password"`
}

// SignUpRequest registers a new administrator
type SignUpRequest struct {
	Email    string `json:"email" yaml:"email"`
	Password string `json:"password" yaml:"password"`
	FullName string `json:"fullname,omitempty" yaml:"fullname,omitempty"`
}

// SignInResponse is the token pair plus the signed-in user
type SignInResponse struct {
	types.UserToken
	User *types.UserInfo `json:"user"`
}

// Auth signs administrators in and out
type Auth struct {
	client  *executor.Client
	session SessionWriter
	log     zerolog.Logger
}

// SignIn authenticates and stores the returned token and user in the session
func (a *Auth) SignIn(ctx context.Context, req SignInRequest) (*SignInResponse, error) {
	var res SignInResponse
	if err := a.client.Post(ctx, pathSignIn, req, &res); err != nil {
		return nil, err
	}
	if err := a.store(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SignUp registers an account and signs it in
func (a *Auth) SignUp(ctx context.Context, req SignUpRequest) (*SignInResponse, error) {
	var res SignInResponse
	if err := a.client.Post(ctx, pathSignUp, req, &res); err != nil {
		return nil, err
	}
	if err := a.store(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Logout notifies the backend and clears the session. The session is
// cleared even when the backend call fails.
func (a *Auth) Logout(ctx context.Context) error {
	callErr := a.client.Get(ctx, pathLogout, nil)
	if callErr != nil {
		a.log.Warn().Err(callErr).Msg("Backend logout failed, clearing local session anyway")
	}

	if a.session != nil {
		if err := a.session.Clear(); err != nil {
			return errors.Join(callErr, fmt.Errorf("failed to clear session: %w", err))
		}
	}
	return callErr
}

func (a *Auth) store(res *SignInResponse) error {
	if res.AccessToken == "" {
		return fmt.Errorf("sign-in response carried no access token")
	}
	if a.session == nil {
		return nil
	}
	if err := a.session.SetAuth(res.UserToken, res.User); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	a.log.Debug().Str("email", userEmail(res.User)).Msg("Session stored")
	return nil
}

func userEmail(u *types.UserInfo) string {
	if u == nil {
		return ""
	}
	return u.Email
}
