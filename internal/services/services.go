// Package services wraps the backend endpoints in typed calls over the
// executor. Every method returns errors that were already surfaced once by
// the transport, so callers only decide control flow.
package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/studiowebux/fitadmin/internal/executor"
	"github.com/studiowebux/fitadmin/internal/notify"
	"github.com/studiowebux/fitadmin/internal/types"
	"github.com/studiowebux/fitadmin/internal/upload"
)

// SessionWriter receives the authentication state produced by sign-in
type SessionWriter interface {
	SetAuth(token types.UserToken, user *types.UserInfo) error
	Clear() error
}

// Services groups the endpoint wrappers sharing one client
type Services struct {
	Auth          *Auth
	Users         *Users
	Exercises     *Exercises
	Notifications *Notifications
	Legal         *Legal
	Settings      *Settings
	Uploads       *Uploads
	Dashboard     *Dashboard
}

// New builds every service over client. session may be nil when the caller
// never signs in.
func New(client *executor.Client, session SessionWriter, log zerolog.Logger) *Services {
	users := &Users{client: client}
	exercises := &Exercises{client: client}

	return &Services{
		Auth:          &Auth{client: client, session: session, log: log},
		Users:         users,
		Exercises:     exercises,
		Notifications: &Notifications{client: client, log: log},
		Legal:         &Legal{client: client},
		Settings:      &Settings{client: client},
		Uploads:       &Uploads{client: client},
		Dashboard:     &Dashboard{users: users, exercises: exercises},
	}
}

// Orchestrator returns an upload orchestrator using these services as its transport
func (s *Services) Orchestrator(notifier notify.Notifier, opts upload.Options, log zerolog.Logger) *upload.Orchestrator {
	return upload.New(s.Uploads, notifier, opts, log)
}

// PageQuery selects a page of a paginated listing
type PageQuery struct {
	Page  int
	Limit int
}

// DefaultPage is the first page with the backend default size
var DefaultPage = PageQuery{Page: 1, Limit: 10}

func (q PageQuery) apply(req *types.RequestEnvelope) *types.RequestEnvelope {
	if q.Page > 0 {
		req.WithQuery("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		req.WithQuery("limit", strconv.Itoa(q.Limit))
	}
	return req
}

// fetchPage retrieves one page of a paginated listing
func fetchPage[T any](ctx context.Context, client *executor.Client, path string, q PageQuery) (*types.Page[T], error) {
	var page types.Page[T]
	if err := client.Call(ctx, q.apply(types.NewRequest(http.MethodGet, path)), &page); err != nil {
		return nil, err
	}
	if page.Data == nil {
		page.Data = []T{}
	}
	return &page, nil
}

func idPath(base, id string) string {
	return base + "/" + url.PathEscape(id)
}
