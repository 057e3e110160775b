// Package httpapi exposes the account and token operations as a small JSON
// API. It carries no policy logic: handlers decode requests, call the auth
// service, and map sentinel errors onto structured rejections.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mkarpovich/authkeeper/internal/logging"
	"github.com/mkarpovich/authkeeper/internal/server/services"
)

// AuthService is the surface of the service layer consumed by the handlers.
type AuthService interface {
	CreateAccount(ctx context.Context, p services.CreateAccountParams) (string, error)
	Login(ctx context.Context, username, password string) (*services.TokenGrant, error)
	Logout(ctx context.Context, userID int64, token string) error
}

type Server struct {
	address string
	auth    AuthService
	logger  logging.Logger
}

func NewServer(a string, l logging.Logger, svc AuthService) *Server {
	return &Server{
		address: a,
		logger:  l.With("module", "http_server"),
		auth:    svc,
	}
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /create/user", s.handleCreateUser)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /logout", s.handleLogout)
	return s.withRequestID(mux)
}

func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
