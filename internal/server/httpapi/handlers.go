package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mkarpovich/authkeeper/internal/common"
	"github.com/mkarpovich/authkeeper/internal/server/services"
)

type createUserRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type logoutRequest struct {
	UserID int64  `json:"id_user"`
	Token  string `json:"token"`
}

// errorResponse mirrors the API's rejection shape: the offending field (or
// fields, for logout) plus a human-readable message.
type errorResponse struct {
	Error any    `json:"error"`
	Msg   string `json:"msg"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error(r.Context(), err.Error(), "path", r.URL.Path)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal", Msg: "internal error"})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body", Msg: "invalid request body"})
		return false
	}
	return true
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	token, err := s.auth.CreateAccount(r.Context(), services.CreateAccountParams{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrDuplicateUsername):
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error: "username",
				Msg:   fmt.Sprintf("a user with the username %s already exists", req.Username),
			})
		case errors.Is(err, common.ErrDuplicateEmail):
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error: "email",
				Msg:   fmt.Sprintf("a user with the email %s already exists", req.Email),
			})
		default:
			s.writeInternalError(w, r, err)
		}
		return
	}

	s.logger.Info(r.Context(), "account created", "username", req.Username)
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	grant, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrUserNotFound):
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error: "username",
				Msg:   "the username does not exist or is misspelled",
			})
		case errors.Is(err, common.ErrAccountInactive):
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error: "status",
				Msg:   "you do not have permission to access the system",
			})
		case errors.Is(err, common.ErrIncorrectPassword):
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error: "password",
				Msg:   "incorrect password",
			})
		default:
			s.writeInternalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"token": grant.Token, "uses": grant.Uses})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.auth.Logout(r.Context(), req.UserID, req.Token); err != nil {
		if errors.Is(err, common.ErrTokenNotFound) {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error: []string{"id_user", "token"},
				Msg:   "the token or user ID is incorrect",
			})
			return
		}
		s.writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"detail": "Logout successful"})
}
