package httpapi

import (
	"errors"
	"net/http"

	"leadcrm/backend/internal/auth"
	"leadcrm/backend/internal/model"
	"leadcrm/backend/internal/store"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, errBadRequest, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.fail(w, r, errUnexpected, err)
		return
	}

	created, err := s.store.CreateUser(r.Context(), model.User{
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		// Any insert failure is reported as a duplicate.
		s.fail(w, r, errUserExists, err)
		return
	}

	writeJSON(w, http.StatusOK, created)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, errBadRequest, err)
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.fail(w, r, errInvalidCredentials, nil)
			return
		}
		s.fail(w, r, errUnexpected, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.fail(w, r, errInvalidCredentials, nil)
		return
	}

	token, err := s.issuer.Issue(user.ID, user.Email)
	if err != nil {
		s.fail(w, r, errUnexpected, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}
