package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/facevault/internal/common"
	"github.com/dmitrijs2005/facevault/internal/server/auth"
	"github.com/dmitrijs2005/facevault/internal/vault/models"
)

type credentialsRequest struct {
	Username string    `json:"username"`
	Password string    `json:"password"`
	Vector   []float32 `json:"vector"`
}

type enrollResponse struct {
	Username string `json:"username"`
	Count    int    `json:"count"`
}

type loginResponse struct {
	Similarity  float64        `json:"similarity"`
	AccessToken string         `json:"access_token"`
	Profile     models.Profile `json:"profile"`
}

type errorResponse struct {
	Error      string   `json:"error"`
	Similarity *float64 `json:"similarity,omitempty"`
}

func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, common.ErrInvalidInput)
		return
	}

	count, err := s.vault.Enroll(r.Context(), req.Username, req.Password, req.Vector)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Enrolled", "username", req.Username)
	s.writeJSON(w, http.StatusCreated, enrollResponse{Username: req.Username, Count: count})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, common.ErrInvalidInput)
		return
	}

	result, err := s.vault.Login(r.Context(), req.Username, req.Password, req.Vector)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	token, err := auth.GenerateToken(result.Profile.Username, s.jwtSecret, s.tokenValidity)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, loginResponse{
		Similarity:  result.Similarity,
		AccessToken: token,
		Profile:     result.Profile,
	})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.vault.ListUsers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, profiles)
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.vault.Count(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if err := s.vault.DeleteUser(r.Context(), username); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps vault error kinds onto HTTP status codes. Password and
// biometric rejections both come back as 401; the body distinguishes the
// factor but a decryption failure is indistinguishable from a mismatch.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var mismatch *common.FaceMismatchError

	switch {
	case errors.Is(err, common.ErrInvalidInput):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid input"})
	case errors.Is(err, common.ErrAlreadyEnrolled):
		s.writeJSON(w, http.StatusConflict, errorResponse{Error: "already enrolled"})
	case errors.Is(err, common.ErrUserNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "user not found"})
	case errors.Is(err, common.ErrInvalidCredentials):
		s.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
	case errors.As(err, &mismatch):
		s.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "face mismatch", Similarity: &mismatch.Similarity})
	case errors.Is(err, common.ErrAuthenticationFailed):
		s.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication failed"})
	default:
		s.logger.Error(r.Context(), "internal error", "error", err.Error())
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
