package api

import (
	"errors"
	"net/http"

	"github.com/privalytics/riskpipe/pkg/audit"
	"github.com/privalytics/riskpipe/pkg/auth"
	"github.com/privalytics/riskpipe/pkg/logging"
	"github.com/privalytics/riskpipe/pkg/validation"
)

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Post(func() { s.issueToken(w, r) }).
		NotAllowed()
}

func (s *Server) issueToken(w http.ResponseWriter, r *http.Request) {
	var req validation.TokenRequest
	decoder := s.NewRequestDecoder(w, r)
	decoder.DecodeJSON(&req).ValidateToken(&req)
	if decoder.RespondError() {
		return
	}

	user, err := s.userStore.GetUserByUsername(req.Username)
	if err != nil || !s.userStore.VerifyPassword(user, req.Password) {
		s.metricsRegistry.AuthFailuresTotal.Inc()
		s.auditLog.Log(&audit.Event{
			Username:     req.Username,
			Action:       audit.ActionAuth,
			ResourceType: audit.ResourceToken,
			Status:       audit.StatusFailure,
			ErrorMessage: "invalid credentials",
		})
		s.respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	accessToken, err := s.jwtManager.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, "issue token"))
		return
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, "issue refresh token"))
		return
	}

	s.auditLog.Log(&audit.Event{
		UserID:       user.ID,
		Username:     user.Username,
		Action:       audit.ActionAuth,
		ResourceType: audit.ResourceToken,
		Status:       audit.StatusSuccess,
	})
	s.respondJSON(w, http.StatusOK, TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int(s.jwtManager.GetTokenDuration().Seconds()),
	})
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Post(func() { s.registerUser(w, r) }).
		NotAllowed()
}

// registerUser creates a user. The first user may register without
// credentials to bootstrap an empty store; every later registration
// requires an admin token.
func (s *Server) registerUser(w http.ResponseWriter, r *http.Request) {
	if len(s.userStore.ListUsers()) == 0 {
		// CreateFirstUser re-checks emptiness under the store's write
		// lock, so racing bootstrap requests cannot both succeed.
		s.createUserWith(w, r, s.userStore.CreateFirstUser)
		return
	}
	s.requireAdmin(s.createUser)(w, r)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	s.createUserWith(w, r, s.userStore.CreateUser)
}

func (s *Server) createUserWith(w http.ResponseWriter, r *http.Request, create func(username, password, role string) (*auth.User, error)) {
	var req validation.UserRequest
	decoder := s.NewRequestDecoder(w, r)
	decoder.DecodeJSON(&req).ValidateUser(&req)
	if decoder.RespondError() {
		return
	}

	user, err := create(req.Username, req.Password, req.Role)
	if err != nil {
		s.recordAudit(r, audit.ActionCreate, audit.ResourceUser, req.Username, audit.StatusFailure, err.Error())
		if errors.Is(err, auth.ErrStoreNotEmpty) {
			s.respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.recordAudit(r, audit.ActionCreate, audit.ResourceUser, user.Username, audit.StatusSuccess, "")

	if s.cfg.Paths.UsersDir != "" {
		if err := s.userStore.SaveUsers(s.cfg.Paths.UsersDir); err != nil {
			s.logger.Warn("could not persist users", logging.Error(err))
		}
	}

	s.respondJSON(w, http.StatusCreated, UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
}
