package server

import (
	"errors"
	"net/http"
	"strings"

	"aidbridge/internal"
	"aidbridge/internal/utils"
	"aidbridge/pkg/types"

	"golang.org/x/crypto/bcrypt"
)

type registerPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (s *Service) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload registerPayload
	if err := s.decodeJSON(r, &payload); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	payload.Name = strings.TrimSpace(payload.Name)
	payload.Email = strings.TrimSpace(strings.ToLower(payload.Email))

	if payload.Name == "" || payload.Email == "" || payload.Password == "" {
		s.respondError(w, http.StatusBadRequest, "name, email and password are required", nil)
		return
	}

	role := types.Role(payload.Role)
	if role != types.RoleDonor && role != types.RoleReceiver {
		s.respondError(w, http.StatusBadRequest, "role must be donor or receiver", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.WithError(err).Error("failed to hash password")
		s.respondError(w, http.StatusInternalServerError, "registration failed", err)
		return
	}

	user := &types.User{
		Name:              payload.Name,
		Email:             payload.Email,
		PasswordHash:      string(hash),
		Role:              role,
		VerificationToken: utils.StringPtr(utils.NanoID()),
	}

	if err := s.usersRepo.Create(ctx, user); err != nil {
		if errors.Is(err, types.ErrDuplicateUser) {
			s.respondError(w, http.StatusConflict, "name or email already in use", err)
			return
		}
		s.logger.WithError(err).Error("failed to create user")
		s.respondError(w, http.StatusInternalServerError, "registration failed", err)
		return
	}

	s.respondJSON(w, http.StatusCreated, user)
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  *types.User `json:"user"`
}

func (s *Service) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload loginPayload
	if err := s.decodeJSON(r, &payload); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	user, err := s.usersRepo.UserByEmail(ctx, strings.TrimSpace(strings.ToLower(payload.Email)))
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			s.respondError(w, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		s.logger.WithError(err).Error("failed to fetch user for login")
		s.respondError(w, http.StatusInternalServerError, "login failed", err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		s.respondError(w, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	token, err := s.issueToken(user)
	if err != nil {
		s.logger.WithError(err).Error("failed to issue token")
		s.respondError(w, http.StatusInternalServerError, "login failed", err)
		return
	}

	encrypted, err := s.cookie.Encode(internal.COOKIE_SESSION_NAME, token)
	if err != nil {
		s.logger.WithError(err).Error("failed to encrypt session token")
		s.respondError(w, http.StatusInternalServerError, "login failed", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_SESSION_NAME,
		Value:    encrypted,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.tokenTTL.Seconds()),
		Path:     "/",
	})

	s.respondJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

func (s *Service) handleLogout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_SESSION_NAME,
		Value:    "",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})

	s.respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (s *Service) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, err := s.sessionFromContext(ctx)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required", err)
		return
	}

	user, err := s.usersRepo.User(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			s.respondError(w, http.StatusNotFound, "user not found", err)
			return
		}
		s.logger.WithError(err).Error("failed to fetch user")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch profile", err)
		return
	}

	s.respondJSON(w, http.StatusOK, user)
}

func (s *Service) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, err := s.sessionFromContext(ctx)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required", err)
		return
	}

	var payload types.ProfileUpdate
	if err := s.decodeJSON(r, &payload); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	fields := map[string]any{}
	setIfNotEmpty(fields, "name", payload.Name)
	setIfNotEmpty(fields, "phone", payload.Phone)
	setIfNotEmpty(fields, "location", payload.Location)
	setIfNotEmpty(fields, "bio", payload.Bio)

	if err := s.usersRepo.UpdateFields(ctx, sess.UserID, fields); err != nil {
		switch {
		case errors.Is(err, types.ErrNoFieldsToUpdate):
			s.respondError(w, http.StatusBadRequest, "no fields to update", err)
		case errors.Is(err, types.ErrDuplicateUser):
			s.respondError(w, http.StatusConflict, "name or email already in use", err)
		default:
			s.logger.WithError(err).Error("failed to update profile")
			s.respondError(w, http.StatusInternalServerError, "failed to update profile", err)
		}
		return
	}

	user, err := s.usersRepo.User(ctx, sess.UserID)
	if err != nil {
		s.logger.WithError(err).Error("failed to re-fetch profile")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch profile", err)
		return
	}

	s.respondJSON(w, http.StatusOK, user)
}

// setIfNotEmpty applies a supplied, non-empty string field to the
// update map. Empty strings are treated as not supplied.
func setIfNotEmpty(fields map[string]any, column string, value *string) {
	if value == nil {
		return
	}
	if strings.TrimSpace(*value) == "" {
		return
	}
	fields[column] = *value
}
