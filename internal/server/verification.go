package server

import (
	"errors"
	"net/http"

	"aidbridge/pkg/types"
)

// Admin review surface. Role enforcement happens in the router via
// RequireRole, so handlers here only deal with the work itself.

func (s *Service) handleVerificationQueue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	requests, err := s.requestsRepo.ListByStatus(ctx, types.RequestStatusPending)
	if err != nil {
		s.logger.WithError(err).Error("failed to list pending requests")
		s.respondError(w, http.StatusInternalServerError, "failed to list pending requests", err)
		return
	}

	s.respondJSON(w, http.StatusOK, requests)
}

type reviewRequestPayload struct {
	Status    types.RequestStatus `json:"status"`
	AdminNote *string             `json:"admin_note"`
}

func (s *Service) handleReviewRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := r.PathValue("id")

	var payload reviewRequestPayload
	if err := s.decodeJSON(r, &payload); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if payload.Status != types.RequestStatusApproved && payload.Status != types.RequestStatusRejected {
		s.respondError(w, http.StatusBadRequest, "status must be approved or rejected", nil)
		return
	}

	if _, err := s.requestsRepo.Request(ctx, requestID); err != nil {
		if errors.Is(err, types.ErrRequestNotFound) {
			s.respondError(w, http.StatusNotFound, "request not found", err)
			return
		}
		s.logger.WithError(err).Error("failed to fetch request")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch request", err)
		return
	}

	fields := map[string]any{"status": payload.Status}
	setIfNotEmpty(fields, "admin_note", payload.AdminNote)

	if err := s.requestsRepo.UpdateFields(ctx, requestID, fields); err != nil {
		s.logger.WithError(err).Error("failed to review request")
		s.respondError(w, http.StatusInternalServerError, "failed to review request", err)
		return
	}

	updated, err := s.requestsRepo.Request(ctx, requestID)
	if err != nil {
		s.logger.WithError(err).Error("failed to re-fetch request")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch request", err)
		return
	}

	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Service) handleVerifyDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	documentID := r.PathValue("id")

	sess, err := s.sessionFromContext(ctx)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required", err)
		return
	}

	if err := s.documentsRepo.SetVerified(ctx, documentID, sess.UserID); err != nil {
		if errors.Is(err, types.ErrDocumentNotFound) {
			s.respondError(w, http.StatusNotFound, "document not found", err)
			return
		}
		s.logger.WithError(err).Error("failed to verify document")
		s.respondError(w, http.StatusInternalServerError, "failed to verify document", err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"message": "document verified"})
}

func (s *Service) handleVerifyUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.PathValue("id")

	if err := s.usersRepo.SetVerified(ctx, userID, true); err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			s.respondError(w, http.StatusNotFound, "user not found", err)
			return
		}
		s.logger.WithError(err).Error("failed to verify user")
		s.respondError(w, http.StatusInternalServerError, "failed to verify user", err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"message": "user verified"})
}
