package server

import (
	"errors"
	"net/http"

	"aidbridge/pkg/types"
)

func (s *Service) handleListCauses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := types.CauseStatusActive
	if v := r.URL.Query().Get("status"); v != "" {
		status = types.CauseStatus(v)
		if !status.Valid() {
			s.respondError(w, http.StatusBadRequest, "status must be active, completed or cancelled", nil)
			return
		}
	}

	causes, err := s.causesRepo.ListByStatus(ctx, status)
	if err != nil {
		s.logger.WithError(err).Error("failed to list causes")
		s.respondError(w, http.StatusInternalServerError, "failed to list causes", err)
		return
	}

	s.respondJSON(w, http.StatusOK, causes)
}

func (s *Service) handleGetCause(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	causeID := r.PathValue("id")

	cause, err := s.causesRepo.Cause(ctx, causeID)
	if err != nil {
		if errors.Is(err, types.ErrCauseNotFound) {
			s.respondError(w, http.StatusNotFound, "cause not found", err)
			return
		}
		s.logger.WithError(err).Error("failed to fetch cause")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch cause", err)
		return
	}

	s.respondJSON(w, http.StatusOK, cause)
}

func (s *Service) handleCreateCause(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, err := s.sessionFromContext(ctx)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required", err)
		return
	}

	var payload types.Cause
	if err := s.decodeJSON(r, &payload); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if payload.Title == "" || payload.Description == "" {
		s.respondError(w, http.StatusBadRequest, "title and description are required", nil)
		return
	}

	if payload.GoalAmountCents <= 0 {
		s.respondError(w, http.StatusBadRequest, "goal_amount_cents must be positive", nil)
		return
	}

	cause := &types.Cause{
		Title:           payload.Title,
		Description:     payload.Description,
		GoalAmountCents: payload.GoalAmountCents,
		StartDate:       payload.StartDate,
		EndDate:         payload.EndDate,
		Status:          types.CauseStatusActive,
		ImageURL:        payload.ImageURL,
		CreatedBy:       sess.UserID,
	}

	if err := s.causesRepo.Create(ctx, cause); err != nil {
		s.logger.WithError(err).Error("failed to create cause")
		s.respondError(w, http.StatusInternalServerError, "failed to create cause", err)
		return
	}

	s.respondJSON(w, http.StatusCreated, cause)
}

func (s *Service) handleUpdateCause(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	causeID := r.PathValue("id")

	var payload types.CauseUpdate
	if err := s.decodeJSON(r, &payload); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if payload.Status != nil && !payload.Status.Valid() {
		s.respondError(w, http.StatusBadRequest, "invalid cause status", nil)
		return
	}

	fields := map[string]any{}
	setIfNotEmpty(fields, "title", payload.Title)
	setIfNotEmpty(fields, "description", payload.Description)
	setIfNotEmpty(fields, "image_url", payload.ImageURL)
	if payload.GoalAmountCents != nil && *payload.GoalAmountCents > 0 {
		fields["goal_amount_cents"] = *payload.GoalAmountCents
	}
	if payload.EndDate != nil {
		fields["end_date"] = *payload.EndDate
	}
	if payload.Status != nil {
		fields["status"] = *payload.Status
	}

	if err := s.causesRepo.UpdateFields(ctx, causeID, fields); err != nil {
		switch {
		case errors.Is(err, types.ErrNoFieldsToUpdate):
			s.respondError(w, http.StatusBadRequest, "no fields to update", err)
		case errors.Is(err, types.ErrCauseNotFound):
			s.respondError(w, http.StatusNotFound, "cause not found", err)
		default:
			s.logger.WithError(err).Error("failed to update cause")
			s.respondError(w, http.StatusInternalServerError, "failed to update cause", err)
		}
		return
	}

	updated, err := s.causesRepo.Cause(ctx, causeID)
	if err != nil {
		s.logger.WithError(err).Error("failed to re-fetch cause")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch cause", err)
		return
	}

	s.respondJSON(w, http.StatusOK, updated)
}
