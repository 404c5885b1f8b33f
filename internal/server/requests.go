package server

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"aidbridge/internal/utils"
	"aidbridge/pkg/types"
)

const maxDocumentBytes = 10 << 20

func (s *Service) handleListRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var filter types.RequestFilter
	if err := decoder.Decode(&filter, r.URL.Query()); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid filter parameters", err)
		return
	}

	requests, err := s.requestsRepo.ListApproved(ctx, filter)
	if err != nil {
		s.logger.WithError(err).Error("failed to list requests")
		s.respondError(w, http.StatusInternalServerError, "failed to list requests", err)
		return
	}

	s.respondJSON(w, http.StatusOK, requests)
}

func (s *Service) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := r.PathValue("id")

	request, err := s.requestsRepo.Request(ctx, requestID)
	if err != nil {
		if errors.Is(err, types.ErrRequestNotFound) {
			s.respondError(w, http.StatusNotFound, "request not found", err)
			return
		}
		s.logger.WithError(err).Error("failed to fetch request")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch request", err)
		return
	}

	// Only approved requests are publicly visible.
	if request.Status != types.RequestStatusApproved {
		s.respondError(w, http.StatusNotFound, "request not found", nil)
		return
	}

	s.respondJSON(w, http.StatusOK, request)
}

func (s *Service) handleMyRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, err := s.sessionFromContext(ctx)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required", err)
		return
	}

	requests, err := s.requestsRepo.ListByUser(ctx, sess.UserID)
	if err != nil {
		s.logger.WithError(err).Error("failed to list own requests")
		s.respondError(w, http.StatusInternalServerError, "failed to list requests", err)
		return
	}

	s.respondJSON(w, http.StatusOK, requests)
}

type createRequestPayload struct {
	Title             string        `json:"title"`
	Description       string        `json:"description"`
	Category          string        `json:"category"`
	Location          string        `json:"location"`
	Urgency           types.Urgency `json:"urgency"`
	AmountNeededCents int64         `json:"amount_needed_cents"`

	// Accepted but never honored; new requests always start pending.
	Status string `json:"status"`
}

func (s *Service) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, err := s.sessionFromContext(ctx)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required", err)
		return
	}

	var payload createRequestPayload
	if err := s.decodeJSON(r, &payload); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if payload.Title == "" || payload.Description == "" || payload.Category == "" || payload.Location == "" {
		s.respondError(w, http.StatusBadRequest, "title, description, category and location are required", nil)
		return
	}

	if payload.AmountNeededCents <= 0 {
		s.respondError(w, http.StatusBadRequest, "amount_needed_cents must be positive", nil)
		return
	}

	if payload.Urgency == "" {
		payload.Urgency = types.UrgencyMedium
	}
	if !payload.Urgency.Valid() {
		s.respondError(w, http.StatusBadRequest, "urgency must be low, medium or high", nil)
		return
	}

	request := &types.Request{
		UserID:            sess.UserID,
		Title:             payload.Title,
		Description:       payload.Description,
		Category:          payload.Category,
		Location:          payload.Location,
		Urgency:           payload.Urgency,
		AmountNeededCents: payload.AmountNeededCents,
		Status:            types.RequestStatusPending,
	}

	if err := s.requestsRepo.Create(ctx, request); err != nil {
		s.logger.WithError(err).Error("failed to create request")
		s.respondError(w, http.StatusInternalServerError, "failed to create request", err)
		return
	}

	s.respondJSON(w, http.StatusCreated, request)
}

func (s *Service) handleUpdateRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := r.PathValue("id")

	sess, err := s.sessionFromContext(ctx)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required", err)
		return
	}

	request, err := s.requestsRepo.Request(ctx, requestID)
	if err != nil {
		if errors.Is(err, types.ErrRequestNotFound) {
			s.respondError(w, http.StatusNotFound, "request not found", err)
			return
		}
		s.logger.WithError(err).Error("failed to fetch request")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch request", err)
		return
	}

	isAdmin := sess.Role == types.RoleAdmin
	if request.UserID != sess.UserID && !isAdmin {
		s.respondError(w, http.StatusForbidden, "only the owner or an admin may update a request", nil)
		return
	}

	var payload types.RequestUpdate
	if err := s.decodeJSON(r, &payload); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if payload.Urgency != nil && !payload.Urgency.Valid() {
		s.respondError(w, http.StatusBadRequest, "urgency must be low, medium or high", nil)
		return
	}

	fields := map[string]any{}
	setIfNotEmpty(fields, "title", payload.Title)
	setIfNotEmpty(fields, "description", payload.Description)
	setIfNotEmpty(fields, "category", payload.Category)
	setIfNotEmpty(fields, "location", payload.Location)
	if payload.Urgency != nil {
		fields["urgency"] = *payload.Urgency
	}
	if payload.AmountNeededCents != nil && *payload.AmountNeededCents > 0 {
		fields["amount_needed_cents"] = *payload.AmountNeededCents
	}

	// Status and admin notes are admin-only; for owners they are
	// silently ignored, not rejected.
	if isAdmin {
		if payload.Status != nil {
			if !payload.Status.Valid() {
				s.respondError(w, http.StatusBadRequest, "invalid request status", nil)
				return
			}
			fields["status"] = *payload.Status
		}
		setIfNotEmpty(fields, "admin_note", payload.AdminNote)
	}

	if err := s.requestsRepo.UpdateFields(ctx, requestID, fields); err != nil {
		if errors.Is(err, types.ErrNoFieldsToUpdate) {
			s.respondError(w, http.StatusBadRequest, "no fields to update", err)
			return
		}
		s.logger.WithError(err).Error("failed to update request")
		s.respondError(w, http.StatusInternalServerError, "failed to update request", err)
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

func (s *Service) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := r.PathValue("id")

	sess, err := s.sessionFromContext(ctx)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required", err)
		return
	}

	request, err := s.requestsRepo.Request(ctx, requestID)
	if err != nil {
		if errors.Is(err, types.ErrRequestNotFound) {
			s.respondError(w, http.StatusNotFound, "request not found", err)
			return
		}
		s.logger.WithError(err).Error("failed to fetch request")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch request", err)
		return
	}

	if request.UserID != sess.UserID && sess.Role != types.RoleAdmin {
		s.respondError(w, http.StatusForbidden, "only the owner or an admin may view documents", nil)
		return
	}

	docs, err := s.documentsRepo.DocumentsByRequestID(ctx, requestID)
	if err != nil {
		s.logger.WithError(err).Error("failed to list documents")
		s.respondError(w, http.StatusInternalServerError, "failed to list documents", err)
		return
	}

	s.respondJSON(w, http.StatusOK, docs)
}

func (s *Service) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := r.PathValue("id")

	sess, err := s.sessionFromContext(ctx)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required", err)
		return
	}

	request, err := s.requestsRepo.Request(ctx, requestID)
	if err != nil {
		if errors.Is(err, types.ErrRequestNotFound) {
			s.respondError(w, http.StatusNotFound, "request not found", err)
			return
		}
		s.logger.WithError(err).Error("failed to fetch request")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch request", err)
		return
	}

	if request.UserID != sess.UserID {
		s.respondError(w, http.StatusForbidden, "only the owner may upload documents", nil)
		return
	}

	if err := r.ParseMultipartForm(maxDocumentBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart body", err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "file field is required", err)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("requests/%s/%s%s", requestID, utils.NanoIDSize(21), filepath.Ext(header.Filename))

	storageKey, err := s.documents.Upload(ctx, key, file, contentType)
	if err != nil {
		s.logger.WithError(err).Error("failed to upload document")
		s.respondError(w, http.StatusInternalServerError, "failed to store document", err)
		return
	}

	doc := &types.RequestDocument{
		RequestID:     requestID,
		FileName:      header.Filename,
		FileSizeBytes: header.Size,
		MimeType:      contentType,
		StorageKey:    storageKey,
	}

	if err := s.documentsRepo.Create(ctx, doc); err != nil {
		s.logger.WithError(err).Error("failed to record document")
		s.respondError(w, http.StatusInternalServerError, "failed to record document", err)
		return
	}

	s.respondJSON(w, http.StatusCreated, doc)
}
