package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"aidbridge/pkg/types"
)

func (s *Service) handleListStories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var featured *bool
	if v := r.URL.Query().Get("featured"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "featured must be true or false", err)
			return
		}
		featured = &parsed
	}

	stories, err := s.storiesRepo.ListPublished(ctx, featured)
	if err != nil {
		s.logger.WithError(err).Error("failed to list stories")
		s.respondError(w, http.StatusInternalServerError, "failed to list stories", err)
		return
	}

	s.respondJSON(w, http.StatusOK, stories)
}

type createStoryPayload struct {
	Title        string  `json:"title"`
	Content      string  `json:"content"`
	ConnectionID *string `json:"connection_id"`
	CauseID      *string `json:"cause_id"`
	IsFeatured   bool    `json:"is_featured"`
	Publish      bool    `json:"publish"`
}

func (s *Service) handleCreateStory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload createStoryPayload
	if err := s.decodeJSON(r, &payload); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if payload.Title == "" || payload.Content == "" {
		s.respondError(w, http.StatusBadRequest, "title and content are required", nil)
		return
	}

	story := &types.SuccessStory{
		Title:        payload.Title,
		Content:      payload.Content,
		ConnectionID: payload.ConnectionID,
		CauseID:      payload.CauseID,
		IsFeatured:   payload.IsFeatured,
	}

	if payload.Publish {
		now := time.Now().UTC()
		story.PublishedAt = &now
	}

	if err := s.storiesRepo.Create(ctx, story); err != nil {
		s.logger.WithError(err).Error("failed to create story")
		s.respondError(w, http.StatusInternalServerError, "failed to create story", err)
		return
	}

	s.respondJSON(w, http.StatusCreated, story)
}

func (s *Service) handleUpdateStory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	storyID := r.PathValue("id")

	var payload types.StoryUpdate
	if err := s.decodeJSON(r, &payload); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	fields := map[string]any{}
	setIfNotEmpty(fields, "title", payload.Title)
	setIfNotEmpty(fields, "content", payload.Content)
	if payload.IsFeatured != nil {
		fields["is_featured"] = *payload.IsFeatured
	}
	if payload.PublishedAt != nil {
		fields["published_at"] = *payload.PublishedAt
	}

	if err := s.storiesRepo.UpdateFields(ctx, storyID, fields); err != nil {
		switch {
		case errors.Is(err, types.ErrNoFieldsToUpdate):
			s.respondError(w, http.StatusBadRequest, "no fields to update", err)
		case errors.Is(err, types.ErrStoryNotFound):
			s.respondError(w, http.StatusNotFound, "story not found", err)
		default:
			s.logger.WithError(err).Error("failed to update story")
			s.respondError(w, http.StatusInternalServerError, "failed to update story", err)
		}
		return
	}

	updated, err := s.storiesRepo.Story(ctx, storyID)
	if err != nil {
		s.logger.WithError(err).Error("failed to re-fetch story")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch story", err)
		return
	}

	s.respondJSON(w, http.StatusOK, updated)
}
