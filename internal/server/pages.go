package server

import (
	"errors"
	"net/http"

	"aidbridge/pkg/types"
)

type HomePageData struct {
	Title   string
	Stats   *types.Statistics
	Causes  []*types.Cause
	Stories []*types.SuccessStory
}

type BrowsePageData struct {
	Title    string
	Requests []*types.Request
	Filter   types.RequestFilter
}

type CausesPageData struct {
	Title  string
	Causes []*types.Cause
}

type RequestDetailPageData struct {
	Title   string
	Request *types.Request
}

func (s *Service) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := s.statsRepo.Statistics(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch statistics for home page")
		s.internalServerError(w)
		return
	}

	causes, err := s.causesRepo.ListByStatus(ctx, types.CauseStatusActive)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch causes for home page")
		s.internalServerError(w)
		return
	}

	featured := true
	stories, err := s.storiesRepo.ListPublished(ctx, &featured)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch stories for home page")
		s.internalServerError(w)
		return
	}

	data := HomePageData{
		Title:   "AidBridge",
		Stats:   stats,
		Causes:  causes,
		Stories: stories,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "page.home", data); err != nil {
		s.logger.WithError(err).Error("failed to render home page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handleBrowse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var filter types.RequestFilter
	if err := decoder.Decode(&filter, r.URL.Query()); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	requests, err := s.requestsRepo.ListApproved(ctx, filter)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch requests for browse page")
		s.internalServerError(w)
		return
	}

	data := BrowsePageData{
		Title:    "Browse Requests",
		Requests: requests,
		Filter:   filter,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "page.browse", data); err != nil {
		s.logger.WithError(err).Error("failed to render browse page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handleCausesPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	causes, err := s.causesRepo.ListByStatus(ctx, types.CauseStatusActive)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch causes page")
		s.internalServerError(w)
		return
	}

	data := CausesPageData{
		Title:  "Collective Causes",
		Causes: causes,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "page.causes", data); err != nil {
		s.logger.WithError(err).Error("failed to render causes page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handleRequestDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := r.PathValue("id")

	request, err := s.requestsRepo.Request(ctx, requestID)
	if err != nil {
		if errors.Is(err, types.ErrRequestNotFound) {
			http.NotFound(w, r)
			return
		}
		s.logger.WithError(err).Error("failed to fetch request detail page")
		s.internalServerError(w)
		return
	}

	if request.Status != types.RequestStatusApproved {
		http.NotFound(w, r)
		return
	}

	data := RequestDetailPageData{
		Title:   request.Title,
		Request: request,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "page.request-detail", data); err != nil {
		s.logger.WithError(err).Error("failed to render request detail page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) internalServerError(w http.ResponseWriter) {
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
