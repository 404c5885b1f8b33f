package server

import "net/http"

func (s *Service) handleGetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.statsRepo.Statistics(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch statistics")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch statistics", err)
		return
	}

	s.respondJSON(w, http.StatusOK, stats)
}

func (s *Service) handleRefreshStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.statsRepo.Refresh(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to refresh statistics")
		s.respondError(w, http.StatusInternalServerError, "failed to refresh statistics", err)
		return
	}

	s.respondJSON(w, http.StatusOK, stats)
}
