package server

import (
	"errors"
	"net/http"

	"aidbridge/pkg/types"
)

type createDonationPayload struct {
	AmountCents   int64   `json:"amount_cents"`
	DonorName     *string `json:"donor_name"`
	IsAnonymous   bool    `json:"is_anonymous"`
	PaymentMethod *string `json:"payment_method"`
	TransactionID *string `json:"transaction_id"`
}

// handleCreateDonation is public: donations may come from
// unauthenticated visitors, in which case the user reference is null.
func (s *Service) handleCreateDonation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	causeID := r.PathValue("id")

	var payload createDonationPayload
	if err := s.decodeJSON(r, &payload); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if payload.AmountCents <= 0 {
		s.respondError(w, http.StatusBadRequest, "amount_cents must be positive", nil)
		return
	}

	if _, err := s.causesRepo.Cause(ctx, causeID); err != nil {
		if errors.Is(err, types.ErrCauseNotFound) {
			s.respondError(w, http.StatusNotFound, "cause not found", err)
			return
		}
		s.logger.WithError(err).Error("failed to fetch cause")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch cause", err)
		return
	}

	donation := &types.CauseDonation{
		CauseID:       causeID,
		AmountCents:   payload.AmountCents,
		DonorName:     payload.DonorName,
		IsAnonymous:   payload.IsAnonymous,
		PaymentMethod: payload.PaymentMethod,
		TransactionID: payload.TransactionID,
		Status:        types.DonationStatusPending,
	}

	// Attach the donor when the caller happens to be signed in.
	if sess, err := s.sessionFromRequest(r); err == nil {
		donation.UserID = &sess.UserID
	}

	if err := s.donationsRepo.Create(ctx, donation); err != nil {
		s.logger.WithError(err).Error("failed to create donation")
		s.respondError(w, http.StatusInternalServerError, "failed to create donation", err)
		return
	}

	s.respondJSON(w, http.StatusCreated, donation)
}

func (s *Service) handleListDonations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	causeID := r.PathValue("id")

	donations, err := s.donationsRepo.CompletedByCause(ctx, causeID)
	if err != nil {
		s.logger.WithError(err).Error("failed to list donations")
		s.respondError(w, http.StatusInternalServerError, "failed to list donations", err)
		return
	}

	// Anonymous donations never expose who gave.
	for _, donation := range donations {
		if donation.IsAnonymous {
			donation.UserID = nil
			donation.DonorName = nil
		}
	}

	s.respondJSON(w, http.StatusOK, donations)
}

type updateDonationPayload struct {
	Status types.DonationStatus `json:"status"`
}

func (s *Service) handleUpdateDonation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	donationID := r.PathValue("id")

	var payload updateDonationPayload
	if err := s.decodeJSON(r, &payload); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if !payload.Status.Valid() {
		s.respondError(w, http.StatusBadRequest, "status must be pending, completed, refunded or failed", nil)
		return
	}

	donation, err := s.donationsRepo.UpdateStatus(ctx, donationID, payload.Status)
	if err != nil {
		if errors.Is(err, types.ErrDonationNotFound) {
			s.respondError(w, http.StatusNotFound, "donation not found", err)
			return
		}
		s.logger.WithError(err).Error("failed to update donation")
		s.respondError(w, http.StatusInternalServerError, "failed to update donation", err)
		return
	}

	s.respondJSON(w, http.StatusOK, donation)
}
