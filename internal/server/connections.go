package server

import (
	"errors"
	"net/http"

	"aidbridge/pkg/types"
)

func (s *Service) handleCreateConnection(w http.ResponseWriter, r *http.Request) {
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

	if request.Status != types.RequestStatusApproved {
		s.respondError(w, http.StatusBadRequest, "request is not open for connections", nil)
		return
	}

	conn := &types.Connection{
		RequestID: requestID,
		DonorID:   sess.UserID,
		Status:    types.ConnectionStatusPending,
	}

	if err := s.connectionsRepo.Create(ctx, conn); err != nil {
		s.logger.WithError(err).Error("failed to create connection")
		s.respondError(w, http.StatusInternalServerError, "failed to create connection", err)
		return
	}

	s.respondJSON(w, http.StatusCreated, conn)
}

func (s *Service) handleListConnections(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, err := s.sessionFromContext(ctx)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required", err)
		return
	}

	conns, err := s.connectionsRepo.ConnectionsByUser(ctx, sess.UserID)
	if err != nil {
		s.logger.WithError(err).Error("failed to list connections")
		s.respondError(w, http.StatusInternalServerError, "failed to list connections", err)
		return
	}

	s.respondJSON(w, http.StatusOK, conns)
}

// connectionForParticipant loads a connection and verifies the caller
// is the donor, the request owner, or an admin.
func (s *Service) connectionForParticipant(w http.ResponseWriter, r *http.Request, sess *session) (*types.Connection, *types.Request, bool) {
	ctx := r.Context()
	connectionID := r.PathValue("id")

	conn, err := s.connectionsRepo.Connection(ctx, connectionID)
	if err != nil {
		if errors.Is(err, types.ErrConnectionNotFound) {
			s.respondError(w, http.StatusNotFound, "connection not found", err)
			return nil, nil, false
		}
		s.logger.WithError(err).Error("failed to fetch connection")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch connection", err)
		return nil, nil, false
	}

	request, err := s.requestsRepo.Request(ctx, conn.RequestID)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch connected request")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch connection", err)
		return nil, nil, false
	}

	isParticipant := sess.UserID == conn.DonorID || sess.UserID == request.UserID
	if !isParticipant && sess.Role != types.RoleAdmin {
		s.respondError(w, http.StatusForbidden, "not a participant in this connection", nil)
		return nil, nil, false
	}

	return conn, request, true
}

// allowedTransitions holds the connection lifecycle:
// pending -> active -> completed, with cancellation possible until
// completion.
var allowedTransitions = map[types.ConnectionStatus][]types.ConnectionStatus{
	types.ConnectionStatusPending: {types.ConnectionStatusActive, types.ConnectionStatusCancelled},
	types.ConnectionStatusActive:  {types.ConnectionStatusCompleted, types.ConnectionStatusCancelled},
}

func transitionAllowed(from, to types.ConnectionStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s *Service) handleUpdateConnection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, err := s.sessionFromContext(ctx)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required", err)
		return
	}

	conn, request, ok := s.connectionForParticipant(w, r, sess)
	if !ok {
		return
	}

	var payload types.ConnectionUpdate
	if err := s.decodeJSON(r, &payload); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	fields := map[string]any{}

	status := conn.Status
	if payload.Status != nil {
		if !payload.Status.Valid() {
			s.respondError(w, http.StatusBadRequest, "invalid connection status", nil)
			return
		}
		if !transitionAllowed(conn.Status, *payload.Status) {
			s.respondError(w, http.StatusBadRequest, "invalid status transition", nil)
			return
		}
		status = *payload.Status
		fields["status"] = status
	}

	// Ratings and feedback only make sense once the connection is
	// complete. Each participant writes their own side; fields for the
	// other side are ignored. Admins may write either.
	isDonor := sess.UserID == conn.DonorID || sess.Role == types.RoleAdmin
	isReceiver := sess.UserID == request.UserID || sess.Role == types.RoleAdmin

	hasRating := payload.DonorRating != nil || payload.ReceiverRating != nil ||
		payload.DonorFeedback != nil || payload.ReceiverFeedback != nil

	if hasRating && status != types.ConnectionStatusCompleted {
		s.respondError(w, http.StatusBadRequest, "ratings require a completed connection", nil)
		return
	}

	if isDonor {
		if payload.DonorRating != nil {
			if *payload.DonorRating < 1 || *payload.DonorRating > 5 {
				s.respondError(w, http.StatusBadRequest, "ratings must be between 1 and 5", nil)
				return
			}
			fields["donor_rating"] = *payload.DonorRating
		}
		setIfNotEmpty(fields, "donor_feedback", payload.DonorFeedback)
	}

	if isReceiver {
		if payload.ReceiverRating != nil {
			if *payload.ReceiverRating < 1 || *payload.ReceiverRating > 5 {
				s.respondError(w, http.StatusBadRequest, "ratings must be between 1 and 5", nil)
				return
			}
			fields["receiver_rating"] = *payload.ReceiverRating
		}
		setIfNotEmpty(fields, "receiver_feedback", payload.ReceiverFeedback)
	}

	if err := s.connectionsRepo.UpdateFields(ctx, conn.ID, fields); err != nil {
		if errors.Is(err, types.ErrNoFieldsToUpdate) {
			s.respondError(w, http.StatusBadRequest, "no fields to update", err)
			return
		}
		s.logger.WithError(err).Error("failed to update connection")
		s.respondError(w, http.StatusInternalServerError, "failed to update connection", err)
		return
	}

	updated, err := s.connectionsRepo.Connection(ctx, conn.ID)
	if err != nil {
		s.logger.WithError(err).Error("failed to re-fetch connection")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch connection", err)
		return
	}

	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Service) handleListMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, err := s.sessionFromContext(ctx)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required", err)
		return
	}

	conn, _, ok := s.connectionForParticipant(w, r, sess)
	if !ok {
		return
	}

	messages, err := s.messagesRepo.MessagesByConnection(ctx, conn.ID)
	if err != nil {
		s.logger.WithError(err).Error("failed to list messages")
		s.respondError(w, http.StatusInternalServerError, "failed to list messages", err)
		return
	}

	// Reading the thread marks the other party's messages read.
	if err := s.messagesRepo.MarkRead(ctx, conn.ID, sess.UserID); err != nil {
		s.logger.WithError(err).Warn("failed to mark messages read")
	}

	s.respondJSON(w, http.StatusOK, messages)
}

type createMessagePayload struct {
	Content string `json:"content"`
}

func (s *Service) handleCreateMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, err := s.sessionFromContext(ctx)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required", err)
		return
	}

	conn, _, ok := s.connectionForParticipant(w, r, sess)
	if !ok {
		return
	}

	var payload createMessagePayload
	if err := s.decodeJSON(r, &payload); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if payload.Content == "" {
		s.respondError(w, http.StatusBadRequest, "content is required", nil)
		return
	}

	message := &types.Message{
		ConnectionID: conn.ID,
		SenderID:     sess.UserID,
		Content:      payload.Content,
	}

	if err := s.messagesRepo.Create(ctx, message); err != nil {
		s.logger.WithError(err).Error("failed to create message")
		s.respondError(w, http.StatusInternalServerError, "failed to create message", err)
		return
	}

	s.respondJSON(w, http.StatusCreated, message)
}

func (s *Service) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, err := s.sessionFromContext(ctx)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required", err)
		return
	}

	conn, _, ok := s.connectionForParticipant(w, r, sess)
	if !ok {
		return
	}

	transactions, err := s.transactionsRepo.TransactionsByConnection(ctx, conn.ID)
	if err != nil {
		s.logger.WithError(err).Error("failed to list transactions")
		s.respondError(w, http.StatusInternalServerError, "failed to list transactions", err)
		return
	}

	s.respondJSON(w, http.StatusOK, transactions)
}

type createTransactionPayload struct {
	AmountCents *int64                `json:"amount_cents"`
	Kind        types.TransactionKind `json:"kind"`
	Description string                `json:"description"`
}

func (s *Service) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, err := s.sessionFromContext(ctx)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required", err)
		return
	}

	conn, _, ok := s.connectionForParticipant(w, r, sess)
	if !ok {
		return
	}

	var payload createTransactionPayload
	if err := s.decodeJSON(r, &payload); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if !payload.Kind.Valid() {
		s.respondError(w, http.StatusBadRequest, "kind must be monetary, goods or services", nil)
		return
	}

	if payload.Kind == types.TransactionKindMonetary && (payload.AmountCents == nil || *payload.AmountCents <= 0) {
		s.respondError(w, http.StatusBadRequest, "monetary transactions require a positive amount", nil)
		return
	}

	if payload.Description == "" {
		s.respondError(w, http.StatusBadRequest, "description is required", nil)
		return
	}

	transaction := &types.AidTransaction{
		ConnectionID: conn.ID,
		Kind:         payload.Kind,
		Description:  payload.Description,
	}
	if payload.Kind == types.TransactionKindMonetary {
		transaction.AmountCents = payload.AmountCents
	}

	if err := s.transactionsRepo.Create(ctx, transaction); err != nil {
		s.logger.WithError(err).Error("failed to create transaction")
		s.respondError(w, http.StatusInternalServerError, "failed to create transaction", err)
		return
	}

	s.respondJSON(w, http.StatusCreated, transaction)
}
