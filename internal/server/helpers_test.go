package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"aidbridge/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	users map[string]*types.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*types.User{}}
}

func (f *fakeUserStore) User(_ context.Context, userID string) (*types.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) UserByEmail(_ context.Context, email string) (*types.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, types.ErrUserNotFound
}

func (f *fakeUserStore) Create(_ context.Context, user *types.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return types.ErrDuplicateUser
		}
	}
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(f.users)+1)
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) UpdateFields(_ context.Context, userID string, fields map[string]any) error {
	if len(fields) == 0 {
		return types.ErrNoFieldsToUpdate
	}
	user, ok := f.users[userID]
	if !ok {
		return types.ErrUserNotFound
	}
	if name, ok := fields["name"].(string); ok {
		user.Name = name
	}
	return nil
}

func (f *fakeUserStore) SetVerified(_ context.Context, userID string, verified bool) error {
	user, ok := f.users[userID]
	if !ok {
		return types.ErrUserNotFound
	}
	user.IsVerified = verified
	return nil
}

type fakeRequestStore struct {
	requests   map[string]*types.Request
	lastFilter types.RequestFilter
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{requests: map[string]*types.Request{}}
}

func (f *fakeRequestStore) Request(_ context.Context, requestID string) (*types.Request, error) {
	request, ok := f.requests[requestID]
	if !ok {
		return nil, types.ErrRequestNotFound
	}
	return request, nil
}

func (f *fakeRequestStore) ListApproved(_ context.Context, filter types.RequestFilter) ([]*types.Request, error) {
	f.lastFilter = filter
	matches := make([]*types.Request, 0)
	for _, request := range f.requests {
		if request.Status != types.RequestStatusApproved {
			continue
		}
		if filter.Category != "" && request.Category != filter.Category {
			continue
		}
		if filter.Location != "" && request.Location != filter.Location {
			continue
		}
		if filter.Urgency != "" && string(request.Urgency) != filter.Urgency {
			continue
		}
		matches = append(matches, request)
	}
	return matches, nil
}

func (f *fakeRequestStore) ListByUser(_ context.Context, userID string) ([]*types.Request, error) {
	matches := make([]*types.Request, 0)
	for _, request := range f.requests {
		if request.UserID == userID {
			matches = append(matches, request)
		}
	}
	return matches, nil
}

func (f *fakeRequestStore) ListByStatus(_ context.Context, status types.RequestStatus) ([]*types.Request, error) {
	matches := make([]*types.Request, 0)
	for _, request := range f.requests {
		if request.Status == status {
			matches = append(matches, request)
		}
	}
	return matches, nil
}

func (f *fakeRequestStore) Create(_ context.Context, request *types.Request) error {
	if request.ID == "" {
		request.ID = fmt.Sprintf("request-%d", len(f.requests)+1)
	}
	f.requests[request.ID] = request
	return nil
}

func (f *fakeRequestStore) UpdateFields(_ context.Context, requestID string, fields map[string]any) error {
	if len(fields) == 0 {
		return types.ErrNoFieldsToUpdate
	}
	request, ok := f.requests[requestID]
	if !ok {
		return types.ErrRequestNotFound
	}
	if title, ok := fields["title"].(string); ok {
		request.Title = title
	}
	if status, ok := fields["status"].(types.RequestStatus); ok {
		request.Status = status
	}
	if note, ok := fields["admin_note"].(string); ok {
		request.AdminNote = &note
	}
	return nil
}

type fakeDocumentStore struct {
	documents map[string]*types.RequestDocument
}

func newFakeDocumentStore() *fakeDocumentStore {
	return &fakeDocumentStore{documents: map[string]*types.RequestDocument{}}
}

func (f *fakeDocumentStore) Document(_ context.Context, documentID string) (*types.RequestDocument, error) {
	doc, ok := f.documents[documentID]
	if !ok {
		return nil, types.ErrDocumentNotFound
	}
	return doc, nil
}

func (f *fakeDocumentStore) DocumentsByRequestID(_ context.Context, requestID string) ([]*types.RequestDocument, error) {
	matches := make([]*types.RequestDocument, 0)
	for _, doc := range f.documents {
		if doc.RequestID == requestID {
			matches = append(matches, doc)
		}
	}
	return matches, nil
}

func (f *fakeDocumentStore) Create(_ context.Context, doc *types.RequestDocument) error {
	if doc.ID == "" {
		doc.ID = fmt.Sprintf("document-%d", len(f.documents)+1)
	}
	f.documents[doc.ID] = doc
	return nil
}

func (f *fakeDocumentStore) SetVerified(_ context.Context, documentID, verifiedBy string) error {
	doc, ok := f.documents[documentID]
	if !ok {
		return types.ErrDocumentNotFound
	}
	doc.IsVerified = true
	doc.VerifiedBy = &verifiedBy
	return nil
}

type fakeCauseStore struct {
	causes map[string]*types.Cause
}

func newFakeCauseStore() *fakeCauseStore {
	return &fakeCauseStore{causes: map[string]*types.Cause{}}
}

func (f *fakeCauseStore) Cause(_ context.Context, causeID string) (*types.Cause, error) {
	cause, ok := f.causes[causeID]
	if !ok {
		return nil, types.ErrCauseNotFound
	}
	return cause, nil
}

func (f *fakeCauseStore) ListByStatus(_ context.Context, status types.CauseStatus) ([]*types.Cause, error) {
	matches := make([]*types.Cause, 0)
	for _, cause := range f.causes {
		if cause.Status == status {
			matches = append(matches, cause)
		}
	}
	return matches, nil
}

func (f *fakeCauseStore) Create(_ context.Context, cause *types.Cause) error {
	if cause.ID == "" {
		cause.ID = fmt.Sprintf("cause-%d", len(f.causes)+1)
	}
	f.causes[cause.ID] = cause
	return nil
}

func (f *fakeCauseStore) UpdateFields(_ context.Context, causeID string, fields map[string]any) error {
	if len(fields) == 0 {
		return types.ErrNoFieldsToUpdate
	}
	cause, ok := f.causes[causeID]
	if !ok {
		return types.ErrCauseNotFound
	}
	if title, ok := fields["title"].(string); ok {
		cause.Title = title
	}
	if status, ok := fields["status"].(types.CauseStatus); ok {
		cause.Status = status
	}
	return nil
}

type fakeDonationStore struct {
	donations map[string]*types.CauseDonation
}

func newFakeDonationStore() *fakeDonationStore {
	return &fakeDonationStore{donations: map[string]*types.CauseDonation{}}
}

func (f *fakeDonationStore) CompletedByCause(_ context.Context, causeID string) ([]*types.CauseDonation, error) {
	matches := make([]*types.CauseDonation, 0)
	for _, donation := range f.donations {
		if donation.CauseID == causeID && donation.Status == types.DonationStatusCompleted {
			matches = append(matches, donation)
		}
	}
	return matches, nil
}

func (f *fakeDonationStore) Create(_ context.Context, donation *types.CauseDonation) error {
	if donation.ID == "" {
		donation.ID = fmt.Sprintf("donation-%d", len(f.donations)+1)
	}
	f.donations[donation.ID] = donation
	return nil
}

func (f *fakeDonationStore) UpdateStatus(_ context.Context, donationID string, status types.DonationStatus) (*types.CauseDonation, error) {
	donation, ok := f.donations[donationID]
	if !ok {
		return nil, types.ErrDonationNotFound
	}
	donation.Status = status
	return donation, nil
}

type fakeConnectionStore struct {
	connections map[string]*types.Connection
}

func newFakeConnectionStore() *fakeConnectionStore {
	return &fakeConnectionStore{connections: map[string]*types.Connection{}}
}

func (f *fakeConnectionStore) Connection(_ context.Context, connectionID string) (*types.Connection, error) {
	conn, ok := f.connections[connectionID]
	if !ok {
		return nil, types.ErrConnectionNotFound
	}
	return conn, nil
}

func (f *fakeConnectionStore) ConnectionsByUser(_ context.Context, userID string) ([]*types.Connection, error) {
	matches := make([]*types.Connection, 0)
	for _, conn := range f.connections {
		if conn.DonorID == userID {
			matches = append(matches, conn)
		}
	}
	return matches, nil
}

func (f *fakeConnectionStore) Create(_ context.Context, conn *types.Connection) error {
	if conn.ID == "" {
		conn.ID = fmt.Sprintf("connection-%d", len(f.connections)+1)
	}
	f.connections[conn.ID] = conn
	return nil
}

func (f *fakeConnectionStore) UpdateFields(_ context.Context, connectionID string, fields map[string]any) error {
	if len(fields) == 0 {
		return types.ErrNoFieldsToUpdate
	}
	conn, ok := f.connections[connectionID]
	if !ok {
		return types.ErrConnectionNotFound
	}
	if status, ok := fields["status"].(types.ConnectionStatus); ok {
		conn.Status = status
	}
	if rating, ok := fields["donor_rating"].(int); ok {
		conn.DonorRating = &rating
	}
	if rating, ok := fields["receiver_rating"].(int); ok {
		conn.ReceiverRating = &rating
	}
	if feedback, ok := fields["donor_feedback"].(string); ok {
		conn.DonorFeedback = &feedback
	}
	if feedback, ok := fields["receiver_feedback"].(string); ok {
		conn.ReceiverFeedback = &feedback
	}
	return nil
}

type fakeMessageStore struct {
	messages []*types.Message
}

func (f *fakeMessageStore) MessagesByConnection(_ context.Context, connectionID string) ([]*types.Message, error) {
	matches := make([]*types.Message, 0)
	for _, message := range f.messages {
		if message.ConnectionID == connectionID {
			matches = append(matches, message)
		}
	}
	return matches, nil
}

func (f *fakeMessageStore) Create(_ context.Context, message *types.Message) error {
	message.ID = fmt.Sprintf("message-%d", len(f.messages)+1)
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeMessageStore) MarkRead(_ context.Context, connectionID, readerID string) error {
	for _, message := range f.messages {
		if message.ConnectionID == connectionID && message.SenderID != readerID {
			message.IsRead = true
		}
	}
	return nil
}

type fakeTransactionStore struct {
	transactions []*types.AidTransaction
}

func (f *fakeTransactionStore) TransactionsByConnection(_ context.Context, connectionID string) ([]*types.AidTransaction, error) {
	matches := make([]*types.AidTransaction, 0)
	for _, transaction := range f.transactions {
		if transaction.ConnectionID == connectionID {
			matches = append(matches, transaction)
		}
	}
	return matches, nil
}

func (f *fakeTransactionStore) Create(_ context.Context, transaction *types.AidTransaction) error {
	transaction.ID = fmt.Sprintf("transaction-%d", len(f.transactions)+1)
	f.transactions = append(f.transactions, transaction)
	return nil
}

type fakeStoryStore struct {
	stories map[string]*types.SuccessStory
}

func newFakeStoryStore() *fakeStoryStore {
	return &fakeStoryStore{stories: map[string]*types.SuccessStory{}}
}

func (f *fakeStoryStore) Story(_ context.Context, storyID string) (*types.SuccessStory, error) {
	story, ok := f.stories[storyID]
	if !ok {
		return nil, types.ErrStoryNotFound
	}
	return story, nil
}

func (f *fakeStoryStore) ListPublished(_ context.Context, featured *bool) ([]*types.SuccessStory, error) {
	matches := make([]*types.SuccessStory, 0)
	for _, story := range f.stories {
		if story.PublishedAt == nil {
			continue
		}
		if featured != nil && story.IsFeatured != *featured {
			continue
		}
		matches = append(matches, story)
	}
	return matches, nil
}

func (f *fakeStoryStore) Create(_ context.Context, story *types.SuccessStory) error {
	if story.ID == "" {
		story.ID = fmt.Sprintf("story-%d", len(f.stories)+1)
	}
	f.stories[story.ID] = story
	return nil
}

func (f *fakeStoryStore) UpdateFields(_ context.Context, storyID string, fields map[string]any) error {
	if len(fields) == 0 {
		return types.ErrNoFieldsToUpdate
	}
	story, ok := f.stories[storyID]
	if !ok {
		return types.ErrStoryNotFound
	}
	if title, ok := fields["title"].(string); ok {
		story.Title = title
	}
	return nil
}

type fakeStatsStore struct {
	stats     types.Statistics
	refreshed int
}

func (f *fakeStatsStore) Statistics(_ context.Context) (*types.Statistics, error) {
	stats := f.stats
	return &stats, nil
}

func (f *fakeStatsStore) Refresh(_ context.Context) (*types.Statistics, error) {
	f.refreshed++
	stats := f.stats
	return &stats, nil
}

type fakeObjectStorage struct {
	uploads map[string][]byte
}

func (f *fakeObjectStorage) Upload(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if f.uploads == nil {
		f.uploads = map[string][]byte{}
	}
	f.uploads[key] = data
	return key, nil
}

type testEnv struct {
	service *Service

	users        *fakeUserStore
	requests     *fakeRequestStore
	documents    *fakeDocumentStore
	causes       *fakeCauseStore
	donations    *fakeDonationStore
	connections  *fakeConnectionStore
	messages     *fakeMessageStore
	transactions *fakeTransactionStore
	stories      *fakeStoryStore
	stats        *fakeStatsStore
	storage      *fakeObjectStorage
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	config := &types.Config{
		ServerPort:      0,
		TokenSigningKey: "test-signing-key-for-unit-tests",
		TokenTTLSec:     3600,
		CookieHashKey:   base64.StdEncoding.EncodeToString(bytes.Repeat([]byte("h"), 32)),
		CookieBlockKey:  base64.StdEncoding.EncodeToString(bytes.Repeat([]byte("b"), 32)),
	}

	env := &testEnv{
		users:        newFakeUserStore(),
		requests:     newFakeRequestStore(),
		documents:    newFakeDocumentStore(),
		causes:       newFakeCauseStore(),
		donations:    newFakeDonationStore(),
		connections:  newFakeConnectionStore(),
		messages:     &fakeMessageStore{},
		transactions: &fakeTransactionStore{},
		stories:      newFakeStoryStore(),
		stats:        &fakeStatsStore{},
		storage:      &fakeObjectStorage{},
	}

	service, err := New(
		config,
		logger,
		env.users,
		env.requests,
		env.documents,
		env.causes,
		env.donations,
		env.connections,
		env.messages,
		env.transactions,
		env.stories,
		env.stats,
		env.storage,
	)
	require.NoError(t, err)

	env.service = service
	return env
}

func (e *testEnv) addUser(t *testing.T, role types.Role) *types.User {
	t.Helper()

	user := &types.User{
		Name:  fmt.Sprintf("%s user %d", role, len(e.users.users)+1),
		Email: fmt.Sprintf("%s%d@example.com", role, len(e.users.users)+1),
		Role:  role,
	}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func (e *testEnv) tokenFor(t *testing.T, user *types.User) string {
	t.Helper()

	token, err := e.service.issueToken(user)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.service.server.Handler.ServeHTTP(w, req)
	return w
}
