package server

import (
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"aidbridge/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

//go:embed templates static
var uiFS embed.FS
var decoder = form.NewDecoder()

// UserStore and friends are the narrow views of internal/store the
// handlers need; *store.XRepository satisfies each.
type UserStore interface {
	User(ctx context.Context, userID string) (*types.User, error)
	UserByEmail(ctx context.Context, email string) (*types.User, error)
	Create(ctx context.Context, user *types.User) error
	UpdateFields(ctx context.Context, userID string, fields map[string]any) error
	SetVerified(ctx context.Context, userID string, verified bool) error
}

type RequestStore interface {
	Request(ctx context.Context, requestID string) (*types.Request, error)
	ListApproved(ctx context.Context, filter types.RequestFilter) ([]*types.Request, error)
	ListByUser(ctx context.Context, userID string) ([]*types.Request, error)
	ListByStatus(ctx context.Context, status types.RequestStatus) ([]*types.Request, error)
	Create(ctx context.Context, request *types.Request) error
	UpdateFields(ctx context.Context, requestID string, fields map[string]any) error
}

type DocumentStore interface {
	Document(ctx context.Context, documentID string) (*types.RequestDocument, error)
	DocumentsByRequestID(ctx context.Context, requestID string) ([]*types.RequestDocument, error)
	Create(ctx context.Context, doc *types.RequestDocument) error
	SetVerified(ctx context.Context, documentID, verifiedBy string) error
}

type CauseStore interface {
	Cause(ctx context.Context, causeID string) (*types.Cause, error)
	ListByStatus(ctx context.Context, status types.CauseStatus) ([]*types.Cause, error)
	Create(ctx context.Context, cause *types.Cause) error
	UpdateFields(ctx context.Context, causeID string, fields map[string]any) error
}

type DonationStore interface {
	CompletedByCause(ctx context.Context, causeID string) ([]*types.CauseDonation, error)
	Create(ctx context.Context, donation *types.CauseDonation) error
	UpdateStatus(ctx context.Context, donationID string, status types.DonationStatus) (*types.CauseDonation, error)
}

type ConnectionStore interface {
	Connection(ctx context.Context, connectionID string) (*types.Connection, error)
	ConnectionsByUser(ctx context.Context, userID string) ([]*types.Connection, error)
	Create(ctx context.Context, conn *types.Connection) error
	UpdateFields(ctx context.Context, connectionID string, fields map[string]any) error
}

type MessageStore interface {
	MessagesByConnection(ctx context.Context, connectionID string) ([]*types.Message, error)
	Create(ctx context.Context, message *types.Message) error
	MarkRead(ctx context.Context, connectionID, readerID string) error
}

type TransactionStore interface {
	TransactionsByConnection(ctx context.Context, connectionID string) ([]*types.AidTransaction, error)
	Create(ctx context.Context, transaction *types.AidTransaction) error
}

type StoryStore interface {
	Story(ctx context.Context, storyID string) (*types.SuccessStory, error)
	ListPublished(ctx context.Context, featured *bool) ([]*types.SuccessStory, error)
	Create(ctx context.Context, story *types.SuccessStory) error
	UpdateFields(ctx context.Context, storyID string, fields map[string]any) error
}

type StatsStore interface {
	Statistics(ctx context.Context) (*types.Statistics, error)
	Refresh(ctx context.Context) (*types.Statistics, error)
}

type ObjectStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

type Service struct {
	logger *logrus.Logger
	config *types.Config

	usersRepo        UserStore
	requestsRepo     RequestStore
	documentsRepo    DocumentStore
	causesRepo       CauseStore
	donationsRepo    DonationStore
	connectionsRepo  ConnectionStore
	messagesRepo     MessageStore
	transactionsRepo TransactionStore
	storiesRepo      StoryStore
	statsRepo        StatsStore

	documents ObjectStorage

	cookie     *securecookie.SecureCookie
	signingKey []byte
	tokenTTL   time.Duration

	templates *template.Template

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	usersRepo UserStore,
	requestsRepo RequestStore,
	documentsRepo DocumentStore,
	causesRepo CauseStore,
	donationsRepo DonationStore,
	connectionsRepo ConnectionStore,
	messagesRepo MessageStore,
	transactionsRepo TransactionStore,
	storiesRepo StoryStore,
	statsRepo StatsStore,
	documents ObjectStorage,
) (*Service, error) {
	mux := flow.New()

	hashKey, _ := base64.StdEncoding.DecodeString(config.CookieHashKey)
	blockKey, _ := base64.StdEncoding.DecodeString(config.CookieBlockKey)

	s := &Service{
		logger: logger,
		config: config,
		cookie: securecookie.New(hashKey, blockKey),

		usersRepo:        usersRepo,
		requestsRepo:     requestsRepo,
		documentsRepo:    documentsRepo,
		causesRepo:       causesRepo,
		donationsRepo:    donationsRepo,
		connectionsRepo:  connectionsRepo,
		messagesRepo:     messagesRepo,
		transactionsRepo: transactionsRepo,
		storiesRepo:      storiesRepo,
		statsRepo:        statsRepo,

		documents: documents,

		signingKey: []byte(config.TokenSigningKey),
		tokenTTL:   time.Duration(config.TokenTTLSec) * time.Second,

		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	s.templates = templates

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	r.HandleFunc("/api/auth/register", s.handleRegister, http.MethodPost)
	r.HandleFunc("/api/auth/login", s.handleLogin, http.MethodPost)
	r.HandleFunc("/api/auth/logout", s.handleLogout, http.MethodPost)

	r.HandleFunc("/api/requests", s.handleListRequests, http.MethodGet)

	// Routes match in registration order, so the literal "mine" path has
	// to land before the :id wildcard below.
	r.Handle("/api/requests/mine", s.RequireAuth(http.HandlerFunc(s.handleMyRequests)), http.MethodGet)

	r.HandleFunc("/api/requests/:id", s.handleGetRequest, http.MethodGet)
	r.HandleFunc("/api/causes", s.handleListCauses, http.MethodGet)
	r.HandleFunc("/api/causes/:id", s.handleGetCause, http.MethodGet)
	r.HandleFunc("/api/causes/:id/donations", s.handleListDonations, http.MethodGet)
	r.HandleFunc("/api/causes/:id/donations", s.handleCreateDonation, http.MethodPost)
	r.HandleFunc("/api/stories", s.handleListStories, http.MethodGet)
	r.HandleFunc("/api/statistics", s.handleGetStatistics, http.MethodGet)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/api/auth/me", s.handleMe, http.MethodGet)
		r.HandleFunc("/api/auth/me", s.handleUpdateMe, http.MethodPut)

		r.HandleFunc("/api/requests/:id", s.handleUpdateRequest, http.MethodPut)
		r.HandleFunc("/api/requests/:id/documents", s.handleListDocuments, http.MethodGet)
		r.HandleFunc("/api/requests/:id/documents", s.handleUploadDocument, http.MethodPost)

		r.HandleFunc("/api/connections", s.handleListConnections, http.MethodGet)
		r.HandleFunc("/api/connections/:id", s.handleUpdateConnection, http.MethodPut)
		r.HandleFunc("/api/connections/:id/messages", s.handleListMessages, http.MethodGet)
		r.HandleFunc("/api/connections/:id/messages", s.handleCreateMessage, http.MethodPost)
		r.HandleFunc("/api/connections/:id/transactions", s.handleListTransactions, http.MethodGet)
		r.HandleFunc("/api/connections/:id/transactions", s.handleCreateTransaction, http.MethodPost)

		r.Group(func(r *flow.Mux) {
			r.Use(s.RequireRole(types.RoleReceiver))

			r.HandleFunc("/api/requests", s.handleCreateRequest, http.MethodPost)
		})

		r.Group(func(r *flow.Mux) {
			r.Use(s.RequireRole(types.RoleDonor))

			r.HandleFunc("/api/requests/:id/connections", s.handleCreateConnection, http.MethodPost)
		})

		r.Group(func(r *flow.Mux) {
			r.Use(s.RequireRole(types.RoleAdmin))

			r.HandleFunc("/api/causes", s.handleCreateCause, http.MethodPost)
			r.HandleFunc("/api/causes/:id", s.handleUpdateCause, http.MethodPut)
			r.HandleFunc("/api/donations/:id", s.handleUpdateDonation, http.MethodPut)
			r.HandleFunc("/api/stories", s.handleCreateStory, http.MethodPost)
			r.HandleFunc("/api/stories/:id", s.handleUpdateStory, http.MethodPut)
			r.HandleFunc("/api/statistics/refresh", s.handleRefreshStatistics, http.MethodPost)

			r.HandleFunc("/api/verification/requests", s.handleVerificationQueue, http.MethodGet)
			r.HandleFunc("/api/verification/requests/:id", s.handleReviewRequest, http.MethodPut)
			r.HandleFunc("/api/verification/documents/:id", s.handleVerifyDocument, http.MethodPut)
			r.HandleFunc("/api/verification/users/:id", s.handleVerifyUser, http.MethodPut)
		})
	})

	r.HandleFunc("/", s.handleHome, http.MethodGet)
	r.HandleFunc("/browse", s.handleBrowse, http.MethodGet)
	r.HandleFunc("/causes", s.handleCausesPage, http.MethodGet)
	r.HandleFunc("/requests/:id", s.handleRequestDetail, http.MethodGet)

	staticRoot, err := fs.Sub(uiFS, "static")
	if err != nil {
		s.logger.WithError(err).Fatal("failed to mount static assets")
	}
	r.Handle("/static/...", http.StripPrefix("/static/", http.FileServer(http.FS(staticRoot))), http.MethodGet)
}

func loadTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"div": func(a, b int64) int64 {
			if b == 0 {
				return 0
			}
			return a / b
		},
		"mul": func(a, b int64) int64 {
			return a * b
		},
		"dollars": func(cents int64) string {
			return fmt.Sprintf("$%.2f", float64(cents)/100)
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}

	t := template.New("").Funcs(funcMap)
	err := fs.WalkDir(uiFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		data, err := fs.ReadFile(uiFS, path)
		if err != nil {
			return fmt.Errorf("read template %s: %w", path, err)
		}

		if _, err := t.Parse(string(data)); err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}
