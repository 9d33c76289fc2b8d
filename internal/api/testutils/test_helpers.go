package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/rongwang/finance-tracker-server/internal/api"
	"github.com/rongwang/finance-tracker-server/internal/config"
	"github.com/rongwang/finance-tracker-server/internal/models"
	"github.com/rongwang/finance-tracker-server/internal/repository"
	"github.com/rongwang/finance-tracker-server/internal/service"
	"github.com/rongwang/finance-tracker-server/internal/storage"
)

const (
	TestUsername = "testuser"
	TestPassword = "testpassword"
	JWTSecret    = "test-secret-key"

	// MaxUploadBytes is the upload limit of the test router
	MaxUploadBytes = 1 << 10
)

// TestContext holds all dependencies for tests
type TestContext struct {
	Router      *gin.Engine
	Repository  repository.Repository
	Services    api.Services
	UploadDir   string
	TestUserID  int64
	TestUserJWT string
}

// SetupTestContext creates a router over a fresh in-memory repository with
// one registered and logged-in user. Set TEST_WITH_POSTGRES=1 to run against
// the configured test database instead.
func SetupTestContext(t *testing.T) *TestContext {
	t.Helper()

	repo := setupRepository(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := api.Services{
		Auth:         service.NewAuthService(repo, JWTSecret, time.Hour, logger),
		Ledgers:      service.NewLedgerService(repo, logger),
		Transactions: service.NewTransactionService(repo, nil, logger),
		Budgets:      service.NewBudgetService(repo, logger),
	}

	uploadDir := t.TempDir()
	images, err := storage.NewDiskImageStore(uploadDir)
	require.NoError(t, err, "Failed to create image store")

	handler := api.NewHandler(svc, images, MaxUploadBytes, logger)

	// Set up Gin router
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(logger))
	handler.SetupRoutes(router)

	testCtx := &TestContext{
		Router:     router,
		Repository: repo,
		Services:   svc,
		UploadDir:  uploadDir,
	}
	testCtx.TestUserID, testCtx.TestUserJWT = testCtx.CreateUser(t, TestUsername, TestPassword)
	return testCtx
}

func setupRepository(t *testing.T) repository.Repository {
	if os.Getenv("TEST_WITH_POSTGRES") == "" {
		return repository.NewMemoryRepository()
	}

	cfg := config.LoadConfig()
	cfg.Database.DBName = cfg.Database.TestDBName

	db, err := config.SetupDatabase(cfg)
	require.NoError(t, err, "Failed to set up test database")

	repo := repository.NewPostgresRepository(db)
	cleanupTestDatabase(t, repo)
	t.Cleanup(func() {
		cleanupTestDatabase(t, repo)
		db.Close()
	})
	return repo
}

// cleanupTestDatabase removes all rows left by earlier tests
func cleanupTestDatabase(t *testing.T, repo *repository.PostgresRepository) {
	for _, table := range []string{"budgets", "transactions", "ledgers", "users"} {
		if _, err := repo.GetDB().Exec("DELETE FROM " + table); err != nil {
			t.Logf("Warning: Failed to clean %s: %v", table, err)
		}
	}
}

// CreateUser registers a user through the service and returns its id and a bearer token
func (tc *TestContext) CreateUser(t *testing.T, username, password string) (int64, string) {
	t.Helper()
	ctx := context.Background()

	user, err := tc.Services.Auth.Register(ctx, models.RegisterRequest{Username: username, Password: password})
	require.NoError(t, err, "Failed to create test user")

	token, err := tc.Services.Auth.Login(ctx, models.LoginRequest{Username: username, Password: password})
	require.NoError(t, err, "Failed to log in test user")

	return user.ID, token.AccessToken
}

// SignToken issues a token for any subject with the test secret
func SignToken(t *testing.T, subject string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
		"iat": time.Now().Unix(),
	})
	signed, err := token.SignedString([]byte(JWTSecret))
	require.NoError(t, err, "Failed to generate JWT token")
	return signed
}

// PerformRequest executes an HTTP request against the router
func PerformRequest(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer

	switch b := body.(type) {
	case nil:
		reqBody = bytes.NewBuffer(nil)
	case string:
		reqBody = bytes.NewBufferString(b)
	default:
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// PerformUpload posts data as the multipart "file" field
func PerformUpload(r http.Handler, path, filename, contentType string, data []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, _ := mw.CreatePart(header)
	_, _ = part.Write(data)
	_ = mw.Close()

	req, _ := http.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// AuthHeaders returns headers with Authorization token
func AuthHeaders(token string) map[string]string {
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", token),
	}
}

// DecodeJSON unmarshals a response body into v
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), "body: %s", w.Body.String())
}
