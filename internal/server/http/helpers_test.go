package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testSecret = "http-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router  *gin.Engine
	service *services.UserService
	tokens  *auth.TokenManager
	store   *repomanager.MemoryRepositoryManager
	metrics *Metrics
}

func newTestEnv(t *testing.T, env string) *testEnv {
	t.Helper()

	store := repomanager.NewMemoryRepositoryManager()
	tokens := auth.NewTokenManager(testSecret, time.Hour)
	svc := services.NewUserService(store, auth.NewHasher(4, 2), tokens)
	metrics := NewMetrics()

	r := NewRouter(RouterConfig{Env: env}, Deps{
		Users:   svc,
		Tokens:  tokens,
		Store:   store,
		Metrics: metrics,
	})

	return &testEnv{router: r, service: svc, tokens: tokens, store: store, metrics: metrics}
}

type envelopeResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []FieldError    `json:"errors"`
	Error   string          `json:"error"`
}

type authData struct {
	User  map[string]any `json:"user"`
	Token string         `json:"token"`
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelopeResponse {
	t.Helper()
	var env envelopeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func decodeAuthData(t *testing.T, env envelopeResponse) authData {
	t.Helper()
	var d authData
	require.NoError(t, json.Unmarshal(env.Data, &d))
	return d
}

func bearer(token string) http.Header {
	return http.Header{common.AuthorizationHeaderName: []string{"Bearer " + token}}
}

func (e *testEnv) register(t *testing.T, email, password, name string) authData {
	t.Helper()
	rec := doRequest(t, e.router, http.MethodPost, "/auth/register",
		map[string]string{"email": email, "password": password, "name": name}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeAuthData(t, decodeEnvelope(t, rec))
}

// stubUsers lets a test force service results.
type stubUsers struct {
	register func(ctx context.Context, email, password, name string) (*services.AuthResult, error)
	login    func(ctx context.Context, email, password string) (*services.AuthResult, error)
	getByID  func(ctx context.Context, id string) (*models.PublicUser, error)
}

func (s *stubUsers) Register(ctx context.Context, email, password, name string) (*services.AuthResult, error) {
	return s.register(ctx, email, password, name)
}

func (s *stubUsers) Login(ctx context.Context, email, password string) (*services.AuthResult, error) {
	return s.login(ctx, email, password)
}

func (s *stubUsers) GetByID(ctx context.Context, id string) (*models.PublicUser, error) {
	return s.getByID(ctx, id)
}

type stubVerifier struct {
	claims *auth.Claims
	err    error
}

func (v stubVerifier) Verify(string) (*auth.Claims, error) {
	return v.claims, v.err
}

func newStubRouter(env string, users UserService, verifier TokenVerifier) *gin.Engine {
	if verifier == nil {
		verifier = auth.NewTokenManager(testSecret, time.Hour)
	}
	return NewRouter(RouterConfig{Env: env}, Deps{
		Users:  users,
		Tokens: verifier,
		Store:  repomanager.NewMemoryRepositoryManager(),
	})
}

func decodeInto(raw json.RawMessage, v any) error {
	return json.Unmarshal(raw, v)
}
