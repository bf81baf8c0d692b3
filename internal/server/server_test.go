package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/IdleRealm_Go/internal/catalog"
	"github.com/osse101/IdleRealm_Go/internal/domain"
	"github.com/osse101/IdleRealm_Go/internal/game"
)

// stubGame answers the calls the routing tests make; anything else panics
type stubGame struct {
	game.Service
	payments int
}

func (s *stubGame) Status(_ context.Context, owner string) (domain.StatusSnapshot, error) {
	if owner == "ghost" {
		return domain.StatusSnapshot{}, domain.ErrCharacterNotFound
	}
	return domain.StatusSnapshot{OwnerID: owner, Name: "Hero"}, nil
}

func (s *stubGame) ApplyPayment(_ context.Context, _ string, amount int64, _ string) (game.PaymentResult, error) {
	s.payments++
	return game.PaymentResult{Credited: amount}, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func newTestRouter(t *testing.T, apiKey string, svc *stubGame, storeErr error) http.Handler {
	t.Helper()
	cat, err := catalog.LoadDefault()
	require.NoError(t, err)
	return NewRouter(Deps{
		APIKey:  apiKey,
		Version: "test",
		Store:   stubPinger{err: storeErr},
		Game:    svc,
		Catalog: cat,
	})
}

func serve(h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PublicEndpoints(t *testing.T) {
	router := newTestRouter(t, "secret", &stubGame{}, nil)

	tests := []struct {
		path string
		want int
	}{
		{"/healthz", http.StatusOK},
		{"/readyz", http.StatusOK},
		{"/version", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/api/v1/catalog/items", http.StatusOK},
		{"/api/v1/catalog/monsters", http.StatusOK},
		{"/api/v1/catalog/dungeons", http.StatusOK},
		{"/api/v1/characters/alice", http.StatusOK},
		{"/api/v1/characters/ghost", http.StatusNotFound},
		{"/api/v1/nope", http.StatusNotFound},
		{"/events", http.StatusBadRequest},
		{"/ws", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(router, http.MethodGet, tt.path, "", nil)
			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, HeaderValueNoSniff, rec.Header().Get(HeaderContentType))
		})
	}
}

func TestRouter_ReadyzReportsStoreFailure(t *testing.T) {
	router := newTestRouter(t, "", &stubGame{}, errors.New("connection refused"))
	rec := serve(router, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_PaymentWebhookRequiresKey(t *testing.T) {
	svc := &stubGame{}
	router := newTestRouter(t, "secret", svc, nil)
	body := `{"owner_id":"alice","amount":100,"reference":"ref-1"}`

	rec := serve(router, http.MethodPost, "/api/v1/payments/confirm", body, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, svc.payments)

	rec = serve(router, http.MethodPost, "/api/v1/payments/confirm", body, map[string]string{HeaderAPIKey: "secret"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"credited":100`)
	assert.Equal(t, 1, svc.payments)
}

func TestRouter_OtherRoutesIgnoreKey(t *testing.T) {
	router := newTestRouter(t, "secret", &stubGame{}, nil)
	rec := serve(router, http.MethodGet, "/api/v1/characters/alice", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_StartStop(t *testing.T) {
	srv := NewServer(Deps{Port: 0, Store: stubPinger{}, Game: &stubGame{}})

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	require.NoError(t, srv.Stop(context.Background()))
	assert.ErrorIs(t, <-done, http.ErrServerClosed)
}
