package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/badgeworks/issuebadge/internal/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.OAuth.ClientID = "abc123"
	cfg.OAuth.ClientSecret = "sekrit"
	cfg.Server.BaseURL = "https://badges.example.com"
	return cfg
}

// exchangeServer is a stand-in token endpoint that counts calls and records
// the authorization code it was handed.
type exchangeServer struct {
	calls    atomic.Int64
	lastCode atomic.Value
	server   *httptest.Server
}

func newExchangeServer(t *testing.T) *exchangeServer {
	t.Helper()
	es := &exchangeServer{}
	es.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		es.calls.Add(1)
		_ = r.ParseForm()
		es.lastCode.Store(r.Form.Get("code"))
		w.Header().Set("Content-Type", "application/x-www-form-urlencoded")
		io.WriteString(w, "access_token=gho_testtoken&scope=&token_type=bearer")
	}))
	t.Cleanup(es.server.Close)
	return es
}

func (es *exchangeServer) endpoint() oauth2.Endpoint {
	return oauth2.Endpoint{
		AuthURL:   es.server.URL + "/authorize",
		TokenURL:  es.server.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
}

func newTestRouter(a *Acceptor) chi.Router {
	r := chi.NewRouter()
	a.Mount(r)
	return r
}

func TestStartRedirectsToAuthorize(t *testing.T) {
	var accepted []string
	a := New(testConfig(), TokenAcceptorFunc(func(token string) {
		accepted = append(accepted, token)
	}))
	r := newTestRouter(a)

	req := httptest.NewRequest(http.MethodGet, StartPath, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	location := rec.Header().Get("Location")
	assert.True(t, strings.HasPrefix(location, "https://github.com/login/oauth/authorize"))
	assert.Contains(t, location, "client_id=abc123")
	assert.Contains(t, location, "redirect_uri="+url.QueryEscape("https://badges.example.com/github-auth/done"))
	assert.Empty(t, accepted)
}

func TestDoneWithoutCode(t *testing.T) {
	es := newExchangeServer(t)
	var accepted []string
	a := New(testConfig(), TokenAcceptorFunc(func(token string) {
		accepted = append(accepted, token)
	}), WithEndpoint(es.endpoint()))
	r := newTestRouter(a)

	req := httptest.NewRequest(http.MethodGet, DonePath, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, FailureMessage, rec.Body.String())

	// No exchange is attempted and the callback never fires.
	assert.Equal(t, int64(0), es.calls.Load())
	assert.Empty(t, accepted)
}

func TestDoneExchangesCode(t *testing.T) {
	es := newExchangeServer(t)
	var accepted []string
	a := New(testConfig(), TokenAcceptorFunc(func(token string) {
		accepted = append(accepted, token)
	}), WithEndpoint(es.endpoint()))
	r := newTestRouter(a)

	req := httptest.NewRequest(http.MethodGet, DonePath+"?code=tempcode", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), AcceptedPrefix))

	// Exactly one outbound exchange carrying the supplied code.
	assert.Equal(t, int64(1), es.calls.Load())
	assert.Equal(t, "tempcode", es.lastCode.Load())

	// The callback receives exactly the extracted access token.
	require.Len(t, accepted, 1)
	assert.Equal(t, "gho_testtoken", accepted[0])
}

func TestDoneAcceptsPostForm(t *testing.T) {
	es := newExchangeServer(t)
	var accepted []string
	a := New(testConfig(), TokenAcceptorFunc(func(token string) {
		accepted = append(accepted, token)
	}), WithEndpoint(es.endpoint()))
	r := newTestRouter(a)

	form := url.Values{"code": {"postcode"}}
	req := httptest.NewRequest(http.MethodPost, DonePath, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "postcode", es.lastCode.Load())
	require.Len(t, accepted, 1)
}

func TestDoneExchangeFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	t.Cleanup(ts.Close)

	var accepted []string
	a := New(testConfig(), TokenAcceptorFunc(func(token string) {
		accepted = append(accepted, token)
	}), WithEndpoint(oauth2.Endpoint{
		AuthURL:   ts.URL + "/authorize",
		TokenURL:  ts.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}))
	r := newTestRouter(a)

	req := httptest.NewRequest(http.MethodGet, DonePath+"?code=tempcode", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Empty(t, accepted)
}
