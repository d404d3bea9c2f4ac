// Package auth implements the OAuth acceptor: the route pair that sends a
// user through GitHub's authorization flow and hands the resulting access
// token to a caller-supplied callback. The flow is stateless; the only
// thing carried between the two requests is the authorization code in the
// callback's query parameters.
package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/oauth2"
	oauthgithub "golang.org/x/oauth2/github"

	"github.com/badgeworks/issuebadge/internal/config"
	"github.com/badgeworks/issuebadge/internal/logging"
)

const (
	// StartPath redirects the browser to GitHub's authorize endpoint.
	StartPath = "/github-auth"

	// DonePath is the registered OAuth callback.
	DonePath = "/github-auth/done"

	// FailureMessage is the fixed plain-text body returned when the
	// callback arrives without an authorization code.
	FailureMessage = "GitHub OAuth authentication failed to receive a temporary code."

	// AcceptedPrefix starts the HTML confirmation body after a successful
	// exchange.
	AcceptedPrefix = "<p>Your GitHub token has been accepted."
)

// TokenAcceptor receives the access token after a successful exchange.
// Ownership of the token transfers to the acceptor; this package does not
// keep it.
type TokenAcceptor interface {
	AcceptToken(token string)
}

// TokenAcceptorFunc adapts a plain function to the TokenAcceptor interface.
type TokenAcceptorFunc func(token string)

func (f TokenAcceptorFunc) AcceptToken(token string) { f(token) }

// Acceptor completes the GitHub authorization-code exchange.
type Acceptor struct {
	oauth    *oauth2.Config
	acceptor TokenAcceptor
}

// Option adjusts an Acceptor at construction time.
type Option func(*Acceptor)

// WithEndpoint overrides the authorize/token endpoints, letting tests point
// the exchange at a local server.
func WithEndpoint(endpoint oauth2.Endpoint) Option {
	return func(a *Acceptor) {
		a.oauth.Endpoint = endpoint
	}
}

// New builds an acceptor from the configured OAuth app credentials. The
// redirect URI is derived from the service's public base URL.
func New(cfg *config.Config, acceptor TokenAcceptor, opts ...Option) *Acceptor {
	a := &Acceptor{
		oauth: &oauth2.Config{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			Endpoint:     oauthgithub.Endpoint,
			RedirectURL:  strings.TrimSuffix(cfg.Server.BaseURL, "/") + DonePath,
		},
		acceptor: acceptor,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Mount registers the start and done routes on the router.
func (a *Acceptor) Mount(r chi.Router) {
	r.Get(StartPath, a.handleStart)
	r.Get(DonePath, a.handleDone)
	r.Post(DonePath, a.handleDone)
}

func (a *Acceptor) handleStart(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, a.oauth.AuthCodeURL(""), http.StatusFound)
}

func (a *Acceptor) handleDone(w http.ResponseWriter, r *http.Request) {
	code := r.FormValue("code")
	if code == "" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, FailureMessage)
		return
	}

	token, err := a.oauth.Exchange(r.Context(), code)
	if err != nil {
		logging.Error("token exchange failed", "error", err)
		http.Error(w, "token exchange failed", http.StatusBadGateway)
		return
	}

	a.acceptor.AcceptToken(token.AccessToken)
	logging.Info("github token accepted", "token", logging.MaskSensitive(token.AccessToken))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "%s You can close this window.</p>", AcceptedPrefix)
}
