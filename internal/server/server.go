// Package server exposes the badge detail route over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/badgeworks/issuebadge/internal/badge"
	githubclient "github.com/badgeworks/issuebadge/internal/github"
	"github.com/badgeworks/issuebadge/internal/logging"
	"github.com/badgeworks/issuebadge/pkg/models"
)

// IssueFetcher retrieves one issue or pull request, validated for the
// property that will be rendered.
type IssueFetcher interface {
	IssueDetails(ctx context.Context, kind models.IssueKind, owner, repo string, number int, property models.Property) (*models.IssueDetails, error)
}

// Server handles badge requests. It is stateless: every request triggers
// one upstream fetch and one transform/render pass.
type Server struct {
	fetcher IssueFetcher
}

func New(fetcher IssueFetcher) *Server {
	return &Server{fetcher: fetcher}
}

// Routes returns a chi.Router with the badge detail route mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{issueKind}/detail/{property}/{user}/{repo}/{number}", s.handleDetail)
	return r
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	kind, err := models.ParseIssueKind(chi.URLParam(r, "issueKind"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	property, err := models.ParseProperty(chi.URLParam(r, "property"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || number <= 0 {
		http.NotFound(w, r)
		return
	}
	owner := chi.URLParam(r, "user")
	repo := chi.URLParam(r, "repo")

	details, err := s.fetcher.IssueDetails(r.Context(), kind, owner, repo, number, property)
	if err != nil {
		if errors.Is(err, githubclient.ErrNotFound) {
			writeError(w, http.StatusNotFound, "issue not found")
			return
		}
		logging.Error("badge fetch failed",
			"kind", kind, "property", property,
			"owner", owner, "repo", repo, "number", number,
			"error", err)
		writeError(w, http.StatusBadGateway, "upstream fetch failed")
		return
	}

	value, err := badge.Transform(details, property)
	if err != nil {
		if errors.Is(err, badge.ErrNoLabels) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	record, err := badge.Render(value, property, details.IsPullRequest(kind), number, owner, repo)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, record)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
