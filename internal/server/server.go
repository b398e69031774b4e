// Package server exposes the portal backend's interstitial and interaction
// API over HTTP.
package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/citygate/interstitial/internal/comments"
	"github.com/citygate/interstitial/internal/content"
	"github.com/citygate/interstitial/internal/interact"
	"github.com/citygate/interstitial/internal/logging"
	"github.com/citygate/interstitial/internal/store"
)

// Server routes API requests to the store. Write endpoints are
// rate-limited as a group to keep a misbehaving client from hammering the
// counters.
type Server struct {
	store   *store.Store
	limiter *rate.Limiter
}

// New creates a Server over an opened store.
func New(st *store.Store) *Server {
	return &Server{
		store:   st,
		limiter: rate.NewLimiter(rate.Limit(20), 40),
	}
}

// Handler builds the API router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/interstitials", s.listInterstitials)
		r.Post("/interstitials/{id}/view", s.registerView)

		r.Route("/interactions/{kind}/{id}", func(r chi.Router) {
			r.Get("/counters", s.getCounters)
			r.Get("/flags", s.getFlags)
			r.Post("/{type}/toggle", s.toggle)
			r.Get("/comments", s.listComments)
			r.Post("/comments", s.postComment)
		})
	})

	return r
}

// viewerID extracts the bearer token identifying the viewer. Empty means
// unauthenticated.
func viewerID(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

func (s *Server) listInterstitials(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ActiveItems()
	if err != nil {
		logging.Error("list interstitials", "err", err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []content.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) registerView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.RegisterView(id, viewerID(r)); err != nil {
		logging.Error("register view", "content", id, "err", err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getCounters(w http.ResponseWriter, r *http.Request) {
	if !validKind(w, r) {
		return
	}
	counters, err := s.store.Counters(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, counters)
}

func (s *Server) getFlags(w http.ResponseWriter, r *http.Request) {
	if !validKind(w, r) {
		return
	}
	viewer := viewerID(r)
	if viewer == "" {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	flags, err := s.store.Flags(viewer, chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, flags)
}

func (s *Server) toggle(w http.ResponseWriter, r *http.Request) {
	if !validKind(w, r) {
		return
	}
	viewer := viewerID(r)
	if viewer == "" {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	typ := interact.Type(chi.URLParam(r, "type"))
	if !typ.Valid() || typ == interact.TypeComment {
		http.Error(w, "unknown interaction type", http.StatusBadRequest)
		return
	}
	if !s.limiter.Allow() {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
		return
	}

	count, err := s.store.Toggle(viewer, chi.URLParam(r, "id"), typ)
	if err != nil {
		logging.Error("toggle", "type", typ, "err", err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	if !validKind(w, r) {
		return
	}
	list, err := s.store.Comments(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []interact.Comment{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) postComment(w http.ResponseWriter, r *http.Request) {
	if !validKind(w, r) {
		return
	}
	viewer := viewerID(r)
	if viewer == "" {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	if !s.limiter.Allow() {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
		return
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	text, err := comments.Validate(body.Text)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := s.store.AddComment(viewer, chi.URLParam(r, "id"), text)
	if err != nil {
		logging.Error("add comment", "err", err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func validKind(w http.ResponseWriter, r *http.Request) bool {
	if kind := content.Kind(chi.URLParam(r, "kind")); !kind.Valid() {
		http.Error(w, "unknown content kind", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("encode response", "err", err)
	}
}
