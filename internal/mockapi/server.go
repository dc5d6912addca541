// Package mockapi is the development stand-in for the marketplace backend.
// It serves the full HTTP contract the client core speaks, backed by sample
// data, so the storefront runs end to end without any real services.
package mockapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"bookmarket/internal/util"
	"bookmarket/pkg/auth"
	"bookmarket/pkg/catalog"
	"bookmarket/pkg/domain"
)

// Config wires optional server behavior.
type Config struct {
	// AIEnabled controls whether the AI endpoints return results. When
	// false they report success=false so clients exercise their fallback
	// chains the same way they would against a degraded real backend.
	AIEnabled bool
}

// Server exposes the mock HTTP endpoints.
type Server struct {
	store     *Store
	mux       *http.ServeMux
	aiEnabled bool
}

// New constructs the server with routes configured.
func New(cfg Config) *Server {
	s := &Server{
		store:     NewStore(),
		mux:       http.NewServeMux(),
		aiEnabled: cfg.AIEnabled,
	}
	s.routes()
	return s
}

// Store exposes the user store, for seeding demo accounts.
func (s *Server) Store() *Store {
	return s.store
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	handler := util.WithRequestLog("mockapi", s.mux)
	handler = util.WithRequestID(handler)
	return util.WithSecurityHeaders(util.WithCORS(handler))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	s.mux.HandleFunc("/auth/login", s.handleLogin)
	s.mux.HandleFunc("/auth/register", s.handleRegister)

	s.mux.Handle("/users/deactivate", s.authenticated(s.handleDeactivate))
	s.mux.Handle("/users/activate", s.authenticated(s.handleActivate))
	s.mux.Handle("/users/account", s.authenticated(s.handleDeleteAccount))

	s.mux.HandleFunc("/books", s.handleBooks)
	s.mux.HandleFunc("/books/sample", s.handleSampleBooks)
	s.mux.HandleFunc("/ai/recommendations", s.handleRecommendations)
	s.mux.HandleFunc("/ai/search/autocomplete", s.handleAutocomplete)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type authHandler func(http.ResponseWriter, *http.Request, User)

func (s *Server) authenticated(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		user, ok := s.store.GetUserByToken(token)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r, user)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	user, ok := s.store.GetUserByEmail(email)
	if !ok || !auth.CheckPassword(req.Password, user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "incorrect email address or password")
		return
	}
	if user.Status.State == domain.StateDeleted {
		writeError(w, http.StatusUnauthorized, "incorrect email address or password")
		return
	}
	token := s.store.NewSession(user.Identity.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"user":          user.Identity,
		"token":         token,
		"accountStatus": user.Status,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		Username  string `json:"username"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password required")
		return
	}
	if s.store.HasUserEmail(email) {
		writeError(w, http.StatusConflict, "email already registered")
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not create account")
		return
	}
	user := User{
		Identity: domain.Identity{
			ID:        uuid.NewString(),
			Email:     email,
			Username:  req.Username,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			IsActive:  true,
		},
		PasswordHash: hash,
		Status:       domain.AccountStatus{State: domain.StateActive},
	}
	s.store.SaveUser(user)
	writeJSON(w, http.StatusCreated, map[string]any{"user": user.Identity})
}

func (s *Server) handleDeactivate(w http.ResponseWriter, r *http.Request, user User) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if user.Status.State == domain.StateDeactivated {
		writeError(w, http.StatusConflict, "account is already deactivated")
		return
	}
	user.Identity.IsActive = false
	user.Status = domain.AccountStatus{State: domain.StateDeactivated, Since: time.Now().UTC()}
	s.store.SaveUser(user)
	writeJSON(w, http.StatusOK, map[string]any{"user": user.Identity})
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request, user User) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	user.Identity.IsActive = true
	user.Status = domain.AccountStatus{State: domain.StateActive}
	s.store.SaveUser(user)
	writeJSON(w, http.StatusOK, map[string]any{"user": user.Identity})
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request, user User) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "incorrect password")
		return
	}
	s.store.DeleteUser(user.Identity.ID)
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"books":   catalog.SampleCatalog(),
	})
}

func (s *Server) handleSampleBooks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"books":   catalog.SampleCatalog(),
	})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.aiEnabled {
		writeJSON(w, http.StatusOK, map[string]any{"success": false})
		return
	}
	limit := queryLimit(r, 8)
	books := catalog.SampleCatalog()
	if len(books) > limit {
		books = books[:limit]
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"recommendations": books,
	})
}

func (s *Server) handleAutocomplete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.aiEnabled {
		writeJSON(w, http.StatusOK, map[string]any{"success": false})
		return
	}
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("query")))
	limit := queryLimit(r, 5)
	suggestions := []domain.Suggestion{}
	if query != "" {
		for _, book := range catalog.SampleCatalog() {
			if len(suggestions) >= limit {
				break
			}
			if strings.Contains(strings.ToLower(book.Title), query) ||
				strings.Contains(strings.ToLower(book.Author), query) {
				suggestions = append(suggestions, domain.Suggestion{Text: book.Title, BookID: book.ID})
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"suggestions": suggestions,
	})
}

func queryLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token, token != ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
