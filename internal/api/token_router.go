package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/thingmesh/telemetry-go/internal/auth"
	"github.com/thingmesh/telemetry-go/internal/metrics"
	"github.com/thingmesh/telemetry-go/internal/util"
)

// NewTokenRouter creates the token authority router served by authd.
func NewTokenRouter(authority *auth.Authority, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(10 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.Use(requestLogger(logger))

	th := &tokenHandlers{authority: authority}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		util.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/token", th.PostToken)
	r.Get("/token/introspect", th.GetIntrospect)

	return r
}

type tokenHandlers struct {
	authority *auth.Authority
}

type tokenReq struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// PostToken exchanges client credentials for a signed bearer token.
// Both JSON and form-encoded bodies are accepted.
func (t *tokenHandlers) PostToken(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeTokenReq(w, r)
	if !ok {
		return
	}

	token, err := t.authority.Issue(req.ClientID, req.ClientSecret)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			util.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "invalid client credentials")
			return
		}
		util.WriteError(w, http.StatusInternalServerError, "internal", "failed to issue token")
		return
	}
	metrics.TokensIssued.Inc()

	util.WriteJSON(w, http.StatusOK, map[string]any{
		"access_token": token.AccessToken,
		"token_type":   token.TokenType,
		"expires_in":   token.ExpiresIn,
	})
}

// GetIntrospect answers from the in-memory issued-token index. The
// answer is advisory: verifiers rely on signature and expiry, and this
// index is empty after a restart.
func (t *tokenHandlers) GetIntrospect(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("token")
	if raw == "" {
		util.WriteError(w, http.StatusBadRequest, "invalid_request", "token query parameter is required")
		return
	}
	util.WriteJSON(w, http.StatusOK, map[string]bool{"active": t.authority.WasIssued(raw)})
}

func decodeTokenReq(w http.ResponseWriter, r *http.Request) (tokenReq, bool) {
	var req tokenReq

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			util.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed form body")
			return req, false
		}
		req.ClientID = r.PostFormValue("client_id")
		req.ClientSecret = r.PostFormValue("client_secret")
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			util.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid JSON: "+err.Error())
			return req, false
		}
	}

	if req.ClientID == "" || req.ClientSecret == "" {
		util.WriteError(w, http.StatusBadRequest, "invalid_request", "client_id and client_secret are required")
		return req, false
	}
	return req, true
}
