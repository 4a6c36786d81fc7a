// Package clienttest provides an in-memory stand-in for the Globus Auth,
// Transfer and Timers services, for use with net/http/httptest.
package clienttest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Paths served by Globus, relative to Server.URL.
const (
	TokenPath    = "/v2/oauth2/token"
	TransferPath = "/v0.10"
	TimerPath    = "/timer"
)

// Server fakes the three Globus services behind one httptest.Server.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	jobs     map[string]map[string]any
	next     int
	requests []string

	// ClientID and ClientSecret are the only credentials the token
	// endpoint accepts.
	ClientID     string
	ClientSecret string
}

// NewServer starts a fake and closes it when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		jobs:         map[string]map[string]any{},
		ClientID:     "test-client",
		ClientSecret: "test-secret",
	}
	s.Server = httptest.NewServer(s)
	t.Cleanup(s.Close)
	return s
}

// TokenURL is the fake OAuth2 token endpoint.
func (s *Server) TokenURL() string { return s.URL + TokenPath }

// TransferURL is the fake Transfer API root.
func (s *Server) TransferURL() string { return s.URL + TransferPath }

// TimerURL is the fake Timers API root.
func (s *Server) TimerURL() string { return s.URL + TimerPath }

// Requests returns "METHOD path" for every request served so far.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// Job returns the stored document for id.
func (s *Server) Job(id string) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	return job, ok
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, r.Method+" "+r.URL.Path)

	switch {
	case r.URL.Path == TokenPath:
		s.serveToken(w, r)
	case strings.HasPrefix(r.URL.Path, TransferPath+"/"):
		s.serveTransfer(w, r, strings.TrimPrefix(r.URL.Path, TransferPath))
	case strings.HasPrefix(r.URL.Path, TimerPath+"/"):
		s.serveTimer(w, r, strings.TrimPrefix(r.URL.Path, TimerPath))
	default:
		WriteJSON(w, http.StatusNotFound, map[string]any{"code": "NotFound", "message": "no such path"})
	}
}

// serveToken implements the client-credentials grant with HTTP Basic client
// authentication. The issued token is "token:<scope>".
func (s *Server) serveToken(w http.ResponseWriter, r *http.Request) {
	id, secret, ok := r.BasicAuth()
	if !ok {
		_ = r.ParseForm()
		id, secret = r.PostForm.Get("client_id"), r.PostForm.Get("client_secret")
	}
	if id != s.ClientID || secret != s.ClientSecret {
		WriteJSON(w, http.StatusUnauthorized, map[string]any{"error": "invalid_client", "error_description": "bad client credentials"})
		return
	}
	if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "client_credentials" {
		WriteJSON(w, http.StatusBadRequest, map[string]any{"error": "unsupported_grant_type"})
		return
	}
	scope := r.PostForm.Get("scope")
	WriteJSON(w, http.StatusOK, map[string]any{
		"access_token": "token:" + scope,
		"token_type":   "Bearer",
		"expires_in":   172800,
		"scope":        scope,
	})
}

func (s *Server) authorized(r *http.Request, scopeSuffix string) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer token:") && strings.HasSuffix(auth, scopeSuffix)
}

func (s *Server) serveTransfer(w http.ResponseWriter, r *http.Request, path string) {
	if !s.authorized(r, "transfer.api.globus.org:all") {
		WriteJSON(w, http.StatusUnauthorized, map[string]any{"code": "AuthenticationFailed", "message": "no transfer token"})
		return
	}
	if r.Method == http.MethodGet && path == "/submission_id" {
		WriteJSON(w, http.StatusOK, map[string]any{"DATA_TYPE": "submission_id", "value": fmt.Sprintf("submission-%d", len(s.requests))})
		return
	}
	WriteJSON(w, http.StatusNotFound, map[string]any{"code": "NotFound", "message": "no such path"})
}

func (s *Server) serveTimer(w http.ResponseWriter, r *http.Request, path string) {
	if !s.authorized(r, "/timer") {
		WriteJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Not authenticated"})
		return
	}

	id := strings.TrimPrefix(path, "/jobs/")

	switch {
	case r.Method == http.MethodPost && path == "/jobs/":
		var doc map[string]any
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": err.Error()})
			return
		}
		s.next++
		jobID := fmt.Sprintf("job-%d", s.next)
		doc["job_id"] = jobID
		doc["status"] = "loaded"
		doc["n_runs"] = 0
		doc["n_errors"] = 0
		s.jobs[jobID] = doc
		WriteJSON(w, http.StatusCreated, doc)

	case r.Method == http.MethodGet && path == "/jobs/":
		jobs := []map[string]any{}
		for i := 1; i <= s.next; i++ {
			if job, ok := s.jobs[fmt.Sprintf("job-%d", i)]; ok {
				jobs = append(jobs, job)
			}
		}
		WriteJSON(w, http.StatusOK, map[string]any{"jobs": jobs})

	case r.Method == http.MethodGet:
		job, ok := s.jobs[id]
		if !ok {
			WriteJSON(w, http.StatusNotFound, map[string]any{"detail": "job not found"})
			return
		}
		WriteJSON(w, http.StatusOK, job)

	case r.Method == http.MethodPatch:
		job, ok := s.jobs[id]
		if !ok {
			WriteJSON(w, http.StatusNotFound, map[string]any{"detail": "job not found"})
			return
		}
		var patch map[string]any
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": err.Error()})
			return
		}
		for k, v := range patch {
			job[k] = v
		}
		WriteJSON(w, http.StatusOK, job)

	case r.Method == http.MethodDelete:
		job, ok := s.jobs[id]
		if !ok {
			WriteJSON(w, http.StatusNotFound, map[string]any{"detail": "job not found"})
			return
		}
		delete(s.jobs, id)
		WriteJSON(w, http.StatusOK, job)

	default:
		WriteJSON(w, http.StatusMethodNotAllowed, map[string]any{"detail": "method not allowed"})
	}
}

// AuthorizedClient returns an HTTP client that presents the token the fake
// issues for scope, bypassing the token endpoint.
func (s *Server) AuthorizedClient(scope string) *http.Client {
	return &http.Client{Transport: bearerTransport{token: "token:" + scope}}
}

type bearerTransport struct {
	token string
}

func (b bearerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("Authorization", "Bearer "+b.token)
	return http.DefaultTransport.RoundTrip(r)
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
