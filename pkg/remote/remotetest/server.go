// Package remotetest runs an in-memory fake of the remote store for tests.
package remotetest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/covenant/covenant-terminal/pkg/models"
)

// Call is one request the fake received.
type Call struct {
	Method string
	Path   string
}

// Server serves plans, forms and folders from memory.
type Server struct {
	*httptest.Server

	mu      sync.Mutex
	token   string
	plans   map[string]models.ReadingPlan
	forms   map[string]models.FormSchema
	folders []models.Folder
	calls   []Call
	nextID  int
	fail    []int
	bare    bool
}

// NewServer starts a fake store and stops it when the test ends. When
// token is not empty, requests must carry it as a bearer token.
func NewServer(t testing.TB, token string) *Server {
	t.Helper()
	s := &Server{
		token: token,
		plans: map[string]models.ReadingPlan{},
		forms: map[string]models.FormSchema{},
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)
	r.Use(s.auth)

	r.Get("/plans/{id}", s.getPlan)
	r.Post("/plans", s.createPlan)
	r.Put("/plans/{id}", s.updatePlan)

	r.Get("/forms/folders", s.listFolders)
	r.Post("/forms/folders", s.createFolder)
	r.Get("/forms/{id}", s.getForm)
	r.Post("/forms", s.createForm)
	r.Put("/forms/{id}", s.updateForm)
	return r
}

// FailNext makes the next requests answer with the given statuses, in
// order, before normal handling resumes.
func (s *Server) FailNext(statuses ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = append(s.fail, statuses...)
}

// OmitExistingID makes 409 responses leave out existing_id.
func (s *Server) OmitExistingID(omit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bare = omit
}

// Calls returns the requests received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Count returns how many requests matched method and path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

func (s *Server) PutPlan(doc models.ReadingPlan) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc.ID == "" {
		doc.ID = s.id("plan")
	}
	s.plans[doc.ID] = doc.Clone()
	return doc.ID
}

func (s *Server) Plan(id string) (models.ReadingPlan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.plans[id]
	return doc.Clone(), ok
}

func (s *Server) PutForm(doc models.FormSchema) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc.ID == "" {
		doc.ID = s.id("form")
	}
	s.forms[doc.ID] = doc.Clone()
	return doc.ID
}

func (s *Server) Form(id string) (models.FormSchema, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.forms[id]
	return doc.Clone(), ok
}

func (s *Server) PutFolder(name string) models.Folder {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := models.Folder{ID: s.id("folder"), Name: name}
	s.folders = append(s.folders, f)
	return f
}

func (s *Server) id(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls = append(s.calls, Call{Method: r.Method, Path: r.URL.Path})
		var status int
		if len(s.fail) > 0 {
			status, s.fail = s.fail[0], s.fail[1:]
		}
		s.mu.Unlock()
		if status != 0 {
			writeJSON(w, status, map[string]string{"detail": http.StatusText(status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" && r.Header.Get("Authorization") != "Bearer "+s.token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) conflict(w http.ResponseWriter, existing string) {
	body := map[string]string{"detail": "a document with this name already exists"}
	if !s.bare {
		body["existing_id"] = existing
	}
	writeJSON(w, http.StatusConflict, body)
}

func (s *Server) getPlan(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	doc, ok := s.plans[chi.URLParam(r, "id")]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "plan not found"})
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) createPlan(w http.ResponseWriter, r *http.Request) {
	var doc models.ReadingPlan
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil || doc.DurationDays < 1 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid plan"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.plans {
		if strings.EqualFold(existing.Name, doc.Name) {
			s.conflict(w, id)
			return
		}
	}
	doc.ID = s.id("plan")
	s.plans[doc.ID] = doc
	writeJSON(w, http.StatusCreated, map[string]string{"id": doc.ID})
}

func (s *Server) updatePlan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var doc models.ReadingPlan
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil || doc.DurationDays < 1 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid plan"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.plans[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "plan not found"})
		return
	}
	for other, existing := range s.plans {
		if other != id && strings.EqualFold(existing.Name, doc.Name) {
			s.conflict(w, other)
			return
		}
	}
	doc.ID = id
	s.plans[id] = doc
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (s *Server) getForm(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	doc, ok := s.forms[chi.URLParam(r, "id")]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "form not found"})
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) createForm(w http.ResponseWriter, r *http.Request) {
	var doc models.FormSchema
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil || doc.Folder == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid form"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.forms {
		if strings.EqualFold(existing.Title, doc.Title) {
			s.conflict(w, id)
			return
		}
	}
	doc.ID = s.id("form")
	s.forms[doc.ID] = doc
	writeJSON(w, http.StatusCreated, map[string]string{"id": doc.ID})
}

func (s *Server) updateForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var doc models.FormSchema
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid form"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.forms[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "form not found"})
		return
	}
	for other, existing := range s.forms {
		if other != id && strings.EqualFold(existing.Title, doc.Title) {
			s.conflict(w, other)
			return
		}
	}
	doc.ID = id
	s.forms[id] = doc
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (s *Server) listFolders(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := append([]models.Folder{}, s.folders...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createFolder(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "name is required"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.folders {
		if strings.EqualFold(f.Name, name) {
			writeJSON(w, http.StatusConflict, map[string]string{"detail": "folder already exists"})
			return
		}
	}
	f := models.Folder{ID: s.id("folder"), Name: name}
	s.folders = append(s.folders, f)
	writeJSON(w, http.StatusCreated, f)
}
