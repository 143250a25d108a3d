// Package agilefanttest provides a fake Agilefant server for tests.
package agilefanttest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/jeffrom/agilog/model"
)

// Prefix is the path the fake installation is served under.
const Prefix = "/agilefant302/"

// Server is a fake Agilefant installation. Only the pages agilog uses are
// implemented.
type Server struct {
	*httptest.Server
	Username string
	Password string

	mu         sync.Mutex
	iterations map[int]*model.Iteration
	entries    map[int][]*model.HourEntry
	sessions   map[string]bool
	nextID     int
	submitted  []Submission
	requests   []string
	failPaths  map[string]int
}

// Submission is a decoded logTaskEffort request.
type Submission struct {
	Date         int64
	MinutesSpent int
	Description  string
	TaskID       int
	UserIDs      string
	Session      string
}

func NewServer(username, password string) *Server {
	s := &Server{
		Username:   username,
		Password:   password,
		iterations: make(map[int]*model.Iteration),
		entries:    make(map[int][]*model.HourEntry),
		sessions:   make(map[string]bool),
		failPaths:  make(map[string]int),
		nextID:     1,
	}

	mux := http.NewServeMux()
	mux.HandleFunc(Prefix, s.handleRoot)
	mux.HandleFunc(Prefix+"login.jsp", s.handleLogin)
	mux.HandleFunc(Prefix+"j_spring_security_check", s.handleSecurityCheck)
	mux.HandleFunc(Prefix+"j_spring_security_logout", s.handleLogout)
	mux.HandleFunc(Prefix+"ajax/iterationData.action", s.authed(s.handleIterationData))
	mux.HandleFunc(Prefix+"ajax/retrieveTaskHourEntries.action", s.authed(s.handleHourEntries))
	mux.HandleFunc(Prefix+"ajax/logTaskEffort.action", s.authed(s.handleLogTaskEffort))
	s.Server = httptest.NewServer(s.record(mux))
	return s
}

// BaseURL is the url to configure clients with.
func (s *Server) BaseURL() string {
	return s.Server.URL + Prefix
}

func (s *Server) AddIteration(it *model.Iteration) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.iterations[it.ID] = it
	return s
}

func (s *Server) SetEntries(taskID int, entries ...*model.HourEntry) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[taskID] = entries
	return s
}

// FailPath makes the next n requests to path (relative to Prefix) return
// 500.
func (s *Server) FailPath(path string, n int) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPaths[path] = n
	return s
}

func (s *Server) Submitted() []Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]Submission, len(s.submitted))
	copy(res, s.submitted)
	return res
}

// Requests returns "METHOD path" for every request received.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]string, len(s.requests))
	copy(res, s.requests)
	return res
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+strings.TrimPrefix(r.URL.Path, Prefix))
		p := strings.TrimPrefix(r.URL.Path, Prefix)
		fail := s.failPaths[p] > 0
		if fail {
			s.failPaths[p]--
		}
		s.mu.Unlock()

		if fail {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authed(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("JSESSIONID")
		s.mu.Lock()
		ok := err == nil && s.sessions[cookie.Value]
		s.mu.Unlock()
		if !ok {
			http.Redirect(w, r, Prefix+"login.jsp", http.StatusFound)
			return
		}
		h(w, r)
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != Prefix {
		http.NotFound(w, r)
		return
	}
	fmt.Fprintln(w, "<html>agilefant</html>")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie("JSESSIONID"); err != nil {
		s.mu.Lock()
		id := fmt.Sprintf("session%d", len(s.sessions)+1)
		s.sessions[id] = false
		s.mu.Unlock()
		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: id, Path: Prefix})
	}
	fmt.Fprintln(w, "<html>login</html>")
}

func (s *Server) handleSecurityCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	cookie, err := r.Cookie("JSESSIONID")
	if err != nil || r.PostFormValue("j_username") != s.Username || r.PostFormValue("j_password") != s.Password {
		http.Redirect(w, r, Prefix+"login.jsp?error=1", http.StatusFound)
		return
	}

	s.mu.Lock()
	_, known := s.sessions[cookie.Value]
	if known {
		s.sessions[cookie.Value] = true
	}
	s.mu.Unlock()
	if !known {
		http.Redirect(w, r, Prefix+"login.jsp?error=1", http.StatusFound)
		return
	}
	http.Redirect(w, r, Prefix, http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("JSESSIONID"); err == nil {
		s.mu.Lock()
		delete(s.sessions, cookie.Value)
		s.mu.Unlock()
	}
	http.Redirect(w, r, Prefix+"login.jsp", http.StatusFound)
}

func (s *Server) handleIterationData(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get("iterationId"))
	s.mu.Lock()
	it, ok := s.iterations[id]
	s.mu.Unlock()
	if !ok {
		// agilefant answers unknown iterations with an html error page
		fmt.Fprintln(w, "<html>error</html>")
		return
	}
	writeJSON(w, it)
}

func (s *Server) handleHourEntries(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get("parentObjectId"))
	s.mu.Lock()
	entries := s.entries[id]
	if entries == nil {
		entries = []*model.HourEntry{}
	}
	s.mu.Unlock()
	writeJSON(w, entries)
}

func (s *Server) handleLogTaskEffort(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	date, err := strconv.ParseInt(r.PostFormValue("hourEntry.date"), 10, 64)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}
	mins, err := strconv.Atoi(r.PostFormValue("hourEntry.minutesSpent"))
	if err != nil {
		http.Error(w, "invalid minutes", http.StatusBadRequest)
		return
	}
	taskID, err := strconv.Atoi(r.PostFormValue("parentObjectId"))
	if err != nil {
		http.Error(w, "invalid task", http.StatusBadRequest)
		return
	}
	cookie, _ := r.Cookie("JSESSIONID")

	sub := Submission{
		Date:         date,
		MinutesSpent: mins,
		Description:  r.PostFormValue("hourEntry.description"),
		TaskID:       taskID,
		UserIDs:      r.PostFormValue("userIds"),
		Session:      cookie.Value,
	}

	s.mu.Lock()
	s.submitted = append(s.submitted, sub)
	s.entries[taskID] = append(s.entries[taskID], &model.HourEntry{
		ID:           s.nextID,
		Description:  sub.Description,
		MinutesSpent: sub.MinutesSpent,
		Date:         sub.Date,
	})
	s.nextID++
	s.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
