// Package apitest provides an in-memory backend for tests. It serves the
// same routes as the real task-management API over httptest and issues
// HS256 JWTs.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/rshade/taskdeck/internal/api"
)

// signingKey is the HS256 key of issued tokens.
//
//nolint:gochecknoglobals // Test fixture.
var signingKey = []byte("apitest-signing-key-0123456789abcdef")

// Claims is the token payload issued by the backend.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Role     string `json:"role"`
}

type account struct {
	user     api.User
	password string
}

// Backend is a fake task-management API.
type Backend struct {
	mu sync.Mutex

	accounts      []*account
	tasks         []api.Task
	categories    []api.Category
	comments      map[int64][]api.Comment
	notifications map[string][]api.Notification
	nextID        int64

	failures map[string]int
	hits     map[string]int
	delay    map[string]time.Duration

	// TokenTTL is the lifetime of issued tokens.
	TokenTTL time.Duration
}

// New returns an empty backend.
func New() *Backend {
	return &Backend{
		comments:      make(map[int64][]api.Comment),
		notifications: make(map[string][]api.Notification),
		failures:      make(map[string]int),
		hits:          make(map[string]int),
		delay:         make(map[string]time.Duration),
		nextID:        100,
		TokenTTL:      time.Hour,
	}
}

// Start serves b until the test ends and returns the API base URL.
func (b *Backend) Start(t testing.TB) string {
	t.Helper()
	srv := httptest.NewServer(b.Router())
	t.Cleanup(srv.Close)
	return srv.URL + "/api"
}

// Router returns the routes of the backend mounted under /api.
func (b *Backend) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(b.record)
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", b.login)
		r.Post("/user/register", b.register)

		r.Group(func(r chi.Router) {
			r.Use(b.authenticate)

			r.Get("/tasks/my-tasks", b.myTasks)
			r.Put("/tasks/status/{id}", b.updateStatus)
			r.Get("/notifications/my", b.myNotifications)
			r.Get("/comments/{taskID}", b.listComments)
			r.Post("/comments/{taskID}", b.addComment)
			r.Put("/comments/update/{id}", b.updateComment)
			r.Delete("/comments/delete/{id}", b.deleteComment)
			r.Put("/comments/mark-read/{id}", b.markRead)
			r.Get("/categories/list-categories", b.listCategories)

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Get("/tasks/get-all", b.allTasks)
				r.Get("/tasks/unassigned", b.unassigned)
				r.Get("/tasks/category/{id}", b.tasksByCategory)
				r.Post("/tasks/create", b.createTask)
				r.Put("/tasks/update/{id}", b.updateTask)
				r.Delete("/tasks/delete/{id}", b.deleteTask)
				r.Put("/tasks/assign", b.assign)
				r.Post("/categories/create-categories", b.createCategory)
				r.Get("/user/getAllUsers", b.listUsers)
				r.Put("/user/assign-role", b.assignRole)
				r.Put("/user/revoke-role", b.revokeRole)
				r.Put("/user/toggle-activation/{id}", b.toggleActivation)
				r.Put("/user/reset-password/{id}", b.resetPassword)
			})
		})
	})
	return r
}

// AddUser creates an account and returns it.
func (b *Backend) AddUser(username, password, role string) api.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addUserLocked(username, password, role)
}

func (b *Backend) addUserLocked(username, password, role string) api.User {
	active := true
	u := api.User{ID: b.id(), Username: username, Role: role, Active: &active}
	b.accounts = append(b.accounts, &account{user: u, password: password})
	return u
}

// AddTask stores t, assigning an id when it has none.
func (b *Backend) AddTask(t api.Task) api.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t.ID == 0 {
		t.ID = b.id()
	}
	b.tasks = append(b.tasks, t)
	return t
}

// AddCategory stores c, assigning an id when it has none.
func (b *Backend) AddCategory(c api.Category) api.Category {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c.ID == 0 {
		c.ID = b.id()
	}
	b.categories = append(b.categories, c)
	return c
}

// AddComment stores c on taskID.
func (b *Backend) AddComment(taskID int64, c api.Comment) api.Comment {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c.ID == 0 {
		c.ID = b.id()
	}
	b.comments[taskID] = append(b.comments[taskID], c)
	return c
}

// AddNotification stores n for username.
func (b *Backend) AddNotification(username string, n api.Notification) api.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n.ID == 0 {
		n.ID = b.id()
	}
	b.notifications[username] = append(b.notifications[username], n)
	return n
}

// Tasks returns a copy of the stored tasks.
func (b *Backend) Tasks() []api.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.tasks)
}

// Users returns a copy of the stored accounts.
func (b *Backend) Users() []api.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]api.User, 0, len(b.accounts))
	for _, a := range b.accounts {
		out = append(out, a.user)
	}
	return out
}

// Comments returns a copy of the comments on taskID.
func (b *Backend) Comments(taskID int64) []api.Comment {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.comments[taskID])
}

// TokenFor issues a token for username with role.
func (b *Backend) TokenFor(username, role string) string {
	return Token(username, role, b.TokenTTL)
}

// Token signs a token that the backend accepts.
func Token(username, role string, ttl time.Duration) string {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Username: username,
		Role:     role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		panic(err)
	}
	return signed
}

// FailNext makes the next n requests to "METHOD /api/path" answer status.
func (b *Backend) FailNext(route string, status, n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[route+"#"+strconv.Itoa(status)] = n
}

// Delay holds every request to route for d.
func (b *Backend) Delay(route string, d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.delay[route] = d
}

// Hits returns how many requests reached route ("METHOD /api/path").
func (b *Backend) Hits(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[route]
}

func (b *Backend) id() int64 {
	b.nextID++
	return b.nextID
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.Path

		b.mu.Lock()
		b.hits[route]++
		delay := b.delay[route]
		status := 0
		for key, left := range b.failures {
			name, code, _ := strings.Cut(key, "#")
			if name == route && left > 0 {
				b.failures[key] = left - 1
				status, _ = strconv.Atoi(code)
				break
			}
		}
		b.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		if status != 0 {
			writeError(w, status, "injected failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type ctxKey struct{}

func (b *Backend) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing token")
			return
		}
		claims := &Claims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return signingKey, nil
		})
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(withClaims(r, claims)))
	})
}

func adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.NormalizeRole(claimsFrom(r).Role) != api.RoleAdmin {
			writeError(w, http.StatusForbidden, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad id")
		return 0, false
	}
	return id, true
}
