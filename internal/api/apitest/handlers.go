package apitest

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/rshade/taskdeck/internal/api"
)

func withClaims(r *http.Request, c *Claims) context.Context {
	return context.WithValue(r.Context(), ctxKey{}, c)
}

func claimsFrom(r *http.Request) *Claims {
	c, _ := r.Context().Value(ctxKey{}).(*Claims)
	if c == nil {
		return &Claims{}
	}
	return c
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var creds api.Credentials
	if !decode(w, r, &creds) {
		return
	}
	b.mu.Lock()
	var found *account
	for _, a := range b.accounts {
		if a.user.Username == creds.Username && a.password == creds.Password && a.user.IsActive() {
			found = a
		}
	}
	b.mu.Unlock()
	if found == nil {
		writeError(w, http.StatusUnauthorized, "bad credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": b.TokenFor(found.user.Username, found.user.Role),
		"user":  map[string]string{"username": found.user.Username, "role": found.user.Role},
	})
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var creds api.Credentials
	if !decode(w, r, &creds) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range b.accounts {
		if a.user.Username == creds.Username {
			writeError(w, http.StatusForbidden, "exists")
			return
		}
	}
	u := b.addUserLocked(creds.Username, creds.Password, "ROLE_USER")
	writeJSON(w, http.StatusCreated, u)
}

func (b *Backend) allTasks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, b.Tasks())
}

func (b *Backend) myTasks(w http.ResponseWriter, r *http.Request) {
	me := claimsFrom(r).Username
	writeJSON(w, http.StatusOK, b.filterTasks(func(t api.Task) bool { return t.AssignedToUsername == me }))
}

func (b *Backend) unassigned(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, b.filterTasks(func(t api.Task) bool { return t.AssignedToUsername == "" }))
}

func (b *Backend) tasksByCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, b.filterTasks(func(t api.Task) bool { return t.CategoryID == id }))
}

func (b *Backend) filterTasks(keep func(api.Task) bool) []api.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []api.Task{}
	for _, t := range b.tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func (b *Backend) createTask(w http.ResponseWriter, r *http.Request) {
	var in api.TaskInput
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	t := api.Task{
		ID:          b.id(),
		Title:       in.Title,
		Description: in.Description,
		Status:      api.StatusPending,
		DueDate:     in.DueDate,
		CategoryID:  in.CategoryID,
	}
	for _, c := range b.categories {
		if c.ID == in.CategoryID {
			t.CategoryName = c.Name
		}
	}
	b.tasks = append(b.tasks, t)
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, t)
}

func (b *Backend) updateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in api.TaskInput
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.IndexFunc(b.tasks, func(t api.Task) bool { return t.ID == id })
	if i < 0 {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	b.tasks[i].Title = in.Title
	b.tasks[i].Description = in.Description
	b.tasks[i].DueDate = in.DueDate
	if in.CategoryID != 0 {
		b.tasks[i].CategoryID = in.CategoryID
	}
	writeJSON(w, http.StatusOK, b.tasks[i])
}

func (b *Backend) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	before := len(b.tasks)
	b.tasks = slices.DeleteFunc(b.tasks, func(t api.Task) bool { return t.ID == id })
	if len(b.tasks) == before {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	status, err := api.NormalizeStatus(r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	claims := claimsFrom(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.IndexFunc(b.tasks, func(t api.Task) bool { return t.ID == id })
	if i < 0 {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	if api.NormalizeRole(claims.Role) != api.RoleAdmin && b.tasks[i].AssignedToUsername != claims.Username {
		writeError(w, http.StatusForbidden, "not your task")
		return
	}
	b.tasks[i].Status = status
	writeJSON(w, http.StatusOK, b.tasks[i])
}

func (b *Backend) assign(w http.ResponseWriter, r *http.Request) {
	var req api.AssignRequest
	if !decode(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	ti := slices.IndexFunc(b.tasks, func(t api.Task) bool { return t.ID == req.TaskID })
	ui := slices.IndexFunc(b.accounts, func(a *account) bool { return a.user.ID == req.UserID })
	if ti < 0 || ui < 0 {
		writeError(w, http.StatusNotFound, "task or user not found")
		return
	}
	b.tasks[ti].AssignedToUsername = b.accounts[ui].user.Username
	writeJSON(w, http.StatusOK, b.tasks[ti])
}

func (b *Backend) listCategories(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	out := slices.Clone(b.categories)
	b.mu.Unlock()
	if out == nil {
		out = []api.Category{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) createCategory(w http.ResponseWriter, r *http.Request) {
	var in api.CategoryInput
	if !decode(w, r, &in) {
		return
	}
	c := b.AddCategory(api.Category{Name: in.Name, Description: in.Description})
	writeJSON(w, http.StatusCreated, c)
}

func (b *Backend) listUsers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, b.Users())
}

func (b *Backend) assignRole(w http.ResponseWriter, r *http.Request) {
	b.setRole(w, r, true)
}

func (b *Backend) revokeRole(w http.ResponseWriter, r *http.Request) {
	b.setRole(w, r, false)
}

// setRole stores roles the way Spring does, with a ROLE_ prefix. Revoking
// falls back to USER.
func (b *Backend) setRole(w http.ResponseWriter, r *http.Request, grant bool) {
	var req api.RoleRequest
	if !decode(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.IndexFunc(b.accounts, func(a *account) bool { return a.user.ID == req.UserID })
	if i < 0 {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	role := api.RoleUser
	if grant {
		role = api.NormalizeRole(req.Role)
	}
	b.accounts[i].user.Role = "ROLE_" + role
	writeJSON(w, http.StatusOK, b.accounts[i].user)
}

func (b *Backend) toggleActivation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.IndexFunc(b.accounts, func(a *account) bool { return a.user.ID == id })
	if i < 0 {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	active := !b.accounts[i].user.IsActive()
	b.accounts[i].user.Active = &active
	writeJSON(w, http.StatusOK, b.accounts[i].user)
}

func (b *Backend) resetPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req api.PasswordReset
	if !decode(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.IndexFunc(b.accounts, func(a *account) bool { return a.user.ID == id })
	if i < 0 {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	b.accounts[i].password = req.NewPassword
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) listComments(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathID(w, r, "taskID")
	if !ok {
		return
	}
	out := b.Comments(taskID)
	if out == nil {
		out = []api.Comment{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) addComment(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathID(w, r, "taskID")
	if !ok {
		return
	}
	var in api.CommentInput
	if !decode(w, r, &in) {
		return
	}
	c := b.AddComment(taskID, api.Comment{
		Content:   in.Content,
		Username:  claimsFrom(r).Username,
		CreatedAt: time.Now().UTC().Format("2006-01-02T15:04:05"),
	})
	writeJSON(w, http.StatusCreated, c)
}

func (b *Backend) editComment(w http.ResponseWriter, r *http.Request, edit func(*api.Comment) bool) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for taskID, list := range b.comments {
		for i := range list {
			if list[i].ID != id {
				continue
			}
			if edit(&list[i]) {
				writeJSON(w, http.StatusOK, list[i])
			} else {
				b.comments[taskID] = slices.Delete(list, i, i+1)
				w.WriteHeader(http.StatusNoContent)
			}
			return
		}
	}
	writeError(w, http.StatusNotFound, "comment not found")
}

func (b *Backend) updateComment(w http.ResponseWriter, r *http.Request) {
	var in api.CommentInput
	if !decode(w, r, &in) {
		return
	}
	b.editComment(w, r, func(c *api.Comment) bool { c.Content = in.Content; return true })
}

func (b *Backend) deleteComment(w http.ResponseWriter, r *http.Request) {
	b.editComment(w, r, func(*api.Comment) bool { return false })
}

func (b *Backend) markRead(w http.ResponseWriter, r *http.Request) {
	b.editComment(w, r, func(c *api.Comment) bool { c.Read = true; return true })
}

func (b *Backend) myNotifications(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	out := slices.Clone(b.notifications[claimsFrom(r).Username])
	b.mu.Unlock()
	if out == nil {
		out = []api.Notification{}
	}
	writeJSON(w, http.StatusOK, out)
}
