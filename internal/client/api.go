package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"
)

// APIError is a non-2xx response from the server, carrying the decoded
// error message when one was present.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

// API is an HTTP client for the TDL server. The session cookie set at
// login rides in a cookie jar, so one API value is one logged-in session.
type API struct {
	base *url.URL
	http *http.Client
}

// NewAPI returns an API client for the server at baseURL (e.g.
// "http://localhost:8080").
func NewAPI(baseURL string) (*API, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	return &API{
		base: u,
		http: &http.Client{Jar: jar, Timeout: 15 * time.Second},
	}, nil
}

type userEnvelope struct {
	Status string `json:"status"`
	User   User   `json:"user"`
}

// Signup creates an account and starts a session.
func (a *API) Signup(ctx context.Context, name, email, password string) (User, error) {
	var out userEnvelope
	err := a.do(ctx, http.MethodPost, "/api/users/signup",
		map[string]any{"name": name, "email": email, "password": password}, &out)
	return out.User, err
}

// Login starts a session for an existing account.
func (a *API) Login(ctx context.Context, email, password string) (User, error) {
	var out userEnvelope
	err := a.do(ctx, http.MethodPost, "/api/users/login",
		map[string]any{"email": email, "password": password}, &out)
	return out.User, err
}

// Logout ends the current session.
func (a *API) Logout(ctx context.Context) error {
	return a.do(ctx, http.MethodPost, "/api/users/logout", nil, nil)
}

// UpdateProfile changes the given fields on the account. Nil keeps current.
func (a *API) UpdateProfile(ctx context.Context, id int64, name, email, password *string) (User, error) {
	body := map[string]any{}
	if name != nil {
		body["name"] = *name
	}
	if email != nil {
		body["email"] = *email
	}
	if password != nil {
		body["password"] = *password
	}
	var out userEnvelope
	err := a.do(ctx, http.MethodPut, "/api/users/"+strconv.FormatInt(id, 10), body, &out)
	return out.User, err
}

// CheckEmail asks the server to verify the email exists and issue a reset
// code over its (mock) delivery channel.
func (a *API) CheckEmail(ctx context.Context, email string) error {
	return a.do(ctx, http.MethodPost, "/api/users/check-email", map[string]any{"email": email}, nil)
}

// VerifyCode checks a reset code previously issued for the email.
func (a *API) VerifyCode(ctx context.Context, email, code string) error {
	return a.do(ctx, http.MethodPost, "/api/users/verify-code",
		map[string]any{"email": email, "code": code}, nil)
}

// ResetPassword sets a new password for the account.
func (a *API) ResetPassword(ctx context.Context, email, password string) error {
	return a.do(ctx, http.MethodPost, "/api/users/reset-password",
		map[string]any{"email": email, "password": password}, nil)
}

// ListTasks fetches every task for the user in one flat call.
func (a *API) ListTasks(ctx context.Context, userID int64) ([]Task, error) {
	var out struct {
		Tasks []Task `json:"tasks"`
	}
	err := a.do(ctx, http.MethodGet, "/api/tasks/"+strconv.FormatInt(userID, 10), nil, &out)
	return out.Tasks, err
}

// CreateTask persists a new task; the server assigns inbox status.
func (a *API) CreateTask(ctx context.Context, draft TaskDraft) (Task, error) {
	body := map[string]any{
		"title":       draft.Title,
		"description": draft.Description,
	}
	if draft.DueAt != nil {
		body["due_at"] = draft.DueAt.Format(time.RFC3339)
	}
	if draft.Priority != "" {
		body["priority"] = string(draft.Priority)
	}
	var out Task
	err := a.do(ctx, http.MethodPost, "/api/tasks", body, &out)
	return out, err
}

// UpdateTask sends a partial update, including status transitions.
func (a *API) UpdateTask(ctx context.Context, id int64, patch TaskPatch) (Task, error) {
	body := map[string]any{}
	if patch.Title != nil {
		body["title"] = *patch.Title
	}
	if patch.Description != nil {
		body["description"] = *patch.Description
	}
	if patch.DueAt != nil {
		body["due_at"] = patch.DueAt.Format(time.RFC3339)
	}
	if patch.Priority != nil {
		body["priority"] = string(*patch.Priority)
	}
	if patch.Status != nil {
		body["status"] = string(*patch.Status)
	}
	var out Task
	err := a.do(ctx, http.MethodPut, "/api/tasks/"+strconv.FormatInt(id, 10), body, &out)
	return out, err
}

// DeleteTask removes a task permanently. The server only allows this for
// tasks already in the deleted bucket.
func (a *API) DeleteTask(ctx context.Context, id int64) error {
	return a.do(ctx, http.MethodDelete, "/api/tasks/"+strconv.FormatInt(id, 10), nil, nil)
}

func (a *API) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	// JoinPath keeps any prefix on the base URL (e.g. http://host/tdl).
	u := a.base.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
