package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// authServer fakes the account endpoints: login sets the session cookie,
// everything session-bound requires it back.
func authServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	requireSession := func(w http.ResponseWriter, r *http.Request) bool {
		c, err := r.Cookie("session_id")
		if err != nil || c.Value != "sess-1" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "login required"})
			return false
		}
		return true
	}

	mux.HandleFunc("POST /api/users/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Password != "hunter2hunter2" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid email or password"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "session_id", Value: "sess-1", Path: "/"})
		writeJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"user":   User{ID: 7, Name: "Alice", Email: body.Email},
		})
	})
	mux.HandleFunc("POST /api/users/logout", func(w http.ResponseWriter, r *http.Request) {
		if !requireSession(w, r) {
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("PUT /api/users/7", func(w http.ResponseWriter, r *http.Request) {
		if !requireSession(w, r) {
			return
		}
		var body struct{ Name string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"user":   User{ID: 7, Name: body.Name, Email: "a@b.co"},
		})
	})
	mux.HandleFunc("POST /api/users/check-email", func(w http.ResponseWriter, r *http.Request) {
		var body struct{ Email string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Email != "a@b.co" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Email not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("POST /api/users/verify-code", func(w http.ResponseWriter, r *http.Request) {
		var body struct{ Email, Code string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Code != "123456" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid verification code"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("POST /api/users/reset-password", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginSessionCookieRides(t *testing.T) {
	srv := authServer(t)
	api, err := NewAPI(srv.URL)
	if err != nil {
		t.Fatalf("NewAPI: %v", err)
	}

	user, err := api.Login(context.Background(), "a@b.co", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != 7 || user.Name != "Alice" {
		t.Errorf("user: got %+v", user)
	}

	// Logout only succeeds if the jar sent the session cookie back.
	if err := api.Logout(context.Background()); err != nil {
		t.Errorf("Logout: %v", err)
	}
}

func TestLoginBadPassword(t *testing.T) {
	srv := authServer(t)
	api, err := NewAPI(srv.URL)
	if err != nil {
		t.Fatalf("NewAPI: %v", err)
	}

	_, err = api.Login(context.Background(), "a@b.co", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("got %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "Invalid email or password" {
		t.Errorf("error: got %+v", apiErr)
	}
}

func TestUpdateProfile(t *testing.T) {
	srv := authServer(t)
	api, err := NewAPI(srv.URL)
	if err != nil {
		t.Fatalf("NewAPI: %v", err)
	}
	if _, err := api.Login(context.Background(), "a@b.co", "hunter2hunter2"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	name := "Alicia"
	user, err := api.UpdateProfile(context.Background(), 7, &name, nil, nil)
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if user.Name != "Alicia" {
		t.Errorf("name: got %q, want Alicia", user.Name)
	}
}

func TestResetCodeFlow(t *testing.T) {
	srv := authServer(t)
	api, err := NewAPI(srv.URL)
	if err != nil {
		t.Fatalf("NewAPI: %v", err)
	}

	if err := api.CheckEmail(context.Background(), "ghost@b.co"); err == nil {
		t.Error("unknown email accepted")
	}
	if err := api.CheckEmail(context.Background(), "a@b.co"); err != nil {
		t.Fatalf("CheckEmail: %v", err)
	}

	if err := api.VerifyCode(context.Background(), "a@b.co", "000000"); err == nil {
		t.Error("wrong code accepted")
	}
	if err := api.VerifyCode(context.Background(), "a@b.co", "123456"); err != nil {
		t.Fatalf("VerifyCode: %v", err)
	}

	if err := api.ResetPassword(context.Background(), "a@b.co", "freshpassword1"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
}

func TestBaseURLPathPrefixKept(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		writeJSON(w, http.StatusOK, map[string]any{"tasks": []Task{}})
	}))
	defer srv.Close()

	api, err := NewAPI(srv.URL + "/tdl")
	if err != nil {
		t.Fatalf("NewAPI: %v", err)
	}
	if _, err := api.ListTasks(context.Background(), 1); err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if gotPath != "/tdl/api/tasks/1" {
		t.Errorf("request path: got %q, want /tdl/api/tasks/1", gotPath)
	}
}
