// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/thenetworkclub/network-go/internal/middleware"
	"github.com/thenetworkclub/network-go/internal/model"
)

func newAuthHandler(e *testEnv) *AuthHandler {
	lp := middleware.NewLoginProtection(middleware.LoginProtectionConfig{
		IPRateLimit:       1000,
		IPBurst:           1000,
		MaxFailedAttempts: 3,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Minute,
	})
	return NewAuthHandler(e.db, e.renderer, e.sm, e.provider, lp)
}

func TestLogin_Success(t *testing.T) {
	e := newTestEnv(t)
	h := newAuthHandler(e)
	e.createUser(t, "member@thenetwork.com", "correct horse", model.RoleVisitor)

	rr := e.do(h.Login, postForm("/login", url.Values{
		"email":    {"member@thenetwork.com"},
		"password": {"correct horse"},
	}))

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}
	if loc := rr.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want %q", loc, "/")
	}
}

func TestLogin_AdminRedirectsToDashboard(t *testing.T) {
	e := newTestEnv(t)
	h := newAuthHandler(e)
	e.createUser(t, "admin@thenetwork.com", "hunter2hunter2", model.RoleAdmin)

	rr := e.do(h.Login, postForm("/login", url.Values{
		"email":    {"admin@thenetwork.com"},
		"password": {"hunter2hunter2"},
	}))

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}
	if loc := rr.Header().Get("Location"); loc != "/admin" {
		t.Errorf("Location = %q, want %q", loc, "/admin")
	}
}

// Unknown accounts and wrong passwords must be indistinguishable from
// the outside.
func TestLogin_FailureIsUniform(t *testing.T) {
	e := newTestEnv(t)
	h := newAuthHandler(e)
	e.createUser(t, "member@thenetwork.com", "correct horse", model.RoleVisitor)

	cases := []struct {
		name  string
		email string
	}{
		{"wrong password", "member@thenetwork.com"},
		{"unknown account", "nobody@thenetwork.com"},
	}

	var responses []*httptest.ResponseRecorder
	for _, tc := range cases {
		rr := e.do(h.Login, postForm("/login", url.Values{
			"email":    {tc.email},
			"password": {"wrong"},
		}))
		responses = append(responses, rr)
	}

	for i, rr := range responses {
		if rr.Code != http.StatusSeeOther {
			t.Errorf("%s: status = %d, want %d", cases[i].name, rr.Code, http.StatusSeeOther)
		}
		if loc := rr.Header().Get("Location"); loc != "/login" {
			t.Errorf("%s: Location = %q, want %q", cases[i].name, loc, "/login")
		}
	}
}

func TestLogin_MissingFields(t *testing.T) {
	e := newTestEnv(t)
	h := newAuthHandler(e)

	rr := e.do(h.Login, postForm("/login", url.Values{"email": {"member@thenetwork.com"}}))

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want %q", loc, "/login")
	}
}

func TestLogin_LockoutAfterRepeatedFailures(t *testing.T) {
	e := newTestEnv(t)
	h := newAuthHandler(e)
	e.createUser(t, "member@thenetwork.com", "correct horse", model.RoleVisitor)

	form := url.Values{
		"email":    {"member@thenetwork.com"},
		"password": {"wrong"},
	}
	for i := 0; i < 3; i++ {
		e.do(h.Login, postForm("/login", form))
	}

	// Locked now; even the correct password is rejected.
	rr := e.do(h.Login, postForm("/login", url.Values{
		"email":    {"member@thenetwork.com"},
		"password": {"correct horse"},
	}))

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want %q", loc, "/login")
	}
}

func TestLogout(t *testing.T) {
	e := newTestEnv(t)
	h := newAuthHandler(e)

	rr := e.do(h.Logout, httptest.NewRequest(http.MethodPost, "/logout", nil))

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}
	if loc := rr.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want %q", loc, "/")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{30 * time.Second, "30 seconds"},
		{time.Minute, "1 minute"},
		{15 * time.Minute, "15 minutes"},
		{time.Hour, "1 hour"},
		{3 * time.Hour, "3 hours"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
