package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mesto-app/go-backend/internal/domain"
	"github.com/mesto-app/go-backend/internal/services"
)

// ---------- flexible service stubs ----------

type stubAuthSvc struct {
	register func(ctx context.Context, email, password, name, about, avatar string) (*domain.User, error)
	login    func(ctx context.Context, email, password string) (string, error)
}

func (s stubAuthSvc) Register(ctx context.Context, email, password, name, about, avatar string) (*domain.User, error) {
	return s.register(ctx, email, password, name, about, avatar)
}

func (s stubAuthSvc) Login(ctx context.Context, email, password string) (string, error) {
	return s.login(ctx, email, password)
}

type stubUserSvc struct {
	list          func(ctx context.Context) ([]domain.User, error)
	get           func(ctx context.Context, id string) (*domain.User, error)
	updateProfile func(ctx context.Context, userID string, name, about *string) (*domain.User, error)
	updateAvatar  func(ctx context.Context, userID, avatar string) (*domain.User, error)
}

func (s stubUserSvc) List(ctx context.Context) ([]domain.User, error) { return s.list(ctx) }
func (s stubUserSvc) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.get(ctx, id)
}
func (s stubUserSvc) UpdateProfile(ctx context.Context, userID string, name, about *string) (*domain.User, error) {
	return s.updateProfile(ctx, userID, name, about)
}
func (s stubUserSvc) UpdateAvatar(ctx context.Context, userID, avatar string) (*domain.User, error) {
	return s.updateAvatar(ctx, userID, avatar)
}

type stubCardSvc struct {
	create  func(ctx context.Context, ownerID, name, link string) (*domain.Card, error)
	list    func(ctx context.Context) ([]domain.Card, error)
	remove  func(ctx context.Context, requesterID, cardID string) (*domain.Card, error)
	like    func(ctx context.Context, userID, cardID string) (*domain.Card, error)
	dislike func(ctx context.Context, userID, cardID string) (*domain.Card, error)
	stats   func(ctx context.Context) (int64, int64, *time.Time, error)
}

func (s stubCardSvc) Create(ctx context.Context, ownerID, name, link string) (*domain.Card, error) {
	return s.create(ctx, ownerID, name, link)
}
func (s stubCardSvc) List(ctx context.Context) ([]domain.Card, error) { return s.list(ctx) }
func (s stubCardSvc) Delete(ctx context.Context, requesterID, cardID string) (*domain.Card, error) {
	return s.remove(ctx, requesterID, cardID)
}
func (s stubCardSvc) Like(ctx context.Context, userID, cardID string) (*domain.Card, error) {
	return s.like(ctx, userID, cardID)
}
func (s stubCardSvc) Dislike(ctx context.Context, userID, cardID string) (*domain.Card, error) {
	return s.dislike(ctx, userID, cardID)
}
func (s stubCardSvc) Stats(ctx context.Context) (int64, int64, *time.Time, error) {
	if s.stats == nil {
		return 0, 0, nil, errors.New("stats unavailable")
	}
	return s.stats(ctx)
}

// setUser injects the authenticated user id the way the auth middleware does.
func setUser(id string) gin.HandlerFunc {
	return func(c *gin.Context) { c.Set("userID", id) }
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeErr(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode error envelope: %v (body %q)", err, w.Body.String())
	}
	return e
}

// ---------- signup ----------

func TestSignup_Created(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := New(stubAuthSvc{
		register: func(_ context.Context, email, password, name, about, avatar string) (*domain.User, error) {
			if email != "m@example.com" || password != "secret1" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &domain.User{ID: "u1", Email: email, Name: "Marie"}, nil
		},
	}, nil, nil)

	r := gin.New()
	r.POST("/signup", h.Signup)

	w := doJSON(t, r, http.MethodPost, "/signup", gin.H{
		"email": "m@example.com", "password": "secret1", "name": "Marie",
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", w.Code, w.Body.String())
	}
	var u domain.User
	if err := json.Unmarshal(w.Body.Bytes(), &u); err != nil || u.ID != "u1" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if bytes.Contains(w.Body.Bytes(), []byte("password")) {
		t.Fatalf("response leaks password field: %s", w.Body.String())
	}
}

func TestSignup_InvalidPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := New(stubAuthSvc{
		register: func(context.Context, string, string, string, string, string) (*domain.User, error) {
			t.Fatalf("service must not be called on invalid payload")
			return nil, nil
		},
	}, nil, nil)

	r := gin.New()
	r.POST("/signup", h.Signup)

	cases := []gin.H{
		{"password": "secret1"},                        // missing email
		{"email": "not-an-email", "password": "x1y2z"}, // bad email + short password
		{"email": "m@example.com", "password": "secret1", "name": "x"}, // name too short
		{"email": "m@example.com", "password": "secret1", "avatar": "nope"},
	}
	for i, body := range cases {
		w := doJSON(t, r, http.MethodPost, "/signup", body, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("case %d: status = %d, want 400", i, w.Code)
		}
		if e := decodeErr(t, w); e.Code != ErrCodeBadRequest {
			t.Fatalf("case %d: code = %q", i, e.Code)
		}
	}
}

func TestSignup_EmailTaken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := New(stubAuthSvc{
		register: func(context.Context, string, string, string, string, string) (*domain.User, error) {
			return nil, services.ErrEmailTaken
		},
	}, nil, nil)

	r := gin.New()
	r.POST("/signup", h.Signup)

	w := doJSON(t, r, http.MethodPost, "/signup", gin.H{"email": "m@example.com", "password": "secret1"}, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	if e := decodeErr(t, w); e.Code != ErrCodeConflict {
		t.Fatalf("code = %q, want conflict", e.Code)
	}
}

// ---------- signin ----------

func TestSignin_ReturnsToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := New(stubAuthSvc{
		login: func(_ context.Context, email, password string) (string, error) {
			return "signed.jwt.token", nil
		},
	}, nil, nil)

	r := gin.New()
	r.POST("/signin", h.Signin)

	w := doJSON(t, r, http.MethodPost, "/signin", gin.H{"email": "m@example.com", "password": "secret1"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp SigninResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.JWT != "signed.jwt.token" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestSignin_BadCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := New(stubAuthSvc{
		login: func(context.Context, string, string) (string, error) {
			return "", services.ErrBadCredentials
		},
	}, nil, nil)

	r := gin.New()
	r.POST("/signin", h.Signin)

	w := doJSON(t, r, http.MethodPost, "/signin", gin.H{"email": "m@example.com", "password": "wrong!"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if e := decodeErr(t, w); e.Code != ErrCodeUnauthorized {
		t.Fatalf("code = %q, want unauthorized", e.Code)
	}
}

func TestSignin_UnknownServiceErrorHidesDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := New(stubAuthSvc{
		login: func(context.Context, string, string) (string, error) {
			return "", errors.New("pq: connection reset by peer")
		},
	}, nil, nil)

	r := gin.New()
	r.POST("/signin", h.Signin)

	w := doJSON(t, r, http.MethodPost, "/signin", gin.H{"email": "m@example.com", "password": "secret1"}, nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("connection reset")) {
		t.Fatalf("driver detail leaked to client: %s", w.Body.String())
	}
}
