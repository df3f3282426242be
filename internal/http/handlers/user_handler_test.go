package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mesto-app/go-backend/internal/domain"
	"github.com/mesto-app/go-backend/internal/services"
)

func userRouter(h *Handlers, authedAs string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("", setUser(authedAs))
	g.GET("/users", h.ListUsers)
	g.GET("/users/:id", h.GetUserByID)
	g.PATCH("/users/me", h.UpdateProfile)
	g.PATCH("/users/me/avatar", h.UpdateAvatar)
	return r
}

func TestListUsers_OK(t *testing.T) {
	h := New(nil, stubUserSvc{
		list: func(context.Context) ([]domain.User, error) {
			return []domain.User{{ID: "u1"}, {ID: "u2"}}, nil
		},
	}, nil)

	w := doJSON(t, userRouter(h, "u1"), http.MethodGet, "/users", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var users []domain.User
	if err := json.Unmarshal(w.Body.Bytes(), &users); err != nil || len(users) != 2 {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestGetUserByID_MeDispatchesToCurrentUser(t *testing.T) {
	h := New(nil, stubUserSvc{
		get: func(_ context.Context, id string) (*domain.User, error) {
			// "me" must arrive here already resolved to the requester's id.
			if id != "u42" {
				t.Fatalf("expected requester id, got %q", id)
			}
			return &domain.User{ID: id, Name: "Marie"}, nil
		},
	}, nil)

	w := doJSON(t, userRouter(h, "u42"), http.MethodGet, "/users/me", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	var u domain.User
	if err := json.Unmarshal(w.Body.Bytes(), &u); err != nil || u.ID != "u42" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestGetUserByID_MalformedID(t *testing.T) {
	h := New(nil, stubUserSvc{
		get: func(context.Context, string) (*domain.User, error) {
			t.Fatalf("service must not be called for malformed ids")
			return nil, nil
		},
	}, nil)

	w := doJSON(t, userRouter(h, "u1"), http.MethodGet, "/users/not-a-uuid", nil, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if e := decodeErr(t, w); e.Code != ErrCodeBadRequest {
		t.Fatalf("code = %q, want bad_request", e.Code)
	}
}

func TestGetUserByID_NotFound(t *testing.T) {
	h := New(nil, stubUserSvc{
		get: func(context.Context, string) (*domain.User, error) {
			return nil, services.ErrUserNotFound
		},
	}, nil)

	w := doJSON(t, userRouter(h, "u1"), http.MethodGet, "/users/"+uuid.NewString(), nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if e := decodeErr(t, w); e.Code != ErrCodeNotFound {
		t.Fatalf("code = %q, want not_found", e.Code)
	}
}

func TestUpdateProfile_OK(t *testing.T) {
	h := New(nil, stubUserSvc{
		updateProfile: func(_ context.Context, userID string, name, about *string) (*domain.User, error) {
			if userID != "u1" || name == nil || *name != "Sylvia" || about == nil || *about != "Diver" {
				t.Fatalf("unexpected args: %s %v %v", userID, name, about)
			}
			return &domain.User{ID: userID, Name: *name, About: *about}, nil
		},
	}, nil)

	w := doJSON(t, userRouter(h, "u1"), http.MethodPatch, "/users/me", gin.H{"name": "Sylvia", "about": "Diver"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
}

func TestUpdateProfile_NameOnly(t *testing.T) {
	h := New(nil, stubUserSvc{
		updateProfile: func(_ context.Context, userID string, name, about *string) (*domain.User, error) {
			if name == nil || *name != "Marie Tharp" {
				t.Fatalf("expected name, got %v", name)
			}
			if about != nil {
				t.Fatalf("about must stay nil when omitted, got %q", *about)
			}
			return &domain.User{ID: userID, Name: *name, About: "Oceanographer"}, nil
		},
	}, nil)

	w := doJSON(t, userRouter(h, "u1"), http.MethodPatch, "/users/me", gin.H{"name": "Marie Tharp"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
}

func TestUpdateProfile_AboutOnly(t *testing.T) {
	h := New(nil, stubUserSvc{
		updateProfile: func(_ context.Context, userID string, name, about *string) (*domain.User, error) {
			if name != nil {
				t.Fatalf("name must stay nil when omitted, got %q", *name)
			}
			if about == nil || *about != "Cartographer" {
				t.Fatalf("expected about, got %v", about)
			}
			return &domain.User{ID: userID, Name: "Marie", About: *about}, nil
		},
	}, nil)

	w := doJSON(t, userRouter(h, "u1"), http.MethodPatch, "/users/me", gin.H{"about": "Cartographer"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
}

func TestUpdateProfile_Validation(t *testing.T) {
	h := New(nil, stubUserSvc{
		updateProfile: func(context.Context, string, *string, *string) (*domain.User, error) {
			t.Fatalf("service must not be called on invalid payload")
			return nil, nil
		},
	}, nil)
	r := userRouter(h, "u1")

	cases := []gin.H{
		{},                               // neither field supplied
		{"name": "x", "about": "Diver"},  // name too short
		{"name": "Sylvia", "about": "a"}, // about too short
		{"name": ""},                     // empty string is not an omission
		{"about": ""},
		{"name": "", "about": ""},
	}
	for i, body := range cases {
		w := doJSON(t, r, http.MethodPatch, "/users/me", body, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("case %d: status = %d, want 400", i, w.Code)
		}
	}
}

func TestUpdateAvatar_OK(t *testing.T) {
	h := New(nil, stubUserSvc{
		updateAvatar: func(_ context.Context, userID, avatar string) (*domain.User, error) {
			return &domain.User{ID: userID, Avatar: avatar}, nil
		},
	}, nil)

	w := doJSON(t, userRouter(h, "u1"), http.MethodPatch, "/users/me/avatar", gin.H{"avatar": "https://example.com/a.png"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
}

func TestUpdateAvatar_RejectsNonURL(t *testing.T) {
	h := New(nil, stubUserSvc{
		updateAvatar: func(context.Context, string, string) (*domain.User, error) {
			t.Fatalf("service must not be called on invalid payload")
			return nil, nil
		},
	}, nil)

	w := doJSON(t, userRouter(h, "u1"), http.MethodPatch, "/users/me/avatar", gin.H{"avatar": "not a url"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
