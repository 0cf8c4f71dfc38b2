package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/platformid/identity-system/internal/core/domain"
	"github.com/platformid/identity-system/internal/core/ports"
)

type stubUserService struct {
	listFn   func(ctx context.Context) ([]domain.User, error)
	getFn    func(ctx context.Context, id int64) (*domain.User, error)
	updateFn func(ctx context.Context, id int64, input ports.UpdateUserInput) (*domain.User, error)
	deleteFn func(ctx context.Context, id int64) (*domain.User, error)
}

func (s *stubUserService) List(ctx context.Context) ([]domain.User, error) {
	return s.listFn(ctx)
}

func (s *stubUserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) Update(ctx context.Context, id int64, input ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, id, input)
}

func (s *stubUserService) Delete(ctx context.Context, id int64) (*domain.User, error) {
	return s.deleteFn(ctx, id)
}

// userContext builds an echo context for a /users/:id request authenticated
// as the given requester.
func userContext(e *echo.Echo, method, target, body string, requesterID int64, role, paramID string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", requesterID)
	c.Set("email", "requester@example.com")
	c.Set("role", role)
	if paramID != "" {
		c.SetParamNames("id")
		c.SetParamValues(paramID)
	}
	return c, rec
}

func TestUserHandler_List(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		listFn: func(ctx context.Context) ([]domain.User, error) {
			return []domain.User{
				{ID: 1, Name: "Alice", Email: "alice@example.com", Role: domain.RoleAdmin},
				{ID: 2, Name: "Bob", Email: "bob@example.com", Role: domain.RoleUser},
			}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := userContext(e, http.MethodGet, "/users", "", 1, domain.RoleAdmin, "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["count"] != float64(2) {
		t.Fatalf("expected count 2, got %v", resp["count"])
	}
}

func TestUserHandler_Get_Self(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		getFn: func(ctx context.Context, id int64) (*domain.User, error) {
			return &domain.User{ID: id, Name: "Bob", Email: "bob@example.com", Role: domain.RoleUser}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := userContext(e, http.MethodGet, "/users/2", "", 2, domain.RoleUser, "2")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Get_OtherForbidden(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		getFn: func(ctx context.Context, id int64) (*domain.User, error) {
			t.Fatalf("service must not be reached")
			return nil, nil
		},
	}
	h := NewUserHandler(stub)

	c, _ := userContext(e, http.MethodGet, "/users/3", "", 2, domain.RoleUser, "3")
	if err := h.Get(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserHandler_Get_AdminAny(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		getFn: func(ctx context.Context, id int64) (*domain.User, error) {
			return &domain.User{ID: id, Name: "Bob", Email: "bob@example.com", Role: domain.RoleUser}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := userContext(e, http.MethodGet, "/users/3", "", 1, domain.RoleAdmin, "3")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Get_MalformedID(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		getFn: func(ctx context.Context, id int64) (*domain.User, error) {
			t.Fatalf("service must not be reached")
			return nil, nil
		},
	}
	h := NewUserHandler(stub)

	// The id fails validation before any ownership decision: a requester
	// who would be forbidden still sees 400, not 403.
	c, _ := userContext(e, http.MethodGet, "/users/abc", "", 2, domain.RoleUser, "abc")
	err := h.Get(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestUserHandler_Update_RoleChangeByNonAdmin(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		updateFn: func(ctx context.Context, id int64, input ports.UpdateUserInput) (*domain.User, error) {
			t.Fatalf("service must not be reached")
			return nil, nil
		},
	}
	h := NewUserHandler(stub)

	// Even on the requester's own profile a role change is admin-only.
	c, _ := userContext(e, http.MethodPut, "/users/2", `{"role":"admin"}`, 2, domain.RoleUser, "2")
	if err := h.Update(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserHandler_Update_RoleChangeByAdmin(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		updateFn: func(ctx context.Context, id int64, input ports.UpdateUserInput) (*domain.User, error) {
			if input.Role == nil || *input.Role != domain.RoleAdmin {
				t.Fatalf("expected role patch, got %+v", input)
			}
			return &domain.User{ID: id, Name: "Bob", Email: "bob@example.com", Role: domain.RoleAdmin}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := userContext(e, http.MethodPut, "/users/2", `{"role":"admin"}`, 1, domain.RoleAdmin, "2")
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Update_SelfProfile(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		updateFn: func(ctx context.Context, id int64, input ports.UpdateUserInput) (*domain.User, error) {
			if input.Name == nil || *input.Name != "Bobby" {
				t.Fatalf("expected name patch, got %+v", input)
			}
			return &domain.User{ID: id, Name: *input.Name, Email: "bob@example.com", Role: domain.RoleUser}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := userContext(e, http.MethodPut, "/users/2", `{"name":"Bobby"}`, 2, domain.RoleUser, "2")
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Update_EmptyPatch(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		updateFn: func(ctx context.Context, id int64, input ports.UpdateUserInput) (*domain.User, error) {
			t.Fatalf("service must not be reached")
			return nil, nil
		},
	}
	h := NewUserHandler(stub)

	c, _ := userContext(e, http.MethodPut, "/users/2", `{}`, 2, domain.RoleUser, "2")
	err := h.Update(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty patch, got %v", err)
	}
}

func TestUserHandler_Update_NotFound(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		updateFn: func(ctx context.Context, id int64, input ports.UpdateUserInput) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	h := NewUserHandler(stub)

	c, _ := userContext(e, http.MethodPut, "/users/9", `{"name":"Nobody"}`, 9, domain.RoleUser, "9")
	if err := h.Update(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserHandler_Delete_Self(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		deleteFn: func(ctx context.Context, id int64) (*domain.User, error) {
			return &domain.User{ID: id, Name: "Bob", Email: "bob@example.com", Role: domain.RoleUser}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := userContext(e, http.MethodDelete, "/users/2", "", 2, domain.RoleUser, "2")
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if _, ok := resp["deletedUser"].(map[string]any); !ok {
		t.Fatalf("expected deletedUser in response: %v", resp)
	}
}

func TestUserHandler_Delete_OtherForbidden(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		deleteFn: func(ctx context.Context, id int64) (*domain.User, error) {
			t.Fatalf("service must not be reached")
			return nil, nil
		},
	}
	h := NewUserHandler(stub)

	c, _ := userContext(e, http.MethodDelete, "/users/3", "", 2, domain.RoleUser, "3")
	if err := h.Delete(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
