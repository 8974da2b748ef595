package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/salesdesk/sales-management/internal/core/domain"
	"github.com/salesdesk/sales-management/internal/core/ports"
)

type stubUserService struct {
	registerFn      func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn         func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	getProfileFn    func(ctx context.Context, userID string) (*domain.User, error)
	updateProfileFn func(ctx context.Context, userID string, in ports.UpdateProfileInput) (*domain.User, error)
	listFn          func(ctx context.Context, f ports.UserListFilter) (*domain.Page[*domain.User], error)
	getFn           func(ctx context.Context, id string) (*domain.User, error)
	updateFn        func(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error)
	deleteFn        func(ctx context.Context, id string) error
}

func (s *stubUserService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}
func (s *stubUserService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}
func (s *stubUserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.getProfileFn(ctx, userID)
}
func (s *stubUserService) UpdateProfile(ctx context.Context, userID string, in ports.UpdateProfileInput) (*domain.User, error) {
	return s.updateProfileFn(ctx, userID, in)
}
func (s *stubUserService) ListUsers(ctx context.Context, f ports.UserListFilter) (*domain.Page[*domain.User], error) {
	return s.listFn(ctx, f)
}
func (s *stubUserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}
func (s *stubUserService) UpdateUser(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, id, in)
}
func (s *stubUserService) DeleteUser(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func TestUserHandler_Register_Success(t *testing.T) {
	stub := &stubUserService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			if in.Email != "ana@example.com" || in.FirstName != "Ana" || in.Role != "" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.AuthResult{
				User:  &domain.User{ID: "u-1", Email: in.Email, FirstName: in.FirstName, LastName: in.LastName, Role: domain.RoleSalesRep},
				Token: "signed",
			}, nil
		},
	}

	body := strings.NewReader(`{"email":"ana@example.com","password":"secret1","firstName":"Ana","lastName":"Diaz"}`)
	c, rec := newTestContext(http.MethodPost, "/api/users/register", body, nil)

	if err := NewUserHandler(stub).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	decodeBody(t, rec, &resp)
	if resp["token"] != "signed" {
		t.Fatalf("expected token in response, got %+v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["role"] != domain.RoleSalesRep || user["firstName"] != "Ana" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, leaked := user["passwordHash"]; leaked {
		t.Fatalf("password hash must not be serialised")
	}
}

func TestUserHandler_Register_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"missing email", `{"password":"secret1","firstName":"A","lastName":"B"}`, "email is required"},
		{"short password", `{"email":"a@b.co","password":"123","firstName":"A","lastName":"B"}`, "password must be at least 6 characters"},
		{"bad role", `{"email":"a@b.co","password":"secret1","firstName":"A","lastName":"B","role":"owner"}`, "role must be one of"},
		{"malformed json", `{"email":`, "Invalid request payload"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubUserService{
				registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
					t.Fatalf("service must not be called")
					return nil, nil
				},
			}
			c, _ := newTestContext(http.MethodPost, "/api/users/register", strings.NewReader(tc.body), nil)

			err := NewUserHandler(stub).Register(c)
			expectKind(t, err, domain.KindInvalidPayload)
			if !strings.Contains(domain.MessageOf(err), tc.want) {
				t.Fatalf("expected message containing %q, got %q", tc.want, domain.MessageOf(err))
			}
		})
	}
}

func TestUserHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubUserService{
		loginFn: func(ctx context.Context, email, password string) (*ports.AuthResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	c, _ := newTestContext(http.MethodPost, "/api/users/login", strings.NewReader(`{"email":"a@b.co","password":"nope"}`), nil)

	err := NewUserHandler(stub).Login(c)
	expectKind(t, err, domain.KindInvalidCredential)
}

func TestUserHandler_GetProfile_UsesSubject(t *testing.T) {
	stub := &stubUserService{
		getProfileFn: func(ctx context.Context, userID string) (*domain.User, error) {
			if userID != "u-7" {
				t.Fatalf("expected subject u-7, got %s", userID)
			}
			return &domain.User{ID: userID, Email: "me@example.com"}, nil
		},
	}
	c, rec := newTestContext(http.MethodGet, "/api/users/profile", nil, &domain.Claims{SubjectID: "u-7", Role: domain.RoleSalesRep})

	if err := NewUserHandler(stub).GetProfile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_GetProfile_WithoutClaims(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "/api/users/profile", nil, nil)

	err := NewUserHandler(&stubUserService{}).GetProfile(c)
	expectKind(t, err, domain.KindMissingCredential)
}

func TestUserHandler_UpdateProfile_PartialFields(t *testing.T) {
	stub := &stubUserService{
		updateProfileFn: func(ctx context.Context, userID string, in ports.UpdateProfileInput) (*domain.User, error) {
			if in.FirstName == nil || *in.FirstName != "Bea" {
				t.Fatalf("expected firstName to be set")
			}
			if in.Email != nil || in.Password != nil || in.LastName != nil {
				t.Fatalf("unexpected fields set: %+v", in)
			}
			return &domain.User{ID: userID, FirstName: *in.FirstName}, nil
		},
	}
	c, rec := newTestContext(http.MethodPut, "/api/users/profile", strings.NewReader(`{"firstName":"Bea"}`), &domain.Claims{SubjectID: "u-1", Role: domain.RoleManager})

	if err := NewUserHandler(stub).UpdateProfile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_List_ParsesQuery(t *testing.T) {
	stub := &stubUserService{
		listFn: func(ctx context.Context, f ports.UserListFilter) (*domain.Page[*domain.User], error) {
			if f.Role != domain.RoleManager || f.Search != "ana" || f.Sort != "-email" {
				t.Fatalf("unexpected filter: %+v", f)
			}
			if f.Page.Page != 2 || f.Page.Limit != 100 {
				t.Fatalf("expected page 2 with capped limit, got %+v", f.Page)
			}
			return &domain.Page[*domain.User]{
				Data:       []*domain.User{},
				Pagination: domain.NewPagination(0, f.Page),
			}, nil
		},
	}
	c, rec := newTestContext(http.MethodGet, "/api/users?role=manager&search=ana&sort=-email&page=2&limit=500", nil, nil)

	if err := NewUserHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		Data       []any             `json:"data"`
		Pagination domain.Pagination `json:"pagination"`
	}
	decodeBody(t, rec, &resp)
	if resp.Data == nil || resp.Pagination.Page != 2 {
		t.Fatalf("unexpected listing: %+v", resp)
	}
}

func TestUserHandler_Delete(t *testing.T) {
	deleted := ""
	stub := &stubUserService{
		deleteFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	c, rec := newTestContext(http.MethodDelete, "/", nil, nil)
	c.SetParamNames("id")
	c.SetParamValues("u-9")

	if err := NewUserHandler(stub).Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || deleted != "u-9" {
		t.Fatalf("expected 204 deleting u-9, got %d deleting %q", rec.Code, deleted)
	}
}
