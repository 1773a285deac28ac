package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"alumninet/cmd/internal/access"
	"alumninet/cmd/internal/contract"
	"alumninet/cmd/internal/domain/entity"
	cognitoclient "alumninet/cmd/internal/infrastructure/aws/cognito"
	"alumninet/cmd/internal/utils/apierror"
)

type authFixture struct {
	svc      *AuthService
	profiles *fakeProfileRepo
	cognito  *fakeCognito
	s3       *fakeS3
	revoked  *fakeRevocations
	conns    *fakeConnRepo
	gateway  *fakeGateway
	verifier *fakeVerifier
}

func newAuthFixture(profiles ...*entity.Profile) *authFixture {
	f := &authFixture{
		profiles: newFakeProfileRepo(profiles...),
		cognito:  &fakeCognito{sub: "sub-1"},
		s3:       newFakeS3(),
		revoked:  newFakeRevocations(),
		conns:    newFakeConnRepo(),
		gateway:  newFakeGateway(),
		verifier: &fakeVerifier{},
	}
	ws := NewWebSocketService(f.conns, f.gateway)
	f.svc = NewAuthService(f.profiles, newValidator(), f.cognito, f.verifier, f.revoked, f.s3, ws)
	return f
}

func validRegister() *contract.RegisterRequest {
	return &contract.RegisterRequest{
		Email:          "ana@example.com",
		Password:       "Sup3r$ecret",
		FullName:       "  Ana Souza ",
		Degree:         "Computer Science",
		GraduationYear: "2019",
	}
}

// newFileHeader builds a multipart.FileHeader the way echo hands it to handlers.
func newFileHeader(t *testing.T, field, filename string, data []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = part.Write(data); err != nil {
		t.Fatal(err)
	}
	if err = w.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err = req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatal(err)
	}
	return req.MultipartForm.File[field][0]
}

func TestAuthService_Register(t *testing.T) {
	f := newAuthFixture()

	resp, apierr := f.svc.Register(context.Background(), validRegister(), nil)
	if apierr != nil {
		t.Fatalf("unexpected error: %#v", apierr)
	}

	if resp.ID != "sub-1" || resp.FullName != "Ana Souza" {
		t.Errorf("unexpected response: %+v", resp)
	}

	saved := f.profiles.get("sub-1")
	if saved == nil {
		t.Fatal("profile was not saved")
	}
	if saved.Role != entity.RoleMember || saved.IsVerified {
		t.Errorf("new profiles must be unverified members, got role=%s verified=%v", saved.Role, saved.IsVerified)
	}
}

func TestAuthService_RegisterWithAvatar(t *testing.T) {
	f := newAuthFixture()
	avatar := newFileHeader(t, "avatar", "me.png", []byte("png-bytes"))

	resp, apierr := f.svc.Register(context.Background(), validRegister(), avatar)
	if apierr != nil {
		t.Fatalf("unexpected error: %#v", apierr)
	}

	key := f.profiles.get("sub-1").AvatarKey
	if !strings.HasPrefix(key, "avatars/sub-1/") || !strings.HasSuffix(key, ".png") {
		t.Errorf("unexpected avatar key %q", key)
	}
	if !f.s3.has(key) {
		t.Error("avatar was not uploaded")
	}
	if resp.AvatarURL != "https://cdn.test/"+key {
		t.Errorf("unexpected avatar url %q", resp.AvatarURL)
	}
}

func TestAuthService_RegisterRejections(t *testing.T) {
	existing := &entity.Profile{ID: "other", Email: "ANA@example.com"}

	tests := []struct {
		name   string
		mutate func(*contract.RegisterRequest)
		seed   []*entity.Profile
		want   int
	}{
		{"weak password", func(r *contract.RegisterRequest) { r.Password = "password" }, nil, 400},
		{"bad graduation year", func(r *contract.RegisterRequest) { r.GraduationYear = "19" }, nil, 400},
		{"bad email", func(r *contract.RegisterRequest) { r.Email = "ana" }, nil, 400},
		{"existing email", func(*contract.RegisterRequest) {}, []*entity.Profile{existing}, 409},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(tt.seed...)
			req := validRegister()
			tt.mutate(req)

			_, apierr := f.svc.Register(context.Background(), req, nil)
			if apierr == nil || apierr.Code() != tt.want {
				t.Fatalf("expected %d, got %#v", tt.want, apierr)
			}
			if len(f.cognito.deletedSubs()) != 0 {
				t.Error("nothing should have been signed up")
			}
		})
	}
}

func TestAuthService_RegisterRevertsIdentityOnSaveFailure(t *testing.T) {
	f := newAuthFixture()
	f.profiles.saveErr = errBackend

	_, apierr := f.svc.Register(context.Background(), validRegister(), nil)
	if apierr != apierror.InternalServerError {
		t.Fatalf("expected internal error, got %#v", apierr)
	}

	if got := f.cognito.deletedSubs(); len(got) != 1 || got[0] != "sub-1" {
		t.Errorf("expected sign up of sub-1 to be reverted, got %v", got)
	}
}

func TestAuthService_LoginLanding(t *testing.T) {
	tests := []struct {
		name string
		role entity.Role
		want string
	}{
		{"member lands on directory", entity.RoleMember, LandingMember},
		{"admin lands on dashboard", entity.RoleAdmin, LandingAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(&entity.Profile{ID: "sub-1", Email: "ana@example.com", Role: tt.role})
			f.cognito.signIn = &cognitoclient.AuthResult{IDToken: "id", AccessToken: "acc", RefreshToken: "ref", ExpiresIn: 3600}
			f.verifier.claims = &access.Claims{Subject: "sub-1"}

			res, apierr := f.svc.Login(context.Background(), &contract.LoginRequest{Email: "ana@example.com", Password: "Sup3r$ecret"})
			if apierr != nil {
				t.Fatalf("unexpected error: %#v", apierr)
			}

			if res.Response.Redirect != tt.want {
				t.Errorf("expected landing %s, got %s", tt.want, res.Response.Redirect)
			}
			if res.Tokens.IDToken != "id" || res.Tokens.RefreshToken != "ref" {
				t.Errorf("unexpected tokens: %+v", res.Tokens)
			}
		})
	}
}

func TestAuthService_LoginWithoutProfile(t *testing.T) {
	f := newAuthFixture()
	f.cognito.signIn = &cognitoclient.AuthResult{IDToken: "id", ExpiresIn: 3600}
	f.verifier.claims = &access.Claims{Subject: "ghost"}

	_, apierr := f.svc.Login(context.Background(), &contract.LoginRequest{Email: "ghost@example.com", Password: "Sup3r$ecret"})
	if apierr != apierror.IDPUserNotFoundError {
		t.Fatalf("expected user not found, got %#v", apierr)
	}
}

func TestAuthService_RefreshWithoutToken(t *testing.T) {
	f := newAuthFixture()

	if _, apierr := f.svc.Refresh(context.Background(), ""); apierr != apierror.InvalidAuthTokenError {
		t.Fatalf("expected invalid token error, got %#v", apierr)
	}
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture()
	_ = f.conns.Save(context.Background(), &entity.Connection{ConnectionID: "c1", UserID: "sub-1"})

	sess := &access.Session{State: access.Member, IdentityID: "sub-1", TokenID: "origin-1", ExpiresAt: 4102444800}
	f.svc.Logout(context.Background(), sess, "access-token")

	if !f.revoked.isRevoked("origin-1") {
		t.Error("session token was not revoked")
	}
	if len(f.cognito.signedOut) != 1 {
		t.Error("expected a global sign out")
	}
	eventually(t, func() bool { return f.conns.count() == 0 })
}

func TestAuthService_LogoutAnonymousIsNoop(t *testing.T) {
	f := newAuthFixture()

	f.svc.Logout(context.Background(), access.AnonymousSession(), "")

	if len(f.revoked.revoked) != 0 || len(f.cognito.signedOut) != 0 {
		t.Error("anonymous logout must not touch anything")
	}
}

func TestAuthService_Session(t *testing.T) {
	f := newAuthFixture()

	resp := f.svc.Session(&access.Session{State: access.Admin, IdentityID: "sub-1", Email: "a@b.c", ExpiresAt: 0})
	if resp.State != "admin" || resp.IdentityID != "sub-1" || resp.ExpiresAt != "" {
		t.Errorf("unexpected session response: %+v", resp)
	}
}
