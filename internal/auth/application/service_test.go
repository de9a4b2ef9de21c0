package application

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/wyfcoding/prm/internal/auth/domain"
)

type fakeUserRepo struct {
	byEmail map[string]*domain.User
}

func (f *fakeUserRepo) Save(ctx context.Context, user *domain.User) error {
	if f.byEmail == nil {
		f.byEmail = map[string]*domain.User{}
	}
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeUserRepo) GetByUserID(ctx context.Context, userID string) (*domain.User, error) {
	for _, u := range f.byEmail {
		if u.UserID == userID {
			return u, nil
		}
	}
	return nil, nil
}

type fakeSessionRepo struct {
	byToken map[string]*domain.AuthSession
}

func (f *fakeSessionRepo) Save(ctx context.Context, session *domain.AuthSession) error {
	if f.byToken == nil {
		f.byToken = map[string]*domain.AuthSession{}
	}
	f.byToken[session.Token] = session
	return nil
}

func (f *fakeSessionRepo) Get(ctx context.Context, token string) (*domain.AuthSession, error) {
	return f.byToken[token], nil
}

func (f *fakeSessionRepo) Delete(ctx context.Context, token string) error {
	delete(f.byToken, token)
	return nil
}

func newService() (*AuthService, *fakeSessionRepo) {
	sessions := &fakeSessionRepo{}
	return NewAuthService(&fakeUserRepo{}, sessions, slog.Default()), sessions
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	userID, err := svc.Register(ctx, RegisterCommand{Email: "a@b.c", Password: "secret", Name: "A"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if userID == "" {
		t.Fatal("empty user id")
	}

	token, exp, err := svc.Login(ctx, LoginCommand{Email: "a@b.c", Password: "secret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" || exp <= time.Now().Unix() {
		t.Fatalf("bad session: token=%q exp=%d", token, exp)
	}

	got, err := svc.ValidateToken(ctx, token)
	if err != nil || got != userID {
		t.Fatalf("ValidateToken = %q, %v; want %q", got, err, userID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterCommand{Email: "a@b.c", Password: "x"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, RegisterCommand{Email: "a@b.c", Password: "y"}); err != domain.ErrEmailTaken {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterCommand{Email: "a@b.c", Password: "right"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := svc.Login(ctx, LoginCommand{Email: "a@b.c", Password: "wrong"}); err != domain.ErrInvalidCredentials {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(ctx, LoginCommand{Email: "nobody@b.c", Password: "x"}); err != domain.ErrInvalidCredentials {
		t.Fatalf("unknown user err = %v, want ErrInvalidCredentials", err)
	}
}

func TestValidateTokenRejectsBadTokens(t *testing.T) {
	svc, sessions := newService()
	ctx := context.Background()

	if _, err := svc.ValidateToken(ctx, ""); err != domain.ErrUnauthorized {
		t.Fatalf("empty token err = %v, want ErrUnauthorized", err)
	}
	if _, err := svc.ValidateToken(ctx, "missing"); err != domain.ErrUnauthorized {
		t.Fatalf("unknown token err = %v, want ErrUnauthorized", err)
	}

	expired := &domain.AuthSession{Token: "old", UserID: "USR1", ExpiresAt: time.Now().Add(-time.Minute)}
	if err := sessions.Save(ctx, expired); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := svc.ValidateToken(ctx, "old"); err != domain.ErrUnauthorized {
		t.Fatalf("expired token err = %v, want ErrUnauthorized", err)
	}
}

func TestLogoutRemovesSession(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterCommand{Email: "a@b.c", Password: "secret"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	token, _, err := svc.Login(ctx, LoginCommand{Email: "a@b.c", Password: "secret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.ValidateToken(ctx, token); err != domain.ErrUnauthorized {
		t.Fatalf("err after logout = %v, want ErrUnauthorized", err)
	}
}
