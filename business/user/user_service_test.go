//go:build !integration

package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"vagaMatch/domain"
	"vagaMatch/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/pobyzaarif/goshortcute"
)

// 16-byte AES key, matching the deployment config shape.
const testVerificationKey = "0123456789abcdef"

type fakeUserRepo struct {
	byEmail map[string]domain.User
	byID    map[uint]domain.User
	nextID  uint

	verified []uint
	updated  []domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]domain.User),
		byID:    make(map[uint]domain.User),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.nextID++
	user.ID = f.nextID
	f.byEmail[user.Email] = *user
	f.byID[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return domain.User{}, errors.New("user not found")
	}
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, errors.New("user not found")
	}
	return user, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	f.byID[user.ID] = *user
	f.byEmail[user.Email] = *user
	f.updated = append(f.updated, *user)
	return nil
}

func (f *fakeUserRepo) UpdateEmailVerification(_ context.Context, id uint, isVerified bool) error {
	user := f.byID[id]
	user.IsVerified = isVerified
	f.byID[id] = user
	f.byEmail[user.Email] = user
	f.verified = append(f.verified, id)
	return nil
}

type fakeNotifier struct {
	sent []string
}

func (f *fakeNotifier) SendEmail(_, toEmail, _, message string) error {
	f.sent = append(f.sent, toEmail+"|"+message)
	return nil
}

type fakeSessions struct {
	stored  map[string]string
	deleted []string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{stored: make(map[string]string)}
}

func (f *fakeSessions) StoreSession(_ context.Context, userID, token, _, _, _ string, _ time.Duration) error {
	f.stored[userID] = token
	return nil
}

func (f *fakeSessions) ValidateToken(_ context.Context, token string) (string, error) {
	for userID, stored := range f.stored {
		if stored == token {
			return userID, nil
		}
	}
	return "", errors.New("session not found")
}

func (f *fakeSessions) DeleteSession(_ context.Context, userID, _ string) error {
	delete(f.stored, userID)
	f.deleted = append(f.deleted, userID)
	return nil
}

func newTestUserService(repo *fakeUserRepo, notif *fakeNotifier, sessions *fakeSessions) *userService {
	return NewUserService(repo, validator.New(), notif, sessions, testVerificationKey, "http://localhost:8080")
}

func TestRegister(t *testing.T) {
	repo := newFakeUserRepo()
	notif := &fakeNotifier{}
	svc := newTestUserService(repo, notif, newFakeSessions())

	created, err := svc.Register(context.Background(), &domain.User{
		FullName: "Ana Souza",
		Email:    "ana@uni.br",
		Password: "segredo1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created.Role != domain.RoleStudent || !created.IsStudent {
		t.Errorf("new accounts must be students, got %+v", created)
	}
	if created.IsVerified {
		t.Error("new accounts start unverified")
	}
	if created.Password != "" {
		t.Error("password must not leak in the response")
	}

	stored := repo.byEmail["ana@uni.br"]
	if stored.Password == "segredo1" || stored.Password == "" {
		t.Error("stored password must be hashed")
	}

	if len(notif.sent) != 1 || !strings.Contains(notif.sent[0], "/api/v1/users/email-verification/") {
		t.Errorf("expected a verification email with the activation link, got %v", notif.sent)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestUserService(newFakeUserRepo(), &fakeNotifier{}, newFakeSessions())

	if _, err := svc.Register(context.Background(), &domain.User{Email: "not-an-email", Password: "segredo1"}); err == nil {
		t.Error("malformed email must be rejected")
	}
	if _, err := svc.Register(context.Background(), &domain.User{Email: "ana@uni.br", Password: "abc"}); err == nil {
		t.Error("short password must be rejected")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo, &fakeNotifier{}, newFakeSessions())

	if _, err := svc.Register(context.Background(), &domain.User{Email: "ana@uni.br", Password: "segredo1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Register(context.Background(), &domain.User{Email: "ana@uni.br", Password: "outrasenha"}); err == nil {
		t.Error("duplicate email must be rejected")
	}
}

func TestLoginAndLogout(t *testing.T) {
	utils.InitJWT("test-secret")

	repo := newFakeUserRepo()
	sessions := newFakeSessions()
	svc := newTestUserService(repo, &fakeNotifier{}, sessions)

	hash, err := utils.HashPassword("segredo1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	repo.Create(context.Background(), &domain.User{
		FullName: "Ana Souza", Email: "ana@uni.br", Password: string(hash),
		Role: domain.RoleStudent, IsStudent: true, IsVerified: true,
	})

	token, loggedIn, err := svc.Login(context.Background(), "ana@uni.br", "segredo1", "10.0.0.1", "curl/8")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" || loggedIn.Password != "" {
		t.Errorf("expected a token and a sanitized user, got %q / %+v", token, loggedIn)
	}

	userID, err := svc.ValidateTokenFromRedis(context.Background(), token)
	if err != nil || userID != "1" {
		t.Errorf("session lookup = %q, %v", userID, err)
	}

	if _, _, err := svc.Login(context.Background(), "ana@uni.br", "senhaerrada", "10.0.0.1", "curl/8"); err == nil {
		t.Error("wrong password must be rejected")
	}

	if err := svc.Logout(context.Background(), loggedIn.ID, token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.ValidateTokenFromRedis(context.Background(), token); err == nil {
		t.Error("logged-out session must not validate")
	}
}

func TestLoginRequiresVerifiedEmail(t *testing.T) {
	utils.InitJWT("test-secret")

	repo := newFakeUserRepo()
	svc := newTestUserService(repo, &fakeNotifier{}, newFakeSessions())

	hash, _ := utils.HashPassword("segredo1")
	repo.Create(context.Background(), &domain.User{
		Email: "ana@uni.br", Password: string(hash), IsVerified: false,
	})

	if _, _, err := svc.Login(context.Background(), "ana@uni.br", "segredo1", "", ""); err == nil {
		t.Error("unverified accounts must not log in")
	}
}

func encodeVerificationCode(t *testing.T, email string, expAt int64) string {
	t.Helper()
	encrypted, err := goshortcute.AESCBCEncrypt([]byte(fmt.Sprintf("%v|%v", email, expAt)), []byte(testVerificationKey))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return goshortcute.StringtoBase64Encode(encrypted)
}

func TestVerifyEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo, &fakeNotifier{}, newFakeSessions())

	repo.Create(context.Background(), &domain.User{Email: "ana@uni.br", IsVerified: false})

	code := encodeVerificationCode(t, "ana@uni.br", time.Now().Add(5*time.Minute).Unix())
	if err := svc.VerifyEmail(context.Background(), code); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.byEmail["ana@uni.br"].IsVerified {
		t.Error("account must be verified after a valid code")
	}

	// Re-using the code against an already verified account fails.
	if err := svc.VerifyEmail(context.Background(), code); err == nil {
		t.Error("already verified accounts must reject the code")
	}
}

func TestVerifyEmailExpiredCode(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo, &fakeNotifier{}, newFakeSessions())

	repo.Create(context.Background(), &domain.User{Email: "ana@uni.br", IsVerified: false})

	code := encodeVerificationCode(t, "ana@uni.br", time.Now().Add(-time.Minute).Unix())
	if err := svc.VerifyEmail(context.Background(), code); err == nil {
		t.Error("expired codes must be rejected")
	}
	if repo.byEmail["ana@uni.br"].IsVerified {
		t.Error("expired code must not verify the account")
	}
}

func TestVerifyEmailGarbageCode(t *testing.T) {
	svc := newTestUserService(newFakeUserRepo(), &fakeNotifier{}, newFakeSessions())

	if err := svc.VerifyEmail(context.Background(), "nonsense"); err == nil {
		t.Error("garbage codes must be rejected")
	}
}

func TestUpdateProfile(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo, &fakeNotifier{}, newFakeSessions())

	hash, _ := utils.HashPassword("segredo1")
	repo.Create(context.Background(), &domain.User{
		FullName: "Ana Souza", Email: "ana@uni.br", Password: string(hash), IsVerified: true,
	})

	updated, err := svc.UpdateProfile(context.Background(), 1, &domain.User{FullName: "Ana S. Lima"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.FullName != "Ana S. Lima" {
		t.Errorf("name = %q, want updated name", updated.FullName)
	}

	if _, err := svc.UpdateProfile(context.Background(), 1, &domain.User{Password: "abc"}); err == nil {
		t.Error("short replacement password must be rejected")
	}
}
