package service

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/studysmarter/studysmarter-api/internal/dto"
	"github.com/studysmarter/studysmarter-api/internal/models"
	"github.com/studysmarter/studysmarter-api/internal/repository"
	appErrors "github.com/studysmarter/studysmarter-api/pkg/errors"
)

type userRepoMock struct {
	nextID int64
	users  map[int64]models.User
}

func newUserRepoMock() *userRepoMock {
	return &userRepoMock{users: make(map[int64]models.User)}
}

func (m *userRepoMock) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range m.users {
		if strings.EqualFold(user.Email, email) {
			cp := user
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *userRepoMock) FindByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := user
	return &cp, nil
}

func (m *userRepoMock) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(ctx, email)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func (m *userRepoMock) Create(ctx context.Context, user *models.User) error {
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now().UTC()
	m.users[user.ID] = *user
	return nil
}

func newTestAuthService(repo *userRepoMock) *AuthService {
	return NewAuthService(repo, repository.NewMemoryRevocationStore(), nil, zap.NewNop(), AuthConfig{
		Secret:     "test_secret",
		Expiration: time.Hour,
		Issuer:     "studysmarter-test",
	})
}

func seedUser(t *testing.T, repo *userRepoMock) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{Username: "alice", Email: "alice@example.com", PasswordHash: string(hash)}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestAuthServiceRegister(t *testing.T) {
	repo := newUserRepoMock()
	svc := newTestAuthService(repo)

	info, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", info.Username)
	assert.NotZero(t, info.ID)

	// The stored password is hashed, never plaintext.
	stored := repo.users[info.ID]
	assert.NotEqual(t, "correct horse", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct horse")))
}

func TestAuthServiceRegisterDuplicateEmail(t *testing.T) {
	repo := newUserRepoMock()
	seedUser(t, repo)
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusConflict, appErr.Status)
}

func TestAuthServiceRegisterInvalidPayload(t *testing.T) {
	svc := newTestAuthService(newUserRepoMock())

	_, err := svc.Register(context.Background(), dto.RegisterRequest{Username: "a", Email: "not-an-email", Password: "short"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
}

func TestAuthServiceLoginAndValidate(t *testing.T) {
	repo := newUserRepoMock()
	user := seedUser(t, repo)
	svc := newTestAuthService(repo)

	token, err := svc.Login(context.Background(), dto.LoginRequest{Email: "alice@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, user.ID, token.User.ID)

	claims, err := svc.ValidateToken(context.Background(), token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.NotEmpty(t, claims.ID)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	repo := newUserRepoMock()
	seedUser(t, repo)
	svc := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	svc := newTestAuthService(newUserRepoMock())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)
}

func TestAuthServiceLogoutRevokesToken(t *testing.T) {
	repo := newUserRepoMock()
	seedUser(t, repo)
	svc := newTestAuthService(repo)

	token, err := svc.Login(context.Background(), dto.LoginRequest{Email: "alice@example.com", Password: "correct horse"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), claims))

	_, err = svc.ValidateToken(context.Background(), token.AccessToken)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)
	assert.Equal(t, "token has been revoked", appErr.Message)
}

func TestAuthServiceValidateGarbageToken(t *testing.T) {
	svc := newTestAuthService(newUserRepoMock())

	_, err := svc.ValidateToken(context.Background(), "not.a.token")
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)
}

func TestAuthServiceMe(t *testing.T) {
	repo := newUserRepoMock()
	user := seedUser(t, repo)
	svc := newTestAuthService(repo)

	info, err := svc.Me(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, info.Email)

	_, err = svc.Me(context.Background(), 404)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}
