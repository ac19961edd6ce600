package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/almasbek/fightcard/models"
	"github.com/almasbek/fightcard/repositories"
)

type fakeUserRepo struct {
	users map[int64]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*models.User)}
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	u, ok := f.users[telegramID]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) Upsert(ctx context.Context, user *models.User) error {
	if existing, ok := f.users[user.TelegramID]; ok {
		user.ID = existing.ID
	} else {
		user.ID = len(f.users) + 1
	}
	f.users[user.TelegramID] = user
	return nil
}

const testBotToken = "12345:test-bot-token"

// signTelegramInput fills in the hash the way Telegram computes it.
func signTelegramInput(input *TelegramLoginInput, botToken string) {
	fields := []string{
		"auth_date=" + strconv.FormatInt(input.AuthDate, 10),
		"first_name=" + input.FirstName,
		"id=" + strconv.FormatInt(input.ID, 10),
	}
	if input.LastName != nil {
		fields = append(fields, "last_name="+*input.LastName)
	}
	if input.PhotoURL != nil {
		fields = append(fields, "photo_url="+*input.PhotoURL)
	}
	if input.Username != nil {
		fields = append(fields, "username="+*input.Username)
	}
	sort.Strings(fields)

	secret := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(strings.Join(fields, "\n")))
	input.Hash = hex.EncodeToString(mac.Sum(nil))
}

func strPtr(s string) *string { return &s }

func newTestAuthService(userRepo repositories.UserRepository, adminHash string) AuthService {
	return NewAuthService(userRepo, testBotToken, "test-secret", "admin", adminHash)
}

func TestTelegramLoginSuccess(t *testing.T) {
	userRepo := newFakeUserRepo()
	service := newTestAuthService(userRepo, "")

	input := TelegramLoginInput{
		ID:        42,
		FirstName: "Islam",
		Username:  strPtr("islam_m"),
		AuthDate:  time.Now().Unix(),
	}
	signTelegramInput(&input, testBotToken)

	user, token, err := service.LoginWithTelegram(context.Background(), input)
	require.NoError(t, err)

	assert.NotEmpty(t, token)
	assert.Equal(t, int64(42), user.TelegramID)
	assert.Equal(t, "Islam", user.FirstName)
	assert.NotZero(t, user.ID)

	// Second login with fresh payload updates the same account.
	input2 := TelegramLoginInput{
		ID:        42,
		FirstName: "Islam",
		Username:  strPtr("islam_new"),
		AuthDate:  time.Now().Unix(),
	}
	signTelegramInput(&input2, testBotToken)
	user2, _, err := service.LoginWithTelegram(context.Background(), input2)
	require.NoError(t, err)
	assert.Equal(t, user.ID, user2.ID)
	assert.Equal(t, "islam_new", *user2.Username)
}

func TestTelegramLoginRejectsTamperedPayload(t *testing.T) {
	service := newTestAuthService(newFakeUserRepo(), "")

	input := TelegramLoginInput{
		ID:        42,
		FirstName: "Islam",
		AuthDate:  time.Now().Unix(),
	}
	signTelegramInput(&input, testBotToken)
	input.FirstName = "Impostor"

	_, _, err := service.LoginWithTelegram(context.Background(), input)
	assert.ErrorIs(t, err, ErrTelegramAuthInvalid)
}

func TestTelegramLoginRejectsWrongBotToken(t *testing.T) {
	service := newTestAuthService(newFakeUserRepo(), "")

	input := TelegramLoginInput{
		ID:        42,
		FirstName: "Islam",
		AuthDate:  time.Now().Unix(),
	}
	signTelegramInput(&input, "99999:another-bot")

	_, _, err := service.LoginWithTelegram(context.Background(), input)
	assert.ErrorIs(t, err, ErrTelegramAuthInvalid)
}

func TestTelegramLoginRejectsStalePayload(t *testing.T) {
	service := newTestAuthService(newFakeUserRepo(), "")

	input := TelegramLoginInput{
		ID:        42,
		FirstName: "Islam",
		AuthDate:  time.Now().Add(-25 * time.Hour).Unix(),
	}
	signTelegramInput(&input, testBotToken)

	_, _, err := service.LoginWithTelegram(context.Background(), input)
	assert.ErrorIs(t, err, ErrTelegramAuthExpired)
}

func TestAdminLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	service := newTestAuthService(newFakeUserRepo(), string(hash))

	token, err := service.LoginAdmin(context.Background(), AdminLoginInput{Username: "admin", Password: "hunter2"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = service.LoginAdmin(context.Background(), AdminLoginInput{Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, ErrAuthInvalidCredentials)

	_, err = service.LoginAdmin(context.Background(), AdminLoginInput{Username: "root", Password: "hunter2"})
	assert.ErrorIs(t, err, ErrAuthInvalidCredentials)
}
