package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/almasbek/fightcard/models"
	"github.com/almasbek/fightcard/repositories"
)

// telegramAuthMaxAge is how long a Telegram login payload stays acceptable.
const telegramAuthMaxAge = 24 * time.Hour

const tokenTTL = 72 * time.Hour

// TelegramLoginInput is the payload the Telegram Login Widget posts back.
// Hash is Telegram's HMAC over the remaining fields.
type TelegramLoginInput struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  *string `json:"last_name,omitempty"`
	Username  *string `json:"username,omitempty"`
	PhotoURL  *string `json:"photo_url,omitempty"`
	AuthDate  int64   `json:"auth_date"`
	Hash      string  `json:"hash"`
}

type AdminLoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthService interface {
	// LoginWithTelegram verifies the widget payload, upserts the user and
	// returns a signed token.
	LoginWithTelegram(ctx context.Context, input TelegramLoginInput) (*models.User, string, error)
	// LoginAdmin checks the static admin credentials and returns an admin token.
	LoginAdmin(ctx context.Context, input AdminLoginInput) (string, error)
}

type authService struct {
	userRepo          repositories.UserRepository
	botToken          string
	jwtSecret         string
	adminUsername     string
	adminPasswordHash string
}

func NewAuthService(userRepo repositories.UserRepository, botToken, jwtSecret, adminUsername, adminPasswordHash string) AuthService {
	return &authService{
		userRepo:          userRepo,
		botToken:          botToken,
		jwtSecret:         jwtSecret,
		adminUsername:     adminUsername,
		adminPasswordHash: adminPasswordHash,
	}
}

func (s *authService) LoginWithTelegram(ctx context.Context, input TelegramLoginInput) (*models.User, string, error) {
	if err := s.verifyTelegramHash(input); err != nil {
		return nil, "", err
	}

	authDate := time.Unix(input.AuthDate, 0).UTC()
	if time.Since(authDate) > telegramAuthMaxAge {
		return nil, "", ErrTelegramAuthExpired
	}

	user := &models.User{
		TelegramID: input.ID,
		Username:   input.Username,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		PhotoURL:   input.PhotoURL,
		AuthDate:   authDate,
	}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to upsert telegram user: %w", err)
	}

	token, err := s.issueToken(strconv.Itoa(user.ID), models.RoleUser)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// verifyTelegramHash checks the widget payload against the bot token per the
// Telegram Login Widget contract: the data-check-string is every field except
// hash, sorted, joined with newlines, and the HMAC key is SHA256(bot_token).
func (s *authService) verifyTelegramHash(input TelegramLoginInput) error {
	if input.Hash == "" || input.ID == 0 {
		return ErrTelegramAuthInvalid
	}

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
	dataCheckString := strings.Join(fields, "\n")

	secret := sha256.Sum256([]byte(s.botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(dataCheckString))
	expected := hex.EncodeToString(mac.Sum(nil))

	if subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToLower(input.Hash))) != 1 {
		return ErrTelegramAuthInvalid
	}
	return nil
}

func (s *authService) LoginAdmin(ctx context.Context, input AdminLoginInput) (string, error) {
	if input.Username != s.adminUsername {
		return "", ErrAuthInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.adminPasswordHash), []byte(input.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", ErrAuthInvalidCredentials
		}
		return "", fmt.Errorf("failed to compare admin password hash: %w", err)
	}
	return s.issueToken("admin", models.RoleAdmin)
}

func (s *authService) issueToken(subject string, role models.UserRole) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
