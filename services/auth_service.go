package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/kendall-kelly/furniture-store-api/models"
	"github.com/kendall-kelly/furniture-store-api/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// NewUserInput carries the fields needed to create an account
type NewUserInput struct {
	Username   string
	Email      string
	Password   string
	Phone      string
	Address    string
	AccountPic string
	IsAdmin    bool
}

// AuthResult is returned by Register and Login
type AuthResult struct {
	Token string
	User  *models.User
}

// AuthService handles credential verification and token issuance/revocation
type AuthService struct {
	db         *gorm.DB
	tokens     TokenStore
	bcryptCost int
}

var authServiceInstance *AuthService

// NewAuthService creates an auth service over the user table and a token store
func NewAuthService(db *gorm.DB, tokens TokenStore, bcryptCost int) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{db: db, tokens: tokens, bcryptCost: bcryptCost}
}

// InitAuthService creates the process-wide auth service
func InitAuthService(db *gorm.DB, tokens TokenStore, bcryptCost int) *AuthService {
	authServiceInstance = NewAuthService(db, tokens, bcryptCost)
	return authServiceInstance
}

// GetAuthService returns the initialized auth service instance
func GetAuthService() *AuthService {
	return authServiceInstance
}

// SetAuthService sets the auth service instance (primarily for testing)
func SetAuthService(service *AuthService) {
	authServiceInstance = service
}

// Tokens exposes the underlying token store
func (s *AuthService) Tokens() TokenStore {
	return s.tokens
}

// HashPassword hashes a plaintext password with bcrypt
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", utils.NewServerError("HASH_ERROR", "Failed to hash password", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the user's stored hash
func CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// CreateUser validates uniqueness and stores a new user with a hashed password.
// Email is checked before username.
func (s *AuthService) CreateUser(ctx context.Context, in NewUserInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, utils.NewValidationError("MISSING_FIELDS", "Please provide email, username and password")
	}
	if err := utils.ValidateBase64Image("account_pic", in.AccountPic); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := s.checkUnique(db, in.Email, in.Username, 0); err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Phone:        in.Phone,
		Address:      in.Address,
		AccountPic:   in.AccountPic,
		IsAdmin:      in.IsAdmin,
	}
	if err := db.Create(user).Error; err != nil {
		if utils.IsDuplicateKeyError(err) {
			// Lost a race with a concurrent registration
			if uniqueErr := s.checkUnique(db, in.Email, in.Username, 0); uniqueErr != nil {
				return nil, uniqueErr
			}
			return nil, utils.NewValidationError("DUPLICATE_USER", "Username or email already exists")
		}
		return nil, utils.NewServerError("DATABASE_ERROR", "Failed to create user", err)
	}

	return user, nil
}

// CheckUnique reports a validation error when email or username belongs to
// an account other than exceptID
func (s *AuthService) CheckUnique(ctx context.Context, email, username string, exceptID uint) error {
	return s.checkUnique(s.db.WithContext(ctx), email, username, exceptID)
}

func (s *AuthService) checkUnique(db *gorm.DB, email, username string, exceptID uint) error {
	var count int64
	if email != "" {
		if err := db.Model(&models.User{}).Where("email = ? AND id <> ?", email, exceptID).Count(&count).Error; err != nil {
			return utils.NewServerError("DATABASE_ERROR", "Failed to check email", err)
		}
		if count > 0 {
			return utils.NewValidationError("EMAIL_EXISTS", "Email already exists")
		}
	}
	if username != "" {
		if err := db.Model(&models.User{}).Where("username = ? AND id <> ?", username, exceptID).Count(&count).Error; err != nil {
			return utils.NewServerError("DATABASE_ERROR", "Failed to check username", err)
		}
		if count > 0 {
			return utils.NewValidationError("USERNAME_EXISTS", "Username already exists")
		}
	}
	return nil
}

// Register creates an account and issues its first token
func (s *AuthService) Register(ctx context.Context, in NewUserInput) (*AuthResult, error) {
	in.IsAdmin = false
	user, err := s.CreateUser(ctx, in)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		// Do not leave an account behind that the caller never got a token for
		if delErr := s.db.WithContext(ctx).Delete(user).Error; delErr != nil {
			slog.Error("Failed to roll back user after token failure", "user_id", user.ID, "error", delErr)
		}
		return nil, utils.NewServerError("TOKEN_ERROR", "Failed to issue token", err)
	}

	slog.Info("User registered", "user_id", user.ID)
	return &AuthResult{Token: token, User: user}, nil
}

// Login verifies credentials and issues (or reuses) the user's token.
// Unknown users and wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, utils.NewAuthError("MISSING_CREDENTIALS", "Please provide both email and password")
	}

	invalid := utils.NewAuthError("INVALID_CREDENTIALS", "Invalid credentials")

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Accept a username in the email field as well
		err = s.db.WithContext(ctx).Where("username = ?", email).First(&user).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, utils.NewServerError("DATABASE_ERROR", "Failed to look up user", err)
	}

	if !CheckPassword(&user, password) {
		return nil, invalid
	}

	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, utils.NewServerError("TOKEN_ERROR", "Failed to issue token", err)
	}

	return &AuthResult{Token: token, User: &user}, nil
}

// Logout revokes the token; an already revoked token is a no-op
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.tokens.Revoke(ctx, token); err != nil {
		return utils.NewServerError("LOGOUT_FAILED", "Failed to log out", err)
	}
	return nil
}

// ValidateToken returns the user bound to token
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, utils.NewAuthError("MISSING_TOKEN", "Authentication credentials were not provided")
	}

	userID, err := s.tokens.Lookup(ctx, token)
	if errors.Is(err, ErrTokenNotFound) {
		return nil, utils.NewAuthError("INVALID_TOKEN", "Invalid token")
	}
	if err != nil {
		return nil, utils.NewServerError("TOKEN_ERROR", "Failed to validate token", err)
	}

	var user models.User
	err = s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NewAuthError("INVALID_TOKEN", "Invalid token")
	}
	if err != nil {
		return nil, utils.NewServerError("DATABASE_ERROR", "Failed to load user", err)
	}

	return &user, nil
}

// CreateAdmin creates an administrator account without issuing a token
func (s *AuthService) CreateAdmin(ctx context.Context, in NewUserInput) (*models.User, error) {
	in.IsAdmin = true
	user, err := s.CreateUser(ctx, in)
	if err != nil {
		return nil, err
	}
	slog.Info("Admin account created", "user_id", user.ID, "username", user.Username)
	return user, nil
}
