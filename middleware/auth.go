package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/furniture-store-api/models"
	"github.com/kendall-kelly/furniture-store-api/utils"
)

// Keys under which the authenticated caller is stored in the gin context
const (
	ContextUserKey   = "user"
	ContextUserIDKey = "user_id"
	ContextTokenKey  = "auth_token"
)

// TokenValidator resolves an opaque bearer token to its user
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*models.User, error)
}

// authenticatedCaller is what the token middleware stores under jwtmiddleware.ContextKey{}
type authenticatedCaller struct {
	User  *models.User
	Token string
}

// TokenExtractor reads "Authorization: Bearer <token>", also accepting the "Token <token>" scheme.
// A missing header yields an empty token.
func TokenExtractor(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", nil
	}
	scheme, token, ok := strings.Cut(header, " ")
	if ok && strings.EqualFold(scheme, "Token") {
		return strings.TrimSpace(token), nil
	}
	return jwtmiddleware.AuthHeaderTokenExtractor(r)
}

// RequireAuth rejects requests without a valid token with 401
func RequireAuth(validator TokenValidator) gin.HandlerFunc {
	return tokenAuth(validator, false)
}

// OptionalAuth lets anonymous requests through but still rejects an invalid token
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return tokenAuth(validator, true)
}

func tokenAuth(validator TokenValidator, credentialsOptional bool) gin.HandlerFunc {
	validate := func(ctx context.Context, token string) (interface{}, error) {
		user, err := validator.ValidateToken(ctx, token)
		if err != nil {
			return nil, err
		}
		return &authenticatedCaller{User: user, Token: token}, nil
	}

	middleware := jwtmiddleware.New(
		validate,
		jwtmiddleware.WithTokenExtractor(TokenExtractor),
		jwtmiddleware.WithCredentialsOptional(credentialsOptional),
		jwtmiddleware.WithErrorHandler(writeAuthError),
	)

	return func(c *gin.Context) {
		passed := false
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			passed = true
			if caller, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*authenticatedCaller); ok {
				c.Set(ContextUserKey, caller.User)
				c.Set(ContextUserIDKey, caller.User.ID)
				c.Set(ContextTokenKey, caller.Token)
			}
			c.Request = r
			c.Next()
		}

		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)

		// The error handler has already written the response
		if !passed {
			c.Abort()
		}
	}
}

func writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := authErrorFor(err)
	if apiErr.Kind == utils.KindServer {
		slog.Error("Token validation failed", "error", err, "path", r.URL.Path)
	} else {
		slog.Debug("Rejected request token", "code", apiErr.Code, "path", r.URL.Path)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(apiErr.Status())
	if encodeErr := json.NewEncoder(w).Encode(utils.ErrorBody(apiErr)); encodeErr != nil {
		slog.Error("Failed to write error response", "error", encodeErr)
	}
}

func authErrorFor(err error) *utils.APIError {
	if errors.Is(err, jwtmiddleware.ErrJWTMissing) {
		return utils.NewAuthError("MISSING_TOKEN", "Authentication credentials were not provided")
	}
	var apiErr *utils.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return utils.NewAuthError("INVALID_TOKEN", "Invalid token header")
}

// GetUserID returns the authenticated user's id from the gin context
func GetUserID(c *gin.Context) (uint, error) {
	value, exists := c.Get(ContextUserIDKey)
	if !exists {
		return 0, utils.NewAuthError("MISSING_USER_ID", "User ID not found in context")
	}

	userID, ok := value.(uint)
	if !ok {
		return 0, utils.NewServerError("INVALID_USER_ID", "User ID is not the expected type", nil)
	}

	return userID, nil
}

// GetCurrentUser returns the authenticated user from the gin context
func GetCurrentUser(c *gin.Context) (*models.User, error) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, utils.NewAuthError("NOT_AUTHENTICATED", "Authentication credentials were not provided")
	}

	user, ok := value.(*models.User)
	if !ok {
		return nil, utils.NewServerError("INVALID_USER", "User is not the expected type", nil)
	}

	return user, nil
}

// OptionalUserID returns the caller's id, or 0 for anonymous requests
func OptionalUserID(c *gin.Context) uint {
	userID, err := GetUserID(c)
	if err != nil {
		return 0
	}
	return userID
}

// GetAuthToken returns the token the request authenticated with
func GetAuthToken(c *gin.Context) string {
	return c.GetString(ContextTokenKey)
}
