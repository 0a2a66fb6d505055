package auth

import (
	"net/http"
	"time"

	"github.com/Aesmazing/Boko-Hacks-2025/server/bredis"
	"github.com/Aesmazing/Boko-Hacks-2025/server/logger"
	"github.com/Aesmazing/Boko-Hacks-2025/server/models/user"
	"github.com/Aesmazing/Boko-Hacks-2025/server/response"
	"github.com/Aesmazing/Boko-Hacks-2025/server/validation"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// Handler handles authentication-related requests
type Handler struct {
	userRepo   user.Repository
	jwtService *JWTService
	redis      *bredis.Client
}

// NewHandler creates a new Handler
func NewHandler(userRepo user.Repository, jwtService *JWTService, redis *bredis.Client) *Handler {
	return &Handler{
		userRepo:   userRepo,
		jwtService: jwtService,
		redis:      redis,
	}
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Rate limit config
const (
	loginRateLimitMax    = 5
	loginRateLimitWindow = 15 * time.Minute
)

// Register handles user registration
func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if ok, msg := validation.ValidateUsername(req.Username); !ok {
		return response.BadRequest(c, msg)
	}
	if ok, msg := validation.ValidatePassword(req.Password); !ok {
		return response.BadRequest(c, msg)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return response.InternalError(c, "Failed to process password")
	}

	u, err := h.userRepo.CreateUser(req.Username, string(hashedPassword))
	if err != nil {
		if err == user.ErrUserExists {
			return response.Conflict(c, "Username already exists")
		}
		logger.Errorf("Failed to create user %s: %v", req.Username, err)
		return response.InternalError(c, "Failed to create user")
	}

	return response.Created(c, "User registered successfully", echo.Map{
		"id":         u.ID,
		"username":   u.Username,
		"created_at": u.CreatedAt,
	})
}

// Login handles user login
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Username == "" || req.Password == "" {
		return response.BadRequest(c, "Username and password are required")
	}

	// Per-account limit; the per-IP limit is handled by middleware
	if h.redis != nil {
		result := h.redis.CheckRateLimit("login:user:"+req.Username, loginRateLimitMax, loginRateLimitWindow)
		if !result.Allowed {
			return response.TooManyRequests(c, "Too many login attempts for this account.", result.RetryAfter.Seconds())
		}
	}

	u, exists := h.userRepo.GetUserByUsername(req.Username)
	if !exists {
		return response.Unauthorized(c, "Invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return response.Unauthorized(c, "Invalid username or password")
	}

	token, expiresAt, err := h.jwtService.GenerateToken(u.ID, u.Username)
	if err != nil {
		logger.Errorf("Failed to generate token for user %s: %v", u.Username, err)
		return response.InternalError(c, "Failed to generate token")
	}

	if h.redis != nil {
		h.redis.ResetRateLimit("login:user:" + req.Username)
	}

	_ = h.userRepo.UpdateLastLogin(u.ID)

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"token":      token,
		"expires_at": expiresAt,
	})
}

// RevokeToken invalidates every token issued to the caller so far.
func (h *Handler) RevokeToken(c echo.Context) error {
	claims := c.Get("user").(*TokenClaims)

	if err := h.jwtService.RevokeUserTokens(claims.UserID); err != nil {
		logger.Errorf("Failed to revoke tokens for user %s: %v", claims.Username, err)
		return response.InternalError(c, "Failed to revoke tokens")
	}

	logger.Infof("All tokens revoked for user %s", claims.Username)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "All tokens have been revoked",
	})
}

// HealthCheck handler
func (h *Handler) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
