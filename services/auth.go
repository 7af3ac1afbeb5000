package services

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/munchlog-app/munchlog_api/dto"
	"github.com/munchlog-app/munchlog_api/model"
	"github.com/munchlog-app/munchlog_api/shared"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/alphabatem/common/context"
)

// AuthService owns registration, login and the fiber auth middleware. The
// settlement services trust whatever identity it puts into c.Locals.
type AuthService struct {
	context.DefaultService

	sqlSvc *PostgresService
	jwtSvc *JWTService
}

const AUTH_SVC = "auth_svc"

func (svc AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	return nil
}

func (svc *AuthService) Register(req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewBadRequestError(err, "Validation failed").WithData(dto.FormatValidationErrors(err))
	}

	if _, err := svc.sqlSvc.GetUserByEmailOrUsername(req.Email); err == nil {
		return nil, shared.NewConflictError(nil, "Email already registered")
	}
	if _, err := svc.sqlSvc.GetUserByEmailOrUsername(req.Username); err == nil {
		return nil, shared.NewConflictError(nil, "Username already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to hash password")
	}

	user, err := svc.sqlSvc.CreateUser(&model.User{
		Email:    req.Email,
		Username: req.Username,
		Password: string(hashed),
		Role:     shared.RoleUser,
	})
	if err != nil {
		return nil, err
	}

	return &dto.RegisterResponse{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
	}, nil
}

func (svc *AuthService) Login(req dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewBadRequestError(err, "Validation failed").WithData(dto.FormatValidationErrors(err))
	}

	user, err := svc.sqlSvc.GetUserByEmailOrUsername(req.EmailOrUsername)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewUnauthorizedError(nil, "Invalid credentials")
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, shared.NewUnauthorizedError(nil, "Invalid credentials")
	}

	pair, err := svc.jwtSvc.GenerateTokenPair(user.ID, user.Role)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to issue token")
	}

	user.LastLogin = time.Now()
	_ = svc.sqlSvc.UpdateUser(user)

	return &dto.LoginResponse{
		UserID:       user.ID,
		Username:     user.Username,
		Role:         user.Role,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

// Refresh exchanges a valid refresh token for a new token pair. The user is
// re-checked so a deleted account cannot keep minting tokens.
func (svc *AuthService) Refresh(req dto.RefreshRequest) (*dto.TokenPair, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewBadRequestError(err, "Validation failed").WithData(dto.FormatValidationErrors(err))
	}

	userID, _, err := svc.jwtSvc.VerifyRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, shared.NewUnauthorizedError(err, "Invalid refresh token")
	}

	user, err := svc.sqlSvc.GetUserByID(userID)
	if err != nil {
		return nil, shared.NewUnauthorizedError(nil, "Invalid refresh token")
	}

	pair, err := svc.jwtSvc.GenerateTokenPair(user.ID, user.Role)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to issue token")
	}
	return pair, nil
}

func (svc *AuthService) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		token, err := svc.jwtSvc.ExtractTokenFromHeader(authHeader)
		if err != nil {
			return shared.ResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", err.Error())
		}

		userID, role, err := svc.jwtSvc.VerifyJWTToken(token)
		if err != nil {
			return shared.ResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "Invalid JWT token")
		}

		if userID == "" {
			return shared.ResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "Invalid user ID in token")
		}

		c.Locals(shared.UserID, userID)
		c.Locals(shared.UserRole, role)
		return c.Next()
	}
}

func (svc *AuthService) RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		current, _ := c.Locals(shared.UserRole).(string)
		if current != role {
			return shared.ResponseForbidden(c)
		}
		return c.Next()
	}
}
