// Package users manages employee accounts and bearer-token authentication.
// Role checks happen at the HTTP boundary; this package only stores and
// validates the canonical role value.
package users

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"comanda-system/config"
	"comanda-system/internal/apperr"
	"comanda-system/internal/database/models"
	"comanda-system/internal/utils"
)

const refreshKeyPrefix = "auth:refresh:"

// ErrInvalidCredentials is deliberately outside the apperr taxonomy: the
// handler maps it to 401, never leaking which part of the login failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	db    *gorm.DB
	redis *redis.Client
	auth  config.AuthConfig
}

func NewService(db *gorm.DB, redisClient *redis.Client, auth config.AuthConfig) *Service {
	return &Service{db: db, redis: redisClient, auth: auth}
}

type CreateInput struct {
	Username string      `json:"username" binding:"required"`
	Email    string      `json:"email" binding:"required"`
	Password string      `json:"password" binding:"required"`
	Name     string      `json:"name"`
	LastName string      `json:"last_name"`
	Cedula   string      `json:"cedula" binding:"required"`
	Role     models.Role `json:"role"`
}

func (s *Service) Create(in CreateInput) (*models.Employee, error) {
	if in.Username == "" || in.Email == "" || in.Cedula == "" {
		return nil, apperr.Validationf("username, email and cedula are required")
	}
	if len(in.Password) < 8 {
		return nil, apperr.Validationf("password must be at least 8 characters")
	}
	if in.Role == "" {
		in.Role = models.RoleWaiter
	}
	if !in.Role.Valid() {
		return nil, apperr.Validationf("unknown role %q", in.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	employee := models.Employee{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hash),
		Name:     in.Name,
		LastName: in.LastName,
		Cedula:   in.Cedula,
		Role:     in.Role,
		Active:   true,
	}
	if err := s.db.Create(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflictf("username, email or cedula already in use")
		}
		return nil, err
	}
	return &employee, nil
}

func (s *Service) List() ([]models.Employee, error) {
	var out []models.Employee
	err := s.db.Order("username").Find(&out).Error
	return out, err
}

func (s *Service) Get(id uint) (*models.Employee, error) {
	var employee models.Employee
	if err := s.db.First(&employee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("employee %d not found", id)
		}
		return nil, err
	}
	return &employee, nil
}

type UpdateInput struct {
	Email    *string      `json:"email"`
	Name     *string      `json:"name"`
	LastName *string      `json:"last_name"`
	Role     *models.Role `json:"role"`
	Active   *bool        `json:"active"`
}

func (s *Service) Update(id uint, in UpdateInput) (*models.Employee, error) {
	employee, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if in.Email != nil {
		employee.Email = *in.Email
	}
	if in.Name != nil {
		employee.Name = *in.Name
	}
	if in.LastName != nil {
		employee.LastName = *in.LastName
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, apperr.Validationf("unknown role %q", *in.Role)
		}
		employee.Role = *in.Role
	}
	if in.Active != nil {
		employee.Active = *in.Active
	}
	if err := s.db.Save(employee).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflictf("email already in use")
		}
		return nil, err
	}
	return employee, nil
}

// Deactivate soft-disables the account; the row stays for order history.
func (s *Service) Deactivate(id uint) (*models.Employee, error) {
	employee, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if employee.Active {
		if err := s.db.Model(employee).Update("active", false).Error; err != nil {
			return nil, err
		}
		employee.Active = false
	}
	return employee, nil
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (s *Service) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	var employee models.Employee
	err := s.db.Where("username = ? AND active = ?", username, true).First(&employee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(employee.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.db.Model(&employee).Update("last_login", &now).Error; err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, &employee)
}

// Refresh rotates a refresh token: the old JTI is revoked and a fresh pair
// is issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := utils.ParseToken([]byte(s.auth.Secret), refreshToken)
	if err != nil || claims.TokenType != utils.TokenRefresh {
		return nil, ErrInvalidCredentials
	}

	if s.redis != nil {
		key := refreshKeyPrefix + claims.ID
		if _, err := s.redis.Get(ctx, key).Result(); err != nil {
			return nil, ErrInvalidCredentials
		}
		_ = s.redis.Del(ctx, key)
	}

	employee, err := s.Get(claims.EmployeeId)
	if err != nil || !employee.Active {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(ctx, employee)
}

func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	claims, err := utils.ParseToken([]byte(s.auth.Secret), refreshToken)
	if err != nil || claims.TokenType != utils.TokenRefresh {
		return ErrInvalidCredentials
	}
	if s.redis != nil {
		_ = s.redis.Del(ctx, refreshKeyPrefix+claims.ID)
	}
	return nil
}

func (s *Service) issueTokens(ctx context.Context, employee *models.Employee) (*TokenPair, error) {
	secret := []byte(s.auth.Secret)

	access, exp, err := utils.GenerateToken(secret, employee.ID, employee.Username, string(employee.Role), utils.TokenAccess, "", s.auth.AccessTTL)
	if err != nil {
		return nil, err
	}

	jti := uuid.NewString()
	refresh, _, err := utils.GenerateToken(secret, employee.ID, employee.Username, string(employee.Role), utils.TokenRefresh, jti, s.auth.RefreshTTL)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if err := s.redis.Set(ctx, refreshKeyPrefix+jti, employee.ID, s.auth.RefreshTTL).Err(); err != nil {
			return nil, err
		}
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: exp}, nil
}
