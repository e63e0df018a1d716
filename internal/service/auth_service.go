package service

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"

	"hanzi_learn_backend/internal/config"
	"hanzi_learn_backend/internal/model"
	"hanzi_learn_backend/internal/repository"
	"hanzi_learn_backend/internal/util"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{2,20}$`)

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
}

// Register 校验并创建账号。用户名 2~20 位字母数字下划线，密码至少 4 位。
func (s *AuthService) Register(username, password string) error {
	if !usernamePattern.MatchString(username) {
		return util.ValidationError("用户名须为2~20位字母、数字或下划线")
	}
	if len(password) < 4 {
		return util.ValidationError("密码至少4位")
	}

	return s.UserRepo.Create(&model.User{
		Username:     username,
		PasswordHash: HashPassword(password),
	})
}

// Login 校验凭据，成功时签发 JWT
func (s *AuthService) Login(username, password string) (string, error) {
	user, err := s.UserRepo.FindByUsername(username)
	if err != nil {
		return "", err
	}
	if user == nil || user.PasswordHash != HashPassword(password) {
		return "", util.ErrInvalidCredentials
	}

	return util.GenerateJWT(username, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}

// HashPassword 口令的 SHA-256 十六进制摘要，users.csv 存的就是这个格式
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
