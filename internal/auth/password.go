package auth

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const (
	defaultBcryptCost = bcrypt.DefaultCost
	// MinPasswordLength applies to every password set by a reviewer or the CLI.
	MinPasswordLength = 8
	// MaxPasswordBytes is the most bcrypt will hash.
	MaxPasswordBytes = 72
)

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// ValidatePassword 检查新设置的密码能否被接受并哈希
func ValidatePassword(password string) error {
	switch {
	case strings.TrimSpace(password) == "":
		return errors.New("password must not be blank")
	case len(password) < MinPasswordLength:
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	case len(password) > MaxPasswordBytes:
		return fmt.Errorf("password must be at most %d bytes", MaxPasswordBytes)
	}
	return nil
}

// HashPassword 对明文密码进行哈希处理
func HashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password must not be empty")
	}
	if len(password) > MaxPasswordBytes {
		return "", fmt.Errorf("password must be at most %d bytes", MaxPasswordBytes)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), defaultBcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword 验证密码是否与存储的哈希值匹配
func VerifyPassword(hash, candidate string) error {
	if strings.TrimSpace(hash) == "" {
		return errors.New("stored password hash is empty")
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate))
}

// BurnCompare runs a bcrypt comparison against a throwaway hash so a lookup
// miss costs about as much as a real password check.
func BurnCompare(candidate string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("labsite-dummy-password"), defaultBcryptCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(candidate))
}
