package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes bcrypt 只使用前 72 字节；超出部分截断（与旧服务的行为一致）
const MaxPasswordBytes = 72

type PasswordHasher struct {
	Cost int // 0 表示 bcrypt.DefaultCost
}

func (h PasswordHasher) Hash(pw string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword(truncate(pw), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h PasswordHasher) Check(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), truncate(pw)) == nil
}

func truncate(pw string) []byte {
	b := []byte(pw)
	if len(b) > MaxPasswordBytes {
		b = b[:MaxPasswordBytes]
	}
	return b
}
