package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
)

// GeneratePIN 生成指定长度的十进制数字 PIN。
// 随机字节必须来自 crypto/rand，逐字节取模 10 得到数字。
func GeneratePIN(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i, v := range b {
		b[i] = '0' + v%10
	}
	return string(b), nil
}

// HashSecret 计算 base64(SHA-256(salt + ":" + secret))。
// salt 传空串时生成 16 字节随机盐（base64 编码）。
func HashSecret(secret, salt string) (string, string, error) {
	if salt == "" {
		raw := make([]byte, 16)
		if _, err := rand.Read(raw); err != nil {
			return "", "", err
		}
		salt = base64.StdEncoding.EncodeToString(raw)
	}
	sum := sha256.Sum256([]byte(salt + ":" + secret))
	return salt, base64.StdEncoding.EncodeToString(sum[:]), nil
}

// VerifySecret 以常数时间比较重算的哈希与期望哈希。
// 对任意输入都不会 panic，长度不一致直接返回 false。
func VerifySecret(secret, salt, expected string) bool {
	sum := sha256.Sum256([]byte(salt + ":" + secret))
	actual := base64.StdEncoding.EncodeToString(sum[:])
	if len(actual) != len(expected) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(actual), []byte(expected)) == 1
}
