package auth

import (
	"strings"
	"testing"
)

func TestGeneratePIN(t *testing.T) {
	for _, length := range []int{4, 6, 8} {
		pin, err := GeneratePIN(length)
		if err != nil {
			t.Fatalf("GeneratePIN(%d) error = %v", length, err)
		}
		if len(pin) != length {
			t.Errorf("GeneratePIN(%d) length = %d, want %d", length, len(pin), length)
		}
		for _, r := range pin {
			if r < '0' || r > '9' {
				t.Errorf("GeneratePIN(%d) = %q, contains non-digit %q", length, pin, r)
			}
		}
	}
}

func TestGeneratePIN_NotConstant(t *testing.T) {
	// 连续生成大量 PIN，全部相同几乎不可能，用于捕获退化的随机源。
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		pin, err := GeneratePIN(6)
		if err != nil {
			t.Fatalf("GeneratePIN(6) error = %v", err)
		}
		seen[pin] = struct{}{}
	}
	if len(seen) == 1 {
		t.Error("GeneratePIN(6) returned the same value 50 times")
	}
}

func TestHashSecret_FreshSalt(t *testing.T) {
	salt, hash, err := HashSecret("482193", "")
	if err != nil {
		t.Fatalf("HashSecret() error = %v", err)
	}
	if salt == "" || hash == "" {
		t.Fatal("HashSecret() returned empty salt or hash")
	}

	salt2, hash2, err := HashSecret("482193", "")
	if err != nil {
		t.Fatalf("HashSecret() error = %v", err)
	}
	if salt == salt2 {
		t.Error("HashSecret() generated the same salt twice")
	}
	if hash == hash2 {
		t.Error("HashSecret() produced identical hashes under different salts")
	}
}

func TestHashSecret_GivenSalt(t *testing.T) {
	salt, hash, err := HashSecret("482193", "fixed-salt")
	if err != nil {
		t.Fatalf("HashSecret() error = %v", err)
	}
	if salt != "fixed-salt" {
		t.Errorf("HashSecret() salt = %q, want fixed-salt", salt)
	}
	_, hash2, _ := HashSecret("482193", "fixed-salt")
	if hash != hash2 {
		t.Error("HashSecret() is not deterministic for a fixed salt")
	}
}

func TestVerifySecret(t *testing.T) {
	salt, hash, err := HashSecret("482193", "")
	if err != nil {
		t.Fatalf("HashSecret() error = %v", err)
	}

	tests := []struct {
		name     string
		secret   string
		salt     string
		expected string
		want     bool
	}{
		{"correct secret", "482193", salt, hash, true},
		{"wrong secret", "482194", salt, hash, false},
		{"empty secret", "", salt, hash, false},
		{"wrong salt", "482193", "other-salt", hash, false},
		{"empty expected hash", "482193", salt, "", false},
		{"short expected hash", "482193", salt, "abc", false},
		{"garbage expected hash", "482193", salt, strings.Repeat("x", 44), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifySecret(tt.secret, tt.salt, tt.expected); got != tt.want {
				t.Errorf("VerifySecret() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerifySecret_TotalOnArbitraryInput(t *testing.T) {
	// 任意字符串组合都不应 panic。
	inputs := []string{"", "a", "0000", strings.Repeat("z", 5000), "盐", "\x00\xff"}
	for _, s := range inputs {
		for _, salt := range inputs {
			for _, exp := range inputs {
				_ = VerifySecret(s, salt, exp)
			}
		}
	}
}
