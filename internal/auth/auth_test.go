package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestHashAndCheckPassword(t *testing.T) {
	svc := NewService("secret")

	hash, err := svc.HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash equals the plaintext password")
	}

	if err := svc.CheckPassword(hash, "correct horse battery staple"); err != nil {
		t.Errorf("CheckPassword with correct password returned error: %v", err)
	}
	if err := svc.CheckPassword(hash, "wrong password"); err != ErrInvalidCredentials {
		t.Errorf("CheckPassword with wrong password = %v, want ErrInvalidCredentials", err)
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewService("secret")

	tokenStr, err := svc.GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	if tokenStr == "" {
		t.Fatal("GenerateToken returned empty string")
	}

	if err := svc.ValidateToken(tokenStr); err != nil {
		t.Errorf("ValidateToken returned error: %v", err)
	}
}

func TestValidateTokenMalformed(t *testing.T) {
	svc := NewService("secret")

	cases := []struct {
		name  string
		token string
	}{
		{"empty string", ""},
		{"random garbage", "not-a-jwt-at-all"},
		{"three dots", "aaa.bbb.ccc"},
		{"truncated", "eyJhbGciOiJIUzI1NiJ9.eyJ1c2Vy"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := svc.ValidateToken(tc.token); err != ErrInvalidToken {
				t.Errorf("error = %v, want %v", err, ErrInvalidToken)
			}
		})
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	svc1 := NewService("secret-one")
	svc2 := NewService("secret-two")

	tokenStr, err := svc1.GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	if err := svc2.ValidateToken(tokenStr); err != ErrInvalidToken {
		t.Errorf("error = %v, want %v", err, ErrInvalidToken)
	}
}

func TestValidateTokenWrongSubject(t *testing.T) {
	svc := NewService("secret")

	claims := jwt.RegisteredClaims{
		Subject:   "someone-else",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if err := svc.ValidateToken(tokenStr); err != ErrInvalidToken {
		t.Errorf("error = %v, want %v", err, ErrInvalidToken)
	}
}

func TestValidateTokenExpired(t *testing.T) {
	svc := NewService("secret")

	claims := jwt.RegisteredClaims{
		Subject:   "owner",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
	}
	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if err := svc.ValidateToken(tokenStr); err != ErrInvalidToken {
		t.Errorf("error = %v, want %v", err, ErrInvalidToken)
	}
}

func TestValidateTokenWrongAlgorithm(t *testing.T) {
	svc := NewService("secret")

	// Unsigned tokens must never validate.
	claims := jwt.RegisteredClaims{
		Subject:   "owner",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if err := svc.ValidateToken(tokenStr); err != ErrInvalidToken {
		t.Errorf("error = %v, want %v", err, ErrInvalidToken)
	}
}
