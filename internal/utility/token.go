package utility

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// AuthClaims chứa data được mã hóa trong JWT token.
// Mỗi token gắn với một user và một organization (multi-tenant).
type AuthClaims struct {
	UserID         string `json:"userId"`
	OrganizationID string `json:"organizationId"`
	jwt.StandardClaims
}

// CreateToken tạo JWT token (HS256) cho user thuộc một organization.
// ttl là thời gian sống của token.
func CreateToken(secret string, userID string, organizationID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &AuthClaims{
		UserID:         userID,
		OrganizationID: organizationID,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken parse và validate JWT token, trả về claims nếu token hợp lệ.
// Token hết hạn hoặc sai chữ ký đều trả về error.
func ParseToken(secret string, tokenStr string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("phương thức ký token không hợp lệ: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("token không hợp lệ")
	}

	return claims, nil
}
