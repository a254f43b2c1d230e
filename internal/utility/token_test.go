package utility

import (
	"testing"
	"time"
)

func TestToken_RoundTrip(t *testing.T) {
	secret := "test-secret"
	tokenStr, err := CreateToken(secret, "user-1", "org-1", time.Hour)
	if err != nil {
		t.Fatalf("không tạo được token: %v", err)
	}

	claims, err := ParseToken(secret, tokenStr)
	if err != nil {
		t.Fatalf("không parse được token vừa tạo: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("mong đợi userId user-1, nhận được %s", claims.UserID)
	}
	if claims.OrganizationID != "org-1" {
		t.Errorf("mong đợi organizationId org-1, nhận được %s", claims.OrganizationID)
	}
}

func TestToken_WrongSecretRejected(t *testing.T) {
	tokenStr, err := CreateToken("secret-a", "user-1", "org-1", time.Hour)
	if err != nil {
		t.Fatalf("không tạo được token: %v", err)
	}

	if _, err := ParseToken("secret-b", tokenStr); err == nil {
		t.Error("token ký bằng secret khác phải bị từ chối")
	}
}

func TestToken_ExpiredRejected(t *testing.T) {
	tokenStr, err := CreateToken("test-secret", "user-1", "org-1", -time.Minute)
	if err != nil {
		t.Fatalf("không tạo được token: %v", err)
	}

	if _, err := ParseToken("test-secret", tokenStr); err == nil {
		t.Error("token hết hạn phải bị từ chối")
	}
}

func TestToken_GarbageRejected(t *testing.T) {
	if _, err := ParseToken("test-secret", "không-phải-jwt"); err == nil {
		t.Error("chuỗi không phải JWT phải bị từ chối")
	}
}
