package testutils

import (
	"balancegame-web/models"

	"github.com/google/uuid"
)

const (
	MobileUserAgent  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	DesktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

func CreateTestUser() models.User {
	return models.User{
		"id":       uuid.New().String(),
		"username": "tester",
		"nickname": "테스터",
		"email":    "tester@example.com",
		"role":     "USER",
	}
}
