package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"balancegame-web/models"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

const TokenLifetime = 3600 * time.Minute

type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.StandardClaims
}

// Issuer signs the tokens handed out by local test logins when the
// shell runs without an upstream API.
type Issuer struct {
	key []byte
	now func() time.Time
}

func NewIssuer(key []byte) *Issuer {
	return &Issuer{key: key, now: time.Now}
}

func (i *Issuer) GenerateJWT(userID, username string) (string, error) {
	claims := &Claims{
		UserID:   userID,
		Username: username,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  i.now().Unix(),
			ExpiresAt: i.now().Add(TokenLifetime).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.key)
}

// TestLogin creates a throwaway user for username and signs a token for it.
func (i *Issuer) TestLogin(username string, platform models.Platform) (models.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, "", errors.New("username is required")
	}
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(username)).String()
	token, err := i.GenerateJWT(id, username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}
	user := models.User{
		"id":       id,
		"username": username,
		"nickname": username,
		"role":     "USER",
		"provider": "LOCAL",
		"platform": string(platform),
	}
	return user, token, nil
}

func (i *Issuer) ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return i.key, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// ValidateTokenHandler answers whether the request's bearer token is one
// this issuer signed.
func (i *Issuer) ValidateTokenHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	authHeader := r.Header.Get("Authorization")
	tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || tokenStr == "" {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{"valid": false})
		return
	}

	claims, err := i.ParseToken(tokenStr)
	if err != nil {
		json.NewEncoder(w).Encode(map[string]interface{}{"valid": false})
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"valid":    true,
		"user_id":  claims.UserID,
		"username": claims.Username,
	})
}
