package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issue signs an HS256 token carrying the principal id and stored role.
func Issue(secret, userID, role string, ttlHours int) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(time.Duration(ttlHours) * time.Hour).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseAuth validates an Authorization header value ("Bearer <token>" or the
// bare token) and returns its claims.
func ParseAuth(authHeader string, secret string) (map[string]any, error) {
	tokenStr := strings.TrimSpace(authHeader)
	if tokenStr == "" {
		return nil, errors.New("missing authorization")
	}

	if strings.HasPrefix(strings.ToLower(tokenStr), "bearer ") {
		tokenStr = strings.TrimSpace(tokenStr[7:])
	}
	if tokenStr == "" {
		return nil, errors.New("missing token")
	}

	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, errors.New("invalid token")
	}

	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	out := make(map[string]any, len(mc))
	for k, v := range mc {
		out[k] = v
	}
	return out, nil
}

// Subject extracts the principal id from parsed claims.
func Subject(claims map[string]any) (string, error) {
	if s, ok := claims["sub"].(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("sub missing in claims")
}
