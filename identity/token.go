package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// mintToken creates an access token for the identity. Token minting is
// skipped when no secret is configured (tests, memory-backed setups).
func (c *Client) mintToken(ident Identity) (string, error) {
	if len(c.secret) == 0 {
		return "", nil
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   ident.ID,
		"email": ident.Email,
		"exp":   now.Add(c.tokenTTL).Unix(),
		"iat":   now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("identity: sign token: %w", err)
	}

	return signed, nil
}

// VerifyToken validates an access token and returns the identity it was
// minted for.
func (c *Client) VerifyToken(tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("identity: parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("identity: invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return Identity{}, fmt.Errorf("identity: invalid subject in token")
	}
	email, _ := claims["email"].(string)

	return Identity{ID: sub, Email: email}, nil
}
