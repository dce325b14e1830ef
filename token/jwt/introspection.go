package jwt

import (
	"errors"
	"fmt"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-warehouse-client/token"
)

// TokenIntrospection is what the auth server learns from a verified access token.
// If Active is false the remaining fields may be empty.
type TokenIntrospection struct {
	Active   bool     `json:"active"`              // Signature valid and not expired
	UserID   int64    `json:"user_id,omitempty"`   // Backend user id
	Account  string   `json:"account,omitempty"`   // Login name
	RoleID   int64    `json:"role_id,omitempty"`   // Backend role id
	RoleName string   `json:"role_name,omitempty"` // Primary role
	Roles    []string `json:"roles,omitempty"`     // Role set after field priority is applied
	Exp      int64    `json:"exp,omitempty"`       // Expiration
	Iat      int64    `json:"iat,omitempty"`       // Issued at time
	JTI      string   `json:"jti,omitempty"`       // Token id
}

// Introspect verifies the signature and expiry of rawToken
func (c *Creator) Introspect(rawToken string) (*TokenIntrospection, error) {
	if strings.TrimSpace(rawToken) == "" {
		return &TokenIntrospection{Active: false}, nil
	}

	parsed, err := jwtlib.ParseWithClaims(rawToken, jwtlib.MapClaims{}, func(t *jwtlib.Token) (any, error) {
		return c.secret, nil
	},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(NowTimeFunc),
	)
	if err != nil || !parsed.Valid {
		return &TokenIntrospection{Active: false}, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return &TokenIntrospection{Active: false}, errors.New("error extracting claims from token")
	}

	userID, _ := claims["user_id"].(float64)
	roleID, _ := claims["role_id"].(float64)
	account, _ := claims["account"].(string)
	roleName, _ := claims["role_name"].(string)
	iat, _ := claims["iat"].(float64)
	exp, _ := claims["exp"].(float64)
	jti, _ := claims["jti"].(string)

	return &TokenIntrospection{
		Active:   true,
		UserID:   int64(userID),
		Account:  account,
		RoleID:   int64(roleID),
		RoleName: roleName,
		Roles:    token.RolesFromClaims(claims).Roles,
		Exp:      int64(exp),
		Iat:      int64(iat),
		JTI:      jti,
	}, nil
}
