package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-warehouse-client/users"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Creator signs warehouse access tokens with an HMAC secret (HS256)
type Creator struct {
	secret []byte
	expiry time.Duration
}

// NewCreator creates a new JWT creator
func NewCreator(secret string, expiry time.Duration) (*Creator, error) {
	if secret == "" {
		return nil, errors.New("[NewCreator] secret is required")
	}
	if expiry <= 0 {
		return nil, errors.New("[NewCreator] expiry must be positive")
	}
	return &Creator{
		secret: []byte(secret),
		expiry: expiry,
	}, nil
}

// CreateAccessToken creates the token returned by the login endpoint
func (c *Creator) CreateAccessToken(profile *users.Profile) (string, error) {
	return c.CreateAccessTokenWithExpiry(profile, NowTimeFunc().Add(c.expiry))
}

// CreateAccessTokenWithExpiry is CreateAccessToken with an explicit exp claim
func (c *Creator) CreateAccessTokenWithExpiry(profile *users.Profile, exp time.Time) (string, error) {
	if profile == nil {
		return "", errors.New("[Creator CreateAccessToken] profile is required")
	}
	claims := jwtlib.MapClaims{
		"user_id":   profile.UserID,
		"account":   profile.Account,
		"role_id":   profile.RoleID,
		"role_name": profile.RoleName, // read by the client for routing
		"iat":       NowTimeFunc().Unix(),
		"exp":       exp.Unix(),
		"jti":       uuid.New().String(),
	}
	return c.sign(claims)
}

func (c *Creator) sign(claims jwtlib.MapClaims) (string, error) {
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return signed, nil
}
