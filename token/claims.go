// Package token reads the claims of a warehouse session token without verifying its signature.
//
// Every function in this package is total: malformed input is reported as "absent"
// (false, zero values, empty slices) and never as an error or a panic.
package token

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-warehouse-client/internal/utils"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Claims is the decoded payload segment of a token.
type Claims = jwtlib.MapClaims

var segmentParser = jwtlib.NewParser(jwtlib.WithPaddingAllowed())

// Decode splits raw into header, claims and signature and decodes the claims segment.
// The boolean is false unless there are exactly three segments and the claims segment
// is base64url encoded JSON object.
func Decode(raw string) (Claims, bool) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return nil, false
	}

	payload, err := segmentParser.DecodeSegment(parts[1])
	if err != nil {
		return nil, false
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil || claims == nil {
		return nil, false
	}
	return claims, true
}

// IsExpired is true when the token cannot be decoded, has no usable exp claim,
// or exp lies before the current second.
func IsExpired(raw string) bool {
	exp, ok := Expiration(raw)
	if !ok {
		return true
	}
	return exp.Unix() < NowTimeFunc().Unix()
}

// Expiration returns the instant held in the exp claim.
func Expiration(raw string) (time.Time, bool) {
	claims, ok := Decode(raw)
	if !ok {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// TimeUntilExpiration is zero for expired or undecodable tokens.
func TimeUntilExpiration(raw string) time.Duration {
	exp, ok := Expiration(raw)
	if !ok {
		return 0
	}
	left := exp.Sub(NowTimeFunc())
	if left < 0 {
		return 0
	}
	return left
}

// FormatExpiration renders the remaining lifetime for display.
func FormatExpiration(raw string) string {
	exp, ok := Expiration(raw)
	if !ok {
		return "Invalid token"
	}
	left := exp.Sub(NowTimeFunc())
	if left < 0 {
		return "Expired"
	}
	hours := int(left / time.Hour)
	minutes := int((left % time.Hour) / time.Minute)
	if hours > 0 {
		return fmt.Sprintf("Expires in %dh %dm", hours, minutes)
	}
	return fmt.Sprintf("Expires in %dm", minutes)
}

// UserIDOf returns the user_id claim, falling back to sub.
func UserIDOf(raw string) (string, bool) {
	claims, ok := Decode(raw)
	if !ok {
		return "", false
	}
	for _, field := range []string{"user_id", "sub"} {
		switch v := claims[field].(type) {
		case string:
			if v != "" {
				return v, true
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), true
		}
	}
	return "", false
}

// HasRole reports whether the token carries any of the required roles.
func HasRole(raw string, required ...string) bool {
	return utils.Intersects(RolesOf(raw).Roles, required)
}
