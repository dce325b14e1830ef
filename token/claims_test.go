package token_test

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/jrsteele09/go-warehouse-client/token"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func freezeTime(t *testing.T) {
	t.Helper()
	token.NowTimeFunc = func() time.Time { return fixedNow }
	t.Cleanup(func() { token.NowTimeFunc = time.Now })
}

func makeToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".c2lnbmF0dXJl"
}

func TestDecode_Malformed(t *testing.T) {
	freezeTime(t)

	cases := map[string]string{
		"empty":          "",
		"one segment":    "abc",
		"two segments":   "abc.def",
		"four segments":  "a.b.c.d",
		"invalid base64": "eyJhbGciOiJIUzI1NiJ9.!!!notbase64!!!.sig",
		"invalid json":   "eyJhbGciOiJIUzI1NiJ9." + base64.RawURLEncoding.EncodeToString([]byte("{not json")) + ".sig",
		"json array":     "eyJhbGciOiJIUzI1NiJ9." + base64.RawURLEncoding.EncodeToString([]byte(`["exp"]`)) + ".sig",
		"json null":      "eyJhbGciOiJIUzI1NiJ9." + base64.RawURLEncoding.EncodeToString([]byte(`null`)) + ".sig",
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			claims, ok := token.Decode(raw)
			require.False(t, ok)
			require.Nil(t, claims)
			require.True(t, token.IsExpired(raw))
			_, ok = token.Expiration(raw)
			require.False(t, ok)
			require.Empty(t, token.RolesOf(raw).Roles)
			require.False(t, token.RolesOf(raw).Found())
		})
	}
}

func TestDecode_Valid(t *testing.T) {
	raw := makeToken(t, map[string]any{"user_id": 7, "account": "admin", "role_name": "Admin", "exp": fixedNow.Unix()})

	claims, ok := token.Decode(raw)
	require.True(t, ok)
	require.Equal(t, "admin", claims["account"])
}

func TestDecode_PaddedSegment(t *testing.T) {
	payload := base64.URLEncoding.EncodeToString([]byte(`{"exp":12}`))
	require.Contains(t, payload, "=")

	_, ok := token.Decode("h." + payload + ".s")
	require.True(t, ok)
}

func TestIsExpired(t *testing.T) {
	freezeTime(t)

	t.Run("one second in the past", func(t *testing.T) {
		raw := makeToken(t, map[string]any{"exp": fixedNow.Add(-time.Second).Unix()})
		require.True(t, token.IsExpired(raw))
	})

	t.Run("one second in the future", func(t *testing.T) {
		raw := makeToken(t, map[string]any{"exp": fixedNow.Add(time.Second).Unix()})
		require.False(t, token.IsExpired(raw))
	})

	t.Run("exactly now", func(t *testing.T) {
		raw := makeToken(t, map[string]any{"exp": fixedNow.Unix()})
		require.False(t, token.IsExpired(raw))
	})

	t.Run("missing exp", func(t *testing.T) {
		raw := makeToken(t, map[string]any{"role_name": "Admin"})
		require.True(t, token.IsExpired(raw))
	})

	t.Run("exp of the wrong type", func(t *testing.T) {
		raw := makeToken(t, map[string]any{"exp": "tomorrow"})
		require.True(t, token.IsExpired(raw))
	})
}

func TestExpiration(t *testing.T) {
	freezeTime(t)
	exp := fixedNow.Add(90 * time.Minute)
	raw := makeToken(t, map[string]any{"exp": exp.Unix()})

	got, ok := token.Expiration(raw)
	require.True(t, ok)
	require.True(t, got.Equal(exp))
	require.Equal(t, 90*time.Minute, token.TimeUntilExpiration(raw))
	require.Equal(t, "Expires in 1h 30m", token.FormatExpiration(raw))

	short := makeToken(t, map[string]any{"exp": fixedNow.Add(5 * time.Minute).Unix()})
	require.Equal(t, "Expires in 5m", token.FormatExpiration(short))

	expired := makeToken(t, map[string]any{"exp": fixedNow.Add(-time.Minute).Unix()})
	require.Equal(t, time.Duration(0), token.TimeUntilExpiration(expired))
	require.Equal(t, "Expired", token.FormatExpiration(expired))
	require.Equal(t, "Invalid token", token.FormatExpiration("garbage"))
}

func TestRolesOf_Priority(t *testing.T) {
	t.Run("roles array wins", func(t *testing.T) {
		raw := makeToken(t, map[string]any{"roles": []string{"Admin", "Sales"}, "role": "Warehouse", "role_name": "Owner"})
		rc := token.RolesOf(raw)
		require.Equal(t, token.RoleFieldRoles, rc.Field)
		require.Equal(t, []string{"Admin", "Sales"}, rc.Roles)
	})

	t.Run("role before role_name", func(t *testing.T) {
		raw := makeToken(t, map[string]any{"role": "Warehouse", "role_name": "Owner"})
		rc := token.RolesOf(raw)
		require.Equal(t, token.RoleFieldRole, rc.Field)
		require.Equal(t, []string{"Warehouse"}, rc.Roles)
	})

	t.Run("single role_name becomes one element", func(t *testing.T) {
		raw := makeToken(t, map[string]any{"role_name": "Sales"})
		rc := token.RolesOf(raw)
		require.True(t, rc.Found())
		require.Equal(t, token.RoleFieldRoleName, rc.Field)
		require.Equal(t, []string{"Sales"}, rc.Roles)
	})

	t.Run("empty fields are skipped", func(t *testing.T) {
		raw := makeToken(t, map[string]any{"roles": []string{}, "role": "", "role_name": "Shipping_Vendor"})
		require.Equal(t, []string{"Shipping_Vendor"}, token.RolesOf(raw).Roles)
	})

	t.Run("no role field", func(t *testing.T) {
		raw := makeToken(t, map[string]any{"exp": 1})
		rc := token.RolesOf(raw)
		require.False(t, rc.Found())
		require.NotNil(t, rc.Roles)
		require.Empty(t, rc.Roles)
	})
}

func TestUserIDOfAndHasRole(t *testing.T) {
	raw := makeToken(t, map[string]any{"user_id": 42, "sub": "ignored", "role_name": "Sales"})
	id, ok := token.UserIDOf(raw)
	require.True(t, ok)
	require.Equal(t, "42", id)

	sub := makeToken(t, map[string]any{"sub": "user-9"})
	id, ok = token.UserIDOf(sub)
	require.True(t, ok)
	require.Equal(t, "user-9", id)

	_, ok = token.UserIDOf("a.b")
	require.False(t, ok)

	require.True(t, token.HasRole(raw, "Admin", "Sales"))
	require.False(t, token.HasRole(raw, "Warehouse"))
}
