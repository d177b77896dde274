package jwt_test

import (
	"testing"
	"time"

	"github.com/connectexe/connectexe-client/token/jwt"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestIntrospectActiveToken(t *testing.T) {
	withNow(t, fixedNow)

	raw := signToken(t, jwtlib.MapClaims{
		"userId":   "17",
		"email":    "an@connectexe.vn",
		"role":     "STUDENT",
		"fullName": "An",
		"iat":      fixedNow.Unix(),
		"exp":      fixedNow.Add(30 * time.Minute).Unix(),
	})

	ti := jwt.Introspect(raw)
	require.True(t, ti.Active)
	require.EqualValues(t, 1800, ti.ExpiresIn)
	require.Equal(t, "17", *ti.Sub)
	require.Equal(t, []string{"STUDENT"}, ti.Roles)
	require.Equal(t, fixedNow.Unix(), *ti.Iat)
}

func TestIntrospectRolesArray(t *testing.T) {
	withNow(t, fixedNow)

	raw := signToken(t, jwtlib.MapClaims{
		"userId": "17",
		"roles":  []string{"TEACHER", "ADMIN"},
		"exp":    fixedNow.Add(time.Minute).Unix(),
	})

	require.Equal(t, []string{"TEACHER", "ADMIN"}, jwt.Introspect(raw).Roles)
}

func TestIntrospectInactive(t *testing.T) {
	withNow(t, fixedNow)

	expired := signToken(t, jwtlib.MapClaims{"userId": "17", "exp": fixedNow.Add(-time.Second).Unix()})
	ti := jwt.Introspect(expired)
	require.False(t, ti.Active)
	require.Zero(t, ti.ExpiresIn)
	require.Equal(t, "17", *ti.Sub)

	require.Equal(t, &jwt.TokenIntrospection{Active: false}, jwt.Introspect("garbage"))
}

func TestIntrospectWithoutExp(t *testing.T) {
	withNow(t, fixedNow)

	ti := jwt.Introspect(signToken(t, jwtlib.MapClaims{"userId": "17"}))
	require.True(t, ti.Active)
	require.Nil(t, ti.Exp)
	require.Zero(t, ti.ExpiresIn)
}
