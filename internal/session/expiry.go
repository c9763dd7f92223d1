package session

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpired solo inspecciona tokens con forma JWT y claim exp; cualquier
// otro token se considera opaco y vigente. La firma no se verifica: la
// autorizacion real la hace el backend.
func tokenExpired(token string, now time.Time) bool {
	if strings.Count(token, ".") != 2 {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}
