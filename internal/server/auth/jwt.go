package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mkarpovich/authkeeper/internal/common"
)

// Claims carries the session token payload: the standard registered claims
// plus the user's id and username.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// GenerateToken mints a signed HS256 token for the user with
// exp = now + validityDuration. The expiry is fixed at mint time and is
// never extended; reissue always produces a new token.
func GenerateToken(userID int64, username string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID:   userID,
		Username: username,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and expiry of tokenString.
//
// The two failure modes are distinct and callers branch on them:
//   - common.ErrTokenInvalid: tampered, malformed, or wrong key. No claims.
//   - common.ErrTokenExpired: signature is good but exp has passed. The
//     decoded claims are still returned so callers can act on them.
//
// The signature is always checked before expiry, so a tampered token never
// reports as merely expired.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrTokenInvalid
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return claims, common.ErrTokenExpired
		}
		return nil, common.ErrTokenInvalid
	}

	if !token.Valid {
		return nil, common.ErrTokenInvalid
	}

	return claims, nil
}
