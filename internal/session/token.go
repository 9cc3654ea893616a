package session

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/udx-labs/userdesk/internal/models"
)

var errUnexpectedSigningMethod = errors.New("unexpected signing method")

// mintToken signs an HS256 token binding the session id to the user. The
// token carries no exp claim; inactivity expiry is IsSessionExpired's job.
func (s *Store) mintToken(user models.User, sessionID string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  strconv.Itoa(user.ID),
		ID:       sessionID,
		IssuedAt: jwt.NewNumericDate(now),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// verifyToken checks the signature and shape of a flag-record token.
func (s *Store) verifyToken(tokenString string) error {
	_, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("%w: %v", errUnexpectedSigningMethod, t.Header["alg"])
			}
			return s.secret, nil
		})
	return err
}
