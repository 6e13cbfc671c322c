package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"campusevents/internal/domain"
)

type checkinClaims struct {
	jwt.RegisteredClaims
	EventID string `json:"event_id"`
	Purpose string `json:"purpose"`
}

type checkinCodec struct {
	secret []byte
	now    func() time.Time
}

// NewCheckinTokenCodec returns a CheckinTokenCodec producing HS256-signed JWTs.
// Tokens carry no expiry; whether one may still be redeemed is decided from
// event state at check-in.
func NewCheckinTokenCodec(secret string) domain.CheckinTokenCodec {
	return &checkinCodec{secret: []byte(secret), now: time.Now}
}

func (c *checkinCodec) Encode(t domain.CheckinToken) (string, error) {
	claims := checkinClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			Subject:  t.UserID,
			IssuedAt: jwt.NewNumericDate(c.now()),
		},
		EventID: t.EventID,
		Purpose: t.Purpose,
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign checkin token: %w", err)
	}
	return s, nil
}

func (c *checkinCodec) Decode(raw string) (domain.CheckinToken, error) {
	claims := &checkinClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return domain.CheckinToken{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if claims.Subject == "" || claims.EventID == "" {
		return domain.CheckinToken{}, fmt.Errorf("%w: missing event or user", domain.ErrInvalidToken)
	}
	return domain.CheckinToken{EventID: claims.EventID, UserID: claims.Subject, Purpose: claims.Purpose}, nil
}
