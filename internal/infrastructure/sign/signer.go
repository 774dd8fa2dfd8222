package sign

import (
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

// GatewaySigner produces the HS256-signed assertions the gateway expects on
// every outbound call. The claim names are part of the gateway contract.
type GatewaySigner struct {
	pgKey []byte
}

func NewGatewaySigner(pgKey string) *GatewaySigner {
	return &GatewaySigner{pgKey: []byte(pgKey)}
}

func (s *GatewaySigner) SignCreateCollection(schoolID string, amount float64, callbackURL string) (string, error) {
	claims := jwt.MapClaims{
		"school_id":    schoolID,
		"amount":       fmt.Sprintf("%v", amount),
		"callback_url": callbackURL,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.pgKey)
}

func (s *GatewaySigner) SignStatusQuery(schoolID, collectRequestID string) (string, error) {
	claims := jwt.MapClaims{
		"school_id":          schoolID,
		"collect_request_id": collectRequestID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.pgKey)
}

// Parse verifies a token produced by this signer and returns its claims.
func (s *GatewaySigner) Parse(token string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.pgKey, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
