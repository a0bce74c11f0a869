package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidStaffToken = errors.New("invalid staff token")

// StaffClaims identifies an authenticated back-office user. Staff
// sessions are minted by the admin tooling; this engine only verifies.
type StaffClaims struct {
	StaffID string
	Role    string
}

// StaffService verifies staff session JWTs for back-office endpoints.
type StaffService struct {
	jwtSecret string
	jwtExpiry time.Duration
}

func NewStaffService(jwtSecret string, jwtExpiry time.Duration) *StaffService {
	return &StaffService{
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

// GenerateJWT mints a staff session token. Used by tests and local
// tooling; production staff tokens come from the admin service signed
// with the shared secret.
func (s *StaffService) GenerateJWT(staffID, role string) (string, error) {
	claims := jwt.MapClaims{
		"staff_id": staffID,
		"role":     role,
		"exp":      time.Now().Add(s.jwtExpiry).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *StaffService) VerifyJWT(tokenString string) (*StaffClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidStaffToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidStaffToken
	}
	staffID, ok := claims["staff_id"].(string)
	if !ok || staffID == "" {
		return nil, ErrInvalidStaffToken
	}
	role, _ := claims["role"].(string)

	return &StaffClaims{StaffID: staffID, Role: role}, nil
}
