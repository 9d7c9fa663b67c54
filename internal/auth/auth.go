// Package auth implements the mock login: any non-empty username and
// password is accepted and the chosen role is signed into a JWT.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

// Role is what a logged-in user may access
type Role string

const (
	RoleGuest   Role = "guest"
	RoleChef    Role = "chef"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r can be chosen at login
func (r Role) Valid() bool {
	switch r {
	case RoleChef, RoleManager, RoleAdmin:
		return true
	}
	return false
}

const (
	MsgMissingCredentials = "Please enter username and password."
	MsgLoggedOut          = "Logged out successfully."
)

var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrInvalidRole        = errors.New("unknown role")
	ErrInvalidToken       = errors.New("invalid token")
)

// User is the identity carried by a token
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Claims are the JWT claims issued at login
type Claims struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
	jwt.StandardClaims
}

// Issuer signs and verifies login tokens
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an issuer signing with secret; tokens expire after ttl
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Login accepts any non-empty credentials and returns a signed token for role.
// An empty role defaults to chef.
func (i *Issuer) Login(username, password string, role Role) (string, User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", User{}, ErrMissingCredentials
	}
	if role == "" {
		role = RoleChef
	}
	if !role.Valid() {
		return "", User{}, fmt.Errorf("%w: %s", ErrInvalidRole, role)
	}

	user := User{ID: uuid.New().String(), Username: username, Role: role}
	now := i.now()
	claims := Claims{
		Username: user.Username,
		Role:     user.Role,
		StandardClaims: jwt.StandardClaims{
			Id:        user.ID,
			Subject:   user.Username,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(i.ttl).Unix(),
			Issuer:    "smartserve",
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", User{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, user, nil
}

// Parse verifies a token and returns its user
func (i *Issuer) Parse(tokenString string) (User, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return User{}, ErrInvalidToken
	}
	return User{ID: claims.Id, Username: claims.Username, Role: claims.Role}, nil
}
