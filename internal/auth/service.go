package auth

import (
	"crypto/subtle"
	"errors"

	sharedauth "driver-portal/internal/shared/auth"
)

// ErrInvalidCredentials is returned for any username/password mismatch. The
// message is deliberately uniform so callers cannot probe which field was
// wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service validates portal credentials and issues session tokens. The portal
// runs with a single provisioned driver account configured at startup.
type Service struct {
	Username  string
	Password  string
	JWTSecret string
}

func NewService(username, password, jwtSecret string) *Service {
	return &Service{Username: username, Password: password, JWTSecret: jwtSecret}
}

// LoginResult carries the signed session token back to the client.
type LoginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Login checks the supplied credentials with constant-time comparison and
// returns a signed token on success.
func (s *Service) Login(username, password string) (LoginResult, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.Password)) == 1
	if !userOK || !passOK {
		return LoginResult{}, ErrInvalidCredentials
	}
	token, err := sharedauth.Sign(s.JWTSecret, username)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: token, Username: username}, nil
}
