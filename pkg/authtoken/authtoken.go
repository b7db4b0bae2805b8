package authtoken

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("INVALID_TOKEN")
	ErrExpiredToken = errors.New("EXPIRED_TOKEN")
)

type Config struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

// Identity is the resolved bearer credential: who the caller is and which role
// they carry. Role checks happen at the API layer.
type Identity struct {
	UserID   int64
	Username string
	Role     string
}

// Verifier resolves a bearer token into an Identity or fails.
type Verifier interface {
	Verify(token string) (Identity, error)
}

type verifier struct {
	secret []byte
}

func NewVerifier(cfg Config) Verifier {
	return &verifier{secret: []byte(cfg.Secret)}
}

func (v *verifier) Verify(tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrExpiredToken
		}
		return Identity{}, ErrInvalidToken
	}

	if !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return Identity{}, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	role, _ := claims["role"].(string)
	username, _ := claims["username"].(string)

	return Identity{UserID: userID, Username: username, Role: role}, nil
}

// Sign issues a session token. Only used by tests and auxiliary tooling here;
// token issuance itself lives in the auth service, outside this core.
func Sign(cfg Config, identity Identity) (string, error) {
	now := time.Now()
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      strconv.FormatInt(identity.UserID, 10),
		"role":     identity.Role,
		"username": identity.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	})

	return token.SignedString([]byte(cfg.Secret))
}
