package videotoken

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Config struct {
	APIKey    string        `mapstructure:"api_key"`
	APISecret string        `mapstructure:"api_secret"`
	URL       string        `mapstructure:"url"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// Grant describes what a participant may do inside a room. Both call sides get
// symmetric publish/subscribe rights.
type Grant struct {
	Room         string `json:"room"`
	RoomJoin     bool   `json:"roomJoin"`
	CanPublish   bool   `json:"canPublish"`
	CanSubscribe bool   `json:"canSubscribe"`
}

type claims struct {
	jwt.RegisteredClaims
	Name  string `json:"name,omitempty"`
	Video Grant  `json:"video"`
}

// Issuer mints short-lived signed join credentials for the video provider.
// The room identifier is derived from the call id so both participants can
// reconstruct it independently.
type Issuer interface {
	Mint(roomName string, identity string, displayName string, grant Grant) (JoinCredential, error)
}

type JoinCredential struct {
	Token string `json:"token"`
	Room  string `json:"room"`
	URL   string `json:"url"`
}

type issuer struct {
	config Config
}

func NewIssuer(cfg Config) Issuer {
	return &issuer{config: cfg}
}

func (i *issuer) Mint(roomName string, identity string, displayName string, grant Grant) (JoinCredential, error) {
	now := time.Now()
	ttl := i.config.TTL
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}

	grant.Room = roomName

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.config.APIKey,
			Subject:   identity,
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Name:  displayName,
		Video: grant,
	})

	signed, err := token.SignedString([]byte(i.config.APISecret))
	if err != nil {
		return JoinCredential{}, fmt.Errorf("failed to sign join token: %w", err)
	}

	return JoinCredential{Token: signed, Room: roomName, URL: i.config.URL}, nil
}
