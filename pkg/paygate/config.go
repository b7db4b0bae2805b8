package paygate

import "time"

type Config struct {
	BaseURL     string        `mapstructure:"base_url"`
	AccessToken string        `mapstructure:"access_token"`
	CallbackURL string        `mapstructure:"callback_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxRetries  int           `mapstructure:"max_retries"`
}
