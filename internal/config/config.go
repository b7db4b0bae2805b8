package config

import (
	"fmt"
	"time"

	"github.com/flayve23/flayve-oficial/pkg/authtoken"
	"github.com/flayve23/flayve-oficial/pkg/mq"
	"github.com/flayve23/flayve-oficial/pkg/mysql"
	"github.com/flayve23/flayve-oficial/pkg/paygate"
	"github.com/flayve23/flayve-oficial/pkg/videotoken"
	"github.com/spf13/viper"
)

type Config struct {
	API      API               `mapstructure:"api"`
	Database mysql.Config      `mapstructure:"database"`
	Redis    Redis             `mapstructure:"redis"`
	RabbitMQ mq.Config         `mapstructure:"rabbitmq"`
	PayGate  paygate.Config    `mapstructure:"paygate"`
	Video    videotoken.Config `mapstructure:"video"`
	Auth     authtoken.Config  `mapstructure:"auth"`
	Billing  Billing           `mapstructure:"billing"`
	Calls    Calls             `mapstructure:"calls"`
}

type API struct {
	Port string `mapstructure:"port"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type Billing struct {
	DefaultCommissionRate float64 `mapstructure:"default_commission_rate"`
	MinDepositAmount      float64 `mapstructure:"min_deposit_amount"`
	MinWithdrawalAmount   float64 `mapstructure:"min_withdrawal_amount"`
	PlatformAccountID     int64   `mapstructure:"platform_account_id"`
}

type Calls struct {
	RingingWindow  time.Duration `mapstructure:"ringing_window"`
	SweepInterval  time.Duration `mapstructure:"sweep_interval"`
	PollRateLimit  int           `mapstructure:"poll_rate_limit"`
	PollRateWindow time.Duration `mapstructure:"poll_rate_window"`
}

func Load() (cfg *Config, err error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath("./config")

	viper.SetDefault("billing.default_commission_rate", 0.30)
	viper.SetDefault("billing.min_deposit_amount", 5)
	viper.SetDefault("billing.min_withdrawal_amount", 50)
	viper.SetDefault("billing.platform_account_id", 1)
	viper.SetDefault("calls.ringing_window", 30*time.Second)
	viper.SetDefault("calls.sweep_interval", 5*time.Second)
	viper.SetDefault("calls.poll_rate_limit", 30)
	viper.SetDefault("calls.poll_rate_window", time.Minute)

	err = viper.ReadInConfig()
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
