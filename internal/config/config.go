package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Policies are the tunable behavior switches of the world coordinator.
// They can be changed at runtime through the config API.
type Policies struct {
	// TurnOnBlocked makes a blocked move still update the player's facing
	// direction ("bump into the wall but turn to face it").
	TurnOnBlocked bool `mapstructure:"turnOnBlocked" json:"turnOnBlocked"`
	// AllowSlotSwap lets a user who already owns a stream slot claim a new
	// one, releasing the old slot in the same step. When false the second
	// request is rejected.
	AllowSlotSwap bool `mapstructure:"allowSlotSwap" json:"allowSlotSwap"`
}

type Config struct {
	HTTPAddr    string        `mapstructure:"httpAddr"`
	LogLevel    string        `mapstructure:"logLevel"`
	CatalogFile string        `mapstructure:"catalogFile"`
	ChessClock  time.Duration `mapstructure:"chessClock"`
	Policies    Policies      `mapstructure:"policies"`
}

// Load reads config.yaml (optional) plus POIPOI_* environment overrides.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	v.SetDefault("httpAddr", ":8085")
	v.SetDefault("logLevel", "info")
	v.SetDefault("catalogFile", "")
	v.SetDefault("chessClock", 5*time.Minute)
	v.SetDefault("policies.turnOnBlocked", true)
	v.SetDefault("policies.allowSlotSwap", false)

	v.SetEnvPrefix("POIPOI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
