package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Deck     DeckConfig     `mapstructure:"deck"`
	Security SecurityConfig `mapstructure:"security"`
	Client   ClientConfig   `mapstructure:"client"`
}

type ServerConfig struct {
	Port  int  `mapstructure:"port"`
	Debug bool `mapstructure:"debug"`
}

type DatabaseConfig struct {
	Mode         string `mapstructure:"mode"` // sqlite | mysql
	SQLitePath   string `mapstructure:"sqlite_path"`
	MySQLDSN     string `mapstructure:"mysql_dsn"`
	MySQLMaxOpen int    `mapstructure:"mysql_max_open"`
	MySQLMaxIdle int    `mapstructure:"mysql_max_idle"`
}

type DeckConfig struct {
	// DataDir is where seed sources (data.csv / data.json) are looked up.
	DataDir string `mapstructure:"data_dir"`
}

type SecurityConfig struct {
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

type ClientConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	StatePath string `mapstructure:"state_path"`
	Prefetch  bool   `mapstructure:"prefetch"`
}

// Load reads config from the given YAML file path. A missing file is not an
// error; defaults plus environment overrides apply so the server can run
// without any config on disk.
func Load(path string) (*Config, error) {
	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("DRINKGAME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.debug", false)
	v.SetDefault("database.mode", "sqlite")
	v.SetDefault("database.sqlite_path", "./database.sqlite")
	v.SetDefault("database.mysql_max_open", 20)
	v.SetDefault("database.mysql_max_idle", 5)
	v.SetDefault("deck.data_dir", ".")
	v.SetDefault("security.rate_limit_rps", 100)
	v.SetDefault("security.rate_limit_burst", 200)
	v.SetDefault("client.base_url", "http://localhost:3000")
	v.SetDefault("client.state_path", "./drinking-game-storage.json")
	v.SetDefault("client.prefetch", true)

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
