package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

type Config struct {
	LogLevel      string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort      string        `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort    string        `yaml:"socket-port" env:"SOCKET_PORT" env-default:"8080"`
	Storage       string        `yaml:"storage" env:"STORAGE" env-default:"memory"`
	SessionTTL    time.Duration `yaml:"session-ttl" env:"SESSION_TTL" env-default:"1h"`
	ComputerDelay time.Duration `yaml:"computer-delay" env:"COMPUTER_DELAY" env-default:"0s"`
	Redis         Redis         `yaml:"redis"`
	SSH           SSH           `yaml:"ssh"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type SSH struct {
	Enabled     bool   `yaml:"enabled" env:"SSH_ENABLED" env-default:"false"`
	Port        string `yaml:"port" env:"SSH_PORT" env-default:"2222"`
	HostKeyFile string `yaml:"host-key-file" env:"SSH_HOST_KEY_FILE"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Load - reads path, environment variables override the file.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

// GetRedisAddr - empty when the host is not set.
func (that *Redis) GetRedisAddr() string {
	if that.Host == "" {
		return ""
	}

	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
