package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

var ErrUnknownStorage = errors.New("unknown storage")

type Config struct {
	LogLevel string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Storage  string `yaml:"storage" env:"STORAGE" env-default:"memory"`

	// TableTTL applies to every storage: a table untouched for longer is dropped.
	TableTTL time.Duration `yaml:"table-ttl" env:"TABLE_TTL" env-default:"2h"`

	Redis Redis `yaml:"redis"`
	Game  Game  `yaml:"game"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Game struct {
	DefaultBoardSize int `yaml:"default-board-size" env:"GAME_DEFAULT_BOARD_SIZE" env-default:"3"`
	MaxBoardSize     int `yaml:"max-board-size" env:"GAME_MAX_BOARD_SIZE" env-default:"10"`
}

// Load reads the yml file at path when it exists, otherwise the environment only.
// Environment variables override values from the file.
func Load(path string) (*Config, error) {
	config := &Config{}

	var err error
	if _, statErr := os.Stat(path); statErr == nil {
		err = cleanenv.ReadConfig(path, config)
	} else {
		err = cleanenv.ReadEnv(config)
	}

	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}

	if err = config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Config) validate() error {
	switch that.Storage {
	case StorageMemory, StorageRedis:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorage, that.Storage)
	}

	if that.TableTTL < 0 {
		return fmt.Errorf("table ttl %s is negative", that.TableTTL)
	}

	if that.Game.MaxBoardSize < that.Game.DefaultBoardSize {
		return fmt.Errorf("max board size %d is below default board size %d", that.Game.MaxBoardSize, that.Game.DefaultBoardSize)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
