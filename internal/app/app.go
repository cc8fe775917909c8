package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var (
	ErrUnknownEnvironment = errors.New("unknown environment")
	ErrUnknownDriver      = errors.New("unknown database driver")
	ErrEmptyDatabase      = errors.New("database path or dsn is empty")
	ErrBadMaxOpenConns    = errors.New("max open conns must be positive")
	ErrBadPort            = errors.New("port must be in 1..65535")
)

type Config struct {
	Port         int         `yaml:"port"`
	EventsPort   int         `yaml:"events_port"`
	Environment  string      `yaml:"environment"`
	OpenAIAPIKey string      `yaml:"openai_api_key"`
	CfgDB        ConfigDB    `yaml:"db"`
	CfgLog       ConfigLog   `yaml:"log"`
	CfgRedis     ConfigRedis `yaml:"redis"`
	CfgKafka     ConfigKafka `yaml:"kafka"`
}

type ConfigDB struct {
	Driver       string `yaml:"driver"`
	Path         string `yaml:"path"`
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

type ConfigLog struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// ConfigRedis - пустой Addr отключает кэш саммари
type ConfigRedis struct {
	Addr       string        `yaml:"addr"`
	Password   string        `yaml:"password"`
	DB         int           `yaml:"db"`
	SummaryTTL time.Duration `yaml:"summary_ttl"`
}

// ConfigKafka - пустой Brokers отключает публикацию событий
type ConfigKafka struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"group_id"`
}

// envOverrides - переменные окружения, nil значит "не задано"
type envOverrides struct {
	Port         *int           `envconfig:"PORT"`
	EventsPort   *int           `envconfig:"EVENTS_PORT"`
	Environment  *string        `envconfig:"ENVIRONMENT"`
	OpenAIAPIKey *string        `envconfig:"OPENAI_API_KEY"`
	DBDriver     *string        `envconfig:"DATABASE_DRIVER"`
	DBPath       *string        `envconfig:"DATABASE_PATH"`
	DBDSN        *string        `envconfig:"DATABASE_DSN"`
	MaxOpenConns *int           `envconfig:"DATABASE_MAX_OPEN_CONNS"`
	LogFile      *string        `envconfig:"LOG_FILE"`
	LogLevel     *string        `envconfig:"LOG_LEVEL"`
	RedisAddr    *string        `envconfig:"REDIS_ADDR"`
	RedisPass    *string        `envconfig:"REDIS_PASSWORD"`
	RedisDB      *int           `envconfig:"REDIS_DB"`
	SummaryTTL   *time.Duration `envconfig:"SUMMARY_CACHE_TTL"`
	KafkaBrokers *[]string      `envconfig:"KAFKA_BROKERS"`
	KafkaTopic   *string        `envconfig:"KAFKA_TOPIC"`
	KafkaGroupID *string        `envconfig:"KAFKA_GROUP_ID"`
}

func DefaultConfig() *Config {
	return &Config{
		Port:        3000,
		EventsPort:  8082,
		Environment: EnvDevelopment,
		CfgDB: ConfigDB{
			Driver:       DriverSQLite,
			Path:         "./data/feedback.db",
			MaxOpenConns: 1,
		},
		CfgLog: ConfigLog{
			File: "logs/app.log",
		},
		CfgRedis: ConfigRedis{
			SummaryTTL: 10 * time.Minute,
		},
		CfgKafka: ConfigKafka{
			Topic:   "feedback-events",
			GroupID: "feedback-events-group",
		},
	}
}

// NewConfig собирает конфиг: значения по умолчанию, затем yaml файл,
// затем .env и переменные окружения. Отсутствующие файлы пропускаются.
func NewConfig(configPath, envPath string) (*Config, error) {
	c := DefaultConfig()

	if configPath != "" {
		cfg, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(cfg, c); err != nil {
				return nil, fmt.Errorf("parse %s: %w", configPath, err)
			}
		}
	}

	if envPath != "" {
		// godotenv не перетирает уже выставленные переменные
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envPath, err)
		}
	}

	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return nil, err
	}
	env.apply(c)

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (e *envOverrides) apply(c *Config) {
	setInt(&c.Port, e.Port)
	setInt(&c.EventsPort, e.EventsPort)
	setString(&c.Environment, e.Environment)
	setString(&c.OpenAIAPIKey, e.OpenAIAPIKey)

	setString(&c.CfgDB.Driver, e.DBDriver)
	setString(&c.CfgDB.Path, e.DBPath)
	setString(&c.CfgDB.DSN, e.DBDSN)
	setInt(&c.CfgDB.MaxOpenConns, e.MaxOpenConns)

	setString(&c.CfgLog.File, e.LogFile)
	setString(&c.CfgLog.Level, e.LogLevel)

	setString(&c.CfgRedis.Addr, e.RedisAddr)
	setString(&c.CfgRedis.Password, e.RedisPass)
	setInt(&c.CfgRedis.DB, e.RedisDB)
	if e.SummaryTTL != nil {
		c.CfgRedis.SummaryTTL = *e.SummaryTTL
	}

	if e.KafkaBrokers != nil {
		c.CfgKafka.Brokers = *e.KafkaBrokers
	}
	setString(&c.CfgKafka.Topic, e.KafkaTopic)
	setString(&c.CfgKafka.GroupID, e.KafkaGroupID)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func (c *Config) Validate() error {
	if c.Environment != EnvDevelopment && c.Environment != EnvProduction {
		return fmt.Errorf("%w: %q", ErrUnknownEnvironment, c.Environment)
	}

	if c.Port <= 0 || c.Port > 65535 || c.EventsPort <= 0 || c.EventsPort > 65535 {
		return ErrBadPort
	}

	switch c.CfgDB.Driver {
	case DriverSQLite:
		if c.CfgDB.Path == "" {
			return ErrEmptyDatabase
		}
	case DriverPostgres:
		if c.CfgDB.DSN == "" {
			return ErrEmptyDatabase
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.CfgDB.Driver)
	}

	if c.CfgDB.MaxOpenConns <= 0 {
		return ErrBadMaxOpenConns
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func (c *Config) EventsAddr() string {
	return ":" + strconv.Itoa(c.EventsPort)
}

// MaskedAPIKey - ключ для логов, видны только последние 4 символа
func (c *Config) MaskedAPIKey() string {
	if c.OpenAIAPIKey == "" {
		return ""
	}
	if len(c.OpenAIAPIKey) <= 4 {
		return "****"
	}

	return "****" + c.OpenAIAPIKey[len(c.OpenAIAPIKey)-4:]
}
