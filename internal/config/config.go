// Package config предоставляет структуры и функции для загрузки конфигурации
// из YAML‑файла и переменных окружения.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Драйверы хранилища.
const (
	DriverMemory     = "memory"
	DriverFile       = "file"
	DriverRedis      = "redis"
	DriverPostgreSQL = "postgresql"
)

// Config общая структура для хранения настроек
type Config struct {
	Env             string          `yaml:"env" env:"DESK_ENV" env-default:"local"`
	Storage         Storage         `yaml:"storage"`
	RedisConnection RedisConnection `yaml:"redis_connection"`
	Auth            Auth            `yaml:"auth"`
	Seed            Seed            `yaml:"seed"`
	Metrics         Metrics         `yaml:"metrics"`
}

// Storage структура для выбора и настройки key-value хранилища
type Storage struct {
	Driver           string        `yaml:"driver" env:"DESK_STORAGE_DRIVER" env-default:"file"`
	Path             string        `yaml:"path" env:"DESK_STORAGE_PATH" env-default:"./data"`
	ConnectionString string        `yaml:"connection_string" env:"DESK_STORAGE_DSN"`
	SkipSeed         bool          `yaml:"skip_seed" env:"DESK_SKIP_SEED"`
	LockTimeout      time.Duration `yaml:"lock_timeout" env-default:"5s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	Addr        string        `yaml:"addressredis" env:"DESK_REDIS_ADDR" env-default:"localhost:6379"`
	Password    string        `yaml:"password" env:"DESK_REDIS_PASSWORD"`
	User        string        `yaml:"user"`
	DB          int           `yaml:"db"`
	MaxRetries  int           `yaml:"max_retries"`
	DialTimeout time.Duration `yaml:"dial_timeout" env-default:"5s"`
	Timeout     time.Duration `yaml:"timeoutredis" env-default:"3s"`
	KeyPrefix   string        `yaml:"key_prefix" env-default:"desk:"`
}

// Auth структура для настройки аутентификации и сессий
type Auth struct {
	Salt                string        `yaml:"salt" env-default:"appointment_system_"`
	SimulatedLatency    time.Duration `yaml:"simulated_latency"`
	LoginRate           float64       `yaml:"login_rate"` // попыток входа в секунду, 0 — без ограничения
	LoginBurst          int           `yaml:"login_burst" env-default:"5"`
	SessionSecret       string        `yaml:"session_secret" env:"DESK_SESSION_SECRET"` // пусто — сессия без подписи
	SessionTTL          time.Duration `yaml:"session_ttl"`
	RevalidateOnRestore bool          `yaml:"revalidate_on_restore"`
}

// Seed структура с паролями начальных учётных записей
type Seed struct {
	AdminPassword   string `yaml:"admin_password" env-default:"Admin@123"`
	TeacherPassword string `yaml:"teacher_password" env-default:"Teacher@123"`
	StudentPassword string `yaml:"student_password" env-default:"Student@123"`
}

// Metrics структура для выгрузки метрик в текстовый файл
type Metrics struct {
	Textfile string `yaml:"textfile" env:"DESK_METRICS_TEXTFILE"`
}

// Load читает конфиг из файла по пути path. Если path пустой,
// конфиг собирается только из переменных окружения и значений по умолчанию.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return &cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			log.Fatalf("file: %s - does not exist", configPath)
		}
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"Storage:\n"+
			"  Driver: %s\n"+
			"  Path: %s\n"+
			"  SkipSeed: %t\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"  KeyPrefix: %s\n"+
			"Auth:\n"+
			"  SimulatedLatency: %s\n"+
			"  LoginRate: %g\n"+
			"  LoginBurst: %d\n"+
			"  SessionSigned: %t\n"+
			"  SessionTTL: %s\n"+
			"  RevalidateOnRestore: %t\n"+
			"Metrics:\n"+
			"  Textfile: %s\n",
		c.Env,
		c.Storage.Driver,
		c.Storage.Path,
		c.Storage.SkipSeed,
		c.RedisConnection.Addr,
		c.RedisConnection.DB,
		c.RedisConnection.KeyPrefix,
		c.Auth.SimulatedLatency,
		c.Auth.LoginRate,
		c.Auth.LoginBurst,
		c.Auth.SessionSecret != "",
		c.Auth.SessionTTL,
		c.Auth.RevalidateOnRestore,
		c.Metrics.Textfile,
	)
}
