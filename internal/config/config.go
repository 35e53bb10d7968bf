// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек приложения.
type Config struct {
	Env                string `yaml:"env" env:"ENV" env-default:"local"`
	SupabaseConnection `yaml:"supabase_connection"`
	RedisConnection    `yaml:"redis_connection"`
	HTTPServer         `yaml:"http_server"`
	Resolution         `yaml:"resolution"`
	CacheTTL           `yaml:"cache_ttl"`
}

// SupabaseConnection структура для настройки подключения к хостимому бэкенду
// (GoTrue + PostgREST).
type SupabaseConnection struct {
	URL             string        `yaml:"url" env:"SUPABASE_URL"`
	AnonKey         string        `yaml:"anon_key" env:"SUPABASE_ANON_KEY"`
	RequestTimeout  time.Duration `yaml:"request_timeout" env-default:"10s"`
	SessionFile     string        `yaml:"session_file"`
	RefreshLeeway   time.Duration `yaml:"refresh_leeway" env-default:"60s"`
	RefreshInterval time.Duration `yaml:"refresh_interval" env-default:"30s"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"2s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"1s"`
}

// Resolution задаёт ограничения по времени для цикла разрешения
// аутентификации и подписки.
type Resolution struct {
	BootstrapTimeout time.Duration `yaml:"bootstrap_timeout" env-default:"5s"`
	FetchTimeout     time.Duration `yaml:"fetch_timeout" env-default:"3s"`
}

// CacheTTL задаёт время свежести записей кеша. Retain — сколько запись живёт
// в redis после устаревания: устаревшие записи нужны как резерв при недоступном бэкенде.
type CacheTTL struct {
	Entitlement time.Duration `yaml:"entitlement" env-default:"5m"`
	JobList     time.Duration `yaml:"job_list" env-default:"10m"`
	JobDetail   time.Duration `yaml:"job_detail" env-default:"10m"`
	Retain      time.Duration `yaml:"retain" env-default:"24h"`
}

// MustLoad загружает конфиг по пути из CONFIG_PATH, при ошибке завершает процесс.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
