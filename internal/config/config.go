package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	BackendURL  string
	HTTPTimeout time.Duration
	LogLevel    string
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvSeconds(k string, def int) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return time.Duration(def) * time.Second
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("invalid %s=%q, using %d", k, v, def)
		return time.Duration(def) * time.Second
	}
	return time.Duration(n) * time.Second
}

func Load() *Config {
	return &Config{
		BackendURL:  getEnv("BUREAUBUDDY_BACKEND_URL", "http://localhost:8000"),
		HTTPTimeout: getEnvSeconds("BUREAUBUDDY_HTTP_TIMEOUT", 60),
		LogLevel:    getEnv("BUREAUBUDDY_LOG_LEVEL", "info"),
	}
}
