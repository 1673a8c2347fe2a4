package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	k    = koanf.New(".")
	mu   sync.RWMutex
	once sync.Once
)

// Load reads the optional YAML file and then overlays the environment.
// Environment keys are lower-cased and "_" becomes ".", so DB_HOST overrides db.host.
func Load(configPath string) error {
	var err error
	once.Do(func() {
		_ = godotenv.Load()
		err = reload(configPath)
	})
	return err
}

// Reload discards the loaded values and reads the sources again.
func Reload(configPath string) error {
	return reload(configPath)
}

func reload(configPath string) error {
	next := koanf.New(".")

	if configPath != "" {
		if _, statErr := os.Stat(configPath); statErr == nil {
			if err := next.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return fmt.Errorf("failed to load config file %s: %w", configPath, err)
			}
		}
	}

	if err := next.Load(env.Provider("", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(s), "_", ".")
	}), nil); err != nil {
		return fmt.Errorf("failed to load environment: %w", err)
	}

	mu.Lock()
	k = next
	mu.Unlock()
	return nil
}

func get() *koanf.Koanf {
	mu.RLock()
	defer mu.RUnlock()
	return k
}

func GetString(key, def string) string {
	if v := get().String(key); v != "" {
		return v
	}
	return def
}

func GetInt(key string, def int) int {
	if !get().Exists(key) {
		return def
	}
	if v := get().Int(key); v != 0 {
		return v
	}
	return def
}

func GetBool(key string, def bool) bool {
	if !get().Exists(key) {
		return def
	}
	return get().Bool(key)
}

func GetDuration(key string, def time.Duration) time.Duration {
	if !get().Exists(key) {
		return def
	}
	if v := get().Duration(key); v > 0 {
		return v
	}
	return def
}
