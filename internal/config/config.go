package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	// KeyTTLCeiling is the properties key holding the TTL ceiling in seconds.
	KeyTTLCeiling = "global.expiration.time"

	// DefaultTTLCeilingSeconds applies when neither the file nor the environment sets the ceiling.
	DefaultTTLCeilingSeconds = 3600

	// EnvPrefix namespaces environment overrides, e.g. MINIURL_GLOBAL_EXPIRATION_TIME.
	EnvPrefix = "MINIURL"
)

var ErrInvalidTTLCeiling = errors.New("ttl ceiling must be a positive number of seconds")

// Config holds the values read from the properties file.
type Config struct {
	TTLCeiling time.Duration
}

// Load reads the properties file at path. A missing file is not an error;
// defaults and environment overrides still apply. An empty path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault(KeyTTLCeiling, DefaultTTLCeilingSeconds)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("properties")

		if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	raw := strings.TrimSpace(v.GetString(KeyTTLCeiling))

	secs, err := cast.ToInt64E(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTTLCeiling, raw)
	}

	if secs <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTTLCeiling, secs)
	}

	return &Config{TTLCeiling: time.Duration(secs) * time.Second}, nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError

	return errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound)
}
