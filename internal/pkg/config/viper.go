package config

import (
	"bytes"
	"encoding/base64"
	"errors"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// ErrConfigTypeRequired is returned by NewViperFromBytes without a format.
var ErrConfigTypeRequired = errors.New("config type is required")

// Viper is a Config implementation backed by github.com/spf13/viper.
type Viper struct {
	v *viper.Viper
}

// NewViper loads configuration from the given file path and watches it for changes.
//
// The config file type is inferred by Viper from the filename extension.
// Environment variables override file values, with "." replaced by "_"
// (modules.otp.ttl_seconds -> MODULES_OTP_TTL_SECONDS).
func NewViper(pathFile string) (*Viper, error) {
	v := viper.New()

	filename := path.Base(pathFile)
	v.AddConfigPath(path.Dir(pathFile))
	v.SetConfigName(strings.TrimSuffix(filename, path.Ext(filename)))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		if err := v.ReadInConfig(); err != nil {
			slog.Error("config reload failed", "path", pathFile, "error", err)
			return
		}
		slog.Info("config success reloaded", "path", pathFile)
	})
	v.WatchConfig()

	return &Viper{v: v}, nil
}

// NewViperFromBytes loads configuration from memory.
// configType should be a format supported by Viper (e.g. "yaml", "json", "toml").
func NewViperFromBytes(configType string, data []byte) (*Viper, error) {
	if strings.TrimSpace(configType) == "" {
		return nil, ErrConfigTypeRequired
	}

	v := viper.New()
	v.SetConfigType(configType)

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return &Viper{v: v}, nil
}

func (vc *Viper) GetSecond(key string) time.Duration {
	return time.Duration(vc.v.GetInt64(key)) * time.Second
}

func (vc *Viper) GetMinute(key string) time.Duration {
	return time.Duration(vc.v.GetInt64(key)) * time.Minute
}

func (vc *Viper) GetInt(key string) int {
	return vc.v.GetInt(key)
}

func (vc *Viper) GetInt32(key string) int32 {
	return vc.v.GetInt32(key)
}

func (vc *Viper) GetUint16(key string) uint16 {
	return uint16(vc.v.GetUint(key))
}

func (vc *Viper) GetFloat64(key string) float64 {
	return vc.v.GetFloat64(key)
}

func (vc *Viper) GetBool(key string) bool {
	return vc.v.GetBool(key)
}

func (vc *Viper) GetString(key string) string {
	return vc.v.GetString(key)
}

func (vc *Viper) GetBinary(key string) []byte {
	data, err := base64.StdEncoding.DecodeString(vc.v.GetString(key))
	if err != nil {
		return nil
	}

	return data
}

func (vc *Viper) GetArray(key string) []string {
	var raw []string
	if s, ok := vc.v.Get(key).(string); ok {
		raw = strings.Split(s, ",")
	} else {
		raw = vc.v.GetStringSlice(key)
	}

	return lo.FilterMap(raw, func(item string, _ int) (string, bool) {
		item = strings.TrimSpace(item)
		return item, item != ""
	})
}

// Close implements io.Closer; viper holds no resources.
func (vc *Viper) Close() error {
	return nil
}
