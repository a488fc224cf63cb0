package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnvString returns the value of key, or defaultValue when unset or empty.
func GetEnvString(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue, fmt.Errorf("invalid integer for %s: %q", key, value)
	}
	return n, nil
}

// GetEnvDuration parses values such as "30s" or "2m".
func GetEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue, fmt.Errorf("invalid duration for %s: %q", key, value)
	}
	return d, nil
}

// GetEnvList splits a comma separated value, dropping blanks. A variable
// set to an empty string is treated as unset; use "," for an empty list.
func GetEnvList(key string, defaultValue []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue
	}
	out := []string{}
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
