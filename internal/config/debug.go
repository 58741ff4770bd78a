package config

import "os"

func IsDebug() bool {
	return os.Getenv("SENTINEL_DEBUG") == "1"
}
