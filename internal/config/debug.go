package config

import "os"

func IsDebug() bool {
	return os.Getenv("TUNE_DEBUG") == "1"
}
