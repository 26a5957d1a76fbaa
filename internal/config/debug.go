package config

import "os"

func IsDebug() bool {
	return os.Getenv("TELMII_DEBUG") == "1"
}

func IsJSONLog() bool {
	return os.Getenv("TELMII_LOG_FORMAT") == "json"
}
