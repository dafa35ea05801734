package config

import "os"

type Config struct {
	Addr           string
	DBPath         string
	FrontendOrigin string
	GinMode        string
}

func Load() Config {
	return Config{
		Addr:           getenv("LUDO_ADDR", ":8080"),
		DBPath:         getenv("LUDO_DB", "./ludo.db"),
		FrontendOrigin: getenv("FRONTEND_ORIGIN", "http://localhost:3000"),
		GinMode:        getenv("GIN_MODE", "debug"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
