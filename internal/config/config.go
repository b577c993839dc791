package config

import (
	"log"
	"os"
)

type Config struct {
	Port     string
	DBDSN    string
	MediaDir string
	LogFile  string

	// Outbound mail. When SMTPAddr is empty, mail is written to the app log
	// instead of being delivered.
	SMTPAddr string // host:port
	SMTPUser string
	SMTPPass string

	StoreName  string
	StoreEmail string // operator address; also the From address
	BaseURL    string
}

func Load() Config {
	cfg := Config{
		Port:       getenv("PORT", "8080"),
		DBDSN:      getenv("DB_DSN", "jadimart.db"), // sqlite file in project root
		MediaDir:   getenv("MEDIA_DIR", "./web/media"),
		LogFile:    getenv("LOG_FILE", "./jadimart.log"),
		SMTPAddr:   os.Getenv("SMTP_ADDR"),
		SMTPUser:   os.Getenv("SMTP_USER"),
		SMTPPass:   os.Getenv("SMTP_PASS"),
		StoreName:  getenv("STORE_NAME", "Jadimart"),
		StoreEmail: getenv("STORE_EMAIL", "orders@jadimart.test"),
		BaseURL:    getenv("BASE_URL", "http://localhost:8080"),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s LOG_FILE=%s SMTP_ADDR=%s STORE_EMAIL=%s",
		cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.LogFile, cfg.SMTPAddr, cfg.StoreEmail)
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
