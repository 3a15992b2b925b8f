package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"sitelink.com/sitelink/core"
	"sitelink.com/sitelink/security"
	"sitelink.com/sitelink/utils"
	"sitelink.com/sitelink/web/handlers"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	dsn := getenv("DSN", "sqlite:sitelink.db")
	fmt.Printf("using DSN: %s\n", dsn)

	dm, err := core.New(dsn, 10, core.ParseLogLevel(os.Getenv("LOG_LEVEL")))
	if err != nil {
		log.Fatal(err)
	}
	defer dm.Close()

	if err := dm.Migrate(context.Background()); err != nil {
		log.Fatal(err)
	}

	jwtSecret, err := security.DecodeSecret(os.Getenv("SITELINK_SIGNING_SECRET"))
	if err != nil {
		log.Fatal("Failed to decode JWT secret:", err)
	}

	ttl := 12 * time.Hour
	if hours, err := strconv.Atoi(os.Getenv("SITELINK_TOKEN_HOURS")); err == nil && hours > 0 {
		ttl = time.Duration(hours) * time.Hour
	}

	r := handlers.NewRouter(dm, handlers.Options{
		Secret:   jwtSecret,
		TokenTTL: ttl,
		Zone:     utils.LoadZone(getenv("SITE_TIME_ZONE", "Australia/Brisbane")),
		Logger:   utils.NewLogger(os.Stderr, os.Getenv("LOG_LEVEL") == "debug"),
	})

	if err := r.Run(":" + getenv("PORT", "8080")); err != nil {
		log.Fatal(err)
	}
}
