package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"sitelink.com/sitelink/core"
	"sitelink.com/sitelink/security"
)

func main() {
	dsn := flag.String("dsn", os.Getenv("DSN"), "database DSN (sqlite:<path> for local files)")
	password := flag.String("password", "sitelink", "password of every seeded user")
	tokenFor := flag.String("token", "", "print a signed token for this username")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	if *dsn == "" {
		*dsn = "sqlite:sitelink.db"
	}
	dm, err := core.New(*dsn, 1, core.LogLevelWarn)
	if err != nil {
		log.Fatal(err)
	}
	defer dm.Close()

	if err := dm.Migrate(context.Background()); err != nil {
		log.Fatal(err)
	}
	if err := core.Seed(dm.DB, *password); err != nil {
		log.Fatalf("failed to seed: %v", err)
	}
	fmt.Printf("[INFO] seeded %s\n", *dsn)

	if *tokenFor == "" {
		return
	}
	secret, err := security.DecodeSecret(os.Getenv("SITELINK_SIGNING_SECRET"))
	if err != nil {
		log.Fatal(err)
	}
	user, err := core.FindUserByUsername(dm.DB, *tokenFor)
	if err != nil {
		log.Fatal(err)
	}
	if user == nil {
		log.Fatalf("no user %q", *tokenFor)
	}
	token, err := security.CreateIdentityToken(user, secret, *ttl)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(token)
}
