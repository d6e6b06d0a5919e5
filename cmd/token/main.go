// Command token mints an access token for a user id, signed with ACCESS_TOKEN.
package main

import (
	"flag"
	"fmt"
	"os"
	"tower_backend/internal/config"
	"tower_backend/internal/config/env"
	"tower_backend/pkg/token"
)

func main() {
	userID := flag.Int64("user", 0, "user id to put into the token")
	flag.Parse()

	if *userID <= 0 {
		fmt.Fprintln(os.Stderr, "usage: token -user <id>")
		os.Exit(2)
	}

	_ = config.Load(".env")
	cfg, err := env.NewJWTConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	tok, err := token.GenerateAccessToken(*userID, cfg.AccessTokenSecretKey(), cfg.AccessTokenDuration())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
