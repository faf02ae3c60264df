// Command token mints an operator bearer token with the configured RS256 key.
//
//	go run ./cmd/token -sub ops@example.com
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/lead-relay/internal/config"
	jwtinfra "github.com/lead-relay/internal/infrastructure/jwt"
)

func main() {
	sub := flag.String("sub", "operator", "token subject")
	role := flag.String("role", jwtinfra.RoleAdmin, "token role")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	p, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	tok, err := p.Sign(*sub, *role)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
