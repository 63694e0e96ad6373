// Command devtoken prints a signed bearer token for local testing.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"shopdesk/internal/common"
	"shopdesk/internal/middleware"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	role := flag.String("role", common.RoleStaff, "admin, staff or customer")
	subject := flag.String("sub", "dev", "token subject")
	customer := flag.String("customer", "", "customer id, required for the customer role")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()
	v := viper.New()
	v.AutomaticEnv()
	secret := v.GetString("JWT_SECRET")
	if secret == "" {
		log.Fatal().Msg("JWT_SECRET is not set")
	}

	p := common.Principal{Subject: *subject, Role: *role}
	if *customer != "" {
		id, err := uuid.Parse(*customer)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid customer id")
		}
		p.CustomerID = &id
	}

	token, err := middleware.SignHS256(secret, p, *ttl)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to sign token")
	}
	fmt.Println(token)
}
