package config

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/dmitrijs2005/authkeeper/internal/flagx"
	"github.com/dmitrijs2005/authkeeper/internal/timex"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address, host:port
//	-d string   MongoDB URI
//	-s string   JWT HMAC secret
//	-t string   token lifetime ("7d", "1h", seconds)
//	-b int      bcrypt rounds
//	-e string   environment
//
// os.Args is filtered with flagx.FilterArgs first so that -c/-config and
// flags owned by other components do not cause parse errors.
func parseFlags(config *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-b", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	addr := fs.String("a", "", "address and port to run server")
	fs.StringVar(&config.MongoURI, "d", config.MongoURI, "MongoDB URI")
	fs.StringVar(&config.JWTSecret, "s", config.JWTSecret, "JWT secret key")
	ttl := fs.String("t", "", "token lifetime, e.g. 7d or 1h")
	fs.IntVar(&config.BcryptRounds, "b", config.BcryptRounds, "bcrypt rounds")
	fs.StringVar(&config.Env, "e", config.Env, "environment: development, production or test")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	if *addr != "" {
		host, port, err := net.SplitHostPort(*addr)
		if err != nil {
			return fmt.Errorf("invalid address %q: %w", *addr, err)
		}
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid port in %q: %w", *addr, err)
		}
		config.Host = host
		config.Port = p
	}

	if *ttl != "" {
		d, err := timex.Parse(*ttl)
		if err != nil {
			return fmt.Errorf("invalid token lifetime %q: %w", *ttl, err)
		}
		config.JWTExpiresIn = timex.Duration(d)
	}

	return nil
}
