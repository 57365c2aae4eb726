// Command kitectl issues bearer tokens, hashes enrollment secrets and loads
// demo data for operators of the freshman service.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/yigit/freshman/internal/bootstrap"
	"github.com/yigit/freshman/internal/config"
	"github.com/yigit/freshman/internal/pkg/auth"
	"github.com/yigit/freshman/internal/pkg/helpers"
	"github.com/yigit/freshman/internal/seed"
)

const usage = `usage: kitectl <command> [flags]

commands:
  token        issue a bearer token for a uid
  hash-secret  print the bcrypt hash of an enrollment secret
  seed         migrate the database and insert demo freshmen
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "kitectl:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return fmt.Errorf("missing command")
	}

	switch args[0] {
	case "token":
		return runToken(args[1:], out)
	case "hash-secret":
		return runHashSecret(args[1:], out)
	case "seed":
		return runSeed(args[1:], out)
	case "-h", "--help", "help":
		fmt.Fprint(out, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runToken(args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("token", pflag.ContinueOnError)
	configPath := fs.StringP("config", "c", "configs/config.yaml", "path to the YAML configuration file")
	uid := fs.Int32("uid", 0, "identity to issue the token for")
	role := fs.String("role", "", "role claim, empty or \"admin\"")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *uid <= 0 {
		return fmt.Errorf("--uid must be positive")
	}
	if *role != "" && *role != auth.RoleAdmin {
		return fmt.Errorf("unsupported role %q", *role)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenIssuer: cfg.JWT.Issuer,
		TokenExp:    helpers.ParseDuration(cfg.JWT.TokenExpiration, 720*time.Hour),
	})
	token, err := jwtService.GenerateToken(*uid, *role)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	fmt.Fprintln(out, token)
	return nil
}

func runHashSecret(args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("hash-secret", pflag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one secret")
	}

	hash, err := auth.HashSecret(fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Fprintln(out, hash)
	return nil
}

func runSeed(args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	configPath := fs.StringP("config", "c", "configs/config.yaml", "path to the YAML configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(*configPath)
	if err != nil {
		return err
	}
	pool, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return err
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := seed.CreateDemoData(ctx, pool, lgr); err != nil {
		return err
	}

	fmt.Fprintf(out, "demo data ready; every demo secret is %s\n", seed.DemoSecret)
	return nil
}
