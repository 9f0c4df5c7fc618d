package serve

import (
	"os"
	"time"

	"github.com/andrebq/blogd/auth"
	"github.com/andrebq/blogd/blog/api"
	"github.com/andrebq/blogd/internal/cmdflags"
	"github.com/andrebq/blogd/internal/httpserver"
	"github.com/andrebq/blogd/internal/logutil"
	"github.com/andrebq/blogd/store"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	bindAddr := "localhost:4000"
	var dbFile string
	var secretEnvVar string
	var cost int
	cacheTTL := 10 * time.Minute
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the blog HTTP api",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "bind",
				Usage:       "Address to bind for incoming requests",
				EnvVars:     []string{"BLOGD_BIND"},
				Value:       bindAddr,
				Destination: &bindAddr,
			},
			cmdflags.Database(&dbFile),
			cmdflags.SecretEnvVar(&secretEnvVar),
			cmdflags.BcryptCost(&cost),
			&cli.DurationFlag{
				Name:        "token-cache-ttl",
				Usage:       "How long verified tokens are remembered (0 disables the cache)",
				EnvVars:     []string{"BLOGD_TOKEN_CACHE_TTL"},
				Value:       cacheTTL,
				Destination: &cacheTTL,
			},
		},
		Action: func(ctx *cli.Context) error {
			secret, err := auth.SecretFromEnv(secretEnvVar, os.Getenv, os.Setenv)
			if err != nil {
				return err
			}
			signer, err := auth.NewSigner(secret)
			if err != nil {
				return err
			}
			var verifier auth.TokenVerifier = signer
			if cacheTTL > 0 {
				cache, err := auth.InMemoryTokenCache(cacheTTL)
				if err != nil {
					return err
				}
				verifier = auth.CachedVerifier(signer, cache)
			}

			st, err := store.Open(ctx.Context, dbFile)
			if err != nil {
				return err
			}
			defer st.Close()
			log := logutil.GetOrDefault(ctx.Context)
			log.Info().Str("database", dbFile).Msg("Database initialized")

			handler, err := api.AsHandler(ctx.Context, st, api.Options{
				Hasher:   auth.Hasher{Cost: cost},
				Issuer:   signer,
				Verifier: verifier,
			})
			if err != nil {
				return err
			}
			return httpserver.Serve(ctx.Context, bindAddr, logutil.Middleware(ctx.Context, handler))
		},
	}
}
