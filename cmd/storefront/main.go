package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/storefront"
	"github.com/angelmondragon/storefront/pkg/env"
	"github.com/angelmondragon/storefront/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	apiURL := flag.String("api", env.Get("STOREFRONT_API_URL", catalog.DefaultBaseURL), "catalog API base URL")
	timeout := flag.Duration("timeout", env.GetDuration("STOREFRONT_API_TIMEOUT", 10*time.Second), "request timeout")
	logLevel := flag.String("log-level", env.Get("STOREFRONT_LOG_LEVEL", "warn"), "log level")
	flag.Parse()

	// Logs go to stderr so they never interleave with command output.
	logg := logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(*logLevel),
		Output:      os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := catalog.NewClient(
		catalog.WithBaseURL(*apiURL),
		catalog.WithTimeout(*timeout),
	)
	engine := cart.NewEngine(cart.WithUnresolvedVariantPolicy(cart.CapAtSnapshot))
	session := storefront.NewSession(catalog.NewCache(client, logg), engine, os.Stdout, logg)

	fmt.Printf("storefront connected to %s, type help for commands\n", client.BaseURL())
	if err := session.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		logg.Error(ctx, "storefront session ended", err)
		os.Exit(1)
	}
}
