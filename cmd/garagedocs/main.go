// Command garagedocs serves the document API over HTTP.
//
// # Usage
//
//	garagedocs -config garagedocs.yaml
//
// Settings come from the YAML file (see the config package) and are
// overridden by ACCESS_KEY, SECRET_KEY, AWS_REGION, BUCKET_NAME,
// S3_ENDPOINT, REDIS_ADDR, DATABASE_URL, JWT_SECRET, GARAGEDOCS_ADDR and
// GARAGEDOCS_FONT_DIR.
//
// # Routes
//
//   - GET /download-pdf: sample GST tax invoice as an attachment
//   - POST /documents/{kind}: render a JSON payload
//   - POST /documents/{kind}/publish: render, upload and return the URL
//   - GET /documents/{kind}/sample: bundled sample payload
//   - GET /healthz
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/smartgarage/garagedocs/cache"
	"github.com/smartgarage/garagedocs/config"
	"github.com/smartgarage/garagedocs/documents"
	"github.com/smartgarage/garagedocs/ledger"
	"github.com/smartgarage/garagedocs/publish"
	"github.com/smartgarage/garagedocs/server"
	"github.com/smartgarage/garagedocs/storage"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath(), "path to the YAML configuration")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "garagedocs: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen := documents.NewGenerator(
		documents.WithDocumentOptions(cfg.Render.DocumentOptions()...),
		documents.WithFetcher(cfg.Render.Fetcher()),
	)

	var opts []server.Option
	if cfg.Storage.Enabled() {
		pub, closeFn, err := newPublisher(ctx, cfg, gen)
		if err != nil {
			return err
		}
		defer closeFn()
		opts = append(opts, server.WithPublisher(pub))
	} else {
		log.Print("[garagedocs] storage not configured, publishing disabled")
	}

	srv := server.New(cfg.Server, gen, opts...)
	if err := srv.Start(); err != nil {
		return err
	}
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newPublisher wires storage, the cache and the ledger. The returned
// function closes the cache and ledger connections.
func newPublisher(ctx context.Context, cfg *config.Config, gen *documents.Generator) (*publish.Publisher, func(), error) {
	store, err := storage.NewS3(storage.Options{
		Endpoint:  cfg.Storage.Endpoint,
		Region:    cfg.Storage.Region,
		Bucket:    cfg.Storage.Bucket,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		UseSSL:    cfg.Storage.UseSSL,
		BaseURL:   cfg.Storage.BaseURL,
	})
	if err != nil {
		return nil, nil, err
	}

	var c cache.Cache = cache.NewMemory()
	if cfg.Cache.Addr != "" {
		c = cache.NewRedis(cache.RedisOptions{Addr: cfg.Cache.Addr, Password: cfg.Cache.Password, DB: cfg.Cache.DB})
	}

	var rec ledger.Recorder = ledger.Nop{}
	if cfg.Ledger.DatabaseURL != "" {
		pg, err := ledger.Open(ctx, cfg.Ledger.DatabaseURL)
		if err != nil {
			c.Close()
			return nil, nil, err
		}
		if cfg.Ledger.Migrate {
			if err := pg.Migrate(ctx); err != nil {
				pg.Close()
				c.Close()
				return nil, nil, err
			}
		}
		rec = pg
	}

	pub := publish.New(gen, store,
		publish.WithCache(c),
		publish.WithLedger(rec),
		publish.WithPrefix(cfg.Storage.Prefix),
		publish.WithTTL(cfg.Cache.TTL),
	)
	return pub, func() {
		c.Close()
		rec.Close()
	}, nil
}
