package main

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"golang.org/x/sync/errgroup"

	"lashodia/internal/auth"
	"lashodia/internal/config"
	"lashodia/internal/http/handlers"
	"lashodia/internal/repos"
	"lashodia/internal/repos/mongorepo"
	"lashodia/internal/services"
	"lashodia/internal/storage"
)

type stores struct {
	users    services.UserStore
	carts    services.CartStore
	products services.ProductStore
	close    func() error
}

func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	if cfg.DBDriver == "mongo" {
		st, err := mongorepo.Open(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		log.Printf("[db] mongo database %s", cfg.MongoDB)
		return &stores{
			users:    st.Users(),
			carts:    st.Carts(),
			products: st.Products(),
			close: func() error {
				cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return st.Close(cctx)
			},
		}, nil
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	if cfg.SeedDemo {
		if err := repos.SeedDemoProducts(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	log.Printf("[db] sqlite %s", cfg.DBDSN)
	return &stores{
		users:    repos.NewUserRepo(db),
		carts:    repos.NewCartRepo(db),
		products: repos.NewProductRepo(db),
		close:    db.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := st.close(); err != nil {
			log.Printf("[db] close: %v", err)
		}
	}()

	tokens, err := auth.NewTokens(cfg.TokenSecret, cfg.TokenPrevSecrets, cfg.TokenTTL)
	if err != nil {
		log.Fatal(err)
	}

	// ---------- Uploads ----------
	var (
		objects  services.ObjectStore
		mediaDir string
	)
	switch cfg.UploadBackend {
	case "gcs":
		gcs, err := storage.NewGCS(ctx, cfg.BucketName, cfg.GCPKeyFile)
		if err != nil {
			log.Fatal(err)
		}
		defer gcs.Close()
		objects = gcs
		log.Printf("[upload] gcs bucket %s (project %s)", cfg.BucketName, cfg.GCPProjectID)
	default:
		mediaDir = cfg.MediaDir
		if abs, err := filepath.Abs(mediaDir); err == nil {
			mediaDir = abs
		}
		local, err := storage.NewLocal(mediaDir, cfg.PublicBaseURL+"/media")
		if err != nil {
			log.Fatal(err)
		}
		objects = local
		log.Printf("[upload] /media -> %s", mediaDir)
	}

	deps := handlers.NewDeps(handlers.Services{
		Auth:    services.NewAuthService(st.users, tokens),
		Cart:    services.NewCartService(st.carts),
		Catalog: services.NewCatalogService(st.products),
		Uploads: services.NewUploadService(objects, handlers.UploadField),
	}, cfg.TokenHeader, mediaDir)
	deps.AuthLimiter = handlers.NewAuthLimiter()

	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: handlers.ErrorHandler,
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	// Images under /media are embedded by the storefront on another origin.
	app.Use(helmet.New(helmet.Config{CrossOriginResourcePolicy: "cross-origin"}))
	app.Use(cors.New())
	app.Use(recover.New())

	handlers.Register(app, deps)

	// Rotate signing keys on SIGHUP without dropping live tokens.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Listen(":" + cfg.Port)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Printf("[server] shutting down")
		return app.ShutdownWithTimeout(5 * time.Second)
	})
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-hup:
				next, err := config.Load()
				if err != nil {
					log.Printf("[config] reload: %v", err)
					continue
				}
				if err := tokens.SetKeys(next.TokenSecret, next.TokenPrevSecrets); err != nil {
					log.Printf("[config] rotate keys: %v", err)
					continue
				}
				log.Printf("[config] token keys rotated (%d previous)", len(next.TokenPrevSecrets))
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("[server] %v", err)
	}
}
