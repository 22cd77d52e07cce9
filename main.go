package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/utils"
	"github.com/robfig/cron/v3"

	"englishku_backend/internals/configs"
	database "englishku_backend/internals/databases"
	subscriptionScheduler "englishku_backend/internals/features/subscriptions/subscription/scheduler"
	authScheduler "englishku_backend/internals/features/users/auth/scheduler"
	helper "englishku_backend/internals/helpers"
	storage "englishku_backend/internals/helpers/oss"
	middlewares "englishku_backend/internals/middlewares"
	routes "englishku_backend/internals/route"
	"englishku_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		ErrorHandler:            helper.ErrorHandler,
		BodyLimit:               12 << 20, // audio uploads
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// Request-ID + timing
	requestTimeout := configs.GetEnvDuration("REQUEST_TIMEOUT_SECONDS", 60*time.Second)
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		start := time.Now()
		// AI calls are slow; the LLM client applies its own shorter timeout
		ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
		defer cancel()
		c.SetUserContext(ctx)
		err := c.Next()
		log.Printf("[REQ] id=%s %s %s status=%d dur=%s", id, c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start))
		return err
	})

	middlewares.SetupMiddlewares(app)

	database.ConnectDB()
	database.TunePool()
	if configs.GetEnvBool("DB_AUTO_MIGRATE", true) {
		if err := database.AutoMigrate(); err != nil {
			log.Fatalf("❌ AutoMigrate failed: %v", err)
		}
	}
	if configs.GetEnvBool("RUN_SEEDS", false) {
		seeds.RunAllSeeds(database.DB)
	}
	database.WarmUpQueries()

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 10*time.Second)
	services := routes.SetupRoutes(bootCtx, app, database.DB)
	bootCancel()

	// background jobs start once the DB and services are ready
	var jobs []*cron.Cron
	jobs = append(jobs,
		authScheduler.StartBlacklistCleanupScheduler(database.DB),
		subscriptionScheduler.StartExpirySweep(services.Subs),
		storage.StartRecordingReaperCron(database.DB, services.OSS),
	)

	app.Server().ReadTimeout = 30 * time.Second
	app.Server().WriteTimeout = 90 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	for _, j := range jobs {
		if j != nil {
			<-j.Stop().Done()
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
