package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blogicum/database"
	"blogicum/routes"
	"blogicum/services"
	"blogicum/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		gin.SetMode(cfg.GinMode)
		utils.Configure(cfg.JWTSecret, cfg.JWTTTL)

		db, err := openDatabase()
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		blacklist, closeBlacklist, err := newTokenBlacklist(ctx)
		if err != nil {
			return err
		}
		defer closeBlacklist()

		if err := os.MkdirAll(cfg.MediaRoot, 0755); err != nil {
			return err
		}

		hubService := services.NewHubService()
		router := routes.NewRouter(db, cfg, hubService, blacklist)

		server := &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      router,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		serverErr := make(chan error, 1)
		go func() {
			log.Printf("Server starting on port %s", cfg.Port)
			log.Printf("Swagger docs available at: http://localhost:%s/swagger/index.html", cfg.Port)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-serverErr:
			return err
		case <-quit:
		}

		log.Println("Shutting down server...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}

		log.Println("Server stopped")
		return nil
	},
}

// newTokenBlacklist uses Redis when an address is configured and an
// in-process map otherwise.
func newTokenBlacklist(ctx context.Context) (services.TokenBlacklist, func(), error) {
	client, err := database.ConnectRedis(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		log.Println("REDIS_ADDR not set, revoked tokens are kept in memory")
		return services.NewMemoryTokenBlacklist(), func() {}, nil
	}

	log.Printf("Revoked tokens are stored in Redis at %s", cfg.RedisAddr)
	return services.NewRedisTokenBlacklist(client), func() { client.Close() }, nil
}
