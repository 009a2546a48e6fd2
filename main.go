package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"gin-sessiongate/controllers"
	"gin-sessiongate/infra"
	"gin-sessiongate/middlewares"
	"gin-sessiongate/repositories"
	"gin-sessiongate/services"
)

func setupRouter(cfg *infra.Config, backend *infra.Backend, logger logrus.FieldLogger) (*gin.Engine, *services.RevocationService) {
	authRepository, tokenRepository := repositories.New(backend)

	authService := services.NewAuthService(authRepository, cfg.Auth.BcryptCost)
	userService := services.NewUserService(authRepository)
	tokenService := services.NewTokenService([]byte(cfg.Auth.Secret), time.Now)
	revocationService := services.NewRevocationService(tokenRepository, time.Now)

	authController := controllers.NewAuthController(authService, tokenService, revocationService, cfg.Auth.CookieName, logger)
	userController := controllers.NewUserController(userService, logger)

	gatekeeper := middlewares.NewGatekeeper(middlewares.GatekeeperConfig{
		PublicPrefixes: cfg.Auth.PublicPrefixes,
		CookieName:     cfg.Auth.CookieName,
	}, tokenService, revocationService, logger)

	r := gin.New()
	r.Use(middlewares.RequestLogger(logger))
	r.Use(gin.Recovery())
	r.Use(cors.Default())
	r.Use(gatekeeper.Handler())

	publicRouter := r.Group("/public")
	apiRouter := r.Group("/api")

	publicRouter.POST("/register", authController.Register)
	publicRouter.POST("/login", authController.Login)
	publicRouter.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"code": 0, "result": "ok"})
	})

	apiRouter.POST("/logout", authController.Logout)
	apiRouter.GET("/users", userController.FindAll)

	return r, revocationService
}

func main() {
	infra.LoadEnvFiles()

	cfg, err := infra.LoadConfig()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	logger := infra.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := infra.Connect(ctx, cfg)
	if err != nil {
		logger.Fatalf("connect store: %v", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Warnf("close store: %v", err)
		}
	}()

	gin.SetMode(gin.ReleaseMode)
	r, revocationService := setupRouter(cfg, backend, logger)

	var janitorDone <-chan struct{}
	if !backend.NativeExpiry() {
		janitorDone = revocationService.StartJanitor(ctx, cfg.Auth.JanitorInterval, logger)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("Starting server on %s (store: %s)", cfg.Server.Addr, cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("Server forced to shutdown: %v", err)
	}
	if janitorDone != nil {
		<-janitorDone
	}
	logger.Info("Server exited")
}
