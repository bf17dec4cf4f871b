package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"prism/prism/config"
	"prism/prism/controllers"
	"prism/prism/routes"
	"prism/prism/services/imagegen"
	"prism/prism/services/llm"
	"prism/prism/sources/psql"
	"prism/prism/sources/psql/dao"
	"prism/prism/sources/storage"
	"prism/prism/utils/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func main() {
	logging.InitLogger()
	cfg := config.LoadConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Error("database connection error", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	userDAO := dao.NewUserDAO(db.DB)
	chatDAO := dao.NewChatMessageDAO(db.DB)

	// Optional archive for provider-generated image bytes.
	archive, err := storage.NewImageArchive(cfg)
	if err != nil {
		logging.ErrorLogger.Error("minio connection error", zap.Error(err))
		os.Exit(1)
	}
	var store imagegen.BinaryStore
	if archive != nil {
		store = archive
	}

	gemini := llm.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	imageChain := imagegen.NewChain(
		imagegen.NewHuggingFaceProvider(cfg.HFAPIToken, store),
		imagegen.NewPollinationsProvider(),
		imagegen.NewDalleProvider(cfg.OpenAIAPIKey),
	)

	authCtrl := controllers.NewAuthController(userDAO, cfg)
	userCtrl := controllers.NewUserController(userDAO)
	chatCtrl := controllers.NewChatController(chatDAO, gemini, imageChain)
	healthCtrl := controllers.NewHealthController()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Mount("/auth", routes.AuthRoutes(authCtrl))
	r.Mount("/users", routes.UserRoutes(userCtrl, cfg))
	r.Mount("/chat", routes.ChatRoutes(chatCtrl, cfg))
	r.Mount("/health", routes.HealthRoutes(healthCtrl))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	go func() {
		logging.AppLogger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}
