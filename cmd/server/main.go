package main

import (
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/splittab/splittab/internal/auth"
	"github.com/splittab/splittab/internal/config"
	"github.com/splittab/splittab/internal/handler"
	"github.com/splittab/splittab/internal/payment"
	"github.com/splittab/splittab/internal/router"
	"github.com/splittab/splittab/internal/service"
	"github.com/splittab/splittab/internal/storage/sqlite"
	"github.com/splittab/splittab/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	linker := service.NewLinker(store)
	bills := service.NewBillService(store, linker)
	groups := service.NewGroupService(store)
	splits := service.NewSplitService(store)
	menu := service.NewMenuService(store)
	cards := payment.NewProvider(store)

	e := echo.New()
	e.HideBanner = true
	router.Register(e,
		jwtManager,
		handler.NewAuthHandler(authenticator, jwtManager),
		handler.NewVendorHandler(menu, bills, linker),
		handler.NewCustomerHandler(groups, bills, linker, splits, cards),
		cfg.MetricsPath,
	)

	addr := ":" + cfg.Port
	slog.Info("server starting", "address", addr)
	if err := e.Start(addr); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
