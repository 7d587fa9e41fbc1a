package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"autoparts-store/internal/admin"
	"autoparts-store/internal/cart"
	"autoparts-store/internal/catalog"
	"autoparts-store/internal/client"
	"autoparts-store/internal/config"
	"autoparts-store/internal/logger"
	"autoparts-store/internal/session"

	"go.uber.org/zap"
)

// zapNotifier sends view-model messages to the log
type zapNotifier struct {
	logger *zap.Logger
}

func (n zapNotifier) Success(msg string) {
	n.logger.Info(msg)
}

func (n zapNotifier) Error(msg string, err error) {
	n.logger.Error(msg, zap.Error(err))
}

func main() {
	env := flag.String("env", "", "logging mode, overrides SERVER_ENV (development|production)")
	flag.Parse()

	cfg := config.Load()
	if *env != "" {
		cfg.Server.Env = *env
	}

	log, err := logger.NewCLI(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sess := session.New()
	api := client.New(client.Endpoints{
		Auth:       cfg.Storefront.AuthURL,
		Products:   cfg.Storefront.ProductsURL,
		Categories: cfg.Storefront.CategoriesURL,
	}, client.WithTokenSource(sess), client.WithLogger(log))

	notifier := zapNotifier{logger: log}
	store := cart.New()
	view := catalog.New(api.Products, api.Categories, store, notifier)
	panel := admin.New(api.Products, api.Categories, sess, notifier, admin.WithCatalog(view))

	shell := &shell{
		api:     api,
		session: sess,
		cart:    store,
		catalog: view,
		admin:   panel,
		out:     os.Stdout,
		logger:  log,
	}

	log.Debug("Storefront started", zap.String("products_url", cfg.Storefront.ProductsURL))

	if err := view.Load(ctx); err != nil {
		log.Warn("Initial catalog load failed", zap.Error(err))
	}

	shell.run(ctx, bufio.NewScanner(os.Stdin))
}
