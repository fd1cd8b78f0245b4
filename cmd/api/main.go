package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/leadboard/internal/config"
	"github.com/xavierca1/leadboard/internal/infra/http/handlers"
	"github.com/xavierca1/leadboard/internal/infra/http/middleware"
	"github.com/xavierca1/leadboard/internal/infra/integration/crmapi"
	"github.com/xavierca1/leadboard/internal/infra/mail"
	"github.com/xavierca1/leadboard/internal/infra/queue"
	"github.com/xavierca1/leadboard/internal/infra/worker"
	"github.com/xavierca1/leadboard/internal/logger"
	"github.com/xavierca1/leadboard/internal/notify"
	"github.com/xavierca1/leadboard/internal/store"
	"github.com/xavierca1/leadboard/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to the YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. CRM API and local state
	client := crmapi.NewClient(cfg.CRM.BaseURL, cfg.CRM.Timeout, log.With(logger.String("component", "crmapi")))
	st := store.New(client, log.With(logger.String("component", "store")))
	defer st.Close()

	notes := notify.NewChannel(cfg.Notify.Duration)
	defer notes.Close()
	notifyLog := log.With(logger.String("component", "notify"))
	defer notes.Subscribe(func(n notify.Notification) {
		notifyLog.Info("notification posted", logger.String("kind", string(n.Kind)), logger.String("message", n.Message))
	})()

	// 2. Optional side channels
	var opts []usecase.Option
	var rabbitConn *amqp091.Connection
	var rabbit *queue.RabbitMQ
	if cfg.Queue.URL != "" {
		rabbit, err = queue.NewRabbitMQ(cfg.Queue.URL, uuid.NewString())
		if err != nil {
			return err
		}
		defer rabbit.Close()
		rabbitConn = rabbit.Conn
		opts = append(opts, usecase.WithEvents(queue.NewProducer(rabbit.Ch, rabbit.InstanceID)))
		log.Info("lead events enabled",
			logger.String("exchange", queue.ExchangeName),
			logger.String("queue", rabbit.Queue),
		)
	}
	if cfg.Mail.Host != "" {
		sender := mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From)
		opts = append(opts, usecase.WithMailer(sender))
		log.Info("agent emails enabled", logger.String("host", cfg.Mail.Host))
	}

	app := usecase.NewApp(st, notes, client, log.With(logger.String("component", "app")), opts...)
	defer app.Close()

	// 3. Workers
	refresher := worker.NewReferenceRefreshWorker(app, cfg.CRM.RefreshInterval, log.With(logger.String("component", "refresh")))
	go refresher.Start(ctx)

	if rabbit != nil {
		// the consumer gets its own channel
		consumeCh, err := rabbit.Conn.Channel()
		if err != nil {
			return fmt.Errorf("open consumer channel: %w", err)
		}
		defer consumeCh.Close()
		w := queue.NewWorker(consumeCh, app, rabbit.InstanceID, log.With(logger.String("component", "queue")))
		go func() {
			if err := w.Start(ctx, rabbit.Queue); err != nil {
				log.Error("lead event worker exited", logger.Error(err))
			}
		}()
	}

	// 4. HTTP
	limiter := middleware.NewRateLimiter(cfg.Server.WriteLimit, cfg.Server.WriteWindow, cfg.Server.TrustProxy)
	defer limiter.Stop()

	router := handlers.NewRouter(handlers.RouterDeps{
		App:            app,
		Notifications:  notes,
		Health:         handlers.NewHealthHandler(st, rabbitConn, cfg.CRM.BaseURL, cfg.Mail.Host),
		Limiter:        limiter,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Log:            log,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("leadboard listening", logger.String("addr", cfg.Server.Addr), logger.String("crm", cfg.CRM.BaseURL))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
