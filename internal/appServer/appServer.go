// launching the server and its storage, cache and event bus
package appServer

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ds124wfegd/flux-ideal-size/config"
	"github.com/ds124wfegd/flux-ideal-size/internal/database"
	"github.com/ds124wfegd/flux-ideal-size/internal/pkg/kafka"
	"github.com/ds124wfegd/flux-ideal-size/internal/pkg/node"
	"github.com/ds124wfegd/flux-ideal-size/internal/pkg/processor"
	"github.com/ds124wfegd/flux-ideal-size/internal/pkg/rabbitMQ"
	"github.com/ds124wfegd/flux-ideal-size/internal/pkg/storage"
	"github.com/ds124wfegd/flux-ideal-size/internal/service"
	"github.com/ds124wfegd/flux-ideal-size/internal/transport"
	"github.com/ds124wfegd/flux-ideal-size/pkg/postgres"
	"github.com/ds124wfegd/flux-ideal-size/pkg/redis"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	errorLog := logrus.StandardLogger().WriterLevel(logrus.ErrorLevel)

	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(errorLog, "", 0),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// SetupLogging configures the global logrus logger.
func SetupLogging(level string) {
	logrus.SetFormatter(new(logrus.JSONFormatter))
	logrus.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("unknown log level %q, using info", level)
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

// eventBroker is implemented by the kafka producer and the RabbitMQ publisher.
type eventBroker interface {
	service.EventPublisher
	transport.HealthChecker
}

// Dependencies holds everything the services need, built from the config.
type Dependencies struct {
	Registry  *node.Registry
	Cache     database.ResultCache
	History   database.InvocationRepository
	Publisher service.EventPublisher
	// Broker reports the event bus status on /health.
	Broker transport.HealthChecker

	closers []func() error
}

func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			logrus.WithError(err).Warn("error while closing dependency")
		}
	}
}

func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	deps := &Dependencies{Registry: node.Default()}

	history, err := deps.newHistory(cfg)
	if err != nil {
		deps.Close()
		return nil, err
	}
	deps.History = history

	deps.Cache = database.NewNoopResultCache()
	if cfg.Redis.URL != "" {
		client, err := redis.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			logrus.WithError(err).Warn("Redis unavailable, result cache disabled")
		} else {
			deps.closers = append(deps.closers, client.Close)
			deps.Cache = database.NewRedisResultCache(client, cfg.Redis.CacheTTL)
		}
	}

	broker := deps.newPublisher(cfg)
	deps.Publisher = broker
	deps.Broker = broker
	return deps, nil
}

func (d *Dependencies) newHistory(cfg *config.Config) (database.InvocationRepository, error) {
	switch cfg.History.Backend {
	case "file", "":
		return database.NewFileInvocationRepository(storage.NewFileStorage(cfg.History.StoragePath)), nil
	case "postgres":
		db, err := postgres.NewPostgresDB(&cfg.Database)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, db.Close)
		if err := postgres.RunMigrations(db); err != nil {
			return nil, err
		}
		return database.NewPostgresInvocationRepository(db), nil
	case "memory":
		return database.NewMemoryInvocationRepository(), nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.History.Backend)
	}
}

func (d *Dependencies) newPublisher(cfg *config.Config) eventBroker {
	switch cfg.Events.Broker {
	case "kafka":
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.EventsTopic)
		d.closers = append(d.closers, producer.Close)
		return producer
	case "rabbitmq":
		publisher, err := rabbitMQ.NewPublisher(rabbitMQ.RabbitMQConfig{
			URL:       cfg.RabbitMQ.URL,
			QueueName: cfg.RabbitMQ.QueueName,
		})
		if err != nil {
			logrus.WithError(err).Warn("RabbitMQ unavailable, using mock publisher")
			return kafka.NewMockProducer()
		}
		d.closers = append(d.closers, publisher.Close)
		return publisher
	default:
		return kafka.NewMockProducer()
	}
}

func NewServer(cfg *config.Config) {

	SetupLogging(cfg.Server.LogLevel)

	deps, err := NewDependencies(context.Background(), cfg)
	if err != nil {
		logrus.Fatalf("failed to initialize dependencies: %s", err.Error())
	}
	defer deps.Close()

	sizeService := service.NewSizeService(deps.Registry, deps.Cache, deps.History, deps.Publisher)
	imageService := service.NewImageService(deps.Registry, processor.NewImageProcessor(), cfg.Server.MaxOutputPixels)

	nodeHandler := transport.NewNodeHandler(sizeService)
	imageHandler := transport.NewImageHandler(imageService, cfg.Server.MaxUploadSize)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(nodeHandler, imageHandler, deps.Broker, cfg.Server.RequestTimeout)); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.WithField("port", cfg.Server.Port).Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
