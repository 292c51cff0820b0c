// consumes queued size tasks from kafka and evaluates them
package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ds124wfegd/flux-ideal-size/config"
	"github.com/ds124wfegd/flux-ideal-size/internal/appServer"
	"github.com/ds124wfegd/flux-ideal-size/internal/entity"
	"github.com/ds124wfegd/flux-ideal-size/internal/pkg/kafka"
	"github.com/ds124wfegd/flux-ideal-size/internal/service"
	"github.com/sirupsen/logrus"
)

func main() {
	viperInstance, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Cannot load config. Error: {%s}", err.Error())
	}

	cfg, err := config.ParseConfig(viperInstance)
	if err != nil {
		logrus.Fatalf("Cannot parse config. Error: {%s}", err.Error())
	}

	appServer.SetupLogging(cfg.Server.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := appServer.NewDependencies(ctx, cfg)
	if err != nil {
		logrus.Fatalf("failed to initialize dependencies: %s", err.Error())
	}
	defer deps.Close()

	sizeService := service.NewSizeService(deps.Registry, deps.Cache, deps.History, deps.Publisher)

	brokers := strings.Split(config.GetEnv("KAFKA_BROKERS", strings.Join(cfg.Kafka.Brokers, ",")), ",")
	consumer := kafka.NewConsumer(
		brokers,
		config.GetEnv("KAFKA_TOPIC", cfg.Kafka.TasksTopic),
		config.GetEnv("KAFKA_GROUP_ID", cfg.Kafka.GroupID),
		func(ctx context.Context, task entity.SizeTask) error {
			inv, err := sizeService.Invoke(ctx, task.NodeType, task.Fields)
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{
				"task_id":       task.ID,
				"invocation_id": inv.ID,
				"width":         inv.Result.Width,
				"height":        inv.Result.Height,
			}).Info("Size task completed")
			return nil
		},
	)

	if err := consumer.Run(ctx); err != nil {
		logrus.Errorf("consumer stopped: %s", err.Error())
	}
}
