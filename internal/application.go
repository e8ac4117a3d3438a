package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gameroomhq/tictactoe-server/internal/config"
	"github.com/gameroomhq/tictactoe-server/internal/dispatcher"
	"github.com/gameroomhq/tictactoe-server/internal/repository"
	"github.com/gameroomhq/tictactoe-server/internal/repository/storage"
	"github.com/gameroomhq/tictactoe-server/internal/usecase"
	"github.com/gameroomhq/tictactoe-server/transport/tcp"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	credentialRepo := repository.NewCredentialRepository(redisStorage.Connection)

	connRegistry := tcp.NewConnRegistry(logger)
	sessions := usecase.NewSessionDirectory(logger, credentialRepo)
	rooms := usecase.NewRoomManager(logger, sessions, connRegistry)
	commandDispatcher := dispatcher.New(logger, sessions, rooms, connRegistry)

	gameServer := tcp.New(logger, connRegistry, commandDispatcher)

	srvErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting game server", "port", conf.GamePort)
		if srvErr := gameServer.Start(ctx, conf.GamePort); srvErr != nil {
			log.Error("game server error", "error", srvErr)
			srvErrCh <- srvErr
		}
	}()

	select {
	case err = <-srvErrCh:
		return fmt.Errorf("game server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
