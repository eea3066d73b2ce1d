package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-impossible/internal/config"
	"github.com/rocketscienceinc/tictactoe-impossible/internal/repository"
	"github.com/rocketscienceinc/tictactoe-impossible/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-impossible/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-impossible/transport/rest"
	"github.com/rocketscienceinc/tictactoe-impossible/transport/ssh"
	"github.com/rocketscienceinc/tictactoe-impossible/transport/websocket"
)

var (
	ErrAddrNotFound   = errors.New("redis address string is empty")
	ErrUnknownStorage = errors.New("unknown storage")
)

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

	sessionRepo, closeStorage, err := newSessionRepository(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = closeStorage(); err != nil {
			log.Error("could not close storage", "error", err)
		}
	}()

	gameUseCase := usecase.NewGameManager(logger, sessionRepo, conf.ComputerDelay)

	errCh := make(chan error, 3)

	// run HTTP server
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(ctx, conf.HTTPPort, rest.NewRouter(logger, gameUseCase)); httpErr != nil {
			errCh <- fmt.Errorf("HTTP server error: %w", httpErr)
		}
	}()

	// run Websocket server
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, gameUseCase)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			errCh <- fmt.Errorf("WebSocket server error: %w", wsErr)
		}
	}()

	// run SSH server
	if conf.SSH.Enabled {
		go func() {
			log.Info("Starting SSH server", "port", conf.SSH.Port)
			sshServer := ssh.New(logger, conf.SSH.HostKeyFile)
			if sshErr := sshServer.Start(ctx, conf.SSH.Port); sshErr != nil {
				errCh <- fmt.Errorf("SSH server error: %w", sshErr)
			}
		}()
	}

	select {
	case err = <-errCh:
		log.Error("server failed", "error", err)
		return err
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

func newSessionRepository(ctx context.Context, conf *config.Config) (repository.SessionRepository, func() error, error) {
	switch conf.Storage {
	case config.StorageMemory:
		return repository.NewMemorySessionRepository(conf.SessionTTL), func() error { return nil }, nil
	case config.StorageRedis:
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return nil, nil, ErrAddrNotFound
		}

		redisStorage, err := storage.New(ctx, redisAddrString)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		return repository.NewSessionRepository(redisStorage, conf.SessionTTL), redisStorage.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownStorage, conf.Storage)
	}
}
