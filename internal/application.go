package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/gridgames-backend/internal/config"
	"github.com/rocketscienceinc/gridgames-backend/internal/connectfour"
	"github.com/rocketscienceinc/gridgames-backend/internal/repository"
	"github.com/rocketscienceinc/gridgames-backend/internal/repository/storage"
	"github.com/rocketscienceinc/gridgames-backend/internal/tictactoe"
	"github.com/rocketscienceinc/gridgames-backend/internal/usecase"
	"github.com/rocketscienceinc/gridgames-backend/transport/rest"
)

// RunApp - runs the application until a signal arrives or the server fails.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	tableRepo, closeStorage, err := newTableRepository(ctx, log, conf)
	if err != nil {
		return err
	}
	defer closeStorage()

	tableManager := usecase.NewTableManager(logger, tableRepo, conf.Game, connectfour.Engine{}, tictactoe.Engine{})
	server := rest.NewServer(logger, tableManager)

	httpErrCh := make(chan error, 1)
	go func() {
		httpErrCh <- server.Start(ctx, conf.HTTPPort)
	}()

	select {
	case err = <-httpErrCh:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
	}

	// wait for the graceful shutdown to finish
	if err = <-httpErrCh; err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	return nil
}

// newTableRepository selects the table store from config. The returned func
// releases whatever the store holds and is safe to defer.
func newTableRepository(ctx context.Context, log *slog.Logger, conf *config.Config) (repository.TableRepository, func(), error) {
	switch conf.Storage {
	case config.StorageRedis:
		redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		log.Info("Using redis storage", "addr", conf.Redis.GetRedisAddr(), "table_ttl", conf.TableTTL)

		closeStorage := func() {
			if err := redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}

		return repository.NewTableRepository(redisStorage.Connection, conf.TableTTL), closeStorage, nil
	case config.StorageMemory:
		log.Info("Using in-memory storage", "table_ttl", conf.TableTTL)

		return repository.NewMemoryTableRepository(conf.TableTTL), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownStorage, conf.Storage)
	}
}
