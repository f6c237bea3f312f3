// Package app wires the session, its collaborators, and the ambient pieces
// (logging, lock, bus) into an fx application.
package app

import (
	"context"

	"github.com/rakshverma/sociochat/internal/bus"
	"github.com/rakshverma/sociochat/internal/chat"
	"github.com/rakshverma/sociochat/internal/config"
	"github.com/rakshverma/sociochat/internal/history"
	"github.com/rakshverma/sociochat/internal/lock"
	"github.com/rakshverma/sociochat/internal/logging"
	"github.com/rakshverma/sociochat/internal/profile"
	"github.com/rakshverma/sociochat/internal/state"
	"github.com/rakshverma/sociochat/internal/transport"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Params holds the resolved runtime configuration passed to the fx module.
type Params struct {
	User   string
	Config *config.Config
}

// Module composes all providers and lifecycle hooks for one chat session.
func Module(p Params) fx.Option {
	return fx.Module("sociochat",
		fx.Supply(p),
		fx.Provide(
			provideLogger,
			provideBus,
			provideStateMachine,
			provideLock,
			provideTransport,
			provideHistory,
			provideSession,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideLogger(p Params) (*zap.Logger, error) {
	if err := profile.EnsureDir(p.User); err != nil {
		return nil, err
	}
	return logging.New(profile.LogPath(p.User), p.User)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideStateMachine(b *bus.Bus) *state.Machine {
	return state.NewMachine(b)
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	logger.Info("acquiring profile lock", zap.String("profile", p.User))
	l, err := lock.Acquire(profile.Dir(p.User))
	if err != nil {
		return nil, err
	}
	logger.Info("profile lock acquired")
	return l, nil
}

func provideTransport(p Params, logger *zap.Logger) transport.Transport {
	return transport.NewWS(p.Config.SocketURL, p.Config.ConnectTimeout(), logger)
}

func provideHistory(p Params) *history.Client {
	return history.NewClient(p.Config.APIURL, p.Config.FetchTimeout())
}

func provideSession(p Params, t transport.Transport, h *history.Client, m *state.Machine, b *bus.Bus, logger *zap.Logger) *chat.Session {
	return chat.New(p.User, t, h, m, b, logger)
}

func registerLifecycle(lc fx.Lifecycle, sess *chat.Session, lk *lock.Lock, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// A failed connect is non-fatal: the error has been reported on
			// the bus and the session stays Disconnected until retried.
			if err := sess.Start(ctx); err != nil {
				logger.Warn("initial connect failed", zap.Error(err))
				return nil
			}
			go func() {
				_, _ = sess.LoadPeers(context.Background())
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			sess.Stop()
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			_ = logger.Sync()
			return nil
		},
	})
}
