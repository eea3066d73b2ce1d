package ssh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/gliderlabs/ssh"
	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-impossible/internal/terminal"
)

const (
	serverIdleTimeout = 5 * time.Minute
	shutdownTimeout   = 5 * time.Second
)

type Server struct {
	logger      *slog.Logger
	hostKeyFile string
}

// New - hostKeyFile may be empty, a key is then generated on start.
func New(logger *slog.Logger, hostKeyFile string) *Server {
	return &Server{
		logger:      logger.With("component", "ssh"),
		hostKeyFile: hostKeyFile,
	}
}

// Start - listens on port until ctx is cancelled.
func (that *Server) Start(ctx context.Context, port string) error {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	return that.Serve(ctx, listener)
}

func (that *Server) Serve(ctx context.Context, listener net.Listener) error {
	server := &ssh.Server{
		IdleTimeout: serverIdleTimeout,
		Handler:     that.handle,
	}

	if that.hostKeyFile != "" {
		if err := server.SetOption(ssh.HostKeyFile(that.hostKeyFile)); err != nil {
			return fmt.Errorf("failed to load host key: %w", err)
		}
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.Serve(listener); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return fmt.Errorf("failed to serve ssh: %w", err)
	}

	return nil
}

func (that *Server) handle(session ssh.Session) {
	log := that.logger.With("method", "handle", "user", session.User(), "remote", session.RemoteAddr().String())

	_, _, isPty := session.Pty()

	var (
		in      io.Reader = session
		out     io.Writer = session
		profile           = termenv.Ascii
	)

	// a pty sends \r for enter and expects the server to echo and to write \r\n
	if isPty {
		out = &crlfWriter{w: session}
		in = &echoReader{r: session, w: out}
		profile = termenv.ANSI256
	}

	game := terminal.NewGame(that.logger, in, termenv.NewOutput(out, termenv.WithProfile(profile)), session.User())

	log.Info("player connected", "pty", isPty)

	if err := game.Run(session.Context()); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("game ended with error", "error", err)
		_ = session.Exit(1)
		return
	}

	log.Info("player left")
	_ = session.Exit(0)
}
