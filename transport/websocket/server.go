package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-impossible/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-impossible/internal/engine"
	"github.com/rocketscienceinc/tictactoe-impossible/internal/entity"
	"github.com/rocketscienceinc/tictactoe-impossible/internal/usecase"
)

const (
	writeWait       = 10 * time.Second
	shutdownTimeout = 5 * time.Second
	maxMessageSize  = 4096
)

type uGame interface {
	CreateSession(ctx context.Context, mode string) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)

	MakeTurn(ctx context.Context, id string, cell int) (*entity.Session, error)
	ComputerTurn(ctx context.Context, id string) (*entity.Session, error)
	SelectMark(ctx context.Context, id string, mark entity.Mark) (*entity.Session, error)
	SetMode(ctx context.Context, id, mode string) (*entity.Session, error)
	Restart(ctx context.Context, id string) (*entity.Session, error)
	Hint(ctx context.Context, id string) (engine.Move, error)
}

type handlerFunc func(ctx context.Context, req *RequestPayload) (ResponsePayload, error)

type Server struct {
	logger   *slog.Logger
	uGame    uGame
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, uGame uGame) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		uGame:  uGame,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionSessionNew] = server.handleNewSession
	server.handlers[actionSessionGet] = server.handleGetSession
	server.handlers[actionSessionTurn] = server.handleTurn
	server.handlers[actionSessionComputerTurn] = server.handleComputerTurn
	server.handlers[actionSessionRestart] = server.handleRestart
	server.handlers[actionSessionMode] = server.handleMode
	server.handlers[actionSessionMark] = server.handleMark
	server.handlers[actionSessionHint] = server.handleHint

	return server
}

// Handler - http handler serving /ws.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveWS(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) serveWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWS")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)

	log.Info("WebSocket connection established", "remote", conn.RemoteAddr().String())

	if err = that.handleMessages(ctx, conn); err != nil {
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - processes messages until the client goes away.
func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}

			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			if err = that.send(conn, actionError, ResponsePayload{Error: "invalid message"}); err != nil {
				return err
			}
			continue
		}

		response := that.dispatch(ctx, &message)
		if err = that.send(conn, message.Action, response); err != nil {
			return err
		}
	}
}

func (that *Server) dispatch(ctx context.Context, message *Message) ResponsePayload {
	log := that.logger.With("method", "dispatch", "action", message.Action)

	handler, ok := that.handlers[message.Action]
	if !ok {
		log.Warn("unknown action")
		return ResponsePayload{Error: "unknown action"}
	}

	var req RequestPayload
	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, &req); err != nil {
			return ResponsePayload{Error: "invalid payload"}
		}
	}

	response, err := handler(ctx, &req)
	if err != nil {
		if !usecase.IsClientError(err) {
			log.Error("action failed", "error", err)
			return ResponsePayload{Error: "internal server error"}
		}

		log.Debug("action rejected", "error", err)
		return ResponsePayload{Error: apperror.Root(err).Error()}
	}

	return response
}

func (that *Server) send(conn *websocket.Conn, action string, payload ResponsePayload) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err = conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err = conn.WriteJSON(Message{Action: action, Payload: payloadBytes}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
