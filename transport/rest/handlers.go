package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-impossible/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-impossible/internal/engine"
	"github.com/rocketscienceinc/tictactoe-impossible/internal/entity"
)

type uGame interface {
	CreateSession(ctx context.Context, mode string) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	DeleteSession(ctx context.Context, id string) error

	MakeTurn(ctx context.Context, id string, cell int) (*entity.Session, error)
	ComputerTurn(ctx context.Context, id string) (*entity.Session, error)
	SelectMark(ctx context.Context, id string, mark entity.Mark) (*entity.Session, error)
	SetMode(ctx context.Context, id, mode string) (*entity.Session, error)
	Restart(ctx context.Context, id string) (*entity.Session, error)
	Hint(ctx context.Context, id string) (engine.Move, error)
}

type handlers struct {
	logger *slog.Logger
	uGame  uGame
}

// boardRequest - cells are decoded as a slice so a wrong length is rejected instead of truncated.
type boardRequest struct {
	Board []entity.Mark `json:"board"`
	Mark  entity.Mark   `json:"mark,omitempty"`
}

type sessionRequest struct {
	Mode string      `json:"mode,omitempty"`
	Mark entity.Mark `json:"mark,omitempty"`
	Cell *int        `json:"cell,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *handlers) ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write ping response", "error", err)
	}
}

func (that *handlers) evaluate(w http.ResponseWriter, r *http.Request) {
	var req boardRequest
	if !that.decode(w, r, &req) {
		return
	}

	board, err := entity.NewBoard(req.Board)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, engine.Evaluate(board))
}

func (that *handlers) bestMove(w http.ResponseWriter, r *http.Request) {
	var req boardRequest
	if !that.decode(w, r, &req) {
		return
	}

	if req.Mark == entity.MarkEmpty {
		req.Mark = entity.MarkO
	}

	if !req.Mark.IsValid() {
		that.writeError(w, apperror.ErrInvalidMark)
		return
	}

	board, err := entity.NewBoard(req.Board)
	if err != nil {
		that.writeError(w, err)
		return
	}

	move, ok := engine.Analyze(board, req.Mark)
	if !ok {
		that.writeError(w, apperror.ErrNoMoveAvailable)
		return
	}

	that.writeJSON(w, http.StatusOK, move)
}

func (that *handlers) createSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if r.ContentLength != 0 && !that.decode(w, r, &req) {
		return
	}

	session, err := that.uGame.CreateSession(r.Context(), req.Mode)
	that.respondSession(w, http.StatusCreated, session, err)
}

func (that *handlers) getSession(w http.ResponseWriter, r *http.Request) {
	session, err := that.uGame.GetSession(r.Context(), chi.URLParam(r, "id"))
	that.respondSession(w, http.StatusOK, session, err)
}

func (that *handlers) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := that.uGame.DeleteSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) makeTurn(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if !that.decode(w, r, &req) {
		return
	}

	if req.Cell == nil {
		that.writeError(w, apperror.ErrInvalidCell)
		return
	}

	session, err := that.uGame.MakeTurn(r.Context(), chi.URLParam(r, "id"), *req.Cell)
	that.respondSession(w, http.StatusOK, session, err)
}

func (that *handlers) computerTurn(w http.ResponseWriter, r *http.Request) {
	session, err := that.uGame.ComputerTurn(r.Context(), chi.URLParam(r, "id"))
	that.respondSession(w, http.StatusOK, session, err)
}

func (that *handlers) restart(w http.ResponseWriter, r *http.Request) {
	session, err := that.uGame.Restart(r.Context(), chi.URLParam(r, "id"))
	that.respondSession(w, http.StatusOK, session, err)
}

func (that *handlers) setMode(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if !that.decode(w, r, &req) {
		return
	}

	session, err := that.uGame.SetMode(r.Context(), chi.URLParam(r, "id"), req.Mode)
	that.respondSession(w, http.StatusOK, session, err)
}

func (that *handlers) selectMark(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if !that.decode(w, r, &req) {
		return
	}

	session, err := that.uGame.SelectMark(r.Context(), chi.URLParam(r, "id"), req.Mark)
	that.respondSession(w, http.StatusOK, session, err)
}

func (that *handlers) hint(w http.ResponseWriter, r *http.Request) {
	move, err := that.uGame.Hint(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, move)
}

func (that *handlers) respondSession(w http.ResponseWriter, status int, session *entity.Session, err error) {
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, status, session)
}

func (that *handlers) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}

	return true
}

func (that *handlers) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "error", err)
		that.writeJSON(w, status, errorResponse{Error: "internal server error"})
		return
	}

	that.writeJSON(w, status, errorResponse{Error: apperror.Root(err).Error()})
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound), errors.Is(err, apperror.ErrNoMoveAvailable):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrInvalidCell), errors.Is(err, apperror.ErrInvalidMark),
		errors.Is(err, apperror.ErrInvalidMode), errors.Is(err, apperror.ErrInvalidBoard):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrNotYourTurn), errors.Is(err, apperror.ErrNotComputerTurn),
		errors.Is(err, apperror.ErrCellOccupied), errors.Is(err, apperror.ErrGameFinished),
		errors.Is(err, apperror.ErrMarkSelectLocked), errors.Is(err, apperror.ErrSessionConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
