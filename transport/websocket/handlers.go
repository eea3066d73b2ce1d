package websocket

import (
	"context"

	"github.com/rocketscienceinc/tictactoe-impossible/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-impossible/internal/entity"
)

func (that *Server) handleNewSession(ctx context.Context, req *RequestPayload) (ResponsePayload, error) {
	return sessionResponse(that.uGame.CreateSession(ctx, req.Mode))
}

func (that *Server) handleGetSession(ctx context.Context, req *RequestPayload) (ResponsePayload, error) {
	return sessionResponse(that.uGame.GetSession(ctx, req.SessionID))
}

func (that *Server) handleTurn(ctx context.Context, req *RequestPayload) (ResponsePayload, error) {
	if req.Cell == nil {
		return ResponsePayload{}, apperror.ErrInvalidCell
	}

	return sessionResponse(that.uGame.MakeTurn(ctx, req.SessionID, *req.Cell))
}

func (that *Server) handleComputerTurn(ctx context.Context, req *RequestPayload) (ResponsePayload, error) {
	return sessionResponse(that.uGame.ComputerTurn(ctx, req.SessionID))
}

func (that *Server) handleRestart(ctx context.Context, req *RequestPayload) (ResponsePayload, error) {
	return sessionResponse(that.uGame.Restart(ctx, req.SessionID))
}

func (that *Server) handleMode(ctx context.Context, req *RequestPayload) (ResponsePayload, error) {
	return sessionResponse(that.uGame.SetMode(ctx, req.SessionID, req.Mode))
}

func (that *Server) handleMark(ctx context.Context, req *RequestPayload) (ResponsePayload, error) {
	return sessionResponse(that.uGame.SelectMark(ctx, req.SessionID, req.Mark))
}

func (that *Server) handleHint(ctx context.Context, req *RequestPayload) (ResponsePayload, error) {
	move, err := that.uGame.Hint(ctx, req.SessionID)
	if err != nil {
		return ResponsePayload{}, err
	}

	return ResponsePayload{Hint: &move}, nil
}

func sessionResponse(session *entity.Session, err error) (ResponsePayload, error) {
	if err != nil {
		return ResponsePayload{}, err
	}

	return ResponsePayload{Session: session}, nil
}
