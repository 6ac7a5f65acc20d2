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

	"github.com/rocketscienceinc/gridgames-backend/internal/apperror"
	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
	"github.com/rocketscienceinc/gridgames-backend/internal/usecase"
)

const (
	writeWait = 10 * time.Second

	// pongWait bounds the silence between two reads, pings included.
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4096
)

type tableManager interface {
	GetTable(ctx context.Context, id string) (*entity.Table, error)
	Dispatch(ctx context.Context, id string, action entity.Action) (*entity.Table, error)
	Drop(ctx context.Context, id string, column int) (*entity.Table, error)
	View(table *entity.Table) usecase.TableView
}

// Server lets one client drive one table over a socket: every inbound action
// is answered with the resulting table view or an error.
type Server struct {
	logger   *slog.Logger
	tables   tableManager
	upgrader websocket.Upgrader
}

func New(logger *slog.Logger, tables tableManager) *Server {
	return &Server{
		logger: logger.With("component", "websocket"),
		tables: tables,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// ServeTable upgrades the request and serves the table named by the {id} path value.
func (that *Server) ServeTable(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	log := that.logger.With("method", "ServeTable", "table_id", id)

	table, err := that.tables.GetTable(r.Context(), id)
	if errors.Is(err, apperror.ErrTableNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error("failed to get table", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already replied
		log.Debug("upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	log.Info("client connected")

	done := make(chan struct{})
	defer close(done)
	go keepAlive(conn, done)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	if err = send(conn, that.stateMessage(log, table)); err != nil {
		log.Warn("failed to send state", "error", err)
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("connection lost", "error", err)
			}
			break
		}

		var (
			msg   Message
			reply Message
		)
		if err = json.Unmarshal(data, &msg); err != nil {
			reply = that.errorMessage(log, fmt.Errorf("%w: %w", errBadPayload, err))
		} else {
			reply = that.handle(r.Context(), log, id, msg)
		}

		if err = send(conn, reply); err != nil {
			log.Warn("failed to send reply", "error", err)
			break
		}
	}

	log.Info("client disconnected")
}

func (that *Server) handle(ctx context.Context, log *slog.Logger, id string, msg Message) Message {
	var (
		table *entity.Table
		err   error
	)

	switch msg.Action {
	case actionGet:
		table, err = that.tables.GetTable(ctx, id)
	case actionTurn:
		var payload turnPayload
		if err = decodePayload(msg.Payload, &payload); err != nil {
			break
		}

		if payload.Symbol != entity.Empty && !payload.Symbol.IsPlayer() {
			err = fmt.Errorf("%w: unknown symbol %q", errBadPayload, payload.Symbol)
			break
		}

		if payload.Row == nil {
			table, err = that.tables.Drop(ctx, id, payload.Column)
		} else {
			table, err = that.tables.Dispatch(ctx, id, entity.PlayTurnAs(payload.Column, *payload.Row, payload.Symbol))
		}
	case actionReset:
		table, err = that.tables.Dispatch(ctx, id, entity.Reset())
	case actionResize:
		var payload resizePayload
		if err = decodePayload(msg.Payload, &payload); err != nil {
			break
		}

		table, err = that.tables.Dispatch(ctx, id, entity.Resize(payload.Size))
	default:
		err = fmt.Errorf("%w: %q", apperror.ErrUnknownAction, msg.Action)
	}

	if err != nil {
		return that.errorMessage(log, err)
	}

	return that.stateMessage(log, table)
}

func (that *Server) stateMessage(log *slog.Logger, table *entity.Table) Message {
	msg, err := newMessage(actionState, that.tables.View(table))
	if err != nil {
		return that.errorMessage(log, err)
	}

	return msg
}

func (that *Server) errorMessage(log *slog.Logger, err error) Message {
	text := err.Error()
	if !isClientError(err) {
		log.Error("action failed", "error", err)
		text = "internal server error"
	}

	msg, _ := newMessage(actionError, errorPayload{Error: text})

	return msg
}

func isClientError(err error) bool {
	return errors.Is(err, errBadPayload) ||
		errors.Is(err, apperror.ErrTableNotFound) ||
		errors.Is(err, apperror.ErrUnknownAction) ||
		errors.Is(err, apperror.ErrBoardTooLarge) ||
		errors.Is(err, apperror.ErrRowRequired)
}

func send(conn *websocket.Conn, msg Message) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	return conn.WriteJSON(msg)
}

// keepAlive pings until done is closed. WriteControl is safe to call next to
// the writer in ServeTable.
func keepAlive(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
