package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/gridgames-backend/internal/apperror"
	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
	"github.com/rocketscienceinc/gridgames-backend/internal/usecase"
)

const maxBodyBytes = 1 << 16

var errBadRequest = errors.New("bad request")

type tableManager interface {
	CreateTable(ctx context.Context, kind entity.GameKind, opts entity.Options) (*entity.Table, error)
	GetTable(ctx context.Context, id string) (*entity.Table, error)
	Dispatch(ctx context.Context, id string, action entity.Action) (*entity.Table, error)
	Drop(ctx context.Context, id string, column int) (*entity.Table, error)
	CloseTable(ctx context.Context, id string) error
	View(table *entity.Table) usecase.TableView
}

type createTableRequest struct {
	Kind      entity.GameKind `json:"kind"`
	BoardSize int             `json:"board_size"`
}

// actionRequest mirrors entity.Action, except that Row may be left out of a
// turn to drop into the column.
type actionRequest struct {
	Type   entity.ActionType `json:"type"`
	Column int               `json:"column"`
	Row    *int              `json:"row"`
	Symbol entity.Symbol     `json:"symbol"`
	Size   int               `json:"size"`
}

type handlers struct {
	logger *slog.Logger
	tables tableManager
}

func newHandlers(logger *slog.Logger, tables tableManager) *handlers {
	return &handlers{
		logger: logger,
		tables: tables,
	}
}

func (that *handlers) ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write pong", "error", err)
	}
}

func (that *handlers) createTable(w http.ResponseWriter, r *http.Request) {
	var req createTableRequest
	if err := decodeBody(w, r, &req); err != nil {
		that.fail(w, r, err)
		return
	}

	table, err := that.tables.CreateTable(r.Context(), req.Kind, entity.Options{BoardSize: req.BoardSize})
	if err != nil {
		that.fail(w, r, err)
		return
	}

	that.respond(w, http.StatusCreated, table)
}

func (that *handlers) getTable(w http.ResponseWriter, r *http.Request) {
	table, err := that.tables.GetTable(r.Context(), r.PathValue("id"))
	if err != nil {
		that.fail(w, r, err)
		return
	}

	that.respond(w, http.StatusOK, table)
}

func (that *handlers) dispatch(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := decodeBody(w, r, &req); err != nil {
		that.fail(w, r, err)
		return
	}

	if req.Symbol != entity.Empty && !req.Symbol.IsPlayer() {
		that.fail(w, r, fmt.Errorf("%w: unknown symbol %q", errBadRequest, req.Symbol))
		return
	}

	id := r.PathValue("id")

	var (
		table *entity.Table
		err   error
	)
	if req.Type == entity.ActionTurn && req.Row == nil {
		table, err = that.tables.Drop(r.Context(), id, req.Column)
	} else {
		table, err = that.tables.Dispatch(r.Context(), id, req.action())
	}

	if err != nil {
		that.fail(w, r, err)
		return
	}

	that.respond(w, http.StatusOK, table)
}

func (that *handlers) closeTable(w http.ResponseWriter, r *http.Request) {
	if err := that.tables.CloseTable(r.Context(), r.PathValue("id")); err != nil {
		that.fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *actionRequest) action() entity.Action {
	action := entity.Action{
		Type:   that.Type,
		Column: that.Column,
		Symbol: that.Symbol,
		Size:   that.Size,
	}

	if that.Row != nil {
		action.Row = *that.Row
	}

	return action
}

func (that *handlers) respond(w http.ResponseWriter, status int, table *entity.Table) {
	if err := writeJSON(w, status, that.tables.View(table)); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func (that *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	log := that.logger.With("method", r.Method, "path", r.URL.Path, "status", status)
	if status == http.StatusInternalServerError {
		log.Error("request failed", "error", err)
		writeError(w, status, "internal server error")
		return
	}

	log.Debug("request rejected", "error", err)
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrTableNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, apperror.ErrUnknownGameKind),
		errors.Is(err, apperror.ErrUnknownAction),
		errors.Is(err, apperror.ErrBoardTooLarge),
		errors.Is(err, apperror.ErrRowRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	_ = writeJSON(w, status, map[string]string{"error": message})
}
