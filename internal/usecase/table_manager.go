package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/gridgames-backend/internal/apperror"
	"github.com/rocketscienceinc/gridgames-backend/internal/config"
	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
	"github.com/rocketscienceinc/gridgames-backend/internal/repository"
)

type tableRepo interface {
	CreateOrUpdate(ctx context.Context, table *entity.Table) error
	GetByID(ctx context.Context, id string) (*entity.Table, error)
	Update(ctx context.Context, id string, fn repository.UpdateFunc) (*entity.Table, error)
	DeleteByID(ctx context.Context, id string) error
}

// Engine is a pure game reducer for one GameKind.
type Engine interface {
	Kind() entity.GameKind
	Initialize(opts entity.Options) entity.GameState
	Transition(state entity.GameState, action entity.Action) (entity.GameState, error)
	Moves(state entity.GameState) []entity.Position
}

// gravityEngine is an Engine whose tokens fall, so a column alone names a move.
type gravityEngine interface {
	DropRow(board entity.Board, column int) (int, bool)
}

// TableView is what a client renders: the state plus what it may do next.
type TableView struct {
	ID       string            `json:"id"`
	State    entity.GameState  `json:"state"`
	Playable []entity.Position `json:"playable"`
	Winner   entity.Symbol     `json:"winner,omitempty"`
}

type TableManager struct {
	logger    *slog.Logger
	tableRepo tableRepo
	engines   map[entity.GameKind]Engine

	defaultBoardSize int
	maxBoardSize     int
}

func NewTableManager(logger *slog.Logger, tableRepo tableRepo, limits config.Game, engines ...Engine) *TableManager {
	byKind := make(map[entity.GameKind]Engine, len(engines))
	for _, engine := range engines {
		byKind[engine.Kind()] = engine
	}

	return &TableManager{
		logger:    logger.With("component", "table_manager"),
		tableRepo: tableRepo,
		engines:   byKind,

		defaultBoardSize: limits.DefaultBoardSize,
		maxBoardSize:     limits.MaxBoardSize,
	}
}

// Kinds lists the game kinds tables can be created for.
func (that *TableManager) Kinds() []entity.GameKind {
	kinds := make([]entity.GameKind, 0, len(that.engines))
	for kind := range that.engines {
		kinds = append(kinds, kind)
	}

	return kinds
}

func (that *TableManager) CreateTable(ctx context.Context, kind entity.GameKind, opts entity.Options) (*entity.Table, error) {
	log := that.logger.With("method", "CreateTable", "kind", kind)

	engine, err := that.engineFor(kind)
	if err != nil {
		return nil, err
	}

	if opts.BoardSize == 0 {
		opts.BoardSize = that.defaultBoardSize
	}

	// fixed-size games ignore the option and report no board size
	state := engine.Initialize(opts)
	if err = that.checkBoardSize(state); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	table := &entity.Table{
		ID:        uuid.NewString(),
		State:     state,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err = that.tableRepo.CreateOrUpdate(ctx, table); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	log.Info("table created", "table_id", table.ID)

	return table, nil
}

func (that *TableManager) GetTable(ctx context.Context, id string) (*entity.Table, error) {
	table, err := that.tableRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get table: %w", err)
	}

	return table, nil
}

// Dispatch applies action to the table's state as one atomic read-transition-write.
// A rejected move is not an error: it comes back annotated on the state.
//
// The size cap is checked on the engine's result, so a resize the engine
// ignores or does not know is never reported as too large.
func (that *TableManager) Dispatch(ctx context.Context, id string, action entity.Action) (*entity.Table, error) {
	return that.apply(ctx, "Dispatch", id, string(action.Type), func(engine Engine, state entity.GameState) (entity.GameState, error) {
		next, err := engine.Transition(state, action)
		if err != nil {
			return state, err
		}

		if next.BoardSize != state.BoardSize {
			if err = that.checkBoardSize(next); err != nil {
				return state, err
			}
		}

		return next, nil
	})
}

// Drop plays a turn in column at the lowest empty row. Only games with gravity
// support it; the others return ErrRowRequired.
func (that *TableManager) Drop(ctx context.Context, id string, column int) (*entity.Table, error) {
	return that.apply(ctx, "Drop", id, string(entity.ActionTurn), func(engine Engine, state entity.GameState) (entity.GameState, error) {
		gravity, ok := engine.(gravityEngine)
		if !ok {
			return state, fmt.Errorf("%w: %s", apperror.ErrRowRequired, state.Kind)
		}

		// a full or missing column still goes through the engine so the
		// rejection is annotated on the state like any other invalid move
		row, _ := gravity.DropRow(state.Board, column)

		return engine.Transition(state, entity.PlayTurn(column, row))
	})
}

func (that *TableManager) CloseTable(ctx context.Context, id string) error {
	if err := that.tableRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to close table: %w", err)
	}

	that.logger.Info("table closed", "method", "CloseTable", "table_id", id)

	return nil
}

// Playable lists the cells the current player may take.
func (that *TableManager) Playable(table *entity.Table) []entity.Position {
	engine, err := that.engineFor(table.State.Kind)
	if err != nil {
		return nil
	}

	return engine.Moves(table.State)
}

func (that *TableManager) View(table *entity.Table) TableView {
	playable := that.Playable(table)
	if playable == nil {
		playable = []entity.Position{}
	}

	return TableView{
		ID:       table.ID,
		State:    table.State,
		Playable: playable,
		Winner:   table.State.Winner(),
	}
}

func (that *TableManager) apply(
	ctx context.Context,
	method string,
	id string,
	action string,
	transition func(engine Engine, state entity.GameState) (entity.GameState, error),
) (*entity.Table, error) {
	log := that.logger.With("method", method, "table_id", id, "action", action)

	table, err := that.tableRepo.Update(ctx, id, func(table *entity.Table) error {
		engine, err := that.engineFor(table.State.Kind)
		if err != nil {
			return err
		}

		next, err := transition(engine, table.State)
		if err != nil {
			return err
		}

		table.State = next
		table.UpdatedAt = time.Now().UTC()

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to apply %s: %w", action, err)
	}

	switch {
	case table.State.Error != "":
		log.Warn("move rejected", "reason", table.State.Error)
	case table.State.IsFinished():
		log.Info("game over", "status", table.State.Status, "winner", table.State.Winner())
	default:
		log.Debug("action applied", "status", table.State.Status)
	}

	return table, nil
}

func (that *TableManager) checkBoardSize(state entity.GameState) error {
	if state.BoardSize > that.maxBoardSize {
		return fmt.Errorf("%w: %d, max is %d", apperror.ErrBoardTooLarge, state.BoardSize, that.maxBoardSize)
	}

	return nil
}

func (that *TableManager) engineFor(kind entity.GameKind) (Engine, error) {
	engine, ok := that.engines[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownGameKind, kind)
	}

	return engine, nil
}
