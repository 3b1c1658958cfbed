// internal/session/controller.go
//
// Controller owns one game session: the current board, the score record and
// the lifecycle state. It is single-threaded; callers that share it across
// goroutines serialise access themselves.

package session

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/AlexeyInc/Color-Lines/internal/game"
	"github.com/AlexeyInc/Color-Lines/internal/results"
	"github.com/AlexeyInc/Color-Lines/internal/score"
	"github.com/AlexeyInc/Color-Lines/internal/store"
)

// Prompts passed to the Confirmer.
const (
	PromptStartNewGame    = "Start new game?"
	PromptBoardSize       = "Change board size and reset game?"
	PromptBallsInLine     = "Change balls in line count and reset game?"
	PromptDroppingBalls   = "Change dropping balls count and reset game?"
	persistOpRecordSave   = "record_save"
	persistOpHistoryWrite = "history_insert"
)

// Engine creates boards and owns the game rules.
type Engine interface {
	Settings() game.Settings
	ApplySettings(s game.Settings) error
	ChangeBoardSize(size int) bool
	ChangeDroppingBallsPerStep(n int) bool
	ChangeCountBallsForLineCollected(n int) bool
	CreateBoard(size int, saved *game.Board) *game.Board
}

// Confirmer answers yes/no questions on behalf of the player.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Recorder stores finished games.
type Recorder interface {
	InsertResult(ctx context.Context, r results.Result) error
}

type Option func(*Controller)

func WithLogger(l zerolog.Logger) Option { return func(c *Controller) { c.log = l } }

func WithConfirmer(cf Confirmer) Option { return func(c *Controller) { c.confirm = cf } }

func WithRecorder(r Recorder) Option { return func(c *Controller) { c.recorder = r } }

func WithAboutText(text string) Option { return func(c *Controller) { c.about = text } }

type Controller struct {
	engine   Engine
	dir      store.Dir
	log      zerolog.Logger
	confirm  Confirmer
	recorder Recorder
	about    string

	state     State
	board     *game.Board
	score     *score.Record
	panels    map[Panel]Visibility
	listeners listeners
}

// New returns an Uninitialized controller; call Init to create the first board.
func New(engine Engine, dir store.Dir, opts ...Option) *Controller {
	c := &Controller{
		engine: engine,
		dir:    dir,
		log:    log.Logger,
		state:  Uninitialized,
		panels: map[Panel]Visibility{
			PanelSettings: Collapsed,
			PanelAbout:    Collapsed,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe registers l and returns a function that removes it.
func (c *Controller) Subscribe(l Listener) (unsubscribe func()) {
	id := c.listeners.add(l)
	return func() { c.listeners.remove(id) }
}

func (c *Controller) State() State { return c.state }

func (c *Controller) Board() *game.Board { return c.board }

func (c *Controller) Score() *score.Record { return c.score }

// Init creates the first board with the configured settings.
func (c *Controller) Init() error {
	to, err := next(c.state, EventInit)
	if err != nil {
		return err
	}
	if err := c.initGameComponent(); err != nil {
		return err
	}
	c.setState(to)
	return nil
}

// StartNewGame resets the board and drops the first balls. Allowed in any state.
func (c *Controller) StartNewGame() error {
	return c.reset(EventNewGame)
}

// ResolveGameOver applies the player's answer to "Start new game?".
func (c *Controller) ResolveGameOver(restart bool) error {
	if !restart {
		to, err := next(c.state, EventDecline)
		if err != nil {
			return err
		}
		c.setState(to)
		return nil
	}
	return c.reset(EventRestart)
}

// Click forwards board input while a game is in progress.
func (c *Controller) Click(p game.Point) error {
	if _, err := next(c.state, EventPlay); err != nil {
		return err
	}
	return c.board.Click(p)
}

// SaveGame writes the full score, the engine settings and the board.
func (c *Controller) SaveGame() error {
	if _, err := next(c.state, EventSave); err != nil {
		return err
	}
	// game.xml gates ContinueGame, so it is written last.
	if err := c.score.SaveFull(c.dir.ScorePath()); err != nil {
		return err
	}
	if err := game.SaveSettings(c.dir.SettingsPath(), c.engine.Settings()); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	if err := c.board.Save(c.dir.BoardPath()); err != nil {
		return fmt.Errorf("save board: %w", err)
	}
	c.log.Info().Str("board", c.board.ID).Int("score", c.score.CurrentScore()).Msg("game saved")
	c.publish(Notification{Kind: KindGameSaved, BoardID: c.board.ID, Score: c.score.CurrentScore()})
	return nil
}

// ContinueGame restores the saved session. restored is false, with nothing
// changed, when no saved board exists.
func (c *Controller) ContinueGame() (restored bool, err error) {
	to, err := next(c.state, EventContinue)
	if err != nil {
		return false, err
	}
	saved, found, err := game.OpenBoard(c.dir.BoardPath())
	if err != nil {
		return false, fmt.Errorf("open saved board: %w", err)
	}
	if !found {
		return false, nil
	}
	settings, ok, err := game.LoadSettings(c.dir.SettingsPath())
	if err != nil {
		return false, fmt.Errorf("load saved settings: %w", err)
	}
	if !ok {
		settings = c.engine.Settings()
	}
	settings.BoardSize = saved.Size
	rec, recFound, err := score.Load(c.dir.ScorePath())
	if err != nil {
		return false, err
	}
	if !recFound {
		rec = score.New()
	}
	if err := c.engine.ApplySettings(settings); err != nil {
		return false, fmt.Errorf("restore settings: %w", err)
	}
	rec.SetBoardSize(saved.Size)

	c.attach(c.engine.CreateBoard(saved.Size, saved), rec)
	c.setState(to)
	c.log.Info().Str("board", c.board.ID).Int("score", rec.CurrentScore()).Msg("game restored")
	c.publish(Notification{Kind: KindSettingsChanged, Settings: c.engine.Settings()})
	c.publish(Notification{
		Kind:      KindGameRestored,
		BoardID:   c.board.ID,
		BoardSize: c.board.Size,
		Score:     rec.CurrentScore(),
	})
	return true, nil
}

// reset builds a fresh board, enters Active and drops the first balls.
func (c *Controller) reset(ev Event) error {
	to, err := next(c.state, ev)
	if err != nil {
		return err
	}
	if err := c.initGameComponent(); err != nil {
		return err
	}
	c.setState(to)
	// The drop may end the game on a tiny board; state is Active first so
	// that GameOver has a transition to take.
	c.board.DropRandomBalls()
	return nil
}

// initGameComponent replaces the board and reloads the best scores. The
// current score starts at 0. Nothing changes when the score file is corrupt.
func (c *Controller) initGameComponent() error {
	rec, found, err := score.Load(c.dir.ScorePath())
	if err != nil {
		return err
	}
	if found {
		rec.SetCurrentScore(0)
	} else {
		rec = score.New()
	}
	size := c.engine.Settings().BoardSize
	rec.SetBoardSize(size)
	c.attach(c.engine.CreateBoard(size, nil), rec)
	return nil
}

func (c *Controller) attach(b *game.Board, rec *score.Record) {
	c.board = b
	c.score = rec
	b.Subscribe(c.handlersFor(b))
	best, _ := rec.Best(b.Size)
	c.log.Debug().Str("board", b.ID).Int("size", b.Size).Msg("board created")
	c.publish(Notification{
		Kind:      KindBoardReset,
		BoardID:   b.ID,
		BoardSize: b.Size,
		Score:     rec.CurrentScore(),
		Best:      best,
	})
}

// handlersFor binds engine events to b. Events from a board that has since
// been replaced are dropped.
func (c *Controller) handlersFor(b *game.Board) game.Handlers {
	current := func() bool { return c.board == b }
	return game.Handlers{
		ScoreUpdated: func(delta int) {
			if current() {
				c.onScoreUpdated(delta)
			}
		},
		CellSelected: func(p game.Point) {
			if current() {
				c.publish(Notification{Kind: KindCellSelected, BoardID: b.ID, Cell: p})
			}
		},
		CellUnselected: func(p game.Point) {
			if current() {
				c.publish(Notification{Kind: KindCellUnselected, BoardID: b.ID, Cell: p})
			}
		},
		GameOver: func() {
			if current() {
				c.onGameOver()
			}
		},
	}
}

func (c *Controller) onScoreUpdated(delta int) {
	c.score.AddScore(delta)
	cur := c.score.CurrentScore()
	size := c.score.BoardSize()

	isRecord, err := c.score.CheckOnMaxScore(cur)
	if err != nil {
		c.log.Error().Err(err).Int("size", size).Msg("check best score")
	}
	best, _ := c.score.Best(size)
	c.publish(Notification{Kind: KindScoreChanged, BoardSize: size, Delta: delta, Score: cur, Best: best})
	if !isRecord {
		return
	}

	c.publish(Notification{Kind: KindNewRecord, BoardSize: size, Score: cur, Best: best})
	if err := c.score.SaveRecordOnly(c.dir.ScorePath()); err != nil {
		c.log.Error().Err(err).Int("size", size).Int("best", best).Msg("persist new record")
		c.publish(Notification{Kind: KindPersistenceFailed, Op: persistOpRecordSave, Err: err})
	}
}

func (c *Controller) onGameOver() {
	to, err := next(c.state, EventGameOver)
	if err != nil {
		c.log.Warn().Err(err).Msg("game over ignored")
		return
	}
	c.setState(to)

	b, rec := c.board, c.score
	best, _ := rec.Best(b.Size)
	c.log.Info().Str("board", b.ID).Int("score", rec.CurrentScore()).Int("best", best).Msg("game over")
	c.recordResult(b, rec, best)
	c.publish(Notification{Kind: KindGameOver, BoardID: b.ID, BoardSize: b.Size, Score: rec.CurrentScore(), Best: best})

	if c.confirm == nil {
		return
	}
	restart := c.confirm.Confirm(PromptStartNewGame)
	if err := c.ResolveGameOver(restart); err != nil {
		c.log.Error().Err(err).Bool("restart", restart).Msg("resolve game over")
	}
}

func (c *Controller) recordResult(b *game.Board, rec *score.Record, best int) {
	if c.recorder == nil {
		return
	}
	rules := b.Rules()
	err := c.recorder.InsertResult(context.Background(), results.Result{
		BoardID:     b.ID,
		BoardSize:   b.Size,
		Score:       rec.CurrentScore(),
		BestScore:   best,
		DropBalls:   rules.DropBallsPerStep,
		BallsInLine: rules.NumBallsInLine,
	})
	if err != nil {
		c.log.Error().Err(err).Str("board", b.ID).Msg("record game result")
		c.publish(Notification{Kind: KindPersistenceFailed, Op: persistOpHistoryWrite, Err: err})
	}
}

func (c *Controller) setState(to State) {
	if c.state == to {
		return
	}
	from := c.state
	c.state = to
	c.log.Debug().Str("from", string(from)).Str("to", string(to)).Msg("state changed")
	c.publish(Notification{Kind: KindStateChanged, State: to})
}

func (c *Controller) publish(n Notification) {
	if n.State == "" {
		n.State = c.state
	}
	c.listeners.publish(n)
}
