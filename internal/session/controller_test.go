package session_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexeyInc/Color-Lines/internal/game"
	"github.com/AlexeyInc/Color-Lines/internal/results"
	"github.com/AlexeyInc/Color-Lines/internal/score"
	"github.com/AlexeyInc/Color-Lines/internal/session"
	"github.com/AlexeyInc/Color-Lines/internal/store"
)

type fakeRecorder struct {
	rows []results.Result
	err  error
}

func (f *fakeRecorder) InsertResult(_ context.Context, r results.Result) error {
	f.rows = append(f.rows, r)
	return f.err
}

type harness struct {
	dir      store.Dir
	engine   *game.Engine
	ctrl     *session.Controller
	recorder *fakeRecorder
	events   []session.Notification
}

func newHarness(t *testing.T, s game.Settings, opts ...session.Option) *harness {
	t.Helper()
	e, err := game.NewEngine(s, 7)
	require.NoError(t, err)
	h := &harness{dir: store.Dir(t.TempDir()), engine: e, recorder: &fakeRecorder{}}
	opts = append([]session.Option{
		session.WithLogger(zerolog.Nop()),
		session.WithRecorder(h.recorder),
	}, opts...)
	h.ctrl = session.New(e, h.dir, opts...)
	h.ctrl.Subscribe(func(n session.Notification) { h.events = append(h.events, n) })
	return h
}

func (h *harness) kinds() []session.Kind {
	out := make([]session.Kind, 0, len(h.events))
	for _, n := range h.events {
		out = append(out, n.Kind)
	}
	return out
}

func (h *harness) reset() { h.events = nil }

// collectRow sets up row 0 so that moving (1,4) to (0,4) completes a line of
// five and scores 10.
func collectRow(t *testing.T, h *harness) {
	t.Helper()
	b := h.ctrl.Board()
	for c := 0; c < 4; c++ {
		b.Cells[0][c] = 1
	}
	b.Cells[1][4] = 1
	require.NoError(t, h.ctrl.Click(game.Point{Row: 1, Col: 4}))
	require.NoError(t, h.ctrl.Click(game.Point{Row: 0, Col: 4}))
}

// fillAllButCorner fills every cell except the bottom-right one without
// forming any line.
func fillAllButCorner(b *game.Board) {
	for r := range b.Cells {
		for c := range b.Cells[r] {
			b.Cells[r][c] = game.Color(1 + (r+2*c)%game.NumColors)
		}
	}
	b.Cells[b.Size-1][b.Size-1] = game.Empty
}

func smallRules() game.Settings {
	return game.Settings{BoardSize: 5, DropBallsPerStep: 3, NumBallsInLine: 5}
}

func TestInitCreatesEmptyBoard(t *testing.T) {
	h := newHarness(t, game.DefaultSettings())
	assert.Equal(t, session.Uninitialized, h.ctrl.State())

	require.NoError(t, h.ctrl.Init())

	assert.Equal(t, session.Active, h.ctrl.State())
	assert.Equal(t, 9, h.ctrl.Board().Size)
	assert.Equal(t, 81, h.ctrl.Board().EmptyCells())
	assert.Zero(t, h.ctrl.Score().CurrentScore())
	assert.Equal(t, []session.Kind{session.KindBoardReset, session.KindStateChanged}, h.kinds())

	err := h.ctrl.Init()
	assert.ErrorIs(t, err, session.ErrInvalidState)
}

func TestInitKeepsBestScoresAndResetsCurrent(t *testing.T) {
	h := newHarness(t, game.DefaultSettings())
	require.NoError(t, score.NewWith(55, map[int]int{9: 120}).SaveFull(h.dir.ScorePath()))

	require.NoError(t, h.ctrl.Init())

	assert.Zero(t, h.ctrl.Score().CurrentScore())
	best, err := h.ctrl.Score().Best(9)
	require.NoError(t, err)
	assert.Equal(t, 120, best)
}

func TestInitSurfacesCorruptScoreFile(t *testing.T) {
	h := newHarness(t, game.DefaultSettings())
	require.NoError(t, os.WriteFile(h.dir.ScorePath(), []byte("<Score><broken"), 0o644))

	err := h.ctrl.Init()

	assert.ErrorIs(t, err, score.ErrPersistence)
	assert.Equal(t, session.Uninitialized, h.ctrl.State())
	assert.Nil(t, h.ctrl.Board())
}

func TestCommandsRejectedBeforeInit(t *testing.T) {
	h := newHarness(t, game.DefaultSettings())

	assert.ErrorIs(t, h.ctrl.SaveGame(), session.ErrInvalidState)
	assert.ErrorIs(t, h.ctrl.Click(game.Point{}), session.ErrInvalidState)
	assert.ErrorIs(t, h.ctrl.SetBoardSize("7"), session.ErrInvalidState)
	assert.ErrorIs(t, h.ctrl.ResolveGameOver(true), session.ErrInvalidState)

	var te *session.TransitionError
	require.ErrorAs(t, h.ctrl.SaveGame(), &te)
	assert.Equal(t, session.Uninitialized, te.From)
	assert.Equal(t, session.EventSave, te.Event)
}

func TestStartNewGameDropsBalls(t *testing.T) {
	h := newHarness(t, game.DefaultSettings())

	require.NoError(t, h.ctrl.StartNewGame())

	assert.Equal(t, session.Active, h.ctrl.State())
	assert.Equal(t, 78, h.ctrl.Board().EmptyCells())
}

func TestScoreUpdateRaisesRecordAndPersistsTable(t *testing.T) {
	h := newHarness(t, game.DefaultSettings())
	require.NoError(t, score.NewWith(7, map[int]int{9: 4}).SaveFull(h.dir.ScorePath()))
	require.NoError(t, h.ctrl.Init())
	h.reset()

	collectRow(t, h)

	assert.Equal(t, 10, h.ctrl.Score().CurrentScore())
	assert.Equal(t, []session.Kind{
		session.KindCellSelected,
		session.KindCellUnselected,
		session.KindScoreChanged,
		session.KindNewRecord,
	}, h.kinds())
	assert.Equal(t, 10, h.events[2].Delta)
	assert.Equal(t, 10, h.events[2].Best)

	onDisk, found, err := score.Load(h.dir.ScorePath())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 7, onDisk.CurrentScore(), "live session score must not reach the file")
	best, err := onDisk.Best(9)
	require.NoError(t, err)
	assert.Equal(t, 10, best)
}

func TestScoreUpdateBelowBestDoesNotPersist(t *testing.T) {
	h := newHarness(t, game.DefaultSettings())
	require.NoError(t, score.NewWith(0, map[int]int{9: 50}).SaveFull(h.dir.ScorePath()))
	require.NoError(t, h.ctrl.Init())
	h.reset()

	collectRow(t, h)

	assert.NotContains(t, h.kinds(), session.KindNewRecord)
	onDisk, _, err := score.Load(h.dir.ScorePath())
	require.NoError(t, err)
	best, _ := onDisk.Best(9)
	assert.Equal(t, 50, best)
}

func TestRecordPersistFailureIsReported(t *testing.T) {
	h := newHarness(t, game.DefaultSettings())
	require.NoError(t, h.ctrl.Init())
	require.NoError(t, os.Mkdir(h.dir.ScorePath(), 0o755))
	h.reset()

	collectRow(t, h)

	assert.Equal(t, 10, h.ctrl.Score().CurrentScore())
	last := h.events[len(h.events)-1]
	assert.Equal(t, session.KindPersistenceFailed, last.Kind)
	assert.Equal(t, "record_save", last.Op)
	assert.ErrorIs(t, last.Err, score.ErrPersistence)
	assert.Equal(t, session.Active, h.ctrl.State())
}

func TestGameOverAwaitsDecision(t *testing.T) {
	h := newHarness(t, smallRules())
	require.NoError(t, h.ctrl.Init())
	old := h.ctrl.Board()
	fillAllButCorner(old)
	h.ctrl.Score().AddScore(14)
	h.reset()

	old.DropRandomBalls()

	assert.Equal(t, session.AwaitingGameOverDecision, h.ctrl.State())
	assert.Equal(t, []session.Kind{session.KindStateChanged, session.KindGameOver}, h.kinds())
	require.Len(t, h.recorder.rows, 1)
	res := h.recorder.rows[0]
	assert.Equal(t, old.ID, res.BoardID)
	assert.Equal(t, 5, res.BoardSize)
	assert.Equal(t, 14, res.Score)
	assert.Equal(t, 3, res.DropBalls)
	assert.Equal(t, 5, res.BallsInLine)

	assert.ErrorIs(t, h.ctrl.Click(game.Point{}), session.ErrInvalidState)
	assert.ErrorIs(t, h.ctrl.SaveGame(), session.ErrInvalidState)

	require.NoError(t, h.ctrl.ResolveGameOver(false))
	assert.Equal(t, session.AwaitingGameOverDecision, h.ctrl.State())
	assert.Same(t, old, h.ctrl.Board())

	require.NoError(t, h.ctrl.ResolveGameOver(true))
	assert.Equal(t, session.Active, h.ctrl.State())
	assert.NotSame(t, old, h.ctrl.Board())
	assert.Equal(t, 22, h.ctrl.Board().EmptyCells())
	assert.Zero(t, h.ctrl.Score().CurrentScore())
}

func TestGameOverWithConfirmerRestartsOnce(t *testing.T) {
	var prompts []string
	confirm := session.ConfirmFunc(func(p string) bool {
		prompts = append(prompts, p)
		return true
	})
	h := newHarness(t, smallRules(), session.WithConfirmer(confirm))
	require.NoError(t, h.ctrl.Init())
	old := h.ctrl.Board()
	fillAllButCorner(old)
	h.reset()

	old.DropRandomBalls()

	assert.Equal(t, []string{session.PromptStartNewGame}, prompts)
	assert.Equal(t, session.Active, h.ctrl.State())
	assert.NotSame(t, old, h.ctrl.Board())
	assert.Len(t, h.recorder.rows, 1)
	assert.Equal(t, []session.Kind{
		session.KindStateChanged,
		session.KindGameOver,
		session.KindBoardReset,
		session.KindStateChanged,
	}, h.kinds())
}

func TestReplacedBoardEventsIgnored(t *testing.T) {
	h := newHarness(t, smallRules())
	require.NoError(t, h.ctrl.Init())
	old := h.ctrl.Board()
	require.NoError(t, h.ctrl.StartNewGame())
	h.reset()

	fillAllButCorner(old)
	old.DropRandomBalls()

	assert.True(t, old.Over())
	assert.Equal(t, session.Active, h.ctrl.State())
	assert.Empty(t, h.recorder.rows)
	assert.Empty(t, h.events)
}

func TestGameOverHistoryFailureIsNotFatal(t *testing.T) {
	h := newHarness(t, smallRules())
	h.recorder.err = errors.New("disk full")
	require.NoError(t, h.ctrl.Init())
	fillAllButCorner(h.ctrl.Board())
	h.reset()

	h.ctrl.Board().DropRandomBalls()

	assert.Equal(t, session.AwaitingGameOverDecision, h.ctrl.State())
	assert.Contains(t, h.kinds(), session.KindPersistenceFailed)
	assert.Contains(t, h.kinds(), session.KindGameOver)
}

func TestSetBoardSizeResetsGame(t *testing.T) {
	h := newHarness(t, game.DefaultSettings())
	require.NoError(t, score.NewWith(0, map[int]int{9: 30, 7: 12}).SaveFull(h.dir.ScorePath()))
	require.NoError(t, h.ctrl.StartNewGame())
	h.ctrl.Score().AddScore(6)
	h.reset()

	require.NoError(t, h.ctrl.SetBoardSize(" 7 "))

	assert.Equal(t, "7", h.ctrl.BoardSize())
	assert.Equal(t, 7, h.ctrl.Board().Size)
	assert.Equal(t, 49, h.ctrl.Board().EmptyCells())
	assert.Zero(t, h.ctrl.Score().CurrentScore())
	assert.Equal(t, 7, h.ctrl.Score().BoardSize())
	assert.Equal(t, []session.Kind{session.KindBoardReset, session.KindSettingsChanged}, h.kinds())
	assert.Equal(t, 12, h.events[0].Best)
}

func TestInvalidSettingLeavesSessionUntouched(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*session.Controller) error
	}{
		{"board size not a number", func(c *session.Controller) error { return c.SetBoardSize("abc") }},
		{"board size out of range", func(c *session.Controller) error { return c.SetBoardSize("20") }},
		{"balls in line above board", func(c *session.Controller) error { return c.SetNumBallsInLine("8") }},
		{"no dropping balls", func(c *session.Controller) error { return c.SetRandomDroppingBalls("0") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, game.DefaultSettings())
			require.NoError(t, h.ctrl.StartNewGame())
			h.ctrl.Score().AddScore(8)
			board := h.ctrl.Board()
			cells := h.ctrl.Snapshot().Cells
			h.reset()

			err := tt.apply(h.ctrl)

			assert.ErrorIs(t, err, session.ErrInvalidSetting)
			var ise *session.InvalidSettingError
			require.ErrorAs(t, err, &ise)
			assert.Same(t, board, h.ctrl.Board())
			assert.Equal(t, cells, h.ctrl.Snapshot().Cells)
			assert.Equal(t, 8, h.ctrl.Score().CurrentScore())
			assert.Equal(t, game.DefaultSettings(), h.engine.Settings())
			assert.Equal(t, session.Active, h.ctrl.State())
			assert.Empty(t, h.events)
		})
	}
}

func TestMalformedSettingSkipsConfirmation(t *testing.T) {
	var prompts []string
	h := newHarness(t, game.DefaultSettings(), session.WithConfirmer(session.ConfirmFunc(func(p string) bool {
		prompts = append(prompts, p)
		return true
	})))
	require.NoError(t, h.ctrl.Init())

	err := h.ctrl.SetBoardSize(" seven ")
	assert.ErrorIs(t, err, session.ErrInvalidSetting)
	assert.Empty(t, prompts)

	err = h.ctrl.SetBoardSize("20")
	assert.ErrorIs(t, err, session.ErrInvalidSetting)
	assert.Equal(t, []string{session.PromptBoardSize}, prompts)
	assert.Equal(t, game.DefaultSettings(), h.engine.Settings())
}

func TestSettingChangeDeclined(t *testing.T) {
	var asked []string
	confirm := session.ConfirmFunc(func(p string) bool {
		asked = append(asked, p)
		return false
	})
	h := newHarness(t, game.DefaultSettings(), session.WithConfirmer(confirm))
	require.NoError(t, h.ctrl.Init())
	board := h.ctrl.Board()

	err := h.ctrl.SetRandomDroppingBalls("5")

	assert.ErrorIs(t, err, session.ErrChangeDeclined)
	assert.Equal(t, []string{session.PromptDroppingBalls}, asked)
	assert.Equal(t, "3", h.ctrl.RandomDroppingBalls())
	assert.Same(t, board, h.ctrl.Board())
}

func TestSettingsChangeLeavesGameOverState(t *testing.T) {
	h := newHarness(t, smallRules())
	require.NoError(t, h.ctrl.Init())
	fillAllButCorner(h.ctrl.Board())
	h.ctrl.Board().DropRandomBalls()
	require.Equal(t, session.AwaitingGameOverDecision, h.ctrl.State())

	require.NoError(t, h.ctrl.SetNumBallsInLine("4"))

	assert.Equal(t, session.Active, h.ctrl.State())
	assert.Equal(t, "4", h.ctrl.NumBallsInLine())
	assert.Equal(t, 25, h.ctrl.Board().EmptyCells())
}

func TestSettingChangeRollsBackOnCorruptScore(t *testing.T) {
	h := newHarness(t, game.DefaultSettings())
	require.NoError(t, h.ctrl.Init())
	board := h.ctrl.Board()
	require.NoError(t, os.WriteFile(h.dir.ScorePath(), []byte("not xml"), 0o644))

	err := h.ctrl.SetBoardSize("7")

	assert.ErrorIs(t, err, score.ErrPersistence)
	assert.Equal(t, "9", h.ctrl.BoardSize())
	assert.Same(t, board, h.ctrl.Board())
}

func TestSaveAndContinue(t *testing.T) {
	h := newHarness(t, game.Settings{BoardSize: 7, DropBallsPerStep: 4, NumBallsInLine: 4})
	require.NoError(t, h.ctrl.StartNewGame())
	h.ctrl.Score().AddScore(26)
	require.NoError(t, h.ctrl.Score().SetBest(7, 40))
	saved := h.ctrl.Snapshot()
	h.reset()

	require.NoError(t, h.ctrl.SaveGame())
	assert.Equal(t, []session.Kind{session.KindGameSaved}, h.kinds())

	// A fresh process with default rules picks the saved session up.
	e, err := game.NewEngine(game.DefaultSettings(), 1)
	require.NoError(t, err)
	next := session.New(e, h.dir, session.WithLogger(zerolog.Nop()))
	var kinds []session.Kind
	next.Subscribe(func(n session.Notification) { kinds = append(kinds, n.Kind) })

	restored, err := next.ContinueGame()
	require.NoError(t, err)
	require.True(t, restored)

	got := next.Snapshot()
	assert.Equal(t, session.Active, got.State)
	assert.Equal(t, saved.BoardID, got.BoardID)
	assert.Equal(t, saved.Cells, got.Cells)
	assert.Equal(t, 26, got.Score)
	assert.Equal(t, 40, got.Best)
	assert.Equal(t, game.Settings{BoardSize: 7, DropBallsPerStep: 4, NumBallsInLine: 4}, got.Settings)
	assert.Equal(t, []session.Kind{
		session.KindBoardReset,
		session.KindStateChanged,
		session.KindSettingsChanged,
		session.KindGameRestored,
	}, kinds)
}

func TestSaveGameWritesBoardLast(t *testing.T) {
	h := newHarness(t, game.DefaultSettings())
	require.NoError(t, h.ctrl.StartNewGame())
	require.NoError(t, os.Mkdir(h.dir.ScorePath(), 0o755))

	err := h.ctrl.SaveGame()

	assert.ErrorIs(t, err, score.ErrPersistence)
	assert.NoFileExists(t, h.dir.BoardPath())
	assert.NotContains(t, h.kinds(), session.KindGameSaved)

	restored, err := h.ctrl.ContinueGame()
	require.NoError(t, err)
	assert.False(t, restored)
}

func TestSaveGameSettingsFailureLeavesNoBoard(t *testing.T) {
	h := newHarness(t, game.DefaultSettings())
	require.NoError(t, h.ctrl.StartNewGame())
	require.NoError(t, os.MkdirAll(h.dir.SettingsPath()+"/x", 0o755))

	err := h.ctrl.SaveGame()

	require.Error(t, err)
	assert.NoFileExists(t, h.dir.BoardPath())
}

func TestContinueWithoutSavedGame(t *testing.T) {
	h := newHarness(t, game.DefaultSettings())

	restored, err := h.ctrl.ContinueGame()

	require.NoError(t, err)
	assert.False(t, restored)
	assert.Equal(t, session.Uninitialized, h.ctrl.State())
	assert.Nil(t, h.ctrl.Board())
	assert.Empty(t, h.events)
}

func TestContinueWithoutScoreFileStartsFreshRecord(t *testing.T) {
	h := newHarness(t, game.DefaultSettings())
	require.NoError(t, h.ctrl.StartNewGame())
	require.NoError(t, h.ctrl.Board().Save(h.dir.BoardPath()))

	restored, err := h.ctrl.ContinueGame()

	require.NoError(t, err)
	assert.True(t, restored)
	assert.Zero(t, h.ctrl.Score().CurrentScore())
	assert.Equal(t, 9, h.ctrl.Score().BoardSize())
}

func TestPanelsToggle(t *testing.T) {
	h := newHarness(t, game.DefaultSettings(), session.WithAboutText("about"))

	assert.Equal(t, session.Collapsed, h.ctrl.PanelVisibility(session.PanelSettings))
	assert.Equal(t, session.Visible, h.ctrl.OpenSettings())
	assert.Equal(t, session.Hidden, h.ctrl.OpenSettings())
	assert.Equal(t, session.Visible, h.ctrl.OpenSettings())
	assert.Equal(t, session.Visible, h.ctrl.OpenAboutGame())
	assert.Equal(t, session.Visible, h.ctrl.Snapshot().Panels[session.PanelSettings])
	assert.Equal(t, "about", h.ctrl.AboutText())

	last := h.events[len(h.events)-1]
	assert.Equal(t, session.KindPanelToggled, last.Kind)
	assert.Equal(t, session.PanelAbout, last.Panel)
	assert.Equal(t, session.Visible, last.Visibility)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	h := newHarness(t, game.DefaultSettings())
	var n int
	unsubscribe := h.ctrl.Subscribe(func(session.Notification) { n++ })

	h.ctrl.OpenSettings()
	unsubscribe()
	h.ctrl.OpenSettings()

	assert.Equal(t, 1, n)
	assert.Len(t, h.events, 2)
}
