// internal/game/engine.go
//
// Board engine for balls and lines.
// Responsibilities:
//   - Hold the active Settings and validate every change to them.
//   - Create boards, empty or copied from a saved layout.
//   - Drop random balls, move a selected ball along a free path.
//   - Collect lines of NumBallsInLine or more same-coloured balls.
//   - Raise ScoreUpdated / CellSelected / CellUnselected / GameOver synchronously.
//
// Notes:
//   - A handler may replace the board while the board is still dispatching
//     (e.g. a new game started from GameOver). The board never touches its
//     handlers again after raising GameOver.
//   - Each collected ball is worth pointsPerBall points.
package game

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

const pointsPerBall = 2

// directions scanned for lines: horizontal, vertical, both diagonals.
var directions = [...]Point{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// neighbours used for path finding (no diagonal moves).
var neighbours = [...]Point{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// Engine owns the active rules and the random source shared by its boards.
type Engine struct {
	settings Settings
	rng      *rand.Rand
}

// NewEngine validates s and returns an engine. A zero seed picks a time-based one.
func NewEngine(s Settings, seed int64) (*Engine, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Engine{
		settings: s,
		rng:      rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1)),
	}, nil
}

// Settings returns the active rules.
func (e *Engine) Settings() Settings { return e.settings }

// ApplySettings replaces all rules at once, or none when s is invalid.
func (e *Engine) ApplySettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	e.settings = s
	return nil
}

// ChangeBoardSize reports whether size was accepted.
func (e *Engine) ChangeBoardSize(size int) bool {
	next := e.settings
	next.BoardSize = size
	return e.ApplySettings(next) == nil
}

// ChangeDroppingBallsPerStep reports whether n was accepted.
func (e *Engine) ChangeDroppingBallsPerStep(n int) bool {
	next := e.settings
	next.DropBallsPerStep = n
	return e.ApplySettings(next) == nil
}

// ChangeCountBallsForLineCollected reports whether n was accepted.
func (e *Engine) ChangeCountBallsForLineCollected(n int) bool {
	next := e.settings
	next.NumBallsInLine = n
	return e.ApplySettings(next) == nil
}

// CreateBoard returns an empty size x size board, or a copy of saved when it
// is non-nil (saved.Size then wins over size).
func (e *Engine) CreateBoard(size int, saved *Board) *Board {
	rules := e.settings
	id := uuid.NewString()
	if saved != nil {
		size = saved.Size
		id = saved.ID
	}
	rules.BoardSize = size

	b := &Board{
		ID:    id,
		Size:  size,
		Cells: make([][]Color, size),
		rules: rules,
		rng:   e.rng,
	}
	for r := range b.Cells {
		b.Cells[r] = make([]Color, size)
		if saved != nil {
			copy(b.Cells[r], saved.Cells[r])
		}
	}
	return b
}

// Subscribe installs the event handlers, replacing previous ones.
func (b *Board) Subscribe(h Handlers) { b.h = h }

// Rules returns the settings the board was created with.
func (b *Board) Rules() Settings { return b.rules }

// Cell returns the contents of p, or Empty outside the board.
func (b *Board) Cell(p Point) Color {
	if !b.inside(p) {
		return Empty
	}
	return b.Cells[p.Row][p.Col]
}

// Selected returns the selected ball, if any.
func (b *Board) Selected() (Point, bool) {
	if b.selected == nil {
		return Point{}, false
	}
	return *b.selected, true
}

// Over reports whether the board filled up.
func (b *Board) Over() bool { return b.over }

// EmptyCells counts free cells.
func (b *Board) EmptyCells() int { return len(b.freeCells()) }

// DropRandomBalls drops up to DropBallsPerStep balls on random free cells and
// returns how many were placed. Lines completed by a dropped ball are
// collected and scored. GameOver is raised when no free cell remains.
func (b *Board) DropRandomBalls() int {
	if b.over {
		return 0
	}
	dropped := 0
	for dropped < b.rules.DropBallsPerStep {
		free := b.freeCells()
		if len(free) == 0 {
			break
		}
		p := free[b.rng.IntN(len(free))]
		b.Cells[p.Row][p.Col] = Color(1 + b.rng.IntN(NumColors))
		dropped++
		if removed := b.collectLines(p); removed > 0 {
			b.scoreUpdated(removed * pointsPerBall)
		}
	}
	if len(b.freeCells()) == 0 {
		b.over = true
		if b.h.GameOver != nil {
			b.h.GameOver()
		}
	}
	return dropped
}

// Click applies one player input at p.
//
// On a ball: selects it, or unselects it when it is already selected.
// On a free cell with a ball selected: moves the ball when a free path exists,
// then collects lines through the destination; a move that collects nothing
// is followed by a random drop.
func (b *Board) Click(p Point) error {
	if !b.inside(p) {
		return ErrOutOfBounds
	}
	if b.over {
		return ErrGameOver
	}

	if b.Cells[p.Row][p.Col] != Empty {
		if b.selected != nil && *b.selected == p {
			b.unselect()
			return nil
		}
		b.unselect()
		sel := p
		b.selected = &sel
		if b.h.CellSelected != nil {
			b.h.CellSelected(p)
		}
		return nil
	}

	if b.selected == nil {
		return nil
	}
	from := *b.selected
	if !b.pathExists(from, p) {
		return ErrNoPath
	}

	b.Cells[p.Row][p.Col] = b.Cells[from.Row][from.Col]
	b.Cells[from.Row][from.Col] = Empty
	b.unselect()

	if removed := b.collectLines(p); removed > 0 {
		b.scoreUpdated(removed * pointsPerBall)
		return nil
	}
	b.DropRandomBalls()
	return nil
}

func (b *Board) scoreUpdated(delta int) {
	if b.h.ScoreUpdated != nil {
		b.h.ScoreUpdated(delta)
	}
}

func (b *Board) unselect() {
	if b.selected == nil {
		return
	}
	p := *b.selected
	b.selected = nil
	if b.h.CellUnselected != nil {
		b.h.CellUnselected(p)
	}
}

// collectLines removes every line through p that is long enough and returns
// the number of balls removed.
func (b *Board) collectLines(p Point) int {
	c := b.Cells[p.Row][p.Col]
	if c == Empty {
		return 0
	}

	var hit []Point
	for _, d := range directions {
		line := []Point{p}
		for _, sign := range [...]int{1, -1} {
			q := Point{p.Row + sign*d.Row, p.Col + sign*d.Col}
			for b.inside(q) && b.Cells[q.Row][q.Col] == c {
				line = append(line, q)
				q = Point{q.Row + sign*d.Row, q.Col + sign*d.Col}
			}
		}
		if len(line) >= b.rules.NumBallsInLine {
			hit = append(hit, line...)
		}
	}

	removed := 0
	for _, q := range hit {
		// p sits on every line, count it once.
		if b.Cells[q.Row][q.Col] != Empty {
			b.Cells[q.Row][q.Col] = Empty
			removed++
		}
	}
	if removed > 0 && b.selected != nil && b.Cells[b.selected.Row][b.selected.Col] == Empty {
		b.unselect()
	}
	return removed
}

// pathExists runs a breadth-first search over free cells from from to to.
func (b *Board) pathExists(from, to Point) bool {
	seen := make([][]bool, b.Size)
	for r := range seen {
		seen[r] = make([]bool, b.Size)
	}
	queue := []Point{from}
	seen[from.Row][from.Col] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range neighbours {
			n := Point{cur.Row + d.Row, cur.Col + d.Col}
			if !b.inside(n) || seen[n.Row][n.Col] || b.Cells[n.Row][n.Col] != Empty {
				continue
			}
			if n == to {
				return true
			}
			seen[n.Row][n.Col] = true
			queue = append(queue, n)
		}
	}
	return false
}

func (b *Board) freeCells() []Point {
	var out []Point
	for r, row := range b.Cells {
		for c, v := range row {
			if v == Empty {
				out = append(out, Point{r, c})
			}
		}
	}
	return out
}

func (b *Board) inside(p Point) bool {
	return p.Row >= 0 && p.Row < b.Size && p.Col >= 0 && p.Col < b.Size
}
