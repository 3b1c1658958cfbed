package session

import "github.com/AlexeyInc/Color-Lines/internal/game"

// View is a read-only copy of the session for presentation. Cells hold colour
// numbers, 0 for an empty cell.
type View struct {
	State    State                `json:"state"`
	BoardID  string               `json:"boardId,omitempty"`
	Size     int                  `json:"size"`
	Cells    [][]int              `json:"cells,omitempty"`
	Selected *game.Point          `json:"selected,omitempty"`
	Score    int                  `json:"score"`
	Best     int                  `json:"best"`
	Settings game.Settings        `json:"settings"`
	Panels   map[Panel]Visibility `json:"panels"`
}

// Snapshot copies the current session. Board fields are empty before Init.
func (c *Controller) Snapshot() View {
	v := View{
		State:    c.state,
		Settings: c.engine.Settings(),
		Panels:   make(map[Panel]Visibility, len(c.panels)),
	}
	for p, vis := range c.panels {
		v.Panels[p] = vis
	}
	if c.board != nil {
		v.BoardID = c.board.ID
		v.Size = c.board.Size
		v.Cells = make([][]int, len(c.board.Cells))
		for i, row := range c.board.Cells {
			v.Cells[i] = make([]int, len(row))
			for j, col := range row {
				v.Cells[i][j] = int(col)
			}
		}
		if p, ok := c.board.Selected(); ok {
			v.Selected = &p
		}
	}
	if c.score != nil {
		v.Score = c.score.CurrentScore()
		v.Best, _ = c.score.Best(v.Size)
	}
	return v
}
