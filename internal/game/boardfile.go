// internal/game/boardfile.go
//
// Board persistence (game.xml). The document keeps one <Row> per board row,
// cell colours separated by spaces:
//
//	<Board id="..." size="5">
//	  <Row>0 0 3 0 0</Row>
//	  ...
//	</Board>
//
// Selection is transient and never written.

package game

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/AlexeyInc/Color-Lines/internal/store"
)

type boardDoc struct {
	XMLName xml.Name `xml:"Board"`
	ID      string   `xml:"id,attr"`
	Size    int      `xml:"size,attr"`
	Rows    []string `xml:"Row"`
}

// OpenBoard reads a saved board. found is false when nothing was saved.
func OpenBoard(path string) (b *Board, found bool, err error) {
	data, found, err := store.ReadFile(path)
	if err != nil || !found {
		return nil, false, err
	}

	var doc boardDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrCorruptBoard, err)
	}
	if !ValidBoardSize(doc.Size) || len(doc.Rows) != doc.Size {
		return nil, false, fmt.Errorf("%w: size %d with %d rows", ErrCorruptBoard, doc.Size, len(doc.Rows))
	}

	b = &Board{ID: doc.ID, Size: doc.Size, Cells: make([][]Color, doc.Size)}
	for r, line := range doc.Rows {
		fields := strings.Fields(line)
		if len(fields) != doc.Size {
			return nil, false, fmt.Errorf("%w: row %d has %d cells", ErrCorruptBoard, r, len(fields))
		}
		b.Cells[r] = make([]Color, doc.Size)
		for c, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil || v < 0 || v > NumColors {
				return nil, false, fmt.Errorf("%w: row %d col %d value %q", ErrCorruptBoard, r, c, f)
			}
			b.Cells[r][c] = Color(v)
		}
	}
	return b, true, nil
}

// Save writes the board layout to path.
func (b *Board) Save(path string) error {
	doc := boardDoc{ID: b.ID, Size: b.Size, Rows: make([]string, len(b.Cells))}
	for r, row := range b.Cells {
		parts := make([]string, len(row))
		for c, v := range row {
			parts[c] = strconv.Itoa(int(v))
		}
		doc.Rows[r] = strings.Join(parts, " ")
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode board: %w", err)
	}
	return store.WriteFile(path, append([]byte(xml.Header), out...))
}
