// internal/score/file.go
//
// score.xml persistence.
// Responsibilities:
//   - Load: decode a snapshot; missing or empty file is "no record", not an error.
//   - SaveFull: write current score + best-score table.
//   - SaveRecordOnly: write the best-score table while keeping the previously
//     persisted current score on disk (record guard).
//
// Document:
//
//	<Score>
//	  <CurrentScore>10</CurrentScore>
//	  <BestScoreList>
//	    <Best size="5">0</Best>
//	    ...
//	  </BestScoreList>
//	</Score>

package score

import (
	"encoding/xml"
	"fmt"
	"sort"

	"github.com/AlexeyInc/Color-Lines/internal/game"
	"github.com/AlexeyInc/Color-Lines/internal/store"
)

type scoreDoc struct {
	XMLName      xml.Name    `xml:"Score"`
	CurrentScore int         `xml:"CurrentScore"`
	Best         []bestEntry `xml:"BestScoreList>Best"`
}

type bestEntry struct {
	Size  int `xml:"size,attr"`
	Value int `xml:",chardata"`
}

// writeSnapshot is replaced in tests to simulate a failing disk.
var writeSnapshot = store.WriteFile

// Load reads the snapshot at path. found is false, with a nil error, when the
// file is missing or zero length. Every other failure is a *PersistenceError.
func Load(path string) (rec *Record, found bool, err error) {
	data, found, err := store.ReadFile(path)
	if err != nil {
		return nil, false, &PersistenceError{Op: "load", Path: path, Err: err}
	}
	if !found {
		return nil, false, nil
	}
	rec, err = decode(data)
	if err != nil {
		return nil, false, &PersistenceError{Op: "load", Path: path, Err: err}
	}
	return rec, true, nil
}

// SaveFull overwrites path with the full in-memory state.
func (r *Record) SaveFull(path string) error {
	data, err := r.encode()
	if err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}
	if err := writeSnapshot(path, data); err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}
	return nil
}

// SaveRecordOnly persists the best-score table without the live session score.
//
// The current score already on disk is swapped in for the duration of the
// write, so the file ends up holding (persisted current score, new table).
// The live current score is back in place when the call returns, whether the
// load or the write failed or not.
func (r *Record) SaveRecordOnly(path string) error {
	err := r.beginRecordGuard(path)
	defer r.endRecordGuard()
	if err != nil {
		return err
	}
	return r.SaveFull(path)
}

// beginRecordGuard stashes the live current score and presents the persisted
// one in its place. endRecordGuard must follow on every path.
func (r *Record) beginRecordGuard(path string) error {
	r.newRecordPending = true
	r.savedCurrentScore = r.currentScore

	persisted, found, err := Load(path)
	if err != nil {
		return err
	}
	if found {
		r.currentScore = persisted.currentScore
	}
	return nil
}

func (r *Record) endRecordGuard() {
	if !r.newRecordPending {
		return
	}
	r.newRecordPending = false
	r.currentScore = r.savedCurrentScore
}

func (r *Record) encode() ([]byte, error) {
	doc := scoreDoc{CurrentScore: r.currentScore, Best: make([]bestEntry, 0, len(r.best))}
	sizes := make([]int, 0, len(r.best))
	for size := range r.best {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)
	for _, size := range sizes {
		doc.Best = append(doc.Best, bestEntry{Size: size, Value: r.best[size]})
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

func decode(data []byte) (*Record, error) {
	var doc scoreDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if doc.CurrentScore < 0 {
		return nil, fmt.Errorf("decode: negative current score %d", doc.CurrentScore)
	}
	r := New()
	r.currentScore = doc.CurrentScore
	for _, e := range doc.Best {
		if !game.ValidBoardSize(e.Size) {
			return nil, fmt.Errorf("decode: board size %d outside [%d, %d)", e.Size, MinBoardSize, MaxBoardSize)
		}
		if e.Value < 0 {
			return nil, fmt.Errorf("decode: negative best score %d for size %d", e.Value, e.Size)
		}
		r.best[e.Size] = e.Value
	}
	return r, nil
}
