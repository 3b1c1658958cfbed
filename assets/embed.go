package assets

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed about.txt sql/*.sql
var FS embed.FS

// MigrationsDir is the directory of FS holding SQL migrations.
const MigrationsDir = "sql"

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimRight(sc.Text(), " \t")
		if strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// AboutText returns the about-game text shown by the about panel.
func AboutText() (string, error) {
	lines, err := readLines("about.txt")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
