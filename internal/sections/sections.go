// Package sections ships the coordinate database of supported rail
// cross-sections: X,Y,Z points outlining one metre of rail, used to project
// the sun-exposed area.
package sections

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/opentrack/railtemp/internal/railtemp"
)

//go:embed data/*.csv
var database embed.FS

var ErrUnknownSection = errors.New("unknown rail section")

type row struct {
	X float64 `csv:"X"`
	Y float64 `csv:"Y"`
	Z float64 `csv:"Z"`
}

// Load returns the profile coordinates of a named section, e.g. "UIC54".
func Load(name string) ([]railtemp.Point3, error) {
	f, err := database.Open(path.Join("data", name+".csv"))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, name)
	}
	defer f.Close()

	var rows []row
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		return nil, fmt.Errorf("section %q: %w", name, err)
	}

	pts := make([]railtemp.Point3, len(rows))
	for i, r := range rows {
		pts[i] = railtemp.Point3{X: r.X, Y: r.Y, Z: r.Z}
	}
	return pts, nil
}

// Names lists the available sections, sorted.
func Names() []string {
	entries, err := fs.Glob(database, "data/*.csv")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(path.Base(e), ".csv"))
	}
	sort.Strings(names)
	return names
}
