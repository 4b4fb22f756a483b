package convert

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/godeepar/geocore/x"
)

// Source formats understood by Open.
const (
	FormatGeoJSON   = "geojson"
	FormatShapefile = "shapefile"
)

// ResolveFormat returns the canonical name for format, or guesses it from
// the file extension when format is empty.
func ResolveFormat(path, format string) (string, error) {
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(path), ".")
	}
	switch strings.ToLower(format) {
	case "geojson", "json":
		return FormatGeoJSON, nil
	case "shapefile", "shp":
		return FormatShapefile, nil
	}
	return "", x.InvalidArgf("unknown dataset format %q for %q", format, path)
}

// Open loads a dataset from disk.
func Open(path, format string) (*Dataset, error) {
	format, err := ResolveFormat(path, format)
	if err != nil {
		return nil, err
	}
	if format == FormatShapefile {
		return DatasetFromShapefile(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "[Open] in pkg [convert] encountered")
	}
	defer file.Close()
	return DatasetFromGeoJSON(file)
}
