package deck

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vytor/econgraph/internal/logger"
	"github.com/vytor/econgraph/internal/models"
)

//go:embed data/graphs.json
var defaultFS embed.FS

// Default returns the deck bundled with the binary.
func Default() (*Deck, error) {
	raw, err := defaultFS.ReadFile("data/graphs.json")
	if err != nil {
		return nil, err
	}
	return DecodeJSON(bytes.NewReader(raw))
}

// LoadFile builds a deck from a .json or .xlsx file.
func LoadFile(path string) (*Deck, error) {
	log := logger.Default().WithPrefix("deck")
	log.Info("loading deck: %s", path)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		f, err := os.Open(path)
		if err != nil {
			log.Error("failed to open deck: %v", err)
			return nil, err
		}
		defer f.Close()
		return DecodeJSON(f)
	case ".xlsx":
		return LoadXLSX(path)
	default:
		return nil, fmt.Errorf("deck: unsupported file type %q", ext)
	}
}

// DecodeJSON reads an array of graphs in the nested practice/study shape.
func DecodeJSON(r io.Reader) (*Deck, error) {
	var graphs []models.Graph
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&graphs); err != nil {
		return nil, fmt.Errorf("deck: decode json: %w", err)
	}
	return New(graphs)
}
