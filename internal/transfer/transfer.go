// Package transfer moves export documents between the store and files.
package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/nhle/itodo/internal/model"
	"github.com/nhle/itodo/internal/store"
)

// Format is an export file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// exportFilePattern names files written by ExportToDir.
const exportFilePattern = "itodo-export-2006-01-02_150405"

// FormatForPath picks the encoding from the file extension. Anything that
// is not .yaml or .yml is JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Encode serializes doc. JSON output is indented.
func Encode(doc *model.ExportDocument, format Format) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatYAML:
		data, err = yaml.Marshal(doc)
	default:
		data, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return nil, fmt.Errorf("encoding export document: %w: %w", store.ErrSerialization, err)
	}
	return data, nil
}

// Decode parses an export document. JSON goes through
// store.DecodeExportDocument; YAML documents are validated on Import.
func Decode(data []byte, format Format) (*model.ExportDocument, error) {
	if format != FormatYAML {
		return store.DecodeExportDocument(data)
	}

	var doc model.ExportDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing import data: %w: %w", store.ErrSerialization, err)
	}
	return &doc, nil
}

// Transfer reads and writes export files on a filesystem.
type Transfer struct {
	store store.Store
	fs    afero.Fs
	now   func() time.Time
}

// New returns a Transfer over the OS filesystem.
func New(s store.Store) *Transfer {
	return NewWithFs(s, afero.NewOsFs())
}

// NewWithFs returns a Transfer over fs.
func NewWithFs(s store.Store, fs afero.Fs) *Transfer {
	return &Transfer{store: s, fs: fs, now: time.Now}
}

// ExportToPath writes an export of listID (all tasks when nil) to path,
// encoded according to its extension.
func (t *Transfer) ExportToPath(ctx context.Context, path string, listID *string) error {
	doc, err := t.store.Export(ctx, listID)
	if err != nil {
		return err
	}

	data, err := Encode(doc, FormatForPath(path))
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := t.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating export directory %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(t.fs, path, data, 0o644); err != nil {
		return fmt.Errorf("writing export file %s: %w", path, err)
	}
	return nil
}

// ExportToDir writes a JSON export into dir under a timestamped name and
// returns the file path.
func (t *Transfer) ExportToDir(ctx context.Context, dir string, listID *string) (string, error) {
	name := t.now().Format(exportFilePattern) + ".json"
	path := filepath.Join(dir, name)

	if err := t.ExportToPath(ctx, path, listID); err != nil {
		return "", err
	}
	return path, nil
}

// ImportFile reads an export file and merges it into the store.
func (t *Transfer) ImportFile(ctx context.Context, path string) ([]model.Task, error) {
	data, err := afero.ReadFile(t.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading import file %s: %w", path, err)
	}

	doc, err := Decode(data, FormatForPath(path))
	if err != nil {
		return nil, err
	}
	return t.store.Import(ctx, doc)
}
