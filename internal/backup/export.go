package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habitbloom/internal/constants"
	apperrors "github.com/julianstephens/habitbloom/internal/errors"
	"github.com/julianstephens/habitbloom/internal/logger"
	"github.com/julianstephens/habitbloom/internal/models"
)

// Exporter is the slice of storage used for JSON export and import
type Exporter interface {
	ExportAll() (models.ExportData, error)
	ImportAll(models.ExportData) error
}

// Export reads every table into one document.
func Export(store Exporter) (models.ExportData, error) {
	data, err := store.ExportAll()
	if err != nil {
		logger.Error("Export failed", "error", err)
		return models.ExportData{}, fmt.Errorf("export failed: %w", err)
	}
	logger.Info("Exported data", "counts", data.Counts())
	return data, nil
}

// Import replaces every table with the document's rows.
func Import(store Exporter, data models.ExportData) error {
	if data.Version != constants.ExportVersion {
		return apperrors.Invalid("unsupported export version %q", data.Version)
	}
	if err := store.ImportAll(data); err != nil {
		logger.Error("Import failed", "error", err)
		return fmt.Errorf("import failed: %w", err)
	}
	logger.Info("Imported data", "counts", data.Counts())
	return nil
}

// WriteFile writes the document as indented JSON, creating parent
// directories as needed.
func WriteFile(path string, data models.ExportData) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return os.Rename(tmp, path)
}

func ReadFile(path string) (models.ExportData, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return models.ExportData{}, fmt.Errorf("failed to read export: %w", err)
	}
	var data models.ExportData
	if err := json.Unmarshal(b, &data); err != nil {
		return models.ExportData{}, apperrors.Invalid("malformed export file: %v", err)
	}
	return data, nil
}
