// Manifest export: the final artifact index written after every slide
// has been processed. Packaging the audio and subtitle files for
// delivery happens downstream of the manifest.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/slidecast/slidecast-go/internal/models"
)

// Collaborator produces a manifest reference for a finished job.
type Collaborator interface {
	BuildManifest(jobID string, results []models.SlideResult) (string, error)
}

// Manifest is the JSON document written per job.
type Manifest struct {
	JobID       string               `json:"job_id"`
	TotalSlides int                  `json:"total_slides"`
	ProcessedAt time.Time            `json:"processed_at"`
	Slides      []models.SlideResult `json:"slides"`
}

// FileExporter writes manifests as indented JSON files under a base
// directory and returns the file path as the manifest reference.
type FileExporter struct {
	baseDir string
}

// NewFileExporter creates an exporter rooted at baseDir.
func NewFileExporter(baseDir string) *FileExporter {
	return &FileExporter{baseDir: baseDir}
}

func (f *FileExporter) BuildManifest(jobID string, results []models.SlideResult) (string, error) {
	manifest := Manifest{
		JobID:       jobID,
		TotalSlides: len(results),
		ProcessedAt: time.Now().UTC(),
		Slides:      results,
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal manifest: %w", err)
	}

	dir := filepath.Join(f.baseDir, jobID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create manifest directory: %w", err)
	}

	path := filepath.Join(dir, "manifest.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return path, nil
}
