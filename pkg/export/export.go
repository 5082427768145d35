package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"tgscraper/pkg/models"
)

// csvHeader is the column order of the CSV export. It is part of the tool's
// external contract; downstream consumers parse it by name.
var csvHeader = []string{
	"id", "username", "first_name", "last_name",
	"phone", "is_premium", "last_online", "source_group",
}

// Writer exports scrape results to timestamped JSON and CSV files
type Writer struct {
	outputDir string
}

// NewWriter creates an export writer rooted at outputDir
func NewWriter(outputDir string) (*Writer, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Writer{outputDir: outputDir}, nil
}

// Export writes members to {base}_{unix_timestamp}.json and .csv and
// returns both paths.
func (w *Writer) Export(members []models.Member, baseName string) (jsonPath, csvPath string, err error) {
	timestamp := time.Now().Unix()

	jsonPath = filepath.Join(w.outputDir, fmt.Sprintf("%s_%d.json", baseName, timestamp))
	if err := w.writeJSON(jsonPath, members); err != nil {
		return "", "", err
	}

	csvPath = filepath.Join(w.outputDir, fmt.Sprintf("%s_%d.csv", baseName, timestamp))
	if err := w.writeCSV(csvPath, members); err != nil {
		return "", "", err
	}

	return jsonPath, csvPath, nil
}

func (w *Writer) writeJSON(path string, members []models.Member) error {
	data, err := json.MarshalIndent(members, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal members: %w", err)
	}
	return atomicWrite(path, data)
}

func (w *Writer) writeCSV(path string, members []models.Member) error {
	tempFile := path + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	cw := csv.NewWriter(out)
	writeErr := cw.Write(csvHeader)
	for _, m := range members {
		if writeErr != nil {
			break
		}
		writeErr = cw.Write([]string{
			strconv.FormatInt(m.ID, 10),
			models.Deref(m.Username),
			models.Deref(m.FirstName),
			models.Deref(m.LastName),
			models.Deref(m.Phone),
			strconv.FormatBool(m.IsPremium),
			strconv.FormatInt(m.LastOnline, 10),
			m.SourceChan,
		})
	}
	cw.Flush()
	if writeErr == nil {
		writeErr = cw.Error()
	}
	closeErr := out.Close()

	if writeErr != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to write csv: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to close csv file: %w", closeErr)
	}

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}

// atomicWrite writes data through a temp file and rename so readers never
// observe a partially written export.
func atomicWrite(path string, data []byte) error {
	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}
