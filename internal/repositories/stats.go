package repositories

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pwr/internal/models"
	"github.com/desertthunder/pwr/internal/shared"
)

// TrackRepository persists library tracks discovered by extraction.
type TrackRepository = JSONRepository[models.Track]

// NewTrackRepository opens the track repository at path.
func NewTrackRepository(path string, logger *log.Logger) (*TrackRepository, error) {
	return NewJSONRepository[models.Track](path, logger)
}

// StatsRepository persists enriched tracks and exports them in nested,
// flattened, and tabular form.
type StatsRepository struct {
	*JSONRepository[models.TrackWithStats]
}

// NewStatsRepository opens the stats repository at path.
func NewStatsRepository(path string, logger *log.Logger) (*StatsRepository, error) {
	repo, err := NewJSONRepository[models.TrackWithStats](path, logger)
	if err != nil {
		return nil, err
	}
	return &StatsRepository{JSONRepository: repo}, nil
}

// flatRecord is one enriched track with its metrics flattened to a
// name→value map.
type flatRecord struct {
	Title   string             `json:"title"`
	Artist  string             `json:"artist"`
	Year    int                `json:"year,omitempty"`
	Metrics map[string]float64 `json:"metrics"`
}

// ExportNestedJSON writes the full records with per-platform structure.
func (r *StatsRepository) ExportNestedJSON(path string) error {
	data, err := json.MarshalIndent(r.GetAll(), "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRepositoryWrite, err)
	}
	return shared.WriteFileAtomic(path, data, 0644)
}

// ExportFlatJSON writes one object per track with metrics flattened to
// canonical metric names.
func (r *StatsRepository) ExportFlatJSON(path string) error {
	items := r.GetAll()
	records := make([]flatRecord, len(items))
	for i, item := range items {
		records[i] = flatRecord{
			Title:   item.Track.Title,
			Artist:  item.Track.PrimaryArtist(),
			Year:    item.Track.Year,
			Metrics: item.Stats.ToFlat(),
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRepositoryWrite, err)
	}
	return shared.WriteFileAtomic(path, data, 0644)
}

// ExportCSV writes a tabular export with one column per registered metric.
// Tracks without data for a metric get an empty cell.
func (r *StatsRepository) ExportCSV(path string) error {
	metrics := models.KnownMetrics()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRepositoryWrite, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{"title", "artist", "year"}, metrics...)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRepositoryWrite, err)
	}

	for _, item := range r.GetAll() {
		flat := item.Stats.ToFlat()
		row := []string{item.Track.Title, item.Track.PrimaryArtist(), strconv.Itoa(item.Track.Year)}
		for _, name := range metrics {
			if v, ok := flat[name]; ok {
				row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
			} else {
				row = append(row, "")
			}
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrRepositoryWrite, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRepositoryWrite, err)
	}
	return nil
}
