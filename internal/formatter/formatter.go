// package formatter exports power ranking results to various formats
// (JSON, CSV, Markdown) and renders terminal tables for CLI output.
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/desertthunder/pwr/internal/models"
	"github.com/desertthunder/pwr/internal/repositories"
	"github.com/desertthunder/pwr/internal/shared"
	"github.com/jedib0t/go-pretty/v6/table"
)

// RankingsToCSV converts a ranking result to CSV with one row per track
// and one column per category score.
func RankingsToCSV(result *models.PowerRankingResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	categories := categoryNames(result)
	headers := append([]string{"Rank", "Title", "Artist", "Total Score"}, categories...)
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range result.Rankings {
		record := []string{
			strconv.Itoa(r.Rank),
			r.Track.Title,
			r.Track.PrimaryArtist(),
			strconv.FormatFloat(r.TotalScore, 'f', 4, 64),
		}
		for _, category := range categories {
			cs, ok := r.CategoryScore(category)
			if !ok {
				record = append(record, "")
				continue
			}
			record = append(record, strconv.FormatFloat(cs.WeightedScore, 'f', 4, 64))
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// RankingsToMarkdown converts a ranking result to a Markdown document
// with a summary table.
func RankingsToMarkdown(result *models.PowerRankingResult) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Power Rankings %d\n\n", result.Year))
	buf.WriteString(fmt.Sprintf("**Tracks ranked:** %d\n\n", result.TotalTracks()))
	buf.WriteString("| Rank | Title | Artist | Score |\n")
	buf.WriteString("|------|-------|--------|-------|\n")

	for _, r := range result.Rankings {
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %.4f |\n",
			r.Rank, r.Track.Title, r.Track.PrimaryArtist(), r.TotalScore))
	}

	return buf.Bytes()
}

// WriteRankingsJSON writes the full nested result atomically.
func WriteRankingsJSON(path string, result *models.PowerRankingResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rankings: %w", err)
	}
	return shared.WriteFileAtomic(path, data, 0644)
}

// WriteRankingsCSV writes the tabular export atomically.
func WriteRankingsCSV(path string, result *models.PowerRankingResult) error {
	data, err := RankingsToCSV(result)
	if err != nil {
		return err
	}
	return shared.WriteFileAtomic(path, data, 0644)
}

// WriteRankingsMarkdown writes the Markdown export atomically.
func WriteRankingsMarkdown(path string, result *models.PowerRankingResult) error {
	return shared.WriteFileAtomic(path, RankingsToMarkdown(result), 0644)
}

// RankingsTable renders the top N rankings as a terminal table. A limit
// of zero renders every ranking.
func RankingsTable(result *models.PowerRankingResult, limit int) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Rank", "Title", "Artist", "Score"})

	for _, r := range result.Rankings {
		if limit > 0 && r.Rank > limit {
			break
		}
		t.AppendRow(table.Row{r.Rank, r.Track.Title, r.Track.PrimaryArtist(), fmt.Sprintf("%.4f", r.TotalScore)})
	}

	return t.Render()
}

// ReviewTable renders the review queue for operator triage.
func ReviewTable(entries []repositories.ReviewEntry) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Track", "Artist", "Reason", "Added"})

	for _, e := range entries {
		t.AppendRow(table.Row{e.Title, e.Artist, e.Reason, e.AddedAt.Format("2006-01-02 15:04")})
	}

	return t.Render()
}

// StatusRow is one stage's progress summary for the status table.
type StatusRow struct {
	Stage     string
	Processed int
	Failed    int
	Saved     string
}

// StatusTable renders per-stage checkpoint progress.
func StatusTable(rows []StatusRow) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Stage", "Processed", "Failed", "Last Saved"})

	for _, row := range rows {
		t.AppendRow(table.Row{row.Stage, row.Processed, row.Failed, row.Saved})
	}

	return t.Render()
}

func categoryNames(result *models.PowerRankingResult) []string {
	if len(result.Rankings) == 0 {
		return nil
	}

	names := make([]string, 0, len(result.Rankings[0].CategoryScores))
	for _, cs := range result.Rankings[0].CategoryScores {
		names = append(names, cs.Category)
	}
	sort.Strings(names)
	return names
}
