// Package meetings loads externally booked meeting records from either
// a JSON feed or a local spreadsheet and groups them by normalized
// bookkeeper name for reconciliation.
//
// Both sources are human-maintained form exports: column headers drift
// in casing and wording, timestamps arrive as strings in several
// formats or as spreadsheet serial numbers, and rows may lack a name
// entirely. Parsing here is forgiving by design; rows that cannot be
// attributed or dated are dropped with a counter, never fatal.
package meetings

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/salesdeck/pulse/internal/domain/model"
	"github.com/salesdeck/pulse/internal/domain/names"
	"github.com/salesdeck/pulse/pkg/logger"
	"github.com/salesdeck/pulse/pkg/metrics"
)

// Source loads and groups meeting records. Implemented by Feed and
// Workbook; the app layer caches whichever one config selects.
type Source interface {
	Fetch(ctx context.Context) ([]model.MeetingGroup, error)
}

// Header aliases probed per field, first non-empty cell wins. Matching
// is case-insensitive on the trimmed header text.
var (
	nameHeaders      = []string{"name", "user"}
	timestampHeaders = []string{"timestamp", "date", "created"}
	sourceHeaders    = []string{"source of lead", "lead source", "source"}
	leadNameHeaders  = []string{"lead name (individual you were speaking to)", "lead name"}
	companyHeaders   = []string{"company name", "company"}
	stageHeaders     = []string{"current stage", "stage"}
	bookedHeaders    = []string{"meeting booked (date of the cold call conversion)", "meeting booked"}
)

// rawRow is one source row with headers lowercased and trimmed.
type rawRow map[string]string

func newRawRow(cells map[string]any) rawRow {
	row := make(rawRow, len(cells))
	for header, value := range cells {
		key := strings.ToLower(strings.TrimSpace(header))
		if key == "" {
			continue
		}
		row[key] = cellString(value)
	}
	return row
}

// cellString renders a cell value the way the source spelled it.
// Floats from JSON decoding keep their shortest representation so
// serial-number timestamps survive the round trip.
func cellString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func (r rawRow) first(aliases []string) string {
	for _, alias := range aliases {
		if v := r[alias]; v != "" {
			return v
		}
	}
	return ""
}

// excelEpochDays is the offset between the spreadsheet serial-date
// epoch (1899-12-30, with the fictitious 1900 leap day baked in) and
// the Unix epoch.
const excelEpochDays = 25569

// timestampLayouts tried in order for string timestamps. The feed emits
// "10/14/2025 14:22:23"; workbook exports sometimes carry bare dates or
// ISO strings.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"2006-01-02",
}

// parseTimestamp parses a cell into a UTC time. Numeric cells are
// treated as spreadsheet day serials.
func parseTimestamp(cell string) (time.Time, bool) {
	if cell == "" {
		return time.Time{}, false
	}
	if serial, err := strconv.ParseFloat(cell, 64); err == nil {
		ms := (serial - excelEpochDays) * 86400 * 1000
		t := time.UnixMilli(int64(ms)).UTC()
		if t.Year() < 1971 {
			return time.Time{}, false
		}
		return t, true
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseRecords converts raw source rows into meeting records. Rows
// without an attributable name or a parseable timestamp are dropped and
// counted.
func parseRecords(ctx context.Context, rows []rawRow, log logger.Logger) []model.MeetingRecord {
	records := make([]model.MeetingRecord, 0, len(rows))
	for _, row := range rows {
		name := row.first(nameHeaders)
		ts, ok := parseTimestamp(row.first(timestampHeaders))
		if name == "" || !ok {
			metrics.RecordSheetRowDropped()
			if log != nil {
				log.Debug(ctx, "dropped meeting row",
					logger.String("name", name),
					logger.String("timestamp", row.first(timestampHeaders)))
			}
			continue
		}
		records = append(records, model.MeetingRecord{
			Name:              name,
			Timestamp:         ts,
			LeadName:          row.first(leadNameHeaders),
			CompanyName:       row.first(companyHeaders),
			CurrentStage:      row.first(stageHeaders),
			MeetingBookedDate: row.first(bookedHeaders),
			SourceOfLead:      row.first(sourceHeaders),
		})
	}
	return records
}

// Group buckets records under normalized name keys, preserving first
// appearance order of groups and record order within a group. The first
// observed spelling becomes the group's display name.
func Group(records []model.MeetingRecord) []model.MeetingGroup {
	index := make(map[string]int, len(records))
	groups := make([]model.MeetingGroup, 0, len(records))
	for _, rec := range records {
		key := names.Normalize(rec.Name)
		if key == "" {
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, model.MeetingGroup{Key: key, DisplayName: rec.Name})
		}
		groups[i].Records = append(groups[i].Records, rec)
	}
	return groups
}
