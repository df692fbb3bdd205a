package meetings

import (
	"context"
	"fmt"

	"github.com/salesdeck/pulse/internal/domain/model"
	"github.com/salesdeck/pulse/pkg/logger"
	"github.com/salesdeck/pulse/pkg/metrics"
	"github.com/xuri/excelize/v2"
)

// Workbook loads meeting records from a local XLSX export. The first
// sheet is used; its first row supplies the column headers.
type Workbook struct {
	path string
	log  logger.Logger
}

// WorkbookOption applies a configuration option to the Workbook.
type WorkbookOption func(*Workbook)

// WithWorkbookLogger sets a custom logger for the workbook source.
func WithWorkbookLogger(log logger.Logger) WorkbookOption {
	return func(w *Workbook) {
		if log != nil {
			w.log = log
		}
	}
}

// NewWorkbook creates a Workbook source for the given file path.
func NewWorkbook(path string, opts ...WorkbookOption) *Workbook {
	w := &Workbook{path: path}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Fetch reads the workbook and returns grouped meeting records.
func (w *Workbook) Fetch(ctx context.Context) ([]model.MeetingGroup, error) {
	file, err := excelize.OpenFile(w.path)
	if err != nil {
		metrics.RecordUpstreamFailure("meetings")
		return nil, fmt.Errorf("%w: %s: %w", ErrWorkbook, w.path, err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %s: no sheets", ErrWorkbook, w.path)
	}

	cells, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrWorkbook, w.path, err)
	}
	if len(cells) < 2 {
		if w.log != nil {
			w.log.Warn(ctx, "meeting workbook has no data rows",
				logger.String("path", w.path), logger.String("sheet", sheets[0]))
		}
		return nil, nil
	}

	headers := cells[0]
	rows := make([]rawRow, 0, len(cells)-1)
	for _, line := range cells[1:] {
		cellsByHeader := make(map[string]any, len(headers))
		for i, header := range headers {
			if i < len(line) {
				cellsByHeader[header] = line[i]
			}
		}
		rows = append(rows, newRawRow(cellsByHeader))
	}

	records := parseRecords(ctx, rows, w.log)
	groups := Group(records)

	if w.log != nil {
		w.log.Info(ctx, "meeting workbook loaded",
			logger.String("sheet", sheets[0]),
			logger.Int("rows", len(rows)),
			logger.Int("records", len(records)),
			logger.Int("groups", len(groups)))
	}
	return groups, nil
}
