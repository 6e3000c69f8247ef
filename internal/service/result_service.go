package service

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"ingestdesk/internal/csvexport"
	"ingestdesk/internal/domain"
	"ingestdesk/internal/normalize"
	"ingestdesk/internal/port"
	"ingestdesk/internal/resultsync"
	"ingestdesk/internal/xlsxexport"
)

// ResultWindow is the recent results of a scope and their normalized table.
type ResultWindow struct {
	Results []domain.AnalysisResult
	Table   normalize.Table
	Loading bool
	Version uint64
}

// Export is a rendered result spreadsheet ready to be sent.
type Export struct {
	Filename string
	Format   domain.ExportFormat
	Table    normalize.Table
	locale   string
}

// ContentType returns the MIME type of the export.
func (e *Export) ContentType() string {
	if e.Format == domain.ExportFormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Write renders the export to w. CSV output starts with a UTF-8 BOM.
func (e *Export) Write(w io.Writer) error {
	switch e.Format {
	case domain.ExportFormatXLSX:
		return xlsxexport.Write(w, e.Table, e.locale)
	case domain.ExportFormatCSV:
		if _, err := w.Write(csvexport.BOM); err != nil {
			return err
		}
		cw := csvexport.NewWriter(w)
		if err := cw.WriteTable(e.Table, e.locale); err != nil {
			return err
		}
		cw.Flush()
		return cw.Error()
	default:
		return domain.ErrUnsupportedExport
	}
}

// Bytes renders the export into memory.
func (e *Export) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := e.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ResultService defines the read side of analysis results.
type ResultService interface {
	Recent(ctx context.Context, scope resultsync.Scope) (*ResultWindow, error)
	Watch(scope resultsync.Scope) *resultsync.Watcher
	Window(snap resultsync.Snapshot) *ResultWindow
	Export(ctx context.Context, projectID uuid.UUID, format domain.ExportFormat) (*Export, error)
	ExportAs(ctx context.Context, projectID uuid.UUID, format domain.ExportFormat, name string) (*Export, error)
}

type resultService struct {
	resultRepo  port.ResultRepository
	projectRepo port.ProjectRepository
	hub         *resultsync.Hub
	display     normalize.DisplayOptions
	pageSize    int
}

// NewResultService creates a new ResultService implementation.
func NewResultService(
	resultRepo port.ResultRepository,
	projectRepo port.ProjectRepository,
	hub *resultsync.Hub,
	display normalize.DisplayOptions,
	pageSize int,
) ResultService {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &resultService{
		resultRepo:  resultRepo,
		projectRepo: projectRepo,
		hub:         hub,
		display:     display,
		pageSize:    pageSize,
	}
}

// Recent does a one-shot fetch of the newest results of scope.
func (s *resultService) Recent(ctx context.Context, scope resultsync.Scope) (*ResultWindow, error) {
	results, err := s.resultRepo.ListRecent(ctx, scope.ProjectID, s.pageSize)
	if err != nil {
		return nil, err
	}
	return &ResultWindow{
		Results: results,
		Table:   normalize.BuildTable(results, s.display),
	}, nil
}

// Watch attaches to the shared synchronizer of scope. The caller must Close
// the watcher.
func (s *resultService) Watch(scope resultsync.Scope) *resultsync.Watcher {
	return s.hub.Watch(scope)
}

// Window normalizes a synchronizer snapshot.
func (s *resultService) Window(snap resultsync.Snapshot) *ResultWindow {
	return &ResultWindow{
		Results: snap.Rows,
		Table:   normalize.BuildTable(snap.Rows, s.display),
		Loading: snap.Loading,
		Version: snap.Version,
	}
}

// Export renders every result of a project, named after the project.
func (s *resultService) Export(ctx context.Context, projectID uuid.UUID, format domain.ExportFormat) (*Export, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.ExportAs(ctx, projectID, format, project.Name)
}

// ExportAs renders every result of a project under the given file name stem.
func (s *resultService) ExportAs(ctx context.Context, projectID uuid.UUID, format domain.ExportFormat, name string) (*Export, error) {
	if format != domain.ExportFormatCSV && format != domain.ExportFormatXLSX {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedExport, format)
	}

	results, err := s.resultRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, domain.ErrNothingToExport
	}

	return &Export{
		Filename: csvexport.BuildFilename(name, format),
		Format:   format,
		Table:    normalize.BuildTable(results, s.display),
		locale:   s.display.Locale,
	}, nil
}
