package service

import (
	"context"
	"log"
	"regexp"
	"strings"

	"ingestdesk/internal/domain"
	"ingestdesk/internal/port"
)

const (
	recentCaseLimit  = 100
	importExportName = "salesforce_analises"
)

var caseSeparators = regexp.MustCompile(`[\n,]+`)

// SubmitResult reports how many case numbers were parsed and how many were new.
type SubmitResult struct {
	CaseNumbers []string `json:"case_numbers"`
	Submitted   int      `json:"submitted"`
	Inserted    int      `json:"inserted"`
}

// CaseWindow is the recent import cases and their stats.
type CaseWindow struct {
	Cases []domain.ImportCase `json:"cases"`
	Stats domain.CaseStats    `json:"stats"`
}

// ImportService defines the CRM case import contract. Every case lives under
// domain.SalesforceProjectID.
type ImportService interface {
	Submit(ctx context.Context, input string) (*SubmitResult, error)
	Recent(ctx context.Context) (*CaseWindow, error)
	Export(ctx context.Context) (*Export, error)
}

type importService struct {
	caseRepo  port.ImportCaseRepository
	resultSvc ResultService
}

// NewImportService creates a new ImportService implementation.
func NewImportService(caseRepo port.ImportCaseRepository, resultSvc ResultService) ImportService {
	return &importService{caseRepo: caseRepo, resultSvc: resultSvc}
}

// ParseCaseNumbers splits pasted input on newlines and commas, trims each
// entry, drops empty ones and removes duplicates keeping the first occurrence.
func ParseCaseNumbers(input string) []string {
	input = strings.ReplaceAll(input, "\r", "")
	seen := make(map[string]struct{})
	var out []string
	for _, part := range caseSeparators.Split(input, -1) {
		n := strings.TrimSpace(part)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Submit queues every parsed case number as PENDENTE. Case numbers already
// known are skipped, so re-submitting inserts nothing.
func (s *importService) Submit(ctx context.Context, input string) (*SubmitResult, error) {
	numbers := ParseCaseNumbers(input)
	if len(numbers) == 0 {
		return nil, domain.ErrNoCaseNumbers
	}

	inserted, err := s.caseRepo.InsertPending(ctx, domain.SalesforceProjectID, numbers)
	if err != nil {
		return nil, err
	}
	log.Printf("importService.Submit: %d case numbers submitted, %d new", len(numbers), inserted)
	return &SubmitResult{CaseNumbers: numbers, Submitted: len(numbers), Inserted: inserted}, nil
}

func (s *importService) Recent(ctx context.Context) (*CaseWindow, error) {
	cases, err := s.caseRepo.ListRecent(ctx, domain.SalesforceProjectID, recentCaseLimit)
	if err != nil {
		return nil, err
	}
	return &CaseWindow{Cases: cases, Stats: ComputeCaseStats(cases)}, nil
}

// Export renders every import result as an xlsx workbook.
func (s *importService) Export(ctx context.Context) (*Export, error) {
	return s.resultSvc.ExportAs(ctx, domain.SalesforceProjectID, domain.ExportFormatXLSX, importExportName)
}

// ComputeCaseStats counts CONCLUIDO as completed and ERRO as errors; any other
// status, including ones only the worker knows, counts as processing.
func ComputeCaseStats(cases []domain.ImportCase) domain.CaseStats {
	stats := domain.CaseStats{Total: len(cases)}
	for i := range cases {
		switch cases[i].Status {
		case domain.CaseStatusDone:
			stats.Completed++
		case domain.CaseStatusError:
			stats.Errors++
		default:
			stats.Processing++
		}
	}
	return stats
}
