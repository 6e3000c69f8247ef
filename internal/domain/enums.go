package domain

// DocumentStatus is the worker-owned lifecycle of an uploaded document.
type DocumentStatus string

const (
	DocumentStatusPending    DocumentStatus = "PENDENTE"
	DocumentStatusProcessing DocumentStatus = "PROCESSANDO"
	DocumentStatusDone       DocumentStatus = "CONCLUIDO"
	DocumentStatusError      DocumentStatus = "ERRO"
)

// CaseStatus is the worker-owned lifecycle of an import case. The worker may
// write intermediate values not listed here; they count as processing.
type CaseStatus string

const (
	CaseStatusPending     CaseStatus = "PENDENTE"
	CaseStatusDownloading CaseStatus = "BAIXANDO"
	CaseStatusDone        CaseStatus = "CONCLUIDO"
	CaseStatusError       CaseStatus = "ERRO"
)

// Terminal reports whether the worker is finished with the case.
func (s CaseStatus) Terminal() bool {
	return s == CaseStatusDone || s == CaseStatusError
}

// ExportFormat selects the spreadsheet flavour for result exports.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// ChangeType is the kind of row change delivered by the change feed.
type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)
