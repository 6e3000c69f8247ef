package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"ingestdesk/internal/config"
	"ingestdesk/internal/domain"
	"ingestdesk/internal/port"
)

// Steps reported in an UploadFailure.
const (
	UploadStepValidation = "validation"
	UploadStepStorage    = "storage"
	UploadStepDatabase   = "database"
)

// UploadFileInput is one file of a batch upload.
type UploadFileInput struct {
	FileName    string
	Size        int64
	ContentType string
	Body        io.Reader
}

// UploadFailure names a file that could not be uploaded and where it failed.
type UploadFailure struct {
	FileName string `json:"file_name"`
	Step     string `json:"step"`
	Error    string `json:"error"`
}

// BatchUploadError aggregates every failed file of a batch. Files that
// succeeded stay uploaded.
type BatchUploadError struct {
	Failures  []UploadFailure
	Succeeded int
}

func (e *BatchUploadError) Error() string {
	names := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		names = append(names, fmt.Sprintf("%s (%s: %s)", f.FileName, f.Step, f.Error))
	}
	return fmt.Sprintf("%d of %d uploads failed: %s",
		len(e.Failures), len(e.Failures)+e.Succeeded, strings.Join(names, "; "))
}

// DocumentService defines the document management contract.
type DocumentService interface {
	List(ctx context.Context, projectID uuid.UUID) ([]domain.Document, error)
	UploadBatch(ctx context.Context, projectID uuid.UUID, files []UploadFileInput) ([]domain.Document, error)
	Download(ctx context.Context, id uuid.UUID) (io.ReadCloser, *domain.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
	TriggerProcessing(ctx context.Context, projectID uuid.UUID) (*domain.ProcessTrigger, error)
}

type documentService struct {
	projectRepo port.ProjectRepository
	docRepo     port.DocumentRepository
	triggerRepo port.ProcessTriggerRepository
	storage     port.ObjectStorage
	bucket      string
	maxBytes    int64
	concurrency int
}

// NewDocumentService creates a new DocumentService implementation.
func NewDocumentService(
	projectRepo port.ProjectRepository,
	docRepo port.DocumentRepository,
	triggerRepo port.ProcessTriggerRepository,
	storage port.ObjectStorage,
	storageCfg *config.StorageConfig,
	uploadCfg *config.UploadConfig,
) DocumentService {
	concurrency := uploadCfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &documentService{
		projectRepo: projectRepo,
		docRepo:     docRepo,
		triggerRepo: triggerRepo,
		storage:     storage,
		bucket:      storageCfg.Bucket,
		maxBytes:    storageCfg.MaxFileSizeMB * 1024 * 1024,
		concurrency: concurrency,
	}
}

func (s *documentService) List(ctx context.Context, projectID uuid.UUID) ([]domain.Document, error) {
	return s.docRepo.ListByProject(ctx, projectID)
}

// UploadBatch stores every file and records it as PENDENTE. Files are
// processed in parallel and all of them are attempted; if any fail, the
// documents that did succeed are returned together with a *BatchUploadError.
func (s *documentService) UploadBatch(ctx context.Context, projectID uuid.UUID, files []UploadFileInput) ([]domain.Document, error) {
	if len(files) == 0 {
		return nil, domain.ErrNoFiles
	}
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	log.Printf("documentService.UploadBatch: uploading %d files to project %s", len(files), projectID)

	var (
		mu       sync.Mutex
		docs     = make([]*domain.Document, len(files))
		failures []UploadFailure
	)
	fail := func(name, step string, err error) {
		mu.Lock()
		failures = append(failures, UploadFailure{FileName: name, Step: step, Error: err.Error()})
		mu.Unlock()
	}

	// Failures are collected, never returned to the group.
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i := range files {
		f := files[i]
		g.Go(func() error {
			doc, step, err := s.uploadOne(ctx, projectID, f)
			if err != nil {
				log.Printf("documentService.UploadBatch: %s failed at %s: %v", f.FileName, step, err)
				fail(f.FileName, step, err)
				return nil
			}
			docs[i] = doc
			return nil
		})
	}
	_ = g.Wait()

	uploaded := make([]domain.Document, 0, len(files))
	for _, d := range docs {
		if d != nil {
			uploaded = append(uploaded, *d)
		}
	}
	if len(failures) > 0 {
		return uploaded, &BatchUploadError{Failures: failures, Succeeded: len(uploaded)}
	}
	return uploaded, nil
}

func (s *documentService) uploadOne(ctx context.Context, projectID uuid.UUID, f UploadFileInput) (*domain.Document, string, error) {
	if s.maxBytes > 0 && f.Size > s.maxBytes {
		return nil, UploadStepValidation, domain.ErrFileTooLarge
	}

	key := StorageKey(projectID, f.FileName)
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.bucket,
		Key:         key,
		Body:        f.Body,
		ContentType: contentType,
		Size:        f.Size,
	})
	if err != nil {
		return nil, UploadStepStorage, err
	}

	doc := &domain.Document{
		ID:          uuid.New(),
		ProjectID:   projectID,
		FileName:    f.FileName,
		StoragePath: key,
		SizeBytes:   f.Size,
		Status:      domain.DocumentStatusPending,
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, UploadStepDatabase, err
	}
	return doc, "", nil
}

// StorageKey builds the object key {projectId}/{random}.{ext}. The original
// file name is kept only in the database row.
func StorageKey(projectID uuid.UUID, fileName string) string {
	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	if ext == "" {
		return fmt.Sprintf("%s/%s", projectID, name)
	}
	return fmt.Sprintf("%s/%s.%s", projectID, name, ext)
}

func (s *documentService) Download(ctx context.Context, id uuid.UUID) (io.ReadCloser, *domain.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	body, err := s.storage.Download(ctx, s.bucket, doc.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("downloading %s: %w", doc.StoragePath, err)
	}
	return body, doc, nil
}

// Delete removes the stored object, then the row. A storage failure is logged
// and does not block removing the row.
func (s *documentService) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	log.Printf("documentService.Delete: deleting document %s (%s)", doc.ID, doc.StoragePath)
	if err := s.storage.Remove(ctx, s.bucket, doc.StoragePath); err != nil {
		log.Printf("documentService.Delete: failed to remove %s from storage: %v", doc.StoragePath, err)
	}
	return s.docRepo.Delete(ctx, id)
}

// TriggerProcessing writes the signal row the worker polls for.
func (s *documentService) TriggerProcessing(ctx context.Context, projectID uuid.UUID) (*domain.ProcessTrigger, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	trigger, err := s.triggerRepo.Create(ctx, projectID)
	if err != nil {
		return nil, err
	}
	log.Printf("documentService.TriggerProcessing: queued processing for project %s", projectID)
	return trigger, nil
}
