package service_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ingestdesk/internal/config"
	"ingestdesk/internal/domain"
	"ingestdesk/internal/port"
	"ingestdesk/internal/service"
	"ingestdesk/mocks"
)

const testBucket = "processos"

type documentDeps struct {
	projectRepo *mocks.MockProjectRepo
	docRepo     *mocks.MockDocumentRepo
	triggerRepo *mocks.MockProcessTriggerRepo
	storage     *mocks.MockObjectStorage
}

func setupDocumentService() (*documentDeps, service.DocumentService) {
	deps := &documentDeps{
		projectRepo: new(mocks.MockProjectRepo),
		docRepo:     new(mocks.MockDocumentRepo),
		triggerRepo: new(mocks.MockProcessTriggerRepo),
		storage:     new(mocks.MockObjectStorage),
	}
	svc := service.NewDocumentService(
		deps.projectRepo, deps.docRepo, deps.triggerRepo, deps.storage,
		&config.StorageConfig{Bucket: testBucket, MaxFileSizeMB: 1},
		&config.UploadConfig{Concurrency: 2},
	)
	return deps, svc
}

func file(name string, size int64) service.UploadFileInput {
	return service.UploadFileInput{
		FileName:    name,
		Size:        size,
		ContentType: "application/pdf",
		Body:        strings.NewReader("content"),
	}
}

func TestUploadBatch_AllSucceed(t *testing.T) {
	deps, svc := setupDocumentService()
	projectID := uuid.New()

	deps.projectRepo.On("GetByID", mock.Anything, projectID).Return(&domain.Project{ID: projectID}, nil)
	deps.storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == testBucket && strings.HasPrefix(in.Key, projectID.String()+"/")
	})).Return(&port.UploadOutput{}, nil)
	deps.docRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Document")).Return(nil)

	docs, err := svc.UploadBatch(context.Background(), projectID, []service.UploadFileInput{
		file("peticao.pdf", 100),
		file("sentenca.PDF", 200),
	})

	require.NoError(t, err)
	require.Len(t, docs, 2)
	for _, d := range docs {
		assert.Equal(t, domain.DocumentStatusPending, d.Status)
		assert.Equal(t, projectID, d.ProjectID)
		assert.True(t, strings.HasSuffix(d.StoragePath, ".pdf"))
	}
	deps.storage.AssertNumberOfCalls(t, "Upload", 2)
	deps.docRepo.AssertNumberOfCalls(t, "Create", 2)
}

func TestUploadBatch_PartialFailure(t *testing.T) {
	deps, svc := setupDocumentService()
	projectID := uuid.New()

	deps.projectRepo.On("GetByID", mock.Anything, projectID).Return(&domain.Project{ID: projectID}, nil)
	deps.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	deps.docRepo.On("Create", mock.Anything, mock.MatchedBy(func(d *domain.Document) bool {
		return d.FileName == "ok.pdf"
	})).Return(nil)
	deps.docRepo.On("Create", mock.Anything, mock.MatchedBy(func(d *domain.Document) bool {
		return d.FileName == "broken.pdf"
	})).Return(errors.New("insert failed"))

	docs, err := svc.UploadBatch(context.Background(), projectID, []service.UploadFileInput{
		file("ok.pdf", 10),
		file("broken.pdf", 10),
		file("huge.pdf", 2*1024*1024),
	})

	require.Error(t, err)
	var batchErr *service.BatchUploadError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, 1, batchErr.Succeeded)
	assert.Len(t, batchErr.Failures, 2)

	steps := map[string]string{}
	for _, f := range batchErr.Failures {
		steps[f.FileName] = f.Step
	}
	assert.Equal(t, service.UploadStepDatabase, steps["broken.pdf"])
	assert.Equal(t, service.UploadStepValidation, steps["huge.pdf"])

	require.Len(t, docs, 1)
	assert.Equal(t, "ok.pdf", docs[0].FileName)
	assert.Contains(t, err.Error(), "2 of 3 uploads failed")
}

func TestUploadBatch_StorageFailure(t *testing.T) {
	deps, svc := setupDocumentService()
	projectID := uuid.New()

	deps.projectRepo.On("GetByID", mock.Anything, projectID).Return(&domain.Project{ID: projectID}, nil)
	deps.storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	docs, err := svc.UploadBatch(context.Background(), projectID, []service.UploadFileInput{file("a.pdf", 10)})

	var batchErr *service.BatchUploadError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, service.UploadStepStorage, batchErr.Failures[0].Step)
	assert.Equal(t, "access denied", batchErr.Failures[0].Error)
	assert.Empty(t, docs)
	deps.docRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUploadBatch_NoFiles(t *testing.T) {
	_, svc := setupDocumentService()

	_, err := svc.UploadBatch(context.Background(), uuid.New(), nil)

	assert.ErrorIs(t, err, domain.ErrNoFiles)
}

func TestUploadBatch_UnknownProject(t *testing.T) {
	deps, svc := setupDocumentService()
	projectID := uuid.New()
	deps.projectRepo.On("GetByID", mock.Anything, projectID).Return(nil, domain.ErrProjectNotFound)

	_, err := svc.UploadBatch(context.Background(), projectID, []service.UploadFileInput{file("a.pdf", 1)})

	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	deps.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestStorageKey(t *testing.T) {
	projectID := uuid.New()

	a := service.StorageKey(projectID, "Relatório Final.PDF")
	b := service.StorageKey(projectID, "Relatório Final.PDF")

	assert.NotEqual(t, a, b)
	assert.Regexp(t, "^"+projectID.String()+"/[0-9a-f]{32}\\.pdf$", a)
	assert.Regexp(t, "^"+projectID.String()+"/[0-9a-f]{32}$", service.StorageKey(projectID, "LEIAME"))
}

func TestDocumentDelete_StorageFailureStillDeletesRow(t *testing.T) {
	deps, svc := setupDocumentService()
	doc := &domain.Document{ID: uuid.New(), StoragePath: "p/abc.pdf"}

	deps.docRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)
	deps.storage.On("Remove", mock.Anything, testBucket, []string{"p/abc.pdf"}).Return(errors.New("gone"))
	deps.docRepo.On("Delete", mock.Anything, doc.ID).Return(nil)

	err := svc.Delete(context.Background(), doc.ID)

	assert.NoError(t, err)
	deps.docRepo.AssertExpectations(t)
	deps.storage.AssertExpectations(t)
}

func TestDocumentDelete_NotFound(t *testing.T) {
	deps, svc := setupDocumentService()
	id := uuid.New()
	deps.docRepo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrDocumentNotFound)

	err := svc.Delete(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	deps.storage.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything, mock.Anything)
}

func TestDocumentDownload(t *testing.T) {
	deps, svc := setupDocumentService()
	doc := &domain.Document{ID: uuid.New(), FileName: "a.pdf", StoragePath: "p/abc.pdf"}

	deps.docRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)
	deps.storage.On("Download", mock.Anything, testBucket, "p/abc.pdf").
		Return(io.NopCloser(strings.NewReader("%PDF")), nil)

	body, got, err := svc.Download(context.Background(), doc.ID)
	require.NoError(t, err)
	defer body.Close()

	data, _ := io.ReadAll(body)
	assert.Equal(t, "%PDF", string(data))
	assert.Equal(t, doc, got)
}

func TestTriggerProcessing(t *testing.T) {
	deps, svc := setupDocumentService()
	projectID := uuid.New()
	trigger := &domain.ProcessTrigger{ID: 7, ProjectID: projectID}

	deps.projectRepo.On("GetByID", mock.Anything, projectID).Return(&domain.Project{ID: projectID}, nil)
	deps.triggerRepo.On("Create", mock.Anything, projectID).Return(trigger, nil)

	got, err := svc.TriggerProcessing(context.Background(), projectID)

	assert.NoError(t, err)
	assert.Equal(t, trigger, got)
}
