package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ingestdesk/internal/domain"
	"ingestdesk/internal/handler"
	"ingestdesk/internal/service"
	"ingestdesk/mocks"
)

func newDocumentRouter() (*gin.Engine, *mocks.MockDocumentService) {
	svc := new(mocks.MockDocumentService)
	h := handler.NewDocumentHandler(svc)

	r := gin.New()
	r.GET("/projects/:id/documents", h.List)
	r.POST("/projects/:id/documents", h.Upload)
	r.POST("/projects/:id/process", h.Process)
	r.GET("/documents/:id/download", h.Download)
	r.DELETE("/documents/:id", h.Delete)
	return r, svc
}

func multipartBody(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, content := range files {
		fw, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestDocumentHandler_Upload_Success(t *testing.T) {
	r, svc := newDocumentRouter()
	projectID := uuid.New()

	svc.On("UploadBatch", mock.Anything, projectID, mock.MatchedBy(func(files []service.UploadFileInput) bool {
		return len(files) == 1 && files[0].FileName == "peticao.pdf" && files[0].Size == 4
	})).Return([]domain.Document{{ID: uuid.New(), FileName: "peticao.pdf", Status: domain.DocumentStatusPending}}, nil)

	body, ct := multipartBody(t, map[string]string{"peticao.pdf": "%PDF"})
	w := perform(r, http.MethodPost, "/projects/"+projectID.String()+"/documents", body, ct)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestDocumentHandler_Upload_PartialFailure(t *testing.T) {
	r, svc := newDocumentRouter()
	projectID := uuid.New()

	batchErr := &service.BatchUploadError{
		Failures:  []service.UploadFailure{{FileName: "b.pdf", Step: service.UploadStepStorage, Error: "access denied"}},
		Succeeded: 1,
	}
	uploadedID := uuid.New()
	svc.On("UploadBatch", mock.Anything, projectID, mock.Anything).
		Return([]domain.Document{{ID: uploadedID, FileName: "a.pdf", Status: domain.DocumentStatusPending}}, batchErr)

	body, ct := multipartBody(t, map[string]string{"a.pdf": "1", "b.pdf": "2"})
	w := perform(r, http.MethodPost, "/projects/"+projectID.String()+"/documents", body, ct)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "UPLOAD_PARTIAL_FAILURE", env.Error.Code)
	assert.Contains(t, env.Error.Message, "b.pdf")

	var failures []service.UploadFailure
	require.NoError(t, json.Unmarshal(env.Error.Details, &failures))
	assert.Equal(t, "storage", failures[0].Step)

	var uploaded []domain.Document
	require.NoError(t, json.Unmarshal(env.Data, &uploaded))
	require.Len(t, uploaded, 1)
	assert.Equal(t, uploadedID, uploaded[0].ID)
	assert.Equal(t, "a.pdf", uploaded[0].FileName)
}

func TestDocumentHandler_Upload_NoFiles(t *testing.T) {
	r, svc := newDocumentRouter()

	body, ct := multipartBody(t, nil)
	w := perform(r, http.MethodPost, "/projects/"+uuid.NewString()+"/documents", body, ct)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_FILES", decodeEnvelope(t, w).Error.Code)
	svc.AssertNotCalled(t, "UploadBatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestDocumentHandler_Download(t *testing.T) {
	r, svc := newDocumentRouter()
	doc := &domain.Document{ID: uuid.New(), FileName: "sentença.pdf", SizeBytes: 4}
	svc.On("Download", mock.Anything, doc.ID).Return(io.NopCloser(strings.NewReader("%PDF")), doc, nil)

	w := perform(r, http.MethodGet, "/documents/"+doc.ID.String()+"/download", http.NoBody, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "%PDF", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "filename*=utf-8''senten%C3%A7a.pdf")
}

func TestDocumentHandler_Download_NotFound(t *testing.T) {
	r, svc := newDocumentRouter()
	id := uuid.New()
	svc.On("Download", mock.Anything, id).Return(nil, nil, domain.ErrDocumentNotFound)

	w := perform(r, http.MethodGet, "/documents/"+id.String()+"/download", http.NoBody, "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "DOCUMENT_NOT_FOUND", decodeEnvelope(t, w).Error.Code)
}

func TestDocumentHandler_Process(t *testing.T) {
	r, svc := newDocumentRouter()
	projectID := uuid.New()
	svc.On("TriggerProcessing", mock.Anything, projectID).Return(&domain.ProcessTrigger{ID: 1, ProjectID: projectID}, nil)

	w := perform(r, http.MethodPost, "/projects/"+projectID.String()+"/process", http.NoBody, "")

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.True(t, decodeEnvelope(t, w).Success)
}

func TestDocumentHandler_Delete(t *testing.T) {
	r, svc := newDocumentRouter()
	id := uuid.New()
	svc.On("Delete", mock.Anything, id).Return(nil)

	w := perform(r, http.MethodDelete, "/documents/"+id.String(), http.NoBody, "")

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
