package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ingestdesk/internal/domain"
	"ingestdesk/internal/service"
	"ingestdesk/mocks"
)

func setupProjectService() (*mocks.MockProjectRepo, service.ProjectService) {
	repo := new(mocks.MockProjectRepo)
	return repo, service.NewProjectService(repo)
}

func TestProjectList_HidesImportProject(t *testing.T) {
	repo, svc := setupProjectService()

	userProject := domain.Project{ID: uuid.New(), Name: "Contratos"}
	repo.On("List", mock.Anything).Return([]domain.Project{
		userProject,
		{ID: domain.SalesforceProjectID, Name: "Salesforce"},
	}, nil)

	projects, err := svc.List(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, []domain.Project{userProject}, projects)
}

func TestProjectList_RepoError(t *testing.T) {
	repo, svc := setupProjectService()
	repo.On("List", mock.Anything).Return(nil, errors.New("db down"))

	projects, err := svc.List(context.Background())

	assert.Error(t, err)
	assert.Nil(t, projects)
}

func TestProjectGet_ImportProjectIsNotFound(t *testing.T) {
	repo, svc := setupProjectService()

	project, err := svc.Get(context.Background(), domain.SalesforceProjectID)

	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	assert.Nil(t, project)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestProjectCreate_TrimsName(t *testing.T) {
	repo, svc := setupProjectService()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Project) bool {
		return p.Name == "Contratos 2024" && p.ID != uuid.Nil
	})).Return(nil)

	project, err := svc.Create(context.Background(), "  Contratos 2024  ")

	assert.NoError(t, err)
	assert.Equal(t, "Contratos 2024", project.Name)
	repo.AssertExpectations(t)
}

func TestProjectCreate_EmptyName(t *testing.T) {
	repo, svc := setupProjectService()

	project, err := svc.Create(context.Background(), "   ")

	assert.ErrorIs(t, err, domain.ErrEmptyProjectName)
	assert.Nil(t, project)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProjectRename_ReturnsUpdated(t *testing.T) {
	repo, svc := setupProjectService()
	id := uuid.New()
	repo.On("Rename", mock.Anything, id, "Novo nome").Return(nil)
	repo.On("GetByID", mock.Anything, id).Return(&domain.Project{ID: id, Name: "Novo nome"}, nil)

	project, err := svc.Rename(context.Background(), id, " Novo nome ")

	assert.NoError(t, err)
	assert.Equal(t, "Novo nome", project.Name)
}

func TestProjectRename_NotFound(t *testing.T) {
	repo, svc := setupProjectService()
	id := uuid.New()
	repo.On("Rename", mock.Anything, id, "x").Return(domain.ErrProjectNotFound)

	_, err := svc.Rename(context.Background(), id, "x")

	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestProjectDelete(t *testing.T) {
	repo, svc := setupProjectService()
	id := uuid.New()
	repo.On("Delete", mock.Anything, id).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), id))
	assert.ErrorIs(t, svc.Delete(context.Background(), domain.SalesforceProjectID), domain.ErrProjectNotFound)
	repo.AssertNumberOfCalls(t, "Delete", 1)
}
