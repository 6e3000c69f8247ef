package service

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"

	"ingestdesk/internal/domain"
	"ingestdesk/internal/port"
)

// ProjectService defines the project management contract.
type ProjectService interface {
	List(ctx context.Context) ([]domain.Project, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	Create(ctx context.Context, name string) (*domain.Project, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (*domain.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type projectService struct {
	projectRepo port.ProjectRepository
}

// NewProjectService creates a new ProjectService implementation.
func NewProjectService(projectRepo port.ProjectRepository) ProjectService {
	return &projectService{projectRepo: projectRepo}
}

// List returns user projects, newest first. The fixed import project is never
// included.
func (s *projectService) List(ctx context.Context) ([]domain.Project, error) {
	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := projects[:0]
	for i := range projects {
		if projects[i].ID != domain.SalesforceProjectID {
			out = append(out, projects[i])
		}
	}
	return out, nil
}

func (s *projectService) Get(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	if id == domain.SalesforceProjectID {
		return nil, domain.ErrProjectNotFound
	}
	return s.projectRepo.GetByID(ctx, id)
}

func (s *projectService) Create(ctx context.Context, name string) (*domain.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrEmptyProjectName
	}

	project := &domain.Project{ID: uuid.New(), Name: name}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}
	log.Printf("projectService.Create: created project %s (%q)", project.ID, project.Name)
	return project, nil
}

func (s *projectService) Rename(ctx context.Context, id uuid.UUID, name string) (*domain.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrEmptyProjectName
	}
	if id == domain.SalesforceProjectID {
		return nil, domain.ErrProjectNotFound
	}
	if err := s.projectRepo.Rename(ctx, id, name); err != nil {
		return nil, err
	}
	return s.projectRepo.GetByID(ctx, id)
}

// Delete removes the project; its documents go with it through the foreign key.
func (s *projectService) Delete(ctx context.Context, id uuid.UUID) error {
	if id == domain.SalesforceProjectID {
		return domain.ErrProjectNotFound
	}
	log.Printf("projectService.Delete: deleting project %s", id)
	return s.projectRepo.Delete(ctx, id)
}
