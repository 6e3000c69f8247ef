package realtime

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ingestdesk/internal/domain"
)

func TestParsePayload_Insert(t *testing.T) {
	projectID := uuid.New()
	payload := `{"table":"resultados_analise","type":"INSERT","id":"r-1","projeto_id":"` + projectID.String() + `"}`

	ev, err := parsePayload("resultados_analise", payload)
	require.NoError(t, err)

	assert.Equal(t, "resultados_analise", ev.Table)
	assert.Equal(t, domain.ChangeInsert, ev.Type)
	assert.Equal(t, "r-1", ev.RecordID)
	require.NotNil(t, ev.ProjectID)
	assert.Equal(t, projectID, *ev.ProjectID)
}

func TestParsePayload_NullProject(t *testing.T) {
	ev, err := parsePayload("resultados_analise", `{"type":"INSERT","id":"r-2","projeto_id":null}`)
	require.NoError(t, err)

	assert.Equal(t, "resultados_analise", ev.Table)
	assert.Nil(t, ev.ProjectID)
}

func TestParsePayload_WrongTable(t *testing.T) {
	_, err := parsePayload("resultados_analise", `{"table":"projeto","type":"INSERT"}`)
	assert.Error(t, err)
}

func TestParsePayload_Malformed(t *testing.T) {
	_, err := parsePayload("resultados_analise", `not json`)
	assert.Error(t, err)
}
