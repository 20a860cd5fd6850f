package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parisxmas/oxidocs/internal/models"
)

func TestCheckTemplate(t *testing.T) {
	require.NoError(t, CheckTemplate(marriageTemplate()))

	bad := &models.Template{
		Fields: []models.FieldDefinition{
			{ID: "a", Name: "A", Type: "colour"},
			{ID: "a", Name: "B", Type: models.FieldSelect},
		},
		Questions: []models.QuestionDefinition{
			{ID: "q", Text: "Q", Type: models.QuestionYesNo, FieldID: "missing"},
		},
	}
	err := CheckTemplate(bad)
	require.Error(t, err)
	assert.ElementsMatch(t, []string{
		"name",
		"fields[0].type",
		"fields[1].id",
		"fields[1].options",
		"questions[0].fieldId",
	}, issueKeys(err))
}

func TestAssignIDsFillsOnlyMissing(t *testing.T) {
	fields := []models.FieldDefinition{{ID: "keep"}, {}}
	questions := []models.QuestionDefinition{{}}
	AssignIDs(fields, questions)

	assert.Equal(t, "keep", fields[0].ID)
	assert.True(t, strings.HasPrefix(fields[1].ID, "field_"))
	assert.True(t, strings.HasPrefix(questions[0].ID, "question_"))

	other := []models.FieldDefinition{{}}
	AssignIDs(other, nil)
	assert.NotEqual(t, fields[1].ID, other[0].ID)
}

func TestPruneQuestionsCascadesRemovedFields(t *testing.T) {
	fields := []models.FieldDefinition{{ID: "f2"}}
	questions := []models.QuestionDefinition{
		{ID: "q1", FieldID: "f1"},
		{ID: "q2", FieldID: "f2"},
		{ID: "q3"},
	}
	kept := PruneQuestions(fields, questions)
	ids := make([]string, 0, len(kept))
	for _, q := range kept {
		ids = append(ids, q.ID)
	}
	assert.Equal(t, []string{"q2", "q3"}, ids)
}
