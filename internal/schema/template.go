// Package schema interprets templates: it checks a template's own integrity
// and synthesises the validation contract documents are checked against.
package schema

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/parisxmas/oxidocs/internal/apperr"
	"github.com/parisxmas/oxidocs/internal/models"
)

// NewFieldID returns an opaque identifier for a field that arrived without one.
func NewFieldID() string {
	return "field_" + uuid.New().String()
}

// NewQuestionID returns an opaque identifier for a question that arrived without one.
func NewQuestionID() string {
	return "question_" + uuid.New().String()
}

// AssignIDs fills in missing field and question identifiers in place.
func AssignIDs(fields []models.FieldDefinition, questions []models.QuestionDefinition) {
	for i := range fields {
		if strings.TrimSpace(fields[i].ID) == "" {
			fields[i].ID = NewFieldID()
		}
	}
	for i := range questions {
		if strings.TrimSpace(questions[i].ID) == "" {
			questions[i].ID = NewQuestionID()
		}
	}
}

// PruneQuestions drops questions linked to a field that no longer exists.
// This is the cascade applied when fields are removed from a template.
func PruneQuestions(fields []models.FieldDefinition, questions []models.QuestionDefinition) []models.QuestionDefinition {
	known := make(map[string]bool, len(fields))
	for _, f := range fields {
		known[f.ID] = true
	}
	kept := make([]models.QuestionDefinition, 0, len(questions))
	for _, q := range questions {
		if q.FieldID != "" && !known[q.FieldID] {
			continue
		}
		kept = append(kept, q)
	}
	return kept
}

// CheckTemplate validates a template definition and returns every problem found.
// Field names and question texts are optional; rules fall back to the id as label.
func CheckTemplate(t *models.Template) error {
	verr := &apperr.ValidationError{}
	if strings.TrimSpace(t.Name) == "" {
		verr.Add("name", "Required")
	}

	fieldIDs := make(map[string]bool, len(t.Fields))
	for i, f := range t.Fields {
		key := fmt.Sprintf("fields[%d]", i)
		if f.ID == "" {
			verr.Add(key+".id", "Required")
		} else if fieldIDs[f.ID] {
			verr.Add(key+".id", "Duplicate field id %q", f.ID)
		}
		fieldIDs[f.ID] = true
		if !f.Type.Valid() {
			verr.Add(key+".type", "Unknown field type %q", f.Type)
		}
		if f.Type == models.FieldSelect && len(f.Options) == 0 {
			verr.Add(key+".options", "Select fields need at least one option")
		}
		if f.Type == models.FieldClient && f.ClientField != "" && !knownClientAttribute(f.ClientField) {
			verr.Add(key+".clientField", "Unknown client attribute %q", f.ClientField)
		}
	}

	questionIDs := make(map[string]bool, len(t.Questions))
	for i, q := range t.Questions {
		key := fmt.Sprintf("questions[%d]", i)
		if q.ID == "" {
			verr.Add(key+".id", "Required")
		} else if questionIDs[q.ID] {
			verr.Add(key+".id", "Duplicate question id %q", q.ID)
		}
		questionIDs[q.ID] = true
		if !q.Type.Valid() {
			verr.Add(key+".type", "Unknown question type %q", q.Type)
		}
		if q.FieldID != "" && !fieldIDs[q.FieldID] {
			verr.Add(key+".fieldId", "References unknown field %q", q.FieldID)
		}
	}
	return verr.OrNil()
}

func knownClientAttribute(name string) bool {
	for _, a := range models.ClientAttributes {
		if a == name {
			return true
		}
	}
	return false
}
