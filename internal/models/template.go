package models

import "time"

// FieldType is the type tag of a template field.
type FieldType string

const (
	FieldText   FieldType = "text"
	FieldNumber FieldType = "number"
	FieldDate   FieldType = "date"
	FieldSelect FieldType = "select"
	FieldFile   FieldType = "file"
	FieldClient FieldType = "client"
)

// Valid reports whether t is a known field type.
func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldNumber, FieldDate, FieldSelect, FieldFile, FieldClient:
		return true
	}
	return false
}

// QuestionType is the type tag of a follow-up question.
type QuestionType string

const (
	QuestionYesNo    QuestionType = "yesno"
	QuestionMultiple QuestionType = "multiple"
	QuestionText     QuestionType = "text"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionYesNo, QuestionMultiple, QuestionText:
		return true
	}
	return false
}

// ClientAttributes lists the client attributes a client-reference field may pull from.
var ClientAttributes = []string{"name", "idNumber", "mobile", "idExpiry"}

// FieldDefinition is one typed input slot of a template.
type FieldDefinition struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required"`
	Options     []string  `json:"options,omitempty"`
	Format      string    `json:"format,omitempty"`
	ClientField string    `json:"clientField,omitempty"`
}

// QuestionDefinition is a follow-up question, optionally tied to a field.
type QuestionDefinition struct {
	ID       string       `json:"id"`
	Text     string       `json:"text"`
	Type     QuestionType `json:"type"`
	Required bool         `json:"required"`
	Options  []string     `json:"options,omitempty"`
	FieldID  string       `json:"fieldId,omitempty"`
}

// Template is a reusable schema of fields and questions defining one kind of document.
type Template struct {
	ID          int64                `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Fields      []FieldDefinition    `json:"fields"`
	Questions   []QuestionDefinition `json:"questions"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// Field returns the field with the given id.
func (t *Template) Field(id string) (FieldDefinition, bool) {
	for _, f := range t.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return FieldDefinition{}, false
}

// TemplatePatch carries the keys present in a partial template update.
type TemplatePatch struct {
	Name        *string               `json:"name"`
	Description *string               `json:"description"`
	Fields      *[]FieldDefinition    `json:"fields"`
	Questions   *[]QuestionDefinition `json:"questions"`
}
