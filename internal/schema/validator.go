package schema

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/parisxmas/oxidocs/internal/apperr"
	"github.com/parisxmas/oxidocs/internal/models"
)

// Rule validates and normalises the value stored under one data key.
type Rule struct {
	Key      string
	Label    string
	Required bool
	check    func(v models.Value) (models.Value, string)
}

// Contract is the validation contract derived from one template revision.
// It is cheap to build and is rebuilt on every use, so a template edit is
// visible to the very next submission.
type Contract struct {
	rules []Rule
}

// ContractFor derives the document contract from a template's fields and questions.
func ContractFor(t *models.Template) *Contract {
	c := &Contract{rules: make([]Rule, 0, len(t.Fields)+len(t.Questions))}
	for _, f := range t.Fields {
		c.rules = append(c.rules, fieldRule(f))
	}
	for _, q := range t.Questions {
		c.rules = append(c.rules, questionRule(q))
	}
	return c
}

// Validate checks a complete payload. Every required key must be present;
// keys the template does not declare are carried through untouched.
func (c *Contract) Validate(data models.Data) (models.Data, error) {
	return c.apply(data, false)
}

// ValidatePartial checks only the keys present in data, for partial updates.
// A null on a required key is rejected; it would erase the stored value.
func (c *Contract) ValidatePartial(data models.Data) (models.Data, error) {
	return c.apply(data, true)
}

func (c *Contract) apply(data models.Data, partial bool) (models.Data, error) {
	out := data.Clone()
	verr := &apperr.ValidationError{}
	for _, r := range c.rules {
		v, present := data[r.Key]
		if !present || v.IsNull() {
			if r.Required && (present || !partial) {
				verr.Add(r.Key, "%s is required", r.Label)
			}
			continue
		}
		norm, msg := r.check(v)
		if msg == "" && r.Required && isEmpty(norm) {
			msg = r.Label + " is required"
		}
		if msg != "" {
			verr.Add(r.Key, "%s", msg)
			continue
		}
		out[r.Key] = norm
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return out, nil
}

func isEmpty(v models.Value) bool {
	switch v.Kind() {
	case models.KindText, models.KindReference:
		return strings.TrimSpace(v.Str()) == ""
	case models.KindNull:
		return true
	}
	return false
}

func fieldRule(f models.FieldDefinition) Rule {
	r := Rule{Key: f.ID, Label: labelOr(f.Name, f.ID), Required: f.Required}
	switch f.Type {
	case models.FieldNumber:
		r.check = func(v models.Value) (models.Value, string) {
			n, ok := asNumber(v)
			if !ok {
				return v, r.Label + " must be a number"
			}
			if r.Required && n < 0 {
				return v, r.Label + " must not be negative"
			}
			return models.Number(n), ""
		}
	case models.FieldClient:
		r.check = func(v models.Value) (models.Value, string) {
			ref, ok := asReference(v)
			if !ok {
				return v, r.Label + " must reference a client"
			}
			return models.Reference(ref), ""
		}
	case models.FieldDate:
		r.check = func(v models.Value) (models.Value, string) {
			if v.Kind() != models.KindText {
				return v, r.Label + " must be a date string"
			}
			s := strings.TrimSpace(v.Str())
			if s != "" && !isDate(s) {
				return v, r.Label + " must be a date (YYYY-MM-DD)"
			}
			return v, ""
		}
	case models.FieldSelect:
		r.check = textOneOf(r.Label, f.Options)
	default:
		// text and file values are plain strings; files are opaque URLs.
		r.check = textOneOf(r.Label, nil)
	}
	return r
}

func questionRule(q models.QuestionDefinition) Rule {
	r := Rule{Key: models.QuestionKey(q.ID), Label: labelOr(q.Text, q.ID), Required: q.Required}
	switch q.Type {
	case models.QuestionYesNo:
		r.check = func(v models.Value) (models.Value, string) {
			if v.Kind() != models.KindBoolean {
				return v, r.Label + " must be yes or no"
			}
			return v, ""
		}
	case models.QuestionMultiple:
		r.check = textOneOf(r.Label, q.Options)
	default:
		r.check = textOneOf(r.Label, nil)
	}
	return r
}

func textOneOf(label string, options []string) func(models.Value) (models.Value, string) {
	return func(v models.Value) (models.Value, string) {
		if v.Kind() != models.KindText {
			return v, label + " must be text"
		}
		if len(options) > 0 && v.Str() != "" && !contains(options, v.Str()) {
			return v, label + " must be one of: " + strings.Join(options, ", ")
		}
		return v, ""
	}
}

func asNumber(v models.Value) (float64, bool) {
	switch v.Kind() {
	case models.KindNumber:
		n := v.Number()
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case models.KindText:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.Str()), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func asReference(v models.Value) (string, bool) {
	switch v.Kind() {
	case models.KindText, models.KindReference:
		return strings.TrimSpace(v.Str()), true
	case models.KindNumber:
		n := v.Number()
		if n < 0 || n != math.Trunc(n) {
			return "", false
		}
		return strconv.FormatInt(int64(n), 10), true
	}
	return "", false
}

func isDate(s string) bool {
	if _, err := time.Parse(time.DateOnly, s); err == nil {
		return true
	}
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}

func labelOr(label, fallback string) string {
	if strings.TrimSpace(label) == "" {
		return fallback
	}
	return label
}

func contains(arr []string, s string) bool {
	for _, a := range arr {
		if a == s {
			return true
		}
	}
	return false
}
