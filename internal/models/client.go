package models

import (
	"encoding/json"
	"time"
)

type Client struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	IDNumber    string    `json:"idNumber"`
	IDExpiry    string    `json:"idExpiry"`
	Mobile      string    `json:"mobile"`
	IDImageURL  *string   `json:"idImageUrl"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Attribute returns the client attribute a client-reference field pulls from.
func (c *Client) Attribute(name string) string {
	switch name {
	case "idNumber":
		return c.IDNumber
	case "mobile":
		return c.Mobile
	case "idExpiry":
		return c.IDExpiry
	default:
		return c.Name
	}
}

// ClientPatch carries the keys present in a partial client update.
type ClientPatch struct {
	Name        *string        `json:"name"`
	IDNumber    *string        `json:"idNumber"`
	IDExpiry    *string        `json:"idExpiry"`
	Mobile      *string        `json:"mobile"`
	IDImageURL  OptionalString `json:"idImageUrl"`
	Description OptionalString `json:"description"`
}

// OptionalString is a patch value for a nullable column. It tells an absent
// key (Set false) apart from an explicit null (Set true, Value nil).
type OptionalString struct {
	Set   bool
	Value *string
}

// SetTo returns a present, non-null value.
func SetTo(s string) OptionalString { return OptionalString{Set: true, Value: &s} }

// Cleared returns a present null.
func Cleared() OptionalString { return OptionalString{Set: true} }

func (o *OptionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	o.Value = nil
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}
