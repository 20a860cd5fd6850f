// Package service holds the entity contracts: it checks request payloads,
// consults templates for document validation and talks to the store.
package service

import (
	"errors"
	"strings"
	"time"

	"github.com/parisxmas/oxidocs/internal/repository"
)

// now is the clock every service stamps records with.
var now = func() time.Time {
	return time.Now().UTC()
}

func isDuplicate(err error) bool {
	return errors.Is(err, repository.ErrDuplicate)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
