// Package uuid wraps github.com/google/uuid so that UUIDs can be bound
// directly from URI and query parameters by gin.
package uuid

import (
	google_uuid "github.com/google/uuid"
)

type UUID struct {
	google_uuid.UUID
}

var Nil UUID

func New() UUID {
	return UUID{google_uuid.New()}
}

// UnmarshalParam implements gin's binding.BindUnmarshaler.
// An empty parameter binds to the Nil UUID.
func (u *UUID) UnmarshalParam(p string) error {
	if p == "" {
		*u = Nil
		return nil
	}

	parsed, err := google_uuid.Parse(p)
	if err != nil {
		return err
	}

	*u = UUID{parsed}
	return nil
}
