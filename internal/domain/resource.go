package domain

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Entity is a record kept in one of the resource tables.
type Entity interface {
	EntityID() int64
	SetEntityID(id int64)
	// Touch stamps creation and modification times for a write at now.
	Touch(now time.Time)
	Validate() error
}

// EntityPtr constrains generic code to pointer receivers of an entity type.
type EntityPtr[T any] interface {
	*T
	Entity
	// CopyTimestamps overwrites the server-owned timestamps with those of
	// src. Copying from a zero value clears them.
	CopyTimestamps(src *T)
}

// Repository defines CRUD persistence for one resource table.
type Repository[T any] interface {
	Create(ctx context.Context, entity *T) error
	GetByID(ctx context.Context, id int64) (*T, error)
	List(ctx context.Context) ([]T, error)
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id int64) error
}

type validation struct {
	problems []string
}

func (v *validation) require(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.problems = append(v.problems, field+" is required")
	}
}

func (v *validation) requireID(field string, id int64) {
	if id <= 0 {
		v.problems = append(v.problems, field+" is required")
	}
}

func (v *validation) oneOf(field, value string, allowed ...string) {
	if value != "" && !slices.Contains(allowed, value) {
		v.problems = append(v.problems, fmt.Sprintf("%s must be one of %s", field, strings.Join(allowed, ", ")))
	}
}

func (v *validation) check(ok bool, problem string) {
	if !ok {
		v.problems = append(v.problems, problem)
	}
}

func (v *validation) err() error {
	if len(v.problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(v.problems, "; "))
}
