package handler

import (
	"context"

	"familiar/internal/alias"
	"familiar/internal/entity"
)

// Handler is the one signature every intent handler satisfies. Failures are
// classified into Outcome records; no error crosses this boundary.
type Handler interface {
	Intent() string
	Handle(ctx context.Context, params entity.Parameters, store alias.Store) entity.Outcome
}
