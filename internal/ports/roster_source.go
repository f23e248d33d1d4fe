package ports

import (
	"context"
	"fleet-allocation-service/internal/domain"
)

// Port: a boundary for retrieving the full current vehicle roster, with
// category and raw operational flag per van.
type RosterSource interface {
	Read(ctx context.Context) ([]domain.Vehicle, error)
}
