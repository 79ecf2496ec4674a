package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, b *Bill) error
	GetByID(ctx context.Context, id uuid.UUID) (*Bill, error)
	Update(ctx context.Context, b *Bill) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Bill, int, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*Bill, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Bill, int, error)

	// InTx runs fn inside a single transaction; the context passed to fn
	// carries the transaction so repository calls within share it.
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
	// GetForUpdate locks the bill row for the duration of the surrounding
	// transaction.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*Bill, error)
	// SetPaymentState writes the derived paid amount and status.
	SetPaymentState(ctx context.Context, id uuid.UUID, paid float64, status string) error
	AddPayment(ctx context.Context, p *Payment) error

	// ListInRange returns all bills with bill_date within [start, end].
	ListInRange(ctx context.Context, start, end time.Time) ([]*Bill, error)
	// ListUnpaid returns all bills with status Pending or Partial, ordered by
	// due date.
	ListUnpaid(ctx context.Context) ([]*Bill, error)
}
