// Package records defines the record store ports the analytics engine
// reads from and the CRUD surface writes to.
package records

import (
	"context"
	"errors"

	"fournipay/internal/core"
)

// ErrNotFound is returned when a supplier or payment id is unknown.
var ErrNotFound = errors.New("record not found")

// Ports for record storage backends.
type (
	// SupplierReader is the read side the analytics engine consumes.
	SupplierReader interface {
		// Suppliers returns all suppliers in insertion order.
		Suppliers(ctx context.Context) ([]core.Supplier, error)
		GetSupplier(ctx context.Context, id string) (core.Supplier, error)
	}

	// PaymentReader is the read side the analytics engine consumes.
	PaymentReader interface {
		// Payments returns all payments in insertion order.
		Payments(ctx context.Context) ([]core.Payment, error)
	}

	SupplierWriter interface {
		// AddSupplier stores s, assigning an id when empty, and returns
		// the stored record.
		AddSupplier(ctx context.Context, s core.Supplier) (core.Supplier, error)
		UpdateSupplier(ctx context.Context, s core.Supplier) error
		DeleteSupplier(ctx context.Context, id string) error
	}

	PaymentWriter interface {
		// AddPayment stores p, assigning an id when empty, and returns
		// the stored record.
		AddPayment(ctx context.Context, p core.Payment) (core.Payment, error)
		DeletePayment(ctx context.Context, id string) error
	}

	// Versioner exposes a monotonic record-set version, bumped on every
	// mutation. Dashboard caches key their entries by (criteria, version)
	// so any write invalidates derived aggregates.
	Versioner interface {
		Version(ctx context.Context) (int64, error)
	}

	// Store is the full backend contract.
	Store interface {
		SupplierReader
		SupplierWriter
		PaymentReader
		PaymentWriter
		Versioner
		Close() error
	}
)
