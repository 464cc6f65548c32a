// Package catalog resolves human-entered reference codes (partner codes,
// document type names, product part numbers) to their canonical identifiers.
// It is read-only: nothing here ever mutates reference data.
package catalog

import (
	"context"
	"errors"
)

// ErrNotFound is returned by lookups when the key has no entry. Callers turn
// it into a field-level validation error; any other lookup error is an
// infrastructure failure and aborts the whole validation call.
var ErrNotFound = errors.New("catalog: entry not found")

// Provider opens catalog sessions. A session pins whatever backing resource
// the lookups need (a pooled connection for the Postgres catalog) for the
// duration of one validation call.
type Provider interface {
	Session(ctx context.Context) (Session, error)
}

// Session performs the reference lookups for one validation call. Each lookup
// is independent; no transaction spans them. Callers must Close the session on
// every exit path.
//
// Partner locations are scoped to a resolved partner and location cycles to a
// resolved location, so those lookups take the prerequisite identifier.
// DeliveryViaExists is an existence check only; the delivery-via list carries
// no identifier worth attaching.
type Session interface {
	PeriodID(ctx context.Context, name string) (int64, error)
	DocTypeID(ctx context.Context, name string) (int64, error)
	PartnerID(ctx context.Context, code string) (int64, error)
	PartnerLocationID(ctx context.Context, partnerID int64, name string) (int64, error)
	LocationCycleID(ctx context.Context, locationID int64, name string) (int64, error)
	PriceListID(ctx context.Context, name string) (int64, error)
	DeliveryViaExists(ctx context.Context, name string) (bool, error)
	ProductID(ctx context.Context, code string) (int64, error)
	Close()
}
