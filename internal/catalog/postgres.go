package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hartono/salesimport/internal/telemetry"
)

// Store is the Postgres-backed catalog. Period and document type lookups are
// scoped to one reference-data client (AD_CLIENT_ID in the source schema).
type Store struct {
	pool     *pgxpool.Pool
	clientID int64
}

// Compile-time check that Store implements Provider.
var _ Provider = (*Store)(nil)

// NewStore creates a Postgres catalog backed by the given pool.
func NewStore(pool *pgxpool.Pool, clientID int64) *Store {
	return &Store{
		pool:     pool,
		clientID: clientID,
	}
}

// Session acquires one pooled connection for the validation call. The caller
// must Close it on every exit path so the connection returns to the pool.
func (s *Store) Session(ctx context.Context) (Session, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire catalog connection: %w", err)
	}
	return &pgSession{conn: conn, clientID: s.clientID}, nil
}

type pgSession struct {
	conn     *pgxpool.Conn
	clientID int64
}

func (s *pgSession) Close() {
	s.conn.Release()
}

func (s *pgSession) PeriodID(ctx context.Context, name string) (int64, error) {
	return s.lookupID(ctx, "period",
		`SELECT c_period_id FROM c_period WHERE ad_client_id = $1 AND name = $2 LIMIT 1`,
		s.clientID, name)
}

func (s *pgSession) DocTypeID(ctx context.Context, name string) (int64, error) {
	return s.lookupID(ctx, "doctype",
		`SELECT c_doctype_id FROM c_doctype WHERE ad_client_id = $1 AND name = $2 LIMIT 1`,
		s.clientID, name)
}

func (s *pgSession) PartnerID(ctx context.Context, code string) (int64, error) {
	return s.lookupID(ctx, "partner",
		`SELECT c_bpartner_id FROM c_bpartner WHERE value = $1 LIMIT 1`,
		code)
}

func (s *pgSession) PartnerLocationID(ctx context.Context, partnerID int64, name string) (int64, error) {
	return s.lookupID(ctx, "partner_location",
		`SELECT c_bpartner_location_id FROM c_bpartner_location WHERE c_bpartner_id = $1 AND name = $2 LIMIT 1`,
		partnerID, name)
}

func (s *pgSession) LocationCycleID(ctx context.Context, locationID int64, name string) (int64, error) {
	return s.lookupID(ctx, "location_cycle",
		`SELECT adw_c_bpartner_loccycle_id FROM adw_c_bpartner_loccycle WHERE name = $1 AND c_bpartner_location_id = $2 LIMIT 1`,
		name, locationID)
}

func (s *pgSession) PriceListID(ctx context.Context, name string) (int64, error) {
	return s.lookupID(ctx, "price_list",
		`SELECT m_pricelist_id FROM m_pricelist WHERE name = $1 AND isactive = 'Y' LIMIT 1`,
		name)
}

// DeliveryViaExists checks the delivery-via reference list (reference 152 in
// the source schema). No identifier is attached for this field.
func (s *pgSession) DeliveryViaExists(ctx context.Context, name string) (bool, error) {
	_, err := s.lookupID(ctx, "delivery_via",
		`SELECT ad_ref_list_id FROM ad_ref_list WHERE ad_reference_id = 152 AND name = $1 LIMIT 1`,
		name)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *pgSession) ProductID(ctx context.Context, code string) (int64, error) {
	return s.lookupID(ctx, "product",
		`SELECT m_product_id FROM m_product WHERE value = $1 LIMIT 1`,
		code)
}

// lookupID runs one single-column lookup and records its duration and outcome.
func (s *pgSession) lookupID(ctx context.Context, table, query string, args ...any) (int64, error) {
	start := time.Now()

	var id int64
	err := s.conn.QueryRow(ctx, query, args...).Scan(&id)

	outcome := "hit"
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		outcome = "miss"
	case err != nil:
		outcome = "error"
	}
	telemetry.Business.LookupDuration.WithLabelValues(table, outcome).Observe(time.Since(start).Seconds())

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return 0, ErrNotFound
	case err != nil:
		return 0, fmt.Errorf("%s lookup: %w", table, err)
	}
	return id, nil
}
