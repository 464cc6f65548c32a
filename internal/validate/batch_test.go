package validate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hartono/salesimport/internal/catalog"
	"github.com/hartono/salesimport/internal/domain"
)

func testService() *Service {
	return NewService(catalog.NewStatic(catalog.DefaultStaticData()),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func validHeader() domain.Header {
	return domain.Header{
		OrderReference:     "SO-001",
		SalesPeriod:        "Nov-25",
		TargetDocumentType: "Delivery Order",
		BusinessPartner:    "SUGITY",
		PartnerLocation:    "MM2100",
		LocCycle:           "C1",
		PriceList:          "Sales Price List",
		DeliveryVia:        "Delivery",
		DateOrdered:        "2025-11-01",
		DatePromised:       "2025-11-10",
	}
}

func validLine(sheet, index int) domain.Line {
	return domain.Line{
		Product:      "Product1",
		Quantity:     "40",
		DatePromised: "2025-11-10",
		Sheet:        sheet,
		Index:        index,
	}
}

func Test_ValidateBatch_EmptyBatch(t *testing.T) {
	result, err := testService().ValidateBatch(context.Background(), domain.Batch{})

	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, result.Status)
	assert.Empty(t, result.Orders)
	assert.Empty(t, result.Errors)
}

func Test_ValidateBatch_FullyValidOrder(t *testing.T) {
	batch := domain.Batch{{
		Header: validHeader(),
		Lines:  []domain.Line{validLine(0, 0)},
	}}

	result, err := testService().ValidateBatch(context.Background(), batch)

	require.NoError(t, err)
	require.Equal(t, StatusAccepted, result.Status)
	require.Len(t, result.Orders, 1)

	header := result.Orders[0].Header
	require.NotNil(t, header.PeriodID)
	assert.Equal(t, int64(1000334), *header.PeriodID)
	require.NotNil(t, header.DocTypeID)
	assert.Equal(t, int64(1000054), *header.DocTypeID)
	require.NotNil(t, header.PartnerID)
	assert.Equal(t, int64(1000538), *header.PartnerID)
	require.NotNil(t, header.LocationID)
	assert.Equal(t, int64(1000336), *header.LocationID)
	require.NotNil(t, header.LocCycleID)
	assert.Equal(t, int64(1000001), *header.LocCycleID)
	require.NotNil(t, header.PriceListID)
	assert.Equal(t, int64(1000010), *header.PriceListID)

	require.Len(t, result.Orders[0].Lines, 1)
	line := result.Orders[0].Lines[0]
	require.NotNil(t, line.ProductID)
	assert.Equal(t, int64(3000001), *line.ProductID)
	assert.Empty(t, line.Product, "raw product code is stripped on acceptance")
	assert.Equal(t, "2025-11-01", line.DateOrdered, "line ordered date is sourced from the header")
}

func Test_ValidateBatch_InvalidCalendarDate(t *testing.T) {
	header := validHeader()
	header.DateOrdered = "2025-13-40"
	batch := domain.Batch{{Header: header}}

	result, err := testService().ValidateBatch(context.Background(), batch)

	require.NoError(t, err)
	require.Equal(t, StatusRejected, result.Status)
	require.Len(t, result.Errors, 1)
	fe := result.Errors[0]
	assert.Equal(t, "Date Ordered", fe.Field)
	assert.Equal(t, "Tanggal di Date Ordered tidak valid (contoh: 2025-13-40 tidak ada di kalender).", fe.Message)
	assert.Equal(t, 0, fe.SheetIndex)
	assert.Equal(t, domain.LocationHeader, fe.Type)
}

func Test_ValidateBatch_ZeroQuantity(t *testing.T) {
	line := validLine(0, 0)
	line.Quantity = "0"
	batch := domain.Batch{{Header: validHeader(), Lines: []domain.Line{line}}}

	result, err := testService().ValidateBatch(context.Background(), batch)

	require.NoError(t, err)
	require.Equal(t, StatusRejected, result.Status)
	require.Len(t, result.Errors, 1)
	fe := result.Errors[0]
	assert.Equal(t, "Quantity", fe.Field)
	assert.Equal(t, "Quantity harus berupa angka lebih besar dari 0.", fe.Message)
	assert.Equal(t, domain.LocationLine, fe.Type)
	require.NotNil(t, fe.Index)
	assert.Equal(t, 0, *fe.Index)
}

func Test_ValidateBatch_UnknownPartnerSkipsLocationLookup(t *testing.T) {
	header := validHeader()
	header.BusinessPartner = "UNKNOWN_CODE"
	batch := domain.Batch{{Header: header}}

	result, err := testService().ValidateBatch(context.Background(), batch)

	require.NoError(t, err)
	require.Equal(t, StatusRejected, result.Status)
	require.Len(t, result.Errors, 1,
		"the dependent partner location lookup must not add a second error")
	fe := result.Errors[0]
	assert.Equal(t, "Business Partner", fe.Field)
	assert.Equal(t, "UNKNOWN_CODE", fe.Value)
	assert.Equal(t, `Business Partner "UNKNOWN_CODE" tidak ditemukan.`, fe.Message)
}

func Test_ValidateBatch_UnresolvedLocationSkipsCycleLookup(t *testing.T) {
	header := validHeader()
	header.PartnerLocation = "NOWHERE"
	header.LocCycle = "C1"
	batch := domain.Batch{{Header: header}}

	result, err := testService().ValidateBatch(context.Background(), batch)

	require.NoError(t, err)
	require.Equal(t, StatusRejected, result.Status)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Business Partner Location", result.Errors[0].Field)
}

func Test_ValidateBatch_BlankCycleResolvesToSentinel(t *testing.T) {
	header := validHeader()
	header.LocCycle = ""
	batch := domain.Batch{{Header: header}}

	result, err := testService().ValidateBatch(context.Background(), batch)

	require.NoError(t, err)
	require.Equal(t, StatusAccepted, result.Status)
	require.NotNil(t, result.Orders[0].Header.LocCycleID)
	assert.Equal(t, int64(0), *result.Orders[0].Header.LocCycleID)
}

func Test_ValidateBatch_BlankRequiredFields(t *testing.T) {
	batch := domain.Batch{{Header: domain.Header{
		SalesPeriod:  "Invalid Date",
		DateOrdered:  "2025-11-01",
		DatePromised: "2025-11-10",
	}}}

	result, err := testService().ValidateBatch(context.Background(), batch)

	require.NoError(t, err)
	require.Equal(t, StatusRejected, result.Status)

	byField := map[string]domain.FieldError{}
	for _, fe := range result.Errors {
		byField[fe.Field] = fe
	}
	assert.Equal(t, "Order Reference tidak boleh kosong.", byField["Order Reference"].Message)
	assert.Equal(t, "Sales Period Salah/Kosong.", byField["Sales Period"].Message)
	assert.Equal(t, "Target Document Type tidak boleh kosong.", byField["Target Document Type"].Message)
	assert.Equal(t, "Business Partner tidak boleh kosong.", byField["Business Partner"].Message)
	assert.Equal(t, "Business Partner Location tidak boleh kosong.", byField["Business Partner Location"].Message)
	assert.Equal(t, "Price List tidak boleh kosong.", byField["Price List"].Message)
	assert.Equal(t, "Delivery Via tidak boleh kosong.", byField["Delivery Via"].Message)
}

func Test_ValidateBatch_ErrorOrdering(t *testing.T) {
	badLine := func(sheet, index int) domain.Line {
		l := validLine(sheet, index)
		l.Quantity = "0"
		l.DatePromised = ""
		return l
	}
	badHeader := validHeader()
	badHeader.DateOrdered = "bad"

	batch := domain.Batch{
		{Header: badHeader, Lines: []domain.Line{badLine(0, 0), badLine(0, 1)}},
		{Header: badHeader, Lines: []domain.Line{badLine(1, 0)}},
	}

	result, err := testService().ValidateBatch(context.Background(), batch)

	require.NoError(t, err)
	require.Equal(t, StatusRejected, result.Status)
	require.Len(t, result.Errors, 8, "one header error plus two errors per line")

	type key struct {
		sheet int
		kind  domain.LocationKind
		index int
	}
	var got []key
	for _, fe := range result.Errors {
		k := key{sheet: fe.SheetIndex, kind: fe.Type}
		if fe.Index != nil {
			k.index = *fe.Index
		}
		got = append(got, k)
	}
	want := []key{
		{0, domain.LocationHeader, 0},
		{0, domain.LocationLine, 0},
		{0, domain.LocationLine, 0},
		{0, domain.LocationLine, 1},
		{0, domain.LocationLine, 1},
		{1, domain.LocationHeader, 0},
		{1, domain.LocationLine, 0},
		{1, domain.LocationLine, 0},
	}
	assert.Equal(t, want, got)

	// Within one line the field checks keep their run order.
	assert.Equal(t, "Quantity", result.Errors[1].Field)
	assert.Equal(t, "Date Promised", result.Errors[2].Field)
}

func Test_ValidateBatch_Idempotent(t *testing.T) {
	header := validHeader()
	header.BusinessPartner = "UNKNOWN_CODE"
	header.DatePromised = "2025-02-30"
	line := validLine(0, 0)
	line.Product = "NOPE"
	batch := domain.Batch{{Header: header, Lines: []domain.Line{line}}}

	svc := testService()
	first, err := svc.ValidateBatch(context.Background(), batch)
	require.NoError(t, err)
	second, err := svc.ValidateBatch(context.Background(), batch)
	require.NoError(t, err)

	assert.Equal(t, first.Errors, second.Errors)
}

func Test_ValidateBatch_ExtraFieldsSurviveEnrichment(t *testing.T) {
	line := validLine(0, 0)
	line.Extra = map[string]any{"uom": "PCS"}
	batch := domain.Batch{{Header: validHeader(), Lines: []domain.Line{line}}}

	result, err := testService().ValidateBatch(context.Background(), batch)

	require.NoError(t, err)
	require.Equal(t, StatusAccepted, result.Status)
	assert.Equal(t, "PCS", result.Orders[0].Lines[0].Extra["uom"])
}

type failingProvider struct{}

func (failingProvider) Session(context.Context) (catalog.Session, error) {
	return nil, errors.New("connection refused")
}

func Test_ValidateBatch_CatalogUnavailable(t *testing.T) {
	svc := NewService(failingProvider{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	result, err := svc.ValidateBatch(context.Background(), domain.Batch{{Header: validHeader()}})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, domain.EUNAVAILABLE, domain.ErrorCode(err))
}

type flakySession struct{ catalog.Session }

func (flakySession) PartnerID(context.Context, string) (int64, error) {
	return 0, errors.New("connection reset")
}

type flakyProvider struct{ inner catalog.Provider }

func (p flakyProvider) Session(ctx context.Context) (catalog.Session, error) {
	sess, err := p.inner.Session(ctx)
	if err != nil {
		return nil, err
	}
	return flakySession{sess}, nil
}

func Test_ValidateBatch_LookupFailureIsFatal(t *testing.T) {
	provider := flakyProvider{inner: catalog.NewStatic(catalog.DefaultStaticData())}
	svc := NewService(provider, slog.New(slog.NewTextHandler(io.Discard, nil)))

	result, err := svc.ValidateBatch(context.Background(), domain.Batch{{Header: validHeader()}})

	require.Error(t, err)
	assert.Nil(t, result, "a lookup failure must not surface as a validation rejection")
	assert.Equal(t, domain.EINTERNAL, domain.ErrorCode(err))
}
