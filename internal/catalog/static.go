package catalog

import "context"

// PartnerLocationKey scopes a location name to its partner.
type PartnerLocationKey struct {
	PartnerID int64
	Name      string
}

// LocationCycleKey scopes a cycle name to its partner location.
type LocationCycleKey struct {
	LocationID int64
	Name       string
}

// StaticData is the dataset behind a Static catalog.
type StaticData struct {
	Periods          map[string]int64
	DocTypes         map[string]int64
	Partners         map[string]int64
	PartnerLocations map[PartnerLocationKey]int64
	LocationCycles   map[LocationCycleKey]int64
	PriceLists       map[string]int64
	DeliveryVias     map[string]struct{}
	Products         map[string]int64
}

// Static is an in-memory catalog fixed at construction. It backs local
// development without a reference database and doubles as the test fake.
type Static struct {
	data StaticData
}

var _ Provider = (*Static)(nil)

// NewStatic creates an in-memory catalog over the given dataset.
func NewStatic(data StaticData) *Static {
	return &Static{data: data}
}

// DefaultStaticData returns the development dataset: one partner with one
// location and five cycles, two products, recent periods, the standard
// document types, one active price list and the standard delivery-via rules.
func DefaultStaticData() StaticData {
	return StaticData{
		Periods: map[string]int64{
			"Nov-25": 1000334,
			"Oct-25": 1000332,
		},
		DocTypes: map[string]int64{
			"Delivery Order": 1000054,
			"Standart Order": 132,
			"Schedule Order": 1000053,
		},
		Partners: map[string]int64{
			"SUGITY": 1000538,
		},
		PartnerLocations: map[PartnerLocationKey]int64{
			{PartnerID: 1000538, Name: "MM2100"}: 1000336,
		},
		LocationCycles: map[LocationCycleKey]int64{
			{LocationID: 1000336, Name: "C1"}: 1000001,
			{LocationID: 1000336, Name: "C2"}: 1000040,
			{LocationID: 1000336, Name: "C3"}: 1000041,
			{LocationID: 1000336, Name: "C4"}: 1000042,
			{LocationID: 1000336, Name: "C5"}: 1000046,
		},
		PriceLists: map[string]int64{
			"Sales Price List": 1000010,
		},
		DeliveryVias: map[string]struct{}{
			"Pickup":   {},
			"Delivery": {},
			"Shipper":  {},
		},
		Products: map[string]int64{
			"Product1": 3000001,
			"Product2": 3000002,
		},
	}
}

// Session returns the catalog itself; there is no per-call resource to pin.
func (s *Static) Session(ctx context.Context) (Session, error) {
	return staticSession{data: s.data}, nil
}

type staticSession struct {
	data StaticData
}

func (s staticSession) Close() {}

func (s staticSession) PeriodID(_ context.Context, name string) (int64, error) {
	return fromMap(s.data.Periods, name)
}

func (s staticSession) DocTypeID(_ context.Context, name string) (int64, error) {
	return fromMap(s.data.DocTypes, name)
}

func (s staticSession) PartnerID(_ context.Context, code string) (int64, error) {
	return fromMap(s.data.Partners, code)
}

func (s staticSession) PartnerLocationID(_ context.Context, partnerID int64, name string) (int64, error) {
	return fromMap(s.data.PartnerLocations, PartnerLocationKey{PartnerID: partnerID, Name: name})
}

func (s staticSession) LocationCycleID(_ context.Context, locationID int64, name string) (int64, error) {
	return fromMap(s.data.LocationCycles, LocationCycleKey{LocationID: locationID, Name: name})
}

func (s staticSession) PriceListID(_ context.Context, name string) (int64, error) {
	return fromMap(s.data.PriceLists, name)
}

func (s staticSession) DeliveryViaExists(_ context.Context, name string) (bool, error) {
	_, ok := s.data.DeliveryVias[name]
	return ok, nil
}

func (s staticSession) ProductID(_ context.Context, code string) (int64, error) {
	return fromMap(s.data.Products, code)
}

func fromMap[K comparable](m map[K]int64, key K) (int64, error) {
	id, ok := m[key]
	if !ok {
		return 0, ErrNotFound
	}
	return id, nil
}
