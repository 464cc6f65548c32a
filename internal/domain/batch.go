package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Batch is one import request: an ordered sequence of orders, one per sheet.
// Sheet order is preserved and is the basis for error attribution.
type Batch []Order

// Order is one sheet: the order-level header plus its line rows.
type Order struct {
	Header Header `json:"header"`
	Lines  []Line `json:"lines"`
}

// Header holds the order-level fields of one sheet. Columns the mapper knows
// about land in named fields; anything else is kept in Extra and echoed back
// unchanged. Date cells stay untyped because the wrong-type case is itself a
// validation outcome.
//
// The resolved-identifier pointers are nil until a catalog lookup succeeds.
// LocCycleID is the one field with a sentinel: a blank cycle resolves to 0.
type Header struct {
	OrderReference     string
	SalesPeriod        string
	TargetDocumentType string
	BusinessPartner    string
	PartnerLocation    string
	LocCycle           string
	PriceList          string
	DeliveryVia        string
	DateOrdered        any
	DatePromised       any

	PeriodID    *int64
	DocTypeID   *int64
	PartnerID   *int64
	LocationID  *int64
	LocCycleID  *int64
	PriceListID *int64

	Extra map[string]any
}

// Line holds one item row. Sheet and Index tie the line to its parent order
// explicitly; they are stamped when the batch is decoded so no stage has to
// infer the parent from traversal order.
type Line struct {
	Product      string
	Quantity     any
	DateOrdered  any
	DatePromised any

	ProductID *int64

	Sheet int
	Index int

	Extra map[string]any
}

// UnmarshalJSON decodes the wire array and stamps each line with its sheet and
// line position.
func (b *Batch) UnmarshalJSON(data []byte) error {
	var orders []Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return err
	}
	for si := range orders {
		for li := range orders[si].Lines {
			orders[si].Lines[li].Sheet = si
			orders[si].Lines[li].Index = li
		}
	}
	*b = orders
	return nil
}

func (h *Header) UnmarshalJSON(data []byte) error {
	fields, err := decodeFields(data)
	if err != nil {
		return err
	}

	h.OrderReference = popText(fields, "order_reference")
	h.SalesPeriod = popText(fields, "sales_period")
	h.TargetDocumentType = popText(fields, "target_document_type")
	h.BusinessPartner = popText(fields, "business_partner")
	h.PartnerLocation = popText(fields, "partner_location")
	h.LocCycle = popText(fields, "loc_cycle")
	h.PriceList = popText(fields, "price_list")
	h.DeliveryVia = popText(fields, "delivery_via")
	h.DateOrdered = pop(fields, "date_ordered")
	h.DatePromised = pop(fields, "date_promised")
	h.Extra = fields
	return nil
}

func (h Header) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(h.Extra)+16)
	for k, v := range h.Extra {
		out[k] = v
	}
	putText(out, "order_reference", h.OrderReference)
	putText(out, "sales_period", h.SalesPeriod)
	putText(out, "target_document_type", h.TargetDocumentType)
	putText(out, "business_partner", h.BusinessPartner)
	putText(out, "partner_location", h.PartnerLocation)
	putText(out, "loc_cycle", h.LocCycle)
	putText(out, "price_list", h.PriceList)
	putText(out, "delivery_via", h.DeliveryVia)
	put(out, "date_ordered", h.DateOrdered)
	put(out, "date_promised", h.DatePromised)
	putID(out, "c_period_id", h.PeriodID)
	putID(out, "c_doctype_id", h.DocTypeID)
	putID(out, "c_bpartner_id", h.PartnerID)
	putID(out, "c_bpartner_location_id", h.LocationID)
	putID(out, "adw_c_bpartner_loccycle_id", h.LocCycleID)
	putID(out, "m_pricelist_id", h.PriceListID)
	return json.Marshal(out)
}

func (l *Line) UnmarshalJSON(data []byte) error {
	fields, err := decodeFields(data)
	if err != nil {
		return err
	}

	l.Product = popText(fields, "product")
	l.Quantity = pop(fields, "quantity")
	l.DateOrdered = pop(fields, "date_ordered")
	l.DatePromised = pop(fields, "date_promised")
	l.Extra = fields
	return nil
}

func (l Line) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(l.Extra)+5)
	for k, v := range l.Extra {
		out[k] = v
	}
	putText(out, "product", l.Product)
	put(out, "quantity", l.Quantity)
	put(out, "date_ordered", l.DateOrdered)
	put(out, "date_promised", l.DatePromised)
	putID(out, "m_product_id", l.ProductID)
	return json.Marshal(out)
}

// decodeFields decodes one record object keeping numeric cells as json.Number,
// so quantities survive without float artifacts and numeric text cells render
// exactly as entered.
func decodeFields(data []byte) (map[string]any, error) {
	fields := map[string]any{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// pop removes and returns a raw cell value.
func pop(fields map[string]any, key string) any {
	v, ok := fields[key]
	if !ok {
		return nil
	}
	delete(fields, key)
	return v
}

// popText removes a cell and coerces it to text the way spreadsheet cells
// arrive: numbers become their decimal rendering, absent cells become "".
func popText(fields map[string]any, key string) string {
	return asText(pop(fields, key))
}

func asText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func put(out map[string]any, key string, v any) {
	if v != nil {
		out[key] = v
	}
}

func putText(out map[string]any, key, v string) {
	if v != "" {
		out[key] = v
	}
}

func putID(out map[string]any, key string, id *int64) {
	if id != nil {
		out[key] = *id
	}
}
