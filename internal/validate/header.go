package validate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hartono/salesimport/internal/catalog"
	"github.com/hartono/salesimport/internal/domain"
)

// noCycleID is the sentinel attached when the optional location cycle is blank.
const noCycleID int64 = 0

// validateHeader runs every header field check in a fixed order and returns an
// enriched copy of the header with the identifiers that resolved. It never
// short-circuits on field errors, so a rejected batch reports every problem in
// one round trip. A non-nil error means a catalog failure, which aborts the
// whole call.
func validateHeader(ctx context.Context, sess catalog.Session, h domain.Header, loc domain.Location) (domain.Header, []domain.FieldError, error) {
	out := h
	var errs []domain.FieldError

	collect := func(fe *domain.FieldError) {
		if fe != nil {
			errs = append(errs, *fe)
		}
	}

	collect(requiredText(h.OrderReference, "Order Reference", loc))

	// Sales period. The sheet parser upstream renders unparseable period
	// cells as the literal "Invalid Date", which counts as blank here.
	period := strings.TrimSpace(h.SalesPeriod)
	if period == "" || period == "Invalid Date" {
		errs = append(errs, domain.NewFieldError(loc, "Sales Period", h.SalesPeriod,
			"Sales Period Salah/Kosong."))
	} else {
		id, err := sess.PeriodID(ctx, period)
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			errs = append(errs, notFound(loc, "Sales Period", "Sales Period", h.SalesPeriod))
		case err != nil:
			return out, errs, domain.Internal(err, "validate.header", "sales period lookup failed")
		default:
			out.PeriodID = &id
		}
	}

	// Target document type.
	if fe := requiredText(h.TargetDocumentType, "Target Document Type", loc); fe != nil {
		errs = append(errs, *fe)
	} else {
		id, err := sess.DocTypeID(ctx, strings.TrimSpace(h.TargetDocumentType))
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			errs = append(errs, notFound(loc, "Target Document Type", "Target Document Type", h.TargetDocumentType))
		case err != nil:
			return out, errs, domain.Internal(err, "validate.header", "document type lookup failed")
		default:
			out.DocTypeID = &id
		}
	}

	// Business partner.
	if fe := requiredText(h.BusinessPartner, "Business Partner", loc); fe != nil {
		errs = append(errs, *fe)
	} else {
		id, err := sess.PartnerID(ctx, strings.TrimSpace(h.BusinessPartner))
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			errs = append(errs, notFound(loc, "Business Partner", "Business Partner", h.BusinessPartner))
		case err != nil:
			return out, errs, domain.Internal(err, "validate.header", "business partner lookup failed")
		default:
			out.PartnerID = &id
		}
	}

	// Partner location. The lookup is scoped to the resolved partner, so it
	// is skipped while the partner itself did not resolve; the partner error
	// above already covers that case.
	if fe := requiredText(h.PartnerLocation, "Business Partner Location", loc); fe != nil {
		errs = append(errs, *fe)
	} else if out.PartnerID != nil {
		id, err := sess.PartnerLocationID(ctx, *out.PartnerID, strings.TrimSpace(h.PartnerLocation))
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			errs = append(errs, notFound(loc, "Business Partner Location", "Business Partner Location", h.PartnerLocation))
		case err != nil:
			return out, errs, domain.Internal(err, "validate.header", "partner location lookup failed")
		default:
			out.LocationID = &id
		}
	}

	// Location cycle is the one optional enumerated field: blank resolves to
	// the no-cycle sentinel instead of erroring. The lookup is scoped to the
	// resolved location and skipped while that prerequisite is missing.
	cycle := strings.TrimSpace(h.LocCycle)
	if cycle == "" {
		sentinel := noCycleID
		out.LocCycleID = &sentinel
	} else if out.LocationID != nil {
		id, err := sess.LocationCycleID(ctx, *out.LocationID, cycle)
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			errs = append(errs, notFound(loc, "Loc Cycle", "Business Partner Location Cycle", h.LocCycle))
		case err != nil:
			return out, errs, domain.Internal(err, "validate.header", "location cycle lookup failed")
		default:
			out.LocCycleID = &id
		}
	}

	// Price list. Only active price lists resolve.
	if fe := requiredText(h.PriceList, "Price List", loc); fe != nil {
		errs = append(errs, *fe)
	} else {
		id, err := sess.PriceListID(ctx, strings.TrimSpace(h.PriceList))
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			errs = append(errs, notFound(loc, "Price List", "Price List", h.PriceList))
		case err != nil:
			return out, errs, domain.Internal(err, "validate.header", "price list lookup failed")
		default:
			out.PriceListID = &id
		}
	}

	// Delivery via is membership-only; no identifier is attached.
	if fe := requiredText(h.DeliveryVia, "Delivery Via", loc); fe != nil {
		errs = append(errs, *fe)
	} else {
		ok, err := sess.DeliveryViaExists(ctx, strings.TrimSpace(h.DeliveryVia))
		switch {
		case err != nil:
			return out, errs, domain.Internal(err, "validate.header", "delivery via lookup failed")
		case !ok:
			errs = append(errs, notFound(loc, "Delivery Via", "Delivery Via", h.DeliveryVia))
		}
	}

	collect(validateDate(h.DateOrdered, "Date Ordered", loc))
	collect(validateDate(h.DatePromised, "Date Promised", loc))

	return out, errs, nil
}

// notFound builds the not-found error for an enumerated field. field is the
// name reported in the error; msgName is the name echoed in the message text
// (they differ for a couple of fields, which the import UI relies on).
func notFound(loc domain.Location, field, msgName string, value any) domain.FieldError {
	return domain.NewFieldError(loc, field, value,
		fmt.Sprintf("%s %q tidak ditemukan.", msgName, value))
}
