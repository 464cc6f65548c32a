package validate

import (
	"context"
	"errors"
	"strings"

	"github.com/hartono/salesimport/internal/catalog"
	"github.com/hartono/salesimport/internal/domain"
)

// validateLine runs every line field check and returns an enriched copy.
//
// The line's own date_ordered is deliberately not validated: the header's
// date_ordered is the source of truth for the whole order, and enrichment
// copies it onto the line. Only date_promised is checked per line.
func validateLine(ctx context.Context, sess catalog.Session, l domain.Line, header domain.Header) (domain.Line, []domain.FieldError, error) {
	out := l
	loc := domain.LineLocation(l.Sheet, l.Index)
	var errs []domain.FieldError

	// Product part number. The blank error reports the "Product" field while
	// the not-found error reports "PartNo Product"; both names are part of
	// the wire contract.
	if strings.TrimSpace(l.Product) == "" {
		errs = append(errs, domain.NewFieldError(loc, "Product", l.Product,
			"Part No tidak boleh kosong."))
	} else {
		id, err := sess.ProductID(ctx, strings.TrimSpace(l.Product))
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			errs = append(errs, notFound(loc, "PartNo Product", "PartNo Product", l.Product))
		case err != nil:
			return out, errs, domain.Internal(err, "validate.line", "product lookup failed")
		default:
			out.ProductID = &id
		}
	}

	if fe := validateQuantity(l.Quantity, loc); fe != nil {
		errs = append(errs, *fe)
	}

	if fe := validateDate(l.DatePromised, "Date Promised", loc); fe != nil {
		errs = append(errs, *fe)
	}

	out.DateOrdered = header.DateOrdered

	return out, errs, nil
}
