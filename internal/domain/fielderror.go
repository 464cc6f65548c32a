package domain

import "sort"

// LocationKind says whether an error points at an order header or a line row.
type LocationKind string

const (
	LocationHeader LocationKind = "header"
	LocationLine   LocationKind = "line"
)

// Location identifies one cell-bearing record inside a batch: the sheet the
// order came from, header vs line, and the line position for line records.
type Location struct {
	Sheet int
	Kind  LocationKind
	Line  int // meaningful only when Kind == LocationLine
}

// HeaderLocation returns the location of the header of the given sheet.
func HeaderLocation(sheet int) Location {
	return Location{Sheet: sheet, Kind: LocationHeader}
}

// LineLocation returns the location of one line row of the given sheet.
func LineLocation(sheet, line int) Location {
	return Location{Sheet: sheet, Kind: LocationLine, Line: line}
}

// FieldError is one data-quality finding, carrying enough location data to be
// mapped back to exactly one input cell. The JSON shape is part of the wire
// contract consumed by the import preview UI.
type FieldError struct {
	SheetIndex int          `json:"sheetIndex"`
	Type       LocationKind `json:"type"`
	Index      *int         `json:"index,omitempty"` // present only for line errors
	Field      string       `json:"field"`
	Value      any          `json:"value"`
	Message    string       `json:"message"`
}

// NewFieldError builds a FieldError for the given location. All validators go
// through this constructor so every error has the same shape.
func NewFieldError(loc Location, field string, value any, message string) FieldError {
	fe := FieldError{
		SheetIndex: loc.Sheet,
		Type:       loc.Kind,
		Field:      field,
		Value:      value,
		Message:    message,
	}
	if loc.Kind == LocationLine {
		idx := loc.Line
		fe.Index = &idx
	}
	return fe
}

// SortFieldErrors orders errors by ascending sheet, header before lines, then
// ascending line index. The sort is stable so errors within one record keep
// the order their field checks ran in. Callers rely on this ordering.
func SortFieldErrors(errs []FieldError) {
	sort.SliceStable(errs, func(i, j int) bool {
		a, b := errs[i], errs[j]
		if a.SheetIndex != b.SheetIndex {
			return a.SheetIndex < b.SheetIndex
		}
		if a.Type != b.Type {
			return a.Type == LocationHeader
		}
		if a.Type == LocationLine && a.Index != nil && b.Index != nil && *a.Index != *b.Index {
			return *a.Index < *b.Index
		}
		return false
	})
}
