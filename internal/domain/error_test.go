package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "domain error", err: Invalid("handler.decode", "bad payload"), want: EINVALID},
		{name: "wrapped domain error", err: Unavailable(errors.New("dial tcp"), "validate.batch", "catalog unavailable"), want: EUNAVAILABLE},
		{name: "plain error", err: errors.New("boom"), want: EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCode(tt.err))
		})
	}
}

func Test_ErrorMessage_HidesInternalDetails(t *testing.T) {
	err := Internal(errors.New("pq: relation does not exist"), "validate.header", "lookup failed")
	assert.Equal(t, "An internal error occurred. Please try again later.", ErrorMessage(err))

	assert.Equal(t, "catalog unavailable",
		ErrorMessage(Unavailable(errors.New("x"), "validate.batch", "catalog unavailable")))
}

func Test_Error_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapError(cause, EUNAVAILABLE, "catalog.session", "acquire failed")
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "catalog.session")
}
