package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaError(t *testing.T) {
	err := NewSchemaError("mcws", "Trademark")

	assert.Contains(t, err.Error(), "mcws")
	assert.Contains(t, err.Error(), "Trademark")
	assert.True(t, stderrors.Is(err, ErrSchema))
	assert.True(t, IsSchema(err))
	assert.False(t, IsSchema(New("unrelated")))
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("priority", "xyz", "unknown source")

	assert.Contains(t, err.Error(), "priority")
	assert.Contains(t, err.Error(), "unknown source")
	assert.True(t, stderrors.Is(err, ErrInvalidInput))
	assert.True(t, IsValidationError(err))

	// Without a field name
	err = NewValidationError("", nil, "empty allow-list")
	assert.Equal(t, "validation failed: empty allow-list", err.Error())
}

func TestParseErrorFormats(t *testing.T) {
	tests := []struct {
		name string
		err  *ParseError
		want string
	}{
		{
			name: "with file and line",
			err:  &ParseError{Format: "csv", File: "stock.csv", Line: 12, Message: "bad record"},
			want: "parse error in csv at stock.csv:12: bad record",
		},
		{
			name: "with file only",
			err:  &ParseError{Format: "xlsx", File: "export.xlsx", Message: "no sheets"},
			want: "parse error in xlsx file export.xlsx: no sheets",
		},
		{
			name: "bare",
			err:  &ParseError{Format: "markup", Message: "empty table"},
			want: "markup parse error: empty table",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestUnwrapChains(t *testing.T) {
	cause := New("disk full")

	ioErr := NewIOError("write", "/tmp/out.csv", cause)
	assert.Equal(t, cause, stderrors.Unwrap(ioErr))

	parseErr := WrapParse("csv", "in.csv", cause)
	assert.True(t, stderrors.Is(parseErr, cause))

	cfgErr := NewConfigError("reconcile", "bad priority order", cause)
	assert.True(t, stderrors.Is(cfgErr, cause))
}

func TestWrapHelpersNilPassthrough(t *testing.T) {
	assert.Nil(t, WrapIO("read", "x", nil))
	assert.Nil(t, WrapParse("csv", "x", nil))
	assert.Nil(t, WrapValidation("f", nil))
}
