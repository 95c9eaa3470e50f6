package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fmt.Errorf("line 3: %w", ErrConfiguration), "configuration"},
		{fmt.Errorf("pv: %w", fmt.Errorf("spot %q: %w", "MSFT", ErrLookup)), "lookup"},
		{ErrInvalidInput, "invalid_input"},
		{fmt.Errorf("dv01: %w", ErrNumerical), "numerical"},
		{errors.New("disk full"), "error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Kind(tt.err), "%v", tt.err)
	}
}
