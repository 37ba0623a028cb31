package errors

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"network", NewNetworkError("/analyze", context.DeadlineExceeded), KindNetwork},
		{"server", NewServerError("/analyze", 404, "ticker not found"), KindServer},
		{"validation", NewValidationError("company", nil, "missing"), KindValidation},
		{"wrapped server", Wrap(NewServerError("/report", 500, "boom"), "loading report"), KindServer},
		{"plain", fmt.Errorf("something else"), KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestServerErrorMessageIsVerbatim(t *testing.T) {
	err := NewServerError("/analyze", 404, "ticker not found")
	assert.Equal(t, "ticker not found", err.Error())
}

func TestNetworkErrorUnwraps(t *testing.T) {
	err := Wrap(NewNetworkError("/status", context.Canceled), "status")
	assert.True(t, Is(err, context.Canceled))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))
	assert.Nil(t, Wrapf(nil, "ignored %d", 1))
}
