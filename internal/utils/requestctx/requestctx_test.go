package requestctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc")
	assert.Equal(t, "abc", RequestID(ctx))
	assert.Empty(t, RequestID(context.Background()))

	//nolint:staticcheck // nil context is accepted
	assert.Equal(t, "x", RequestID(WithRequestID(nil, "x")))
}
