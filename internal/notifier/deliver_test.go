package notifier

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleDeliverer(t *testing.T) {
	var buf bytes.Buffer
	d := NewConsoleDeliverer(&buf)

	require.NoError(t, d.Deliver(context.Background(), "Bitcoin Trading Recommendations", "buy low"))

	out := buf.String()
	assert.Contains(t, out, "=== BITCOIN TRADING RECOMMENDATIONS ===")
	assert.Contains(t, out, "\nbuy low\n")
}
