package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild_EmbedsReportVerbatim(t *testing.T) {
	report := "=== SUMMARY STATISTICS ===\nLast close: $42,000.00 | 100% sure\n"
	p := Build("Bitcoin", report)

	assert.Contains(t, p, "<historical_data>\n"+report+"\n</historical_data>")
	assert.Contains(t, p, "specializing in Bitcoin.")
	assert.Contains(t, p, "<bitcoin_market_analysis>")
	assert.NotContains(t, p, "%!")
}

func TestBuild_AssetName(t *testing.T) {
	p := Build("  Ethereum Classic ", "data")
	assert.Contains(t, p, "Hold Ethereum Classic.")
	assert.Contains(t, p, "<ethereum_classic_market_analysis>")

	assert.True(t, strings.Contains(Build("", "data"), "specializing in Bitcoin"))
}
