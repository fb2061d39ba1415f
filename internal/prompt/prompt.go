// Package prompt wraps a market report in the analyst instructions sent to
// the language model.
package prompt

import (
	"fmt"
	"strings"
)

const analystTemplate = `You are a cryptocurrency market analyst specializing in %[1]s. Your task is to provide an insightful summary of the %[1]s market, including price predictions, buy and sell positions, key levels, risk assessment, and overall recommendations. Use the following data to conduct your analysis:

<historical_data>
%[2]s
</historical_data>

Analyze the provided data carefully, paying attention to trends, patterns, and signals from various indicators. Consider both technical and sentiment factors in your analysis.

Prepare a comprehensive summary report with the following sections:

1. Market Overview: Provide a brief overview of the current %[1]s market situation based on the latest data points.

2. Price Prediction: Offer price predictions for short-term (1-7 days), mid-term (1-3 months), and long-term (6-12 months) horizons. Support your predictions with relevant data and indicator analysis.

3. Buy and Sell Positions: Recommend entry and exit points for short, mid, and long-term traders. Explain the rationale behind each position.

4. Key Levels: Identify and explain important support and resistance levels to watch. Provide specific price points and reasons why these levels are significant.

5. Indicator Analysis: Analyze each of the following indicators and explain their implications for %[1]s's price action:
   - RSI (overbought/oversold conditions)
   - MACD (trend strength and momentum)
   - Bollinger Bands (volatility and potential reversals)
   - SMA and EMA crossovers (trend direction)
   - OBV (volume confirmation of trends)
   - ATR (volatility measurement)
   - Fear and Greed Index (market sentiment)

6. Risk Assessment: Evaluate the overall risk level (low, medium, or high) for %[1]s investments at this time. Provide a detailed explanation for your assessment, considering both technical and fundamental factors.

7. Timeframe Recommendations: Offer specific recommendations for short-term, medium-term, and long-term investors. Explain how your advice differs for each timeframe and why.

8. Overall Recommendation: Conclude with an overall recommendation to Buy, Sell, or Hold %[1]s. Justify your recommendation based on the analysis of all indicators and market factors discussed in the report.

Before providing your final output, use <scratchpad> tags to organize your thoughts and analyze the data. This will help you formulate a well-reasoned and comprehensive report.

Present your final analysis and recommendations within <%[3]s_market_analysis> tags. Ensure that your report is well-structured, easy to read, and provides clear, actionable insights for investors with different time horizons.`

// Build returns the analyst prompt for asset with report embedded verbatim
// inside <historical_data> tags.
func Build(asset, report string) string {
	asset = strings.TrimSpace(asset)
	if asset == "" {
		asset = "Bitcoin"
	}
	return fmt.Sprintf(analystTemplate, asset, report, tagName(asset))
}

// tagName turns "Bitcoin Cash" into "bitcoin_cash".
func tagName(asset string) string {
	return strings.Join(strings.Fields(strings.ToLower(asset)), "_")
}
