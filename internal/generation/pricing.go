package generation

import (
	"fmt"
	"strconv"
	"strings"
)

// ModelPrice holds per-token USD prices for one model.
type ModelPrice struct {
	InputPerToken  float64
	OutputPerToken float64
}

// PriceTable maps model ids to their prices. Models absent from the table
// are charged zero with a warning flag instead of failing the call.
type PriceTable map[string]ModelPrice

// DefaultPriceTable seeds the models the corpus pipeline historically used.
// Per-token prices: Claude 3 Haiku at $0.25/$1.25 per million tokens,
// GPT-3.5-turbo at $0.50/$1.50 per million.
func DefaultPriceTable() PriceTable {
	return PriceTable{
		"anthropic.claude-3-haiku-20240307-v1:0": {InputPerToken: 0.00000025, OutputPerToken: 0.00000125},
		"gpt-3.5-turbo":                          {InputPerToken: 0.0000005, OutputPerToken: 0.0000015},
		"gpt-4o-mini":                            {InputPerToken: 0.00000015, OutputPerToken: 0.0000006},
	}
}

// ApplyOverrides merges price entries parsed from a spec string of the form
// "model=inputPerToken:outputPerToken,model2=...". Prices are USD per token.
// An empty spec is a no-op.
func (t PriceTable) ApplyOverrides(spec string) error {
	if spec == "" {
		return nil
	}
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		model, prices, ok := strings.Cut(entry, "=")
		if !ok || model == "" {
			return fmt.Errorf("invalid price entry %q, want model=input:output", entry)
		}
		in, out, ok := strings.Cut(prices, ":")
		if !ok {
			return fmt.Errorf("invalid price entry %q, want model=input:output", entry)
		}
		inputPrice, err := strconv.ParseFloat(in, 64)
		if err != nil {
			return fmt.Errorf("invalid input price in %q: %w", entry, err)
		}
		outputPrice, err := strconv.ParseFloat(out, 64)
		if err != nil {
			return fmt.Errorf("invalid output price in %q: %w", entry, err)
		}
		if inputPrice < 0 || outputPrice < 0 {
			return fmt.Errorf("negative price in %q", entry)
		}
		t[model] = ModelPrice{InputPerToken: inputPrice, OutputPerToken: outputPrice}
	}
	return nil
}

// Estimate computes the input and output cost of a call. The final return
// value is false when the model has no price entry and the cost defaulted
// to zero.
func (t PriceTable) Estimate(model string, inputTokens, outputTokens int) (inputCost, outputCost float64, known bool) {
	price, ok := t[model]
	if !ok {
		return 0, 0, false
	}
	return float64(inputTokens) * price.InputPerToken, float64(outputTokens) * price.OutputPerToken, true
}
