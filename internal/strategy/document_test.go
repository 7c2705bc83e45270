package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentFromYAMLFlat(t *testing.T) {
	raw := []byte("max_open_positions: 5\nquote_asset: USDT\nauto_leverage: true\n")
	doc, err := DocumentFromYAML(raw)
	require.NoError(t, err)
	assert.Equal(t, 5, doc["max_open_positions"])
	assert.Equal(t, "USDT", doc["quote_asset"])
	assert.Equal(t, true, doc["auto_leverage"])
}

func TestDocumentFromYAMLNested(t *testing.T) {
	raw := []byte(`
trading:
  hours:
    start: 9
    end: 17
ema:
  short: 9
take_profit_targets: [1.5, 3.0, 5.0]
`)
	doc, err := DocumentFromYAML(raw)
	require.NoError(t, err)
	assert.Equal(t, 9, doc["trading_hours_start"])
	assert.Equal(t, 17, doc["trading_hours_end"])
	assert.Equal(t, 9, doc["ema_short"])
	assert.Len(t, doc["take_profit_targets"], 3)
}

func TestDocumentFromYAMLInvalid(t *testing.T) {
	_, err := DocumentFromYAML([]byte("quote_asset: [unclosed"))
	assert.Error(t, err)
}

func TestDocumentYAMLRoundTrip(t *testing.T) {
	cfg, _, err := Parse(DefaultDocument())
	require.NoError(t, err)

	data, err := cfg.Document().ToYAML()
	require.NoError(t, err)

	doc, err := DocumentFromYAML(data)
	require.NoError(t, err)

	again, _, err := Parse(doc)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestActiveSwap(t *testing.T) {
	cfg, _, err := Parse(DefaultDocument())
	require.NoError(t, err)

	Activate(cfg)
	assert.Same(t, cfg, Active())

	next, _, _, err := Merge(cfg, Document{"max_daily_trades": 40})
	require.NoError(t, err)

	Activate(next)
	assert.Same(t, next, Active())
	assert.Equal(t, 40, Active().MaxDailyTrades)
}
