package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	assert.NoError(t, err)

	ctx := context.Background()

	sc, err := c.Config(ctx, "notarization")
	assert.NoError(t, err)
	assert.Equal(t, int64(2000), sc.MinAdvanceBps)
	assert.False(t, sc.AllowPartialCompletion)

	sc, err = c.Config(ctx, "certified_translation")
	assert.NoError(t, err)
	assert.True(t, sc.AllowPartialCompletion)

	_, err = c.Config(ctx, "tarot_reading")
	assert.ErrorIs(t, err, ErrUnknownService)
}

func TestLoadOverrides(t *testing.T) {
	t.Run("override existing and add new", func(t *testing.T) {
		c, err := Load(`[
			{"code": "notarization", "min_advance_bps": 5000, "currency": "EUR"},
			{"code": "legalization", "min_advance_bps": 1000, "allow_partial_completion": true, "currency": "USD"}
		]`)
		assert.NoError(t, err)

		ctx := context.Background()
		sc, err := c.Config(ctx, "notarization")
		assert.NoError(t, err)
		assert.Equal(t, int64(5000), sc.MinAdvanceBps)
		assert.Equal(t, "EUR", sc.Currency)

		sc, err = c.Config(ctx, "legalization")
		assert.NoError(t, err)
		assert.True(t, sc.AllowPartialCompletion)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := Load(`{not json`)
		assert.Error(t, err)
	})

	t.Run("missing code", func(t *testing.T) {
		_, err := Load(`[{"min_advance_bps": 1000}]`)
		assert.Error(t, err)
	})

	t.Run("out of range advance", func(t *testing.T) {
		_, err := Load(`[{"code": "x", "min_advance_bps": 10001}]`)
		assert.Error(t, err)
	})
}

func TestMinAdvanceCents(t *testing.T) {
	tests := []struct {
		name string
		bps  int64
		cost int64
		want int64
	}{
		{"20 percent of 1000.00", 2000, 100000, 20000},
		{"rounds up", 2000, 101, 21},  // 20.2 cents -> 21
		{"zero threshold", 0, 100000, 0},
		{"full advance", 10000, 100000, 100000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := ServiceConfig{Code: "x", MinAdvanceBps: tt.bps}
			assert.Equal(t, tt.want, sc.MinAdvanceCents(tt.cost))
		})
	}
}
