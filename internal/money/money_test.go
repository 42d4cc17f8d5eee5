package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFromMajor(t *testing.T) {
	t.Run("parses and rounds to two places", func(t *testing.T) {
		d, ok := FromMajor("1000.005")
		assert.True(t, ok)
		assert.Equal(t, "1000.01", d.StringFixed(2))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, ok := FromMajor("ten rupees")
		assert.False(t, ok)
	})
}

func TestClampNonNegative(t *testing.T) {
	neg := decimal.NewFromInt(-5)
	assert.True(t, ClampNonNegative(neg).IsZero())

	pos := decimal.NewFromInt(5)
	assert.True(t, ClampNonNegative(pos).Equal(pos))
}

func TestToMinorUnits(t *testing.T) {
	amount := decimal.RequireFromString("970.50")
	assert.Equal(t, int64(97050), ToMinorUnits(amount))
}

func TestSum(t *testing.T) {
	total := Sum(
		decimal.RequireFromString("1.10"),
		decimal.RequireFromString("2.20"),
		decimal.RequireFromString("3.30"),
	)
	assert.Equal(t, "6.60", total.StringFixed(2))

	assert.True(t, Sum().IsZero())
}
