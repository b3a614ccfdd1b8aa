package kernel_test

import (
	"math"
	"testing"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantCents int64
		wantErr   error
	}{
		{name: "integer", raw: "10", wantCents: 1000},
		{name: "one decimal", raw: "10.5", wantCents: 1050},
		{name: "two decimals with spaces", raw: " 12.25 ", wantCents: 1225},
		{name: "rounds to cents", raw: "19.999", wantCents: 2000},
		{name: "zero is allowed", raw: "0", wantCents: 0},
		{name: "empty", raw: "  ", wantErr: errs.ErrValueIsRequired},
		{name: "not a number", raw: "ten", wantErr: errs.ErrValueIsInvalid},
		{name: "negative", raw: "-1", wantErr: errs.ErrValueIsOutOfRange},
		{name: "negative below a cent", raw: "-0.001", wantErr: errs.ErrValueIsOutOfRange},
		{name: "too large", raw: "100000000", wantErr: errs.ErrValueIsOutOfRange},
		{name: "infinity", raw: "Inf", wantErr: errs.ErrValueIsInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := kernel.ParseMoney(tt.raw)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCents, m.Cents())
		})
	}
}

func TestMoneyFromFloat(t *testing.T) {
	m, err := kernel.MoneyFromFloat(50)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), m.Cents())
	assert.InDelta(t, 50.0, m.Float(), 0.0001)
	assert.True(t, m.IsPositive())
	assert.Equal(t, "50.00", m.String())

	_, err = kernel.MoneyFromFloat(math.NaN())
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = kernel.MoneyFromFloat(-0.004)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestMoney_ZeroAndEquality(t *testing.T) {
	zero, err := kernel.NewMoneyFromCents(0)
	require.NoError(t, err)
	assert.False(t, zero.IsPositive())
	assert.Equal(t, "0.00", zero.String())

	a, _ := kernel.NewMoneyFromCents(1005)
	b, _ := kernel.ParseMoney("10.05")
	assert.True(t, a.IsEqual(b))
}
