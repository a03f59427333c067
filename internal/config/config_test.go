package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/ledmatrix/internal/layout"
	"github.com/coreman2200/ledmatrix/model"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	l, err := c.Layout()
	require.NoError(t, err)
	assert.Equal(t, layout.Layout{Width: 10, Height: 7, Origin: layout.NorthEast, Orientation: layout.AlternatingColumn}, l)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
driver: stream
rows: 3
cols: 16
color_order: grbw
pins: [GPIO18, GPIO13, GPIO21]
power:
  budget_ma: 1500
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, c.Validate())
	assert.Equal(t, 16, c.Cols)
	assert.Equal(t, "NORTHEAST", c.Origin, "unset keys keep defaults")
	assert.Equal(t, 1500.0, c.Power.BudgetmA)
	assert.Equal(t, 20.0, c.Power.ChannelmA)
	o, err := model.ParseChannelOrder(c.ColorOrder)
	require.NoError(t, err)
	assert.Equal(t, model.OrderGRBW, o)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	c := Default()
	c.Text = "saved"
	require.NoError(t, Save(path, &c))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, *got)
}

func TestValidateCollectsProblems(t *testing.T) {
	c := Default()
	c.Rows = 0
	c.ColorOrder = "BGR"
	c.Brightness = 2
	c.Driver = "pwm"
	err := c.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, layout.ErrInvalidLayout)
	assert.ErrorIs(t, err, model.ErrUnsupportedOrder)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestStreamPinsMustMatchRows(t *testing.T) {
	c := Default()
	c.Driver = "stream"
	c.Pins = []string{"GPIO18", "GPIO13"}
	assert.ErrorIs(t, c.Validate(), ErrInvalid)
}

func TestSPIRejectsWhiteOrders(t *testing.T) {
	c := Default()
	c.ColorOrder = "GRBW"
	err := c.Validate()
	assert.ErrorIs(t, err, ErrInvalid)
	assert.ErrorIs(t, err, model.ErrUnsupportedOrder)

	c.Driver = "stream"
	c.Pins = []string{"1", "2", "3", "4", "5", "6", "7"}
	assert.NoError(t, c.Validate(), "streamed pins carry white")
}
