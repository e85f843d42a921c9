package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogOrderIsStable(t *testing.T) {
	a := Default()
	b := Default()

	require.Equal(t, len(a.Games()), len(b.Games()))
	for i := range a.Games() {
		require.Equal(t, a.Games()[i].Name, b.Games()[i].Name)
		require.Equal(t, a.Games()[i].Denominations, b.Games()[i].Denominations)
	}
}

func TestLookupByIndex(t *testing.T) {
	c := Default()

	g, ok := c.Game(0)
	require.True(t, ok)
	require.Equal(t, "Mobile Legends: Bang Bang", g.Name)

	d, ok := c.Denomination(0, 0)
	require.True(t, ok)
	require.Equal(t, "8 алмазов", d.Label)
	require.Equal(t, 15.9, d.Price)

	_, ok = c.Game(len(c.Games()))
	require.False(t, ok)
	_, ok = c.Game(-1)
	require.False(t, ok)
	_, ok = c.Denomination(0, len(g.Denominations))
	require.False(t, ok)
}

func TestEveryGameHasPricedDenominations(t *testing.T) {
	c := Default()
	require.NotEmpty(t, c.Games())

	for _, g := range c.Games() {
		require.NotEmpty(t, g.Denominations, g.Name)
		for _, d := range g.Denominations {
			require.NotEmpty(t, d.Label, g.Name)
			require.Greater(t, d.Price, 0.0, "%s / %s", g.Name, d.Label)
		}
	}
}
