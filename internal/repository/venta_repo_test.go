package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRangoFechas_PorDefecto(t *testing.T) {
	bogota := time.FixedZone("America/Bogota", -5*3600)
	now := time.Date(2026, 3, 15, 21, 30, 0, 0, bogota)

	inicio, fin := rangoFechas("", "", now)

	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, bogota), inicio)
	// The upper bound is tomorrow's local midnight, not a UTC midnight shifted
	// by the store's offset.
	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, bogota), fin)
}

func TestRangoFechas_Explicito(t *testing.T) {
	bogota := time.FixedZone("America/Bogota", -5*3600)
	now := time.Date(2026, 3, 15, 9, 0, 0, 0, bogota)

	inicio, fin := rangoFechas("2026-03-01", "2026-03-10", now)

	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, bogota), inicio)
	// hasta is inclusive: the interval is half-open at the next midnight.
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, bogota), fin)
}
