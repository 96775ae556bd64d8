package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mloh16/food-oasis/internal/stakeholder/models"
)

func coords(lat, lng float64) (*float64, *float64) {
	return &lat, &lng
}

func TestDistanceMiles(t *testing.T) {
	t.Run("one degree of longitude at Los Angeles latitude", func(t *testing.T) {
		d := distanceMiles(34.0522, -118.2437, 34.0522, -117.2437)
		assert.InDelta(t, 57.3, d, 0.5)
	})

	t.Run("zero distance at the origin", func(t *testing.T) {
		assert.Zero(t, distanceMiles(34.0522, -118.2437, 34.0522, -118.2437))
	})

	t.Run("one degree of latitude is about 69 miles regardless of longitude scaling", func(t *testing.T) {
		d := distanceMiles(34.0522, -118.2437, 35.0522, -118.2437)
		assert.InDelta(t, 69.097, d, 0.001)
	})
}

func TestRankByDistance(t *testing.T) {
	newRecord := func(name string, lat, lng *float64) *models.StakeholderVersion {
		return &models.StakeholderVersion{Name: name, Latitude: lat, Longitude: lng}
	}

	t.Run("sorts ascending with missing coordinates last", func(t *testing.T) {
		farLat, farLng := coords(35.0, -118.2437)
		nearLat, nearLng := coords(34.06, -118.25)
		records := []*models.StakeholderVersion{
			newRecord("far", farLat, farLng),
			newRecord("no coords", nil, nil),
			newRecord("near", nearLat, nearLng),
		}

		ranked := rankByDistance(records, 34.0522, -118.2437, 0)
		require.Len(t, ranked, 3)
		assert.Equal(t, "near", ranked[0].Name)
		assert.Equal(t, "far", ranked[1].Name)
		assert.Equal(t, "no coords", ranked[2].Name)
		require.NotNil(t, ranked[2].Distance)
		assert.Equal(t, float64(999), *ranked[2].Distance)
	})

	t.Run("positive radius drops records beyond it, including unknowns", func(t *testing.T) {
		nearLat, nearLng := coords(34.06, -118.25)
		farLat, farLng := coords(36.0, -118.2437)
		records := []*models.StakeholderVersion{
			newRecord("near", nearLat, nearLng),
			newRecord("far", farLat, farLng),
			newRecord("no coords", nil, nil),
		}

		ranked := rankByDistance(records, 34.0522, -118.2437, 50)
		require.Len(t, ranked, 1)
		assert.Equal(t, "near", ranked[0].Name)
	})

	t.Run("zero radius keeps everything", func(t *testing.T) {
		records := []*models.StakeholderVersion{
			newRecord("no coords", nil, nil),
		}
		ranked := rankByDistance(records, 34.0522, -118.2437, 0)
		assert.Len(t, ranked, 1)
	})

	t.Run("equal distances keep their incoming order", func(t *testing.T) {
		aLat, aLng := coords(34.0522, -118.2437)
		bLat, bLng := coords(34.0522, -118.2437)
		records := []*models.StakeholderVersion{
			{Name: "alpha", Latitude: aLat, Longitude: aLng},
			{Name: "beta", Latitude: bLat, Longitude: bLng},
		}
		ranked := rankByDistance(records, 34.0522, -118.2437, 0)
		assert.Equal(t, "alpha", ranked[0].Name)
		assert.Equal(t, "beta", ranked[1].Name)
	})
}
