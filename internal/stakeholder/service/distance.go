package service

import (
	"math"
	"sort"

	"github.com/Mloh16/food-oasis/internal/stakeholder/models"
)

// milesPerDegree converts degrees of latitude to statute miles.
const milesPerDegree = 69.097

// unknownDistance is assigned to records missing a coordinate so they sort
// last and fall outside any positive radius.
const unknownDistance = 999

// distanceMiles approximates the distance between two coordinates on a flat
// projection, with the longitude delta scaled by the cosine of the origin
// latitude. Accurate enough at city scale, which is the search's use case.
func distanceMiles(originLat, originLng, lat, lng float64) float64 {
	dLng := math.Abs(lng-originLng) * math.Cos(originLat/360*2*math.Pi)
	dLat := math.Abs(lat - originLat)
	return math.Sqrt(dLng*dLng+dLat*dLat) * milesPerDegree
}

// rankByDistance annotates each record with its distance from the origin,
// sorts ascending (stable, so equal distances keep their name order), and
// drops records beyond radius when radius is positive.
func rankByDistance(records []*models.StakeholderVersion, originLat, originLng, radius float64) []*models.StakeholderVersion {
	for _, r := range records {
		d := float64(unknownDistance)
		if r.Latitude != nil && r.Longitude != nil {
			d = distanceMiles(originLat, originLng, *r.Latitude, *r.Longitude)
		}
		dist := d
		r.Distance = &dist
	}
	sort.SliceStable(records, func(i, j int) bool {
		return *records[i].Distance < *records[j].Distance
	})
	if radius <= 0 {
		return records
	}
	filtered := records[:0]
	for _, r := range records {
		if *r.Distance <= radius {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
