package geo

import (
	"context"
	"math"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// earthRadiusKM is the mean Earth radius.
const earthRadiusKM = 6371.0

// Haversine returns the great-circle distance between two points in
// kilometers.
func Haversine(a, b Coordinate) float64 {
	phi1 := radians(a.Lat)
	phi2 := radians(b.Lat)
	dPhi := radians(b.Lat - a.Lat)
	dLambda := radians(b.Lon - a.Lon)

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return earthRadiusKM * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// OptimizeRoute orders places by repeated nearest-neighbour hops starting
// from the first place. Place coordinates are resolved concurrently on
// the shared goroutine pool; places that fail to geocode keep their
// relative order at the end of the result.
func (c *Client) OptimizeRoute(ctx context.Context, places []string) ([]string, error) {
	if len(places) <= 2 {
		return places, nil
	}

	coords := make(map[string]Coordinate, len(places))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, place := range places {
		place := place
		wg.Add(1)
		task := func() {
			defer wg.Done()
			point, err := c.Geocode(ctx, place)
			if err != nil {
				return
			}
			mu.Lock()
			coords[place] = point
			mu.Unlock()
		}
		if err := ants.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()

	distance := func(a, b string) float64 {
		pa, okA := coords[a]
		pb, okB := coords[b]
		if !okA || !okB {
			return math.Inf(1)
		}
		return Haversine(pa, pb)
	}

	remaining := append([]string(nil), places[1:]...)
	route := []string{places[0]}
	for len(remaining) > 0 {
		current := route[len(route)-1]
		nearestIdx := 0
		nearestDist := math.Inf(1)
		for i, place := range remaining {
			if d := distance(current, place); d < nearestDist {
				nearestDist = d
				nearestIdx = i
			}
		}
		route = append(route, remaining[nearestIdx])
		remaining = append(remaining[:nearestIdx], remaining[nearestIdx+1:]...)
	}
	return route, nil
}
