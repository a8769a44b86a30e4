package marketdata

import (
	"math"
	"math/rand"
	"time"

	"github.com/Alias1177/Analyzer/models"
)

// Synthetic generates a deterministic random-walk observation series for the
// CLI fallback mode. The same seed always yields the same series.
func Synthetic(n int, start time.Time, step time.Duration, seed int64) []models.DataPoint {
	rng := rand.New(rand.NewSource(seed))

	points := make([]models.DataPoint, n)
	price := 100.0
	for i := 0; i < n; i++ {
		price = math.Max(1, price+rng.NormFloat64())
		points[i] = models.DataPoint{
			Timestamp: start.Add(time.Duration(i) * step),
			Price:     price,
			Volume:    1000 + float64(rng.Intn(500)),
		}
	}
	return points
}
