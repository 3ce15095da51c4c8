package stats

import "github.com/elevatorsim/smdp-elevator/internal/world"

// EpisodeAverages is one row of the per-passenger statistics CSV (§8,
// "passenger_statistics_{train|test}_{K}.csv"): averages over every
// passenger World delivered during a single episode.
type EpisodeAverages struct {
	Episode                int
	AvgWaitingTime         float64
	AvgBoardingTime        float64
	AvgSystemTime          float64
	FractionWaitingOver60s float64
}

// Aggregate reduces an episode's completed passenger records to the CSV
// row's four statistics (three averages and the over-60s fraction). An episode with no completed passengers yields all
// zeros rather than dividing by zero.
func Aggregate(episode int, completed []world.PassengerRecord) EpisodeAverages {
	avg := EpisodeAverages{Episode: episode}
	if len(completed) == 0 {
		return avg
	}

	var waitSum, boardSum, sysSum float64
	over60 := 0
	for _, r := range completed {
		wait := r.WaitingTime()
		waitSum += wait
		boardSum += r.BoardingTime()
		sysSum += r.SystemTime()
		if wait > 60 {
			over60++
		}
	}

	n := float64(len(completed))
	avg.AvgWaitingTime = waitSum / n
	avg.AvgBoardingTime = boardSum / n
	avg.AvgSystemTime = sysSum / n
	avg.FractionWaitingOver60s = float64(over60) / n
	return avg
}
