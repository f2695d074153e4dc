package classify

import "github.com/seenimoa/econpulse/pkg/models"

// The class order of the inference service is pinned here and nowhere
// else: index 0 is negative, 1 neutral, 2 positive. The point values
// carry the sign of the daily aggregate, so this mapping must never
// drift from the service contract.

// FromProbs maps a probability vector to its label and point value by
// highest probability. Ties resolve to the lowest index, matching the
// service's own argmax.
func FromProbs(probs []float64) (models.Sentiment, int) {
	best := 0
	for i := 1; i < len(probs); i++ {
		if probs[i] > probs[best] {
			best = i
		}
	}
	return fromClass(best)
}

// fromClass maps a class index to (label, points).
func fromClass(idx int) (models.Sentiment, int) {
	switch idx {
	case 0:
		return models.SentimentNegative, -1
	case 2:
		return models.SentimentPositive, 1
	default:
		return models.SentimentNeutral, 0
	}
}
