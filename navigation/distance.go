package navigation

import (
	"math"

	"kuanb/gosm-navigator/geom"
)

const (
	feetPerMeter = 3.2808399
	feetPerMile  = 5280
)

// distanceVocabulary lists the numbers a restricted speech backend can say.
var distanceVocabulary = [...]int{1, 2, 3, 4, 5, 10, 25, 50, 75, 100, 150, 200, 250, 300, 400, 500, 750}

// RoundDistance rounds a distance in meters to the precision it is announced
// with: coarser the further away it is.
func RoundDistance(dist int) int {
	switch {
	case dist < 100:
		return (dist + 5) / 10 * 10
	case dist < 250:
		return (dist + 13) / 25 * 25
	case dist < 500:
		return (dist + 25) / 50 * 50
	case dist < 5000:
		return (dist + 50) / 100 * 100
	case dist < 100000:
		return (dist + 500) / 1000 * 1000
	}
	return (dist + 5000) / 10000 * 10000
}

// roundForVocabulary scales dist down by factor and snaps it to the nearest
// pronounceable number when the vocabulary lacks arbitrary distances.
func (n *Navigation) roundForVocabulary(dist, factor int) int {
	if n.cfg.Vocabulary.Distances {
		return dist
	}
	dist = (dist + factor/2) / factor
	best := 0
	for i, d := range distanceVocabulary {
		if i == 0 || geom.Abs(d-dist) <= geom.Abs(distanceVocabulary[best]-dist) {
			best = i
		}
		if d > dist {
			break
		}
	}
	return distanceVocabulary[best] * factor
}

func (n *Navigation) vocabularyLast() int {
	if n.cfg.Vocabulary.Distances {
		return 1000
	}
	return distanceVocabulary[len(distanceVocabulary)-1]
}

// formatDistance renders dist meters. isLength selects the plain form ("500
// meters") over the approach form ("in 500 meters").
func (n *Navigation) formatDistance(dist int, mode Mode, isLength bool) string {
	p := n.phrases
	if mode == ModeLong {
		if isLength {
			return p.Sprintf("%d m", dist)
		}
		return p.Sprintf("in %d m", dist)
	}

	if n.cfg.Imperial {
		if feet := int(float64(dist) * feetPerMeter); feet < n.vocabularyLast() {
			feet = n.roundForVocabulary(feet, 1)
			if isLength {
				return p.Sprintf("%d feet", feet)
			}
			return p.Sprintf("in %d feet", feet)
		}
	} else if dist < n.vocabularyLast() {
		dist = n.roundForVocabulary(dist, 1)
		if isLength {
			return p.Sprintf("%d meters", dist)
		}
		return p.Sprintf("in %d meters", dist)
	}

	if n.cfg.Imperial {
		dist = int(math.Round(float64(dist) * feetPerMeter * 1000 / feetPerMile))
	}
	dist = n.roundForVocabulary(dist, 1000)
	whole, tenth := dist/1000, dist/100%10
	if dist < 5000 && tenth != 0 {
		switch {
		case n.cfg.Imperial && isLength:
			return p.Sprintf("%d.%d miles", whole, tenth)
		case n.cfg.Imperial:
			return p.Sprintf("in %d.%d miles", whole, tenth)
		case isLength:
			return p.Sprintf("%d.%d kilometers", whole, tenth)
		}
		return p.Sprintf("in %d.%d kilometers", whole, tenth)
	}
	switch {
	case n.cfg.Imperial && isLength:
		return p.Nsprintf(whole, "one mile", "%d miles", whole)
	case n.cfg.Imperial:
		return p.Nsprintf(whole, "in one mile", "in %d miles", whole)
	case isLength:
		return p.Nsprintf(whole, "one kilometer", "%d kilometers", whole)
	}
	return p.Nsprintf(whole, "in one kilometer", "in %d kilometers", whole)
}
