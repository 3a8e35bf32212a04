package offer

const (
	reliabilityWeight = 0.7
	headroomWeight    = 0.3
)

// Ranking marks the best and worst offers of a set for display.
type Ranking struct {
	BestID  string `json:"bestId"`
	WorstID string `json:"worstId"`
}

// Score weighs reliability over headroom.
func Score(o Offer) float64 {
	return o.Reliability*reliabilityWeight + o.Headroom*headroomWeight
}

// Rank returns the highest and lowest scoring offers; the first occurrence wins ties.
// ok is false for an empty slice.
func Rank(offers []Offer) (best, worst Offer, ok bool) {
	if len(offers) == 0 {
		return Offer{}, Offer{}, false
	}
	best, worst = offers[0], offers[0]
	for _, o := range offers[1:] {
		if Score(o) > Score(best) {
			best = o
		}
		if Score(o) < Score(worst) {
			worst = o
		}
	}
	return best, worst, true
}

// RankSet ranks every offer in the set.
func RankSet(set *OfferSet) Ranking {
	best, worst, ok := Rank(set.All())
	if !ok {
		return Ranking{}
	}
	return Ranking{BestID: best.ID, WorstID: worst.ID}
}
