package ai

// OfferQuery is the trip description sent to the model.
type OfferQuery struct {
	Origin         string    `json:"origin"`
	Dest           string    `json:"dest"`
	DesiredArrival string    `json:"desiredArrival"`
	TripMiles      float64   `json:"tripMiles"`
	Flex           QueryFlex `json:"flex"`
	Horizon        string    `json:"horizon,omitempty"`
}

type QueryFlex struct {
	On       bool `json:"on"`
	MinShift int  `json:"minShift"`
	MaxShift int  `json:"maxShift"`
}

// OfferPlan captures the structured output from the model.
type OfferPlan struct {
	Traffic TrafficAssessment `json:"traffic"`

	// LaneFamily is one of LEFT/LONG, MIDDLE/MIXED, RIGHT/SHORT.
	LaneFamily string `json:"laneFamily"`

	Parent WindowScore `json:"parent"`

	// Earlier and Later hold minute offsets from the desired arrival; earlier ones are negative.
	Earlier []ShiftScore `json:"earlier"`
	Later   []ShiftScore `json:"later"`
}

type TrafficAssessment struct {
	Level     string  `json:"level"`
	Density   float64 `json:"density"`
	Reasoning string  `json:"reasoning"`
}

type WindowScore struct {
	Reliability float64 `json:"reliability"`
	Headroom    float64 `json:"headroom"`
}

type ShiftScore struct {
	Minutes     int     `json:"minutes"`
	Reliability float64 `json:"reliability"`
	Headroom    float64 `json:"headroom"`
}
