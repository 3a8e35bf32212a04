package ai

import (
	"encoding/json"
	"strings"
)

const planInstructions = `You are a traffic scheduling assistant. Given origin, destination, local arrival time and trip miles, ` +
	`evaluate likely congestion (LOW/MEDIUM/HIGH) and suggest up to two earlier and two later windows ` +
	`(expressed as minute offsets from the arrival time, earlier offsets negative, later offsets positive, ` +
	`within the flex minShift..maxShift bounds), with reliability (0.5-0.99) and headroom (0.1-0.9). ` +
	`Also suggest a lane family: LEFT/LONG | MIDDLE/MIXED | RIGHT/SHORT. Respond only with JSON of the form:
{
  "traffic": {"level": "LOW" | "MEDIUM" | "HIGH", "density": number, "reasoning": string},
  "laneFamily": "LEFT/LONG" | "MIDDLE/MIXED" | "RIGHT/SHORT",
  "parent": {"reliability": number, "headroom": number},
  "earlier": [{"minutes": integer, "reliability": number, "headroom": number}],
  "later": [{"minutes": integer, "reliability": number, "headroom": number}]
}`

var laneFamilies = []string{"LEFT/LONG", "MIDDLE/MIXED", "RIGHT/SHORT"}

var trafficLevels = []string{"LOW", "MEDIUM", "HIGH"}

func buildUserPrompt(q OfferQuery) (string, error) {
	b, err := json.Marshal(q)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// cleanJSONString removes markdown code fences if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}

func decodePlan(raw string) (*OfferPlan, error) {
	var plan OfferPlan
	if err := json.Unmarshal([]byte(cleanJSONString(raw)), &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}
