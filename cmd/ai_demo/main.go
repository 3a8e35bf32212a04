package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"ease/internal/ai"
)

// Prints the raw offer plan the configured provider returns for a sample commute.
func main() {
	provider := os.Getenv("EASE_AI_PROVIDER")
	apiKey := os.Getenv("OPENAI_API_KEY")
	if provider == ai.ProviderGemini {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	planner, closeFn, err := ai.NewPlanner(ctx, provider, apiKey, os.Getenv("EASE_AI_MODEL"))
	if err != nil {
		log.Fatalf("Failed to initialize AI provider: %v", err)
	}
	defer closeFn()

	q := ai.OfferQuery{
		Origin:         "Union Station, Chicago",
		Dest:           "O'Hare International Airport",
		DesiredArrival: time.Now().Add(24 * time.Hour).Format("2006-01-02") + "T08:30",
		TripMiles:      18,
		Flex:           ai.QueryFlex{On: true, MinShift: 15, MaxShift: 60},
	}
	fmt.Printf("Query: %s -> %s by %s\n", q.Origin, q.Dest, q.DesiredArrival)

	plan, err := planner.PlanOffers(ctx, q)
	if err != nil {
		log.Fatalf("Error planning offers: %v", err)
	}

	out, _ := json.MarshalIndent(plan, "", "  ")
	fmt.Println(string(out))
}
