package main

import (
	"context"
	"fmt"
	"time"

	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/lib/gesture"
)

func main() {
	fmt.Println("Testing Gesture Conflict Resolution")

	ctx := context.Background()
	resolver := gesture.NewResolver()
	now := time.Now()

	// Simultaneous map pan and custom pattern recognizer on the same spot
	resolver.Register(ctx, gesture.Gesture{
		ID:        "map-pan",
		Type:      gesture.TypeMap,
		Timestamp: now,
	})
	resolver.Register(ctx, gesture.Gesture{
		ID:        "custom-pattern",
		Type:      gesture.TypeCustom,
		Timestamp: now.Add(20 * time.Millisecond),
	})

	fmt.Printf("Active gestures: %d\n", len(resolver.ActiveGestures()))
	fmt.Printf("map-pan can proceed: %t\n", resolver.CanProceed("map-pan"))
	fmt.Printf("custom-pattern can proceed: %t\n", resolver.CanProceed("custom-pattern"))

	for _, resolution := range resolver.History() {
		fmt.Printf("Resolution: winner=%s reason=%q conflicting=%v\n",
			resolution.WinnerID, resolution.Reason, resolution.Conflicting)
	}

	// Raise the pan priority above the pattern recognizer and retry
	resolver.ClearAll()
	resolver.SetPriority("map-pan", 99)

	resolver.Register(ctx, gesture.Gesture{
		ID:        "map-pan",
		Type:      gesture.TypeMap,
		Timestamp: now,
	})
	resolver.Register(ctx, gesture.Gesture{
		ID:        "custom-pattern",
		Type:      gesture.TypeCustom,
		Timestamp: now.Add(20 * time.Millisecond),
	})

	fmt.Println("\nAfter overriding map-pan priority to 99:")
	fmt.Printf("map-pan can proceed: %t\n", resolver.CanProceed("map-pan"))
	fmt.Printf("custom-pattern can proceed: %t\n", resolver.CanProceed("custom-pattern"))
}
