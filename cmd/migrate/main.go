// Command migrate initializes the detection event database and prints its
// current contents, for provisioning a fresh ground station or inspecting
// an existing one.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/storage"
)

func main() {
	dbPath := flag.String("db", "data/detections.db", "Database path")
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	// NewStore applies the schema, so opening is the migration.
	store, err := storage.NewStore(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	fmt.Printf("Database ready at %s\n", *dbPath)

	stats, err := store.GetStats()
	if err != nil {
		log.Fatalf("Failed to read stats: %v", err)
	}

	fmt.Printf("Total events: %v\n", stats["total_events"])
	if counts, ok := stats["label_counts"].(map[string]int); ok && len(counts) > 0 {
		fmt.Println("Detections per label:")
		for label, count := range counts {
			fmt.Printf("   - %s: %d\n", label, count)
		}
	}
}
