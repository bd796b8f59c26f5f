package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Generates a sample transport fee table for local development. The
// file format is one "CITY,FEE" pair per line; the special city
// "DEFAULT" sets the fallback fee for cities not listed. Run with:
// go run scripts/genfeetable/main.go
func main() {
	dataDir := "data/transport"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	filePath := filepath.Join(dataDir, "fee_table.csv")

	file, err := os.Create(filePath)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", filePath, err)
	}
	defer file.Close()

	fmt.Fprintln(file, "# Transport fee table: CITY,FEE (COP)")
	fmt.Fprintln(file, "# Cities listed here form the service area.")

	fees := []struct {
		city string
		fee  int
	}{
		{"Bogotá", 8000},
		{"Bogotá D.C.", 8000},
		{"Chía", 5000},
		{"Cajicá", 8000},
		{"Sopó", 8000},
		{"La Calera", 10000},
		{"Cota", 8000},
		{"DEFAULT", 20000},
	}

	for _, f := range fees {
		if _, err := fmt.Fprintf(file, "%s,%d\n", f.city, f.fee); err != nil {
			log.Fatalf("Failed to write fee line: %v", err)
		}
	}

	fmt.Printf("Created %s with %d cities\n", filePath, len(fees)-1)
}
