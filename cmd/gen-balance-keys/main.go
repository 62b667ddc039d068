package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"go/format"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Generates internal/balance/keys.go from the shipped balance tables so code
// and tests can reference upgrade and project ids as typed constants. Ids
// keep their table order; categories keep first-appearance order.

type row struct {
	ID       string
	Category string
}

func main() {
	configDir := flag.String("config", "configs/balance", "Path to balance table directory")
	outputPath := flag.String("output", "internal/balance/keys.go", "Path to output keys.go file")
	flag.Parse()

	upgrades, err := readIDs(filepath.Join(*configDir, "upgrades.csv"), "category")
	if err != nil {
		log.Fatalf("Failed to read upgrades table: %v", err)
	}
	projects, err := readIDs(filepath.Join(*configDir, "projects.csv"), "")
	if err != nil {
		log.Fatalf("Failed to read projects table: %v", err)
	}

	code, err := generateKeysFile(upgrades, projects)
	if err != nil {
		log.Fatalf("Failed to generate code: %v", err)
	}

	dir := filepath.Dir(*outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}
	if err := os.WriteFile(*outputPath, code, 0644); err != nil {
		log.Fatalf("Failed to write output file: %v", err)
	}

	fmt.Printf("✓ Generated %s with %d keys\n", *outputPath, len(upgrades)+len(projects))
}

// readIDs reads the id column of one balance table, keeping row order. When
// groupColumn is non-empty that column is captured alongside each id.
func readIDs(path, groupColumn string) ([]row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comment = '#'
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty table", path)
	}

	idCol, groupCol := -1, -1
	for i, name := range records[0] {
		switch strings.TrimSpace(name) {
		case "id":
			idCol = i
		case groupColumn:
			groupCol = i
		}
	}
	if idCol == -1 {
		return nil, fmt.Errorf("%s: no id column", path)
	}

	var rows []row
	for _, record := range records[1:] {
		if idCol >= len(record) || record[idCol] == "" {
			continue
		}
		entry := row{ID: record[idCol]}
		if groupCol != -1 && groupCol < len(record) {
			entry.Category = record[groupCol]
		}
		rows = append(rows, entry)
	}
	return rows, nil
}

func generateKeysFile(upgrades, projects []row) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString(`package balance

// Upgrade and project ids shipped in the standard balance tables
// This file is auto-generated from configs/balance/*.csv
// Do NOT edit manually - run: go run ./cmd/gen-balance-keys
`)

	sb.WriteString("\nconst (\n")

	// Upgrades grouped by category, in table order
	var categories []string
	grouped := make(map[string][]row)
	for _, u := range upgrades {
		if _, seen := grouped[u.Category]; !seen {
			categories = append(categories, u.Category)
		}
		grouped[u.Category] = append(grouped[u.Category], u)
	}
	for i, category := range categories {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("\t// %s\n", titleCase(category)))
		for _, u := range grouped[category] {
			sb.WriteString(fmt.Sprintf("\tUpgrade%s = %q\n", pascalCase(u.ID), u.ID))
		}
	}

	if len(projects) > 0 {
		sb.WriteString("\n\t// Projects\n")
		for _, p := range projects {
			sb.WriteString(fmt.Sprintf("\tProject%s = %q\n", pascalCase(p.ID), p.ID))
		}
	}

	sb.WriteString(")\n")

	// gofmt the output so the checked-in file never drifts from what a
	// formatter would produce.
	return format.Source([]byte(sb.String()))
}

// pascalCase converts learn_coding to LearnCoding
func pascalCase(s string) string {
	parts := strings.Split(s, "_")
	var result strings.Builder
	for _, part := range parts {
		if part != "" {
			result.WriteString(strings.ToUpper(part[:1]) + part[1:])
		}
	}
	return result.String()
}

// titleCase capitalizes a single lowercase word for a group comment
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
