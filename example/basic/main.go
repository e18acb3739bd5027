package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/skillsnav/atlas"
	"github.com/skillsnav/atlas/model"
)

// Minimal corpus so the example runs without the full dataset.
const jobRolesCSV = `Track,Track Code,Specialisation,Description,Skills
Data,DA,Data Scientist,Builds predictive models from large datasets using Python and SQL.,"Python, SQL, Machine Learning"
Data,DA,Data Engineer,Designs and operates data pipelines and warehouses.,"SQL, ETL, Cloud Computing"
Software,SW,Backend Developer,Implements services and APIs.,"Go, SQL, Distributed Systems"
`

const fragmentCSV = `TSC Code,TSC Title,TSC Description,Proficiency Level,Knowledge / Ability Classification,Knowledge / Ability Items
DAT-001,Machine Learning,Design and train statistical models.,3,Knowledge,Supervised learning methods
DAT-001,Machine Learning,Design and train statistical models.,3,Ability,Train and evaluate a classification model
DAT-001,Machine Learning,Design and train statistical models.,4,Ability,Deploy models to production
DAT-002,Cloud Computing,Operate workloads on cloud platforms.,3,Knowledge,Core cloud service models
`

const keyLegendCSV = `Key,Description
TSC,Technical Skill and Competency
PL,Proficiency Level
`

func main() {
	dir, err := os.MkdirTemp("", "atlas-example")
	if err != nil {
		log.Fatalf("Failed to create corpus dir: %v", err)
	}
	defer os.RemoveAll(dir)

	paths := model.CorpusPaths{
		JobRoles:  writeFile(dir, "job_roles.csv", jobRolesCSV),
		Fragments: []string{writeFile(dir, "tsc_fragment_1.csv", fragmentCSV)},
		KeyLegend: writeFile(dir, "key_legend.csv", keyLegendCSV),
	}

	// Uses the local all-MiniLM-L6-v2 model, downloaded on first run.
	a, err := atlas.New(nil)
	if err != nil {
		log.Fatalf("Failed to create atlas: %v", err)
	}
	defer a.Close()

	ctx := context.Background()

	stats, err := a.BuildIndex(ctx, paths)
	if err != nil {
		log.Fatalf("Failed to build index: %v", err)
	}
	fmt.Printf("Indexed %d documents (%d job roles, %d skills)\n\n",
		stats.Documents, stats.JobRoles, stats.Skills)

	questions := []string{
		"What skills do I need to become a data scientist?",
		"I want to find a job working with cloud computing",
		"What does proficiency level 3 mean?",
	}

	for _, question := range questions {
		response, err := a.ProcessUserQuery(ctx, question)
		if err != nil {
			log.Fatalf("Query failed: %v", err)
		}

		fmt.Printf("Q: %s\n", question)
		fmt.Printf("A: %s\n", response.Response)
		fmt.Printf("Confidence: %.2f\n", response.Confidence)
		for _, source := range response.Sources {
			fmt.Printf("  - %s (%s, score %.2f)\n", source.Title, source.Type, source.Score)
		}
		fmt.Println()
	}
}

func writeFile(dir, name, content string) string {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}
