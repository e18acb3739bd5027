package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/skillsnav/atlas"
	"github.com/skillsnav/atlas/helper"
	"github.com/skillsnav/atlas/model"
)

// Demonstrates persisting the index to postgres/pgvector and restoring
// it in a fresh instance without re-reading the corpus. Expects the
// DB_* environment variables (or a .env file) to point at a database
// with the pgvector extension available.
func main() {
	config, err := helper.NewDatabaseConfiguration()
	if err != nil {
		log.Fatalf("Failed to read database configuration: %v", err)
	}

	dir, err := os.MkdirTemp("", "atlas-snapshot-example")
	if err != nil {
		log.Fatalf("Failed to create corpus dir: %v", err)
	}
	defer os.RemoveAll(dir)

	paths := model.CorpusPaths{
		JobRoles: writeFile(dir, "job_roles.csv",
			"Track,Track Code,Specialisation,Description,Skills\n"+
				"Data,DA,Data Scientist,Builds predictive models using Python and SQL.,\"Python, SQL\"\n"),
		Fragments: []string{writeFile(dir, "tsc_fragment_1.csv",
			"TSC Code,TSC Title,TSC Description,Proficiency Level,Knowledge / Ability Classification,Knowledge / Ability Items\n"+
				"DAT-001,Machine Learning,Train statistical models.,3,Knowledge,Supervised learning methods\n")},
		KeyLegend: writeFile(dir, "key_legend.csv",
			"Key,Description\nTSC,Technical Skill and Competency\n"),
	}

	ctx := context.Background()

	// Build and persist.
	writer, err := atlas.New(nil)
	if err != nil {
		log.Fatalf("Failed to create atlas: %v", err)
	}
	defer writer.Close()

	if err := writer.EnableSnapshots(config); err != nil {
		log.Fatalf("Failed to enable snapshots: %v", err)
	}

	stats, err := writer.BuildIndex(ctx, paths)
	if err != nil {
		log.Fatalf("Failed to build index: %v", err)
	}
	if err := writer.SaveIndex(ctx); err != nil {
		log.Fatalf("Failed to save index: %v", err)
	}
	fmt.Printf("Saved %d documents to the snapshot database\n", stats.Documents)

	// Restore into a fresh instance.
	reader, err := atlas.New(nil)
	if err != nil {
		log.Fatalf("Failed to create atlas: %v", err)
	}
	defer reader.Close()

	if err := reader.EnableSnapshots(config); err != nil {
		log.Fatalf("Failed to enable snapshots: %v", err)
	}

	restored, err := reader.LoadIndex(ctx)
	if err != nil {
		log.Fatalf("Failed to load index: %v", err)
	}
	fmt.Printf("Restored %d documents without touching the corpus\n", restored.Documents)

	response, err := reader.ProcessUserQuery(ctx, "What skills do I need to become a data scientist?")
	if err != nil {
		log.Fatalf("Query failed: %v", err)
	}
	fmt.Printf("A: %s\n", response.Response)
}

func writeFile(dir, name, content string) string {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}
