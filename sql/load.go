package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed index.sql
var indexSQL string

// Function list for verification
var IndexFunctions = []string{
	"init_index",
	"clear_index",
	"insert_index_document",
	"select_all_index_documents",
	"select_index_documents_by_similarity",
}

// Init intializes db extensions
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	log.Println("Database extensions initialized successfully")
	return nil
}

// LoadIndexSql loads index-related SQL functions
func LoadIndexSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, IndexFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing index functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(indexSQL)
	if err != nil {
		return fmt.Errorf("error executing index SQL: %w", err)
	}

	exist, err := checkFunctions(db, IndexFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL index functions loaded successfully")
	return nil
}

// checkFunctions verifies that all required functions exist in the database
func checkFunctions(db *sql.DB, sqlFunctions []string) (bool, error) {
	var allExist bool
	for _, f := range sqlFunctions {
		err := db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`,
			f,
		).Scan(&allExist)
		if err != nil {
			return false, fmt.Errorf("error checking existence of function %s: %w", f, err)
		}
		if !allExist {
			log.Printf("Function %s does not exist", f)
			break
		}
	}
	return allExist, nil
}
