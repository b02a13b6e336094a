package main

import (
	"encoding/csv"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/solla-h/who-is-the-spy-sub000/internal/config"
	"github.com/solla-h/who-is-the-spy-sub000/internal/db"
	"github.com/solla-h/who-is-the-spy-sub000/internal/server"
)

type pairRecord struct {
	CivilianWord string
	SpyWord      string
}

func main() {
	filePath := flag.String("file", "", "path to word pairs csv (defaults to the builtin list)")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}

	conn, err := db.Open()
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	var records []pairRecord
	if *filePath != "" {
		records, err = readPairs(*filePath)
		if err != nil {
			log.Fatalf("failed to read word pairs: %v", err)
		}
	} else {
		for _, pair := range server.StarterWordPairs {
			records = append(records, pairRecord{CivilianWord: pair.CivilianWord, SpyWord: pair.SpyWord})
		}
	}

	inserted := 0
	for _, record := range records {
		entry := db.WordPair{
			CivilianWord: record.CivilianWord,
			SpyWord:      record.SpyWord,
		}
		if err := conn.FirstOrCreate(&entry, db.WordPair{CivilianWord: entry.CivilianWord, SpyWord: entry.SpyWord}).Error; err != nil {
			log.Fatalf("failed to upsert word pair: %v", err)
		}
		inserted++
	}

	log.Printf("loaded %d word pairs", inserted)
}

func readPairs(path string) ([]pairRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	var records []pairRecord
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < 2 {
			continue
		}
		civilian := strings.TrimSpace(row[0])
		spy := strings.TrimSpace(row[1])
		if civilian == "" || spy == "" || strings.EqualFold(civilian, spy) {
			continue
		}
		records = append(records, pairRecord{CivilianWord: civilian, SpyWord: spy})
	}
	return records, nil
}
