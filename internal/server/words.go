package server

import (
	"github.com/solla-h/who-is-the-spy-sub000/internal/db"
)

type wordPair struct {
	CivilianWord string
	SpyWord      string
}

// StarterWordPairs is the compiled-in collection used when no database is
// configured; cmd/load-words seeds the same list into Postgres.
var StarterWordPairs = []wordPair{
	{"coffee", "tea"},
	{"cat", "tiger"},
	{"piano", "guitar"},
	{"beach", "desert"},
	{"pizza", "flatbread"},
	{"train", "tram"},
	{"novel", "diary"},
	{"soccer", "rugby"},
	{"winter", "autumn"},
	{"moon", "sun"},
	{"painter", "sculptor"},
	{"river", "canal"},
	{"glasses", "binoculars"},
	{"hotel", "hostel"},
	{"butter", "margarine"},
	{"violin", "cello"},
	{"umbrella", "raincoat"},
	{"chess", "checkers"},
	{"honey", "syrup"},
	{"sailboat", "canoe"},
}

// drawWordPair picks one pair uniformly at random. With a database it draws
// from the word_pairs table and an empty table is a database-kind failure;
// without one it falls back to the starter list.
func (s *Server) drawWordPair() (wordPair, error) {
	if s.db == nil {
		s.rngMu.Lock()
		pair := StarterWordPairs[s.rng.Intn(len(StarterWordPairs))]
		s.rngMu.Unlock()
		return pair, nil
	}
	var count int64
	if err := s.db.Model(&db.WordPair{}).Count(&count).Error; err != nil {
		return wordPair{}, apiErr(CodeDatabaseError, "failed to load word pairs")
	}
	if count == 0 {
		return wordPair{}, apiErr(CodeDatabaseError, "word pair collection is empty")
	}
	s.rngMu.Lock()
	offset := s.rng.Intn(int(count))
	s.rngMu.Unlock()
	var record db.WordPair
	if err := s.db.Offset(offset).Limit(1).Order("id").Find(&record).Error; err != nil {
		return wordPair{}, apiErr(CodeDatabaseError, "failed to load word pairs")
	}
	if record.ID == 0 {
		return wordPair{}, apiErr(CodeDatabaseError, "word pair collection is empty")
	}
	return wordPair{CivilianWord: record.CivilianWord, SpyWord: record.SpyWord}, nil
}
