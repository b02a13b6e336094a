package game

import (
	"encoding/json"
	"errors"
	"fmt"
)

// State is the auxiliary game-state record a room carries once a game has
// started. It round-trips through an untyped jsonb column, so it is
// re-validated at every decode rather than trusted as well-formed.
type State struct {
	EliminatedIDs []int `json:"eliminated_ids"`
	SpyIDs        []int `json:"spy_ids"`
	Winner        Role  `json:"winner,omitempty"`
}

// Validate checks structural invariants of a decoded state record.
func (s *State) Validate() error {
	if len(s.SpyIDs) == 0 {
		return errors.New("game state has no spies")
	}
	seen := make(map[int]struct{}, len(s.SpyIDs))
	for _, id := range s.SpyIDs {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("duplicate spy id %d", id)
		}
		seen[id] = struct{}{}
	}
	seen = make(map[int]struct{}, len(s.EliminatedIDs))
	for _, id := range s.EliminatedIDs {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("duplicate eliminated id %d", id)
		}
		seen[id] = struct{}{}
	}
	switch s.Winner {
	case "", RoleCivilian, RoleSpy:
	default:
		return fmt.Errorf("unknown winner %q", s.Winner)
	}
	return nil
}

// IsSpy reports whether id is in the authoritative spy set.
func (s *State) IsSpy(id int) bool {
	for _, spy := range s.SpyIDs {
		if spy == id {
			return true
		}
	}
	return false
}

// IsEliminated reports whether id has been voted out this game.
func (s *State) IsEliminated(id int) bool {
	for _, out := range s.EliminatedIDs {
		if out == id {
			return true
		}
	}
	return false
}

// Eliminate records ids as voted out, skipping ids already present.
func (s *State) Eliminate(ids ...int) {
	for _, id := range ids {
		if !s.IsEliminated(id) {
			s.EliminatedIDs = append(s.EliminatedIDs, id)
		}
	}
}

// EncodeState serializes a state record for storage.
func EncodeState(s *State) ([]byte, error) {
	if s == nil {
		return nil, errors.New("game state is nil")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(s)
}

// DecodeState parses and validates a stored state blob.
func DecodeState(raw []byte) (*State, error) {
	if len(raw) == 0 {
		return nil, errors.New("game state is empty")
	}
	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("malformed game state: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
