package game

import (
	"errors"
	"sort"
)

// Ballot is one recorded vote.
type Ballot struct {
	VoterID  int
	TargetID int
}

// VoteCheck carries everything needed to validate a single incoming vote.
type VoteCheck struct {
	VoterID      int
	TargetID     int
	VoterAlive   bool
	TargetAlive  bool
	AlreadyVoted bool
}

var (
	ErrVoterEliminated  = errors.New("eliminated players cannot vote")
	ErrSelfVote         = errors.New("players cannot vote for themselves")
	ErrTargetEliminated = errors.New("target player is already eliminated")
	ErrAlreadyVoted     = errors.New("player has already voted this round")
)

// ValidateVote returns the first failing check, in priority order: dead
// voter, self-vote, dead target, duplicate vote.
func ValidateVote(check VoteCheck) error {
	if !check.VoterAlive {
		return ErrVoterEliminated
	}
	if check.VoterID == check.TargetID {
		return ErrSelfVote
	}
	if !check.TargetAlive {
		return ErrTargetEliminated
	}
	if check.AlreadyVoted {
		return ErrAlreadyVoted
	}
	return nil
}

// Tally is the outcome of closing a voting phase.
type Tally struct {
	Counts     map[int]int
	MaxVotes   int
	Eliminated []int
}

// TallyVotes counts ballots per target and eliminates every target tied at
// the highest count. A tie eliminates all tied players, not an arbitrary
// one. With zero ballots nobody is eliminated.
func TallyVotes(ballots []Ballot) Tally {
	counts := make(map[int]int, len(ballots))
	for _, ballot := range ballots {
		counts[ballot.TargetID]++
	}
	maxVotes := 0
	for _, count := range counts {
		if count > maxVotes {
			maxVotes = count
		}
	}
	eliminated := make([]int, 0, 1)
	if maxVotes > 0 {
		for target, count := range counts {
			if count == maxVotes {
				eliminated = append(eliminated, target)
			}
		}
		sort.Ints(eliminated)
	}
	return Tally{Counts: counts, MaxVotes: maxVotes, Eliminated: eliminated}
}
