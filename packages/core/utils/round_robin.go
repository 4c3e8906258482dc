package utils

import "time"

// Fixture is one pairing with its assigned slot.
type Fixture struct {
	Team1ID   uint
	Team2ID   uint
	Field     int
	StartTime time.Time
}

// FixtureCount returns the number of fixtures a single round robin between n
// teams produces.
func FixtureCount(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}

// BuildRoundRobin pairs every team with every other team exactly once and
// packs the fixtures into slots of fieldCount concurrent matches.
//
// Both loops run over the input order, and a pair is emitted only when the
// outer team's id is lower than the inner team's id. The emission order
// therefore follows ids, not roster position, when the input is unsorted.
func BuildRoundRobin(teamIDs []uint, fieldCount, matchDurationMinutes, breakMinutes int, start time.Time) []Fixture {
	if fieldCount < 1 {
		fieldCount = 1
	}

	fixtures := make([]Fixture, 0, FixtureCount(len(teamIDs)))
	slotLength := time.Duration(matchDurationMinutes+breakMinutes) * time.Minute

	currentField := 1
	currentTime := start

	for _, team1 := range teamIDs {
		for _, team2 := range teamIDs {
			if team1 >= team2 {
				continue
			}

			fixtures = append(fixtures, Fixture{
				Team1ID:   team1,
				Team2ID:   team2,
				Field:     currentField,
				StartTime: currentTime,
			})

			currentField++
			if currentField > fieldCount {
				currentField = 1
				currentTime = currentTime.Add(slotLength)
			}
		}
	}

	return fixtures
}
