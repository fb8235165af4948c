package lineup

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pondside/faceoff/go/internal/models"
)

// BuildInput is everything a projection is derived from. The builder never
// consults stored lineups: same input, same output.
type BuildInput struct {
	TeamID   uuid.UUID
	Date     string
	Entries  []models.RosterEntry
	Players  map[uuid.UUID]models.Player
	Prefs    map[uuid.UUID]models.SlotID
	Settings models.LeagueSettings
}

// SlotIDsFor expands a league's slot counts into concrete slot ids, e.g.
// {"C": 2, "G": 1} -> C1, C2, G1. Order is stable across calls.
func SlotIDsFor(counts map[string]int) []models.SlotID {
	positions := make([]string, 0, len(counts))
	for pos := range counts {
		positions = append(positions, pos)
	}
	sort.Strings(positions)

	var out []models.SlotID
	for _, pos := range positions {
		for i := 1; i <= counts[pos]; i++ {
			out = append(out, models.SlotID(fmt.Sprintf("%s%d", pos, i)))
		}
	}
	return out
}

// slotPosition strips the trailing index from a slot id: "LW2" -> "LW".
func slotPosition(slot models.SlotID) string {
	return strings.TrimRight(string(slot), "0123456789")
}

// BuildProjection partitions a roster into starters, bench and injured
// reserve from roster entries and owner preferences alone. Players the
// projection cannot place where requested land on the bench with a capacity
// note; nobody is ever dropped from the result.
func BuildProjection(in BuildInput, now time.Time) models.LineupProjection {
	proj := models.LineupProjection{
		FantasyTeamID: in.TeamID,
		Date:          in.Date,
		Starters:      make(map[models.SlotID]uuid.UUID),
		ComputedAt:    now,
	}

	validSlots := make(map[models.SlotID]bool)
	for _, s := range SlotIDsFor(in.Settings.SlotCounts) {
		validSlots[s] = true
	}

	// Entries sorted by player id so reruns over the same roster place
	// players identically, whatever order the rows came back in.
	entries := make([]models.RosterEntry, len(in.Entries))
	copy(entries, in.Entries)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].PlayerID.String() < entries[j].PlayerID.String()
	})

	bench := func(playerID uuid.UUID, reason string) {
		proj.Bench = append(proj.Bench, playerID)
		if reason != "" {
			proj.Notes = append(proj.Notes, models.LineupCapacityNote{PlayerID: playerID, Reason: reason})
		}
	}

	for _, entry := range entries {
		playerID := entry.PlayerID
		pref, hasPref := in.Prefs[playerID]

		if !hasPref || pref == models.SlotBench {
			bench(playerID, "")
			continue
		}

		if pref == models.SlotIR {
			player, known := in.Players[playerID]
			if !known || !player.InjuryStatus.IREligible() {
				bench(playerID, "not eligible for injured reserve")
				continue
			}
			if len(proj.InjuredRes) >= in.Settings.IRSlots {
				bench(playerID, "no injured reserve slot available")
				continue
			}
			proj.InjuredRes = append(proj.InjuredRes, playerID)
			continue
		}

		if !validSlots[pref] {
			bench(playerID, fmt.Sprintf("slot %s is not configured for this league", pref))
			continue
		}
		if player, known := in.Players[playerID]; known && string(player.Position) != slotPosition(pref) {
			bench(playerID, fmt.Sprintf("player does not play %s", slotPosition(pref)))
			continue
		}
		if _, taken := proj.Starters[pref]; taken {
			bench(playerID, fmt.Sprintf("slot %s already filled", pref))
			continue
		}
		proj.Starters[pref] = playerID
	}

	if in.Settings.BenchSize > 0 && len(proj.Bench) > in.Settings.BenchSize {
		for _, playerID := range proj.Bench[in.Settings.BenchSize:] {
			proj.Notes = append(proj.Notes, models.LineupCapacityNote{
				PlayerID: playerID,
				Reason:   "bench over capacity",
			})
		}
	}

	return proj
}
