package lineup

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pondside/faceoff/go/internal/models"
)

var testSettings = models.LeagueSettings{
	RosterCap:  10,
	SlotCounts: map[string]int{"C": 1, "LW": 1, "G": 1},
	BenchSize:  3,
	IRSlots:    1,
}

func rosterEntry(league, team, player uuid.UUID) models.RosterEntry {
	return models.RosterEntry{ID: uuid.New(), LeagueID: league, FantasyTeamID: team, PlayerID: player}
}

func skater(id uuid.UUID, pos models.Position, status models.InjuryStatus) models.Player {
	return models.Player{ID: id, Position: pos, InjuryStatus: status}
}

func TestSlotIDsFor(t *testing.T) {
	got := SlotIDsFor(map[string]int{"C": 2, "G": 1})
	want := []models.SlotID{"C1", "C2", "G1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SlotIDsFor = %v, want %v", got, want)
	}
}

func TestBuildProjectionPlacement(t *testing.T) {
	league, team := uuid.New(), uuid.New()
	center, winger, benched, unassigned := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	in := BuildInput{
		TeamID: team,
		Date:   "2026-01-15",
		Entries: []models.RosterEntry{
			rosterEntry(league, team, center),
			rosterEntry(league, team, winger),
			rosterEntry(league, team, benched),
			rosterEntry(league, team, unassigned),
		},
		Players: map[uuid.UUID]models.Player{
			center:     skater(center, models.PositionCenter, models.InjuryStatusHealthy),
			winger:     skater(winger, models.PositionLeftWing, models.InjuryStatusHealthy),
			benched:    skater(benched, models.PositionCenter, models.InjuryStatusHealthy),
			unassigned: skater(unassigned, models.PositionDefense, models.InjuryStatusHealthy),
		},
		Prefs: map[uuid.UUID]models.SlotID{
			center:  "C1",
			winger:  "LW1",
			benched: models.SlotBench,
		},
		Settings: testSettings,
	}

	proj := BuildProjection(in, time.Now())

	if proj.Starters["C1"] != center || proj.Starters["LW1"] != winger {
		t.Fatalf("starters = %v", proj.Starters)
	}
	if len(proj.Bench) != 2 {
		t.Fatalf("bench = %v, want the explicit bench player and the unassigned one", proj.Bench)
	}
	if len(proj.Notes) != 0 {
		t.Fatalf("unexpected notes: %v", proj.Notes)
	}

	// Everyone on the roster appears exactly once
	placed := len(proj.Starters) + len(proj.Bench) + len(proj.InjuredRes)
	if placed != len(in.Entries) {
		t.Fatalf("placed %d players, roster has %d", placed, len(in.Entries))
	}
}

func TestBuildProjectionDeterministic(t *testing.T) {
	league, team := uuid.New(), uuid.New()
	p1, p2 := uuid.New(), uuid.New()

	in := BuildInput{
		TeamID: team,
		Date:   "2026-01-15",
		Entries: []models.RosterEntry{
			rosterEntry(league, team, p1),
			rosterEntry(league, team, p2),
		},
		Players: map[uuid.UUID]models.Player{
			p1: skater(p1, models.PositionCenter, models.InjuryStatusHealthy),
			p2: skater(p2, models.PositionCenter, models.InjuryStatusHealthy),
		},
		// Both want the single center slot; only one fits.
		Prefs:    map[uuid.UUID]models.SlotID{p1: "C1", p2: "C1"},
		Settings: testSettings,
	}

	now := time.Now()
	first := BuildProjection(in, now)

	// Same roster in reverse order must produce the identical partition
	in.Entries = []models.RosterEntry{in.Entries[1], in.Entries[0]}
	second := BuildProjection(in, now)

	if !reflect.DeepEqual(first.Starters, second.Starters) ||
		!reflect.DeepEqual(first.Bench, second.Bench) {
		t.Fatalf("projection depends on input order:\n%v\n%v", first, second)
	}
	if len(first.Notes) != 1 || first.Notes[0].Reason != "slot C1 already filled" {
		t.Fatalf("notes = %v, want one slot-conflict note", first.Notes)
	}
}

func TestBuildProjectionInjuredReserve(t *testing.T) {
	league, team := uuid.New(), uuid.New()
	longTerm, dayToDay, alsoHurt := uuid.New(), uuid.New(), uuid.New()

	in := BuildInput{
		TeamID: team,
		Date:   "2026-01-15",
		Entries: []models.RosterEntry{
			rosterEntry(league, team, longTerm),
			rosterEntry(league, team, dayToDay),
			rosterEntry(league, team, alsoHurt),
		},
		Players: map[uuid.UUID]models.Player{
			longTerm: skater(longTerm, models.PositionDefense, models.InjuryStatusLongTerm),
			dayToDay: skater(dayToDay, models.PositionCenter, models.InjuryStatusDayToDay),
			alsoHurt: skater(alsoHurt, models.PositionGoalie, models.InjuryStatusInjured),
		},
		Prefs: map[uuid.UUID]models.SlotID{
			longTerm: models.SlotIR,
			dayToDay: models.SlotIR, // DTD does not qualify
			alsoHurt: models.SlotIR, // qualifies, but only one IR slot
		},
		Settings: testSettings,
	}

	proj := BuildProjection(in, time.Now())

	if len(proj.InjuredRes) != 1 {
		t.Fatalf("injured reserve = %v, want exactly one player", proj.InjuredRes)
	}
	if len(proj.Bench) != 2 {
		t.Fatalf("bench = %v, want the two players who could not take IR", proj.Bench)
	}
	if len(proj.Notes) != 2 {
		t.Fatalf("notes = %v, want one per benched IR request", proj.Notes)
	}

	reasons := map[uuid.UUID]string{}
	for _, n := range proj.Notes {
		reasons[n.PlayerID] = n.Reason
	}
	if reasons[dayToDay] != "not eligible for injured reserve" {
		t.Fatalf("DTD player note = %q", reasons[dayToDay])
	}
}

func TestBuildProjectionPositionMismatch(t *testing.T) {
	league, team := uuid.New(), uuid.New()
	goalie := uuid.New()

	in := BuildInput{
		TeamID:  team,
		Date:    "2026-01-15",
		Entries: []models.RosterEntry{rosterEntry(league, team, goalie)},
		Players: map[uuid.UUID]models.Player{
			goalie: skater(goalie, models.PositionGoalie, models.InjuryStatusHealthy),
		},
		Prefs:    map[uuid.UUID]models.SlotID{goalie: "C1"},
		Settings: testSettings,
	}

	proj := BuildProjection(in, time.Now())

	if len(proj.Starters) != 0 || len(proj.Bench) != 1 {
		t.Fatalf("goalie in a center slot: %v", proj)
	}
	if len(proj.Notes) != 1 {
		t.Fatalf("notes = %v, want one mismatch note", proj.Notes)
	}
}

func TestBuildProjectionBenchOverflowNoted(t *testing.T) {
	league, team := uuid.New(), uuid.New()

	in := BuildInput{
		TeamID:   team,
		Date:     "2026-01-15",
		Players:  map[uuid.UUID]models.Player{},
		Prefs:    map[uuid.UUID]models.SlotID{},
		Settings: testSettings, // bench size 3
	}
	for i := 0; i < 5; i++ {
		p := uuid.New()
		in.Entries = append(in.Entries, rosterEntry(league, team, p))
		in.Players[p] = skater(p, models.PositionCenter, models.InjuryStatusHealthy)
	}

	proj := BuildProjection(in, time.Now())

	// Nobody is dropped; the overflow is reported instead
	if len(proj.Bench) != 5 {
		t.Fatalf("bench = %d players, want all 5 kept", len(proj.Bench))
	}
	if len(proj.Notes) != 2 {
		t.Fatalf("notes = %v, want one per player over bench capacity", proj.Notes)
	}
}
