package memory

import (
	"time"

	"github.com/gridrivals/gridrivals/internal/domain/participant"
	"github.com/gridrivals/gridrivals/internal/domain/roster"
)

// SeedRoster returns the 2026 grid used when running without a database.
func SeedRoster() []roster.Driver {
	return []roster.Driver{
		{ID: "ver", Name: "Max Verstappen", TeamID: "redbull"},
		{ID: "tsu", Name: "Yuki Tsunoda", TeamID: "redbull"},
		{ID: "ham", Name: "Lewis Hamilton", TeamID: "ferrari"},
		{ID: "lec", Name: "Charles Leclerc", TeamID: "ferrari"},
		{ID: "rus", Name: "George Russell", TeamID: "mercedes"},
		{ID: "ant", Name: "Andrea Kimi Antonelli", TeamID: "mercedes"},
		{ID: "nor", Name: "Lando Norris", TeamID: "mclaren"},
		{ID: "pia", Name: "Oscar Piastri", TeamID: "mclaren"},
		{ID: "alo", Name: "Fernando Alonso", TeamID: "astonmartin"},
		{ID: "str", Name: "Lance Stroll", TeamID: "astonmartin"},
		{ID: "gas", Name: "Pierre Gasly", TeamID: "alpine"},
		{ID: "col", Name: "Franco Colapinto", TeamID: "alpine"},
		{ID: "alb", Name: "Alexander Albon", TeamID: "williams"},
		{ID: "sai", Name: "Carlos Sainz", TeamID: "williams"},
		{ID: "hul", Name: "Nico Hulkenberg", TeamID: "sauber"},
		{ID: "bor", Name: "Gabriel Bortoleto", TeamID: "sauber"},
		{ID: "oco", Name: "Esteban Ocon", TeamID: "haas"},
		{ID: "bea", Name: "Oliver Bearman", TeamID: "haas"},
		{ID: "law", Name: "Liam Lawson", TeamID: "racingbulls"},
		{ID: "had", Name: "Isack Hadjar", TeamID: "racingbulls"},
	}
}

// SeedParticipants returns a small dev-mode population with one admin.
func SeedParticipants() []participant.Participant {
	created := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	return []participant.Participant{
		{ID: "admin-1", DisplayName: "Race Control", Email: "admin@gridrivals.local", IsAdmin: true, CreatedAt: created},
		{ID: "member-1", DisplayName: "Midfield Hero", Email: "member1@gridrivals.local", CreatedAt: created},
		{ID: "member-2", DisplayName: "Late Braker", Email: "member2@gridrivals.local", CreatedAt: created},
	}
}
