// Package config loads the static team roster and user list. The roster
// is process-wide immutable configuration: loaded once at startup and
// exposed through a read-only provider instead of package globals.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/secopshq/shiftboard/pkg/models"
	"github.com/secopshq/shiftboard/pkg/timeutil"
)

//go:embed roster.yaml
var defaultRoster []byte

// SeedUser is a login identity plus its initial password. The password
// only exists to seed the user table; it is never served.
type SeedUser struct {
	models.User `yaml:",inline"`
	Password    string `yaml:"password"`
}

type rosterDoc struct {
	Teams []models.Team `yaml:"teams"`
	Users []SeedUser    `yaml:"users"`
}

// Provider exposes the loaded roster read-only. Safe for concurrent use
// after Load returns.
type Provider struct {
	teams     []models.Team
	teamByKey map[string]*models.Team
	teamOf    map[string]string
	leads     map[string]bool
	users     []SeedUser
}

// Load parses a roster file, or the embedded default when path is empty.
func Load(path string) (*Provider, error) {
	raw := defaultRoster
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read roster: %w", err)
		}
		raw = b
	}

	var doc rosterDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	if len(doc.Teams) == 0 {
		return nil, fmt.Errorf("roster defines no teams")
	}

	p := &Provider{
		teams:     doc.Teams,
		teamByKey: make(map[string]*models.Team, len(doc.Teams)),
		teamOf:    make(map[string]string),
		leads:     make(map[string]bool, len(doc.Teams)),
		users:     doc.Users,
	}

	for i := range p.teams {
		team := &p.teams[i]
		if team.Key == "" {
			return nil, fmt.Errorf("team %d has no key", i)
		}
		if _, dup := p.teamByKey[team.Key]; dup {
			return nil, fmt.Errorf("duplicate team key %q", team.Key)
		}
		if team.MinCoverage < 1 {
			return nil, fmt.Errorf("team %q: min_coverage must be >= 1", team.Key)
		}
		for j := range team.StandardShifts {
			if err := deriveHours(&team.StandardShifts[j]); err != nil {
				return nil, fmt.Errorf("team %q shift %q: %w", team.Key, team.StandardShifts[j].ID, err)
			}
		}
		for _, hw := range team.HandoverWindows {
			if hw.Start < 0 || hw.End > 24 || hw.End <= hw.Start {
				return nil, fmt.Errorf("team %q: handover window %q out of range", team.Key, hw.Label)
			}
		}
		p.teamByKey[team.Key] = team
		p.leads[team.Lead] = true
		for _, m := range team.Members {
			p.teamOf[m] = team.Key
		}
	}

	for _, u := range doc.Users {
		if u.Team != "" {
			if _, ok := p.teamByKey[u.Team]; !ok {
				return nil, fmt.Errorf("user %q references unknown team %q", u.ID, u.Team)
			}
		}
	}

	return p, nil
}

// deriveHours fills StartH/EndH from the clock strings. An overnight
// shift keeps its end in the start-of-day relative domain (>= 24).
func deriveHours(s *models.StandardShift) error {
	startH, err := timeutil.ParseClock(s.Start)
	if err != nil {
		return err
	}
	endH, err := timeutil.ParseClock(s.End)
	if err != nil {
		return err
	}
	if endH < startH {
		endH += 24
	}
	s.StartH = startH
	s.EndH = endH
	return nil
}

// Teams returns all teams in declaration order. Callers must not mutate
// the result.
func (p *Provider) Teams() []models.Team {
	return p.teams
}

// Team looks a team up by key.
func (p *Provider) Team(key string) (*models.Team, bool) {
	t, ok := p.teamByKey[key]
	return t, ok
}

// MemberTeam returns the team key a member belongs to in the static
// roster, independent of any filter the caller applied.
func (p *Provider) MemberTeam(name string) (string, bool) {
	k, ok := p.teamOf[name]
	return k, ok
}

// IsLead reports whether name is any team's lead.
func (p *Provider) IsLead(name string) bool {
	return p.leads[name]
}

// StandardShift resolves a team's standard shift by id.
func (p *Provider) StandardShift(teamKey, shiftID string) (*models.StandardShift, bool) {
	team, ok := p.teamByKey[teamKey]
	if !ok {
		return nil, false
	}
	for i := range team.StandardShifts {
		if team.StandardShifts[i].ID == shiftID {
			return &team.StandardShifts[i], true
		}
	}
	return nil, false
}

// Users returns the seed user list.
func (p *Provider) Users() []SeedUser {
	return p.users
}

// TotalMembers counts members across all teams.
func (p *Provider) TotalMembers() int {
	n := 0
	for _, t := range p.teams {
		n += len(t.Members)
	}
	return n
}
