package profiles

import (
	"fmt"
	"strings"

	apperrors "sjsage522/mpcontacts/pkg/errors"
)

// builtins lists the built-in jurisdictions in their run order.
var builtins = []func() Profile{
	BC,
	PEI,
	Alberta,
	Manitoba,
	NovaScotia,
	Ontario,
	Quebec,
	OurCommons,
	Saskatchewan,
	NewBrunswick,
}

// Set is an ordered collection of profiles keyed by case-insensitive ID.
type Set struct {
	profiles []Profile
}

// Builtin returns a Set holding a fresh copy of every built-in profile.
func Builtin() *Set {
	s := &Set{}
	for _, build := range builtins {
		s.profiles = append(s.profiles, build())
	}
	return s
}

// All returns the profiles in order.
func (s *Set) All() []Profile {
	out := make([]Profile, len(s.profiles))
	copy(out, s.profiles)
	return out
}

// Lookup finds a profile by ID, ignoring case.
func (s *Set) Lookup(id string) (Profile, bool) {
	if i := s.index(id); i >= 0 {
		return s.profiles[i], true
	}
	return Profile{}, false
}

// Override replaces profiles that share an ID with one of ps and appends the rest.
func (s *Set) Override(ps ...Profile) {
	for _, p := range ps {
		if i := s.index(p.ID); i >= 0 {
			s.profiles[i] = p
			continue
		}
		s.profiles = append(s.profiles, p)
	}
}

// Select resolves ids to profiles in the order given. No ids selects every
// profile. An unknown id is a configuration error.
func (s *Set) Select(ids []string) ([]Profile, error) {
	if len(ids) == 0 {
		return s.All(), nil
	}

	var (
		out     []Profile
		seen    = make(map[string]bool)
		unknown []string
	)
	for _, id := range ids {
		p, ok := s.Lookup(id)
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		key := strings.ToLower(p.ID)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}

	if len(unknown) > 0 {
		return nil, apperrors.NewConfiguration(
			fmt.Sprintf("unknown jurisdictions %v, known: %v", unknown, s.IDs()), nil)
	}
	return out, nil
}

// IDs returns the profile IDs in order.
func (s *Set) IDs() []string {
	ids := make([]string, 0, len(s.profiles))
	for _, p := range s.profiles {
		ids = append(ids, p.ID)
	}
	return ids
}

func (s *Set) index(id string) int {
	for i, p := range s.profiles {
		if strings.EqualFold(p.ID, id) {
			return i
		}
	}
	return -1
}
