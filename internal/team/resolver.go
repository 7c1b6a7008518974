// Package team resolves historical team-name variants to canonical identities.
package team

// defaultAliases maps a canonical team name to every historical name it
// subsumes. Curated by hand; there is no transitive closure between
// canonical entries.
var defaultAliases = map[string][]string{
	"Aston Martin":      {"Aston Martin", "Racing Point"},
	"Racing Bulls":      {"AlphaTauri", "Racing Bulls", "RB"},
	"RB":                {"AlphaTauri", "RB"},
	"AlphaTauri":        {"AlphaTauri"},
	"Kick Sauber":       {"Kick Sauber", "Alfa Romeo Racing", "Alfa Romeo"},
	"Alfa Romeo":        {"Alfa Romeo Racing", "Alfa Romeo"},
	"Alfa Romeo Racing": {"Alfa Romeo Racing"},
	"Mercedes":          {"Mercedes"},
	"Ferrari":           {"Ferrari"},
	"McLaren":           {"McLaren"},
	"Red Bull Racing":   {"Red Bull", "Red Bull Racing"},
	"Haas F1 Team":      {"Haas", "Haas F1 Team"},
	"Williams":          {"Williams"},
	"Alpine":            {"Alpine", "Renault"},
	"Renault":           {"Renault"},
}

// Resolver answers whether a historical team name belongs to a queried
// team identity. Resolution is directional: the query side must be a
// canonical name for its alias set to apply. A name without an alias
// entry falls back to strict equality.
type Resolver struct {
	aliases map[string]map[string]struct{}
}

// NewResolver builds a resolver over the built-in alias table.
func NewResolver() *Resolver {
	return NewResolverWithAliases(nil)
}

// NewResolverWithAliases builds a resolver over the built-in alias table
// merged with extra canonical→aliases entries, typically from config.
// An override for an existing canonical name replaces its alias set.
func NewResolverWithAliases(extra map[string][]string) *Resolver {
	aliases := make(map[string]map[string]struct{}, len(defaultAliases)+len(extra))
	for canonical, names := range defaultAliases {
		aliases[canonical] = toSet(names)
	}
	for canonical, names := range extra {
		aliases[canonical] = toSet(names)
	}
	return &Resolver{aliases: aliases}
}

// Resolves reports whether historical refers to the same team as query.
// Exact matches always resolve. Otherwise the query must be a canonical
// name whose alias set contains the historical name; the reverse
// direction does not resolve.
func (r *Resolver) Resolves(query, historical string) bool {
	if query == historical {
		return true
	}
	set, ok := r.aliases[query]
	if !ok {
		return false
	}
	_, ok = set[historical]
	return ok
}

// Canonicals returns the known canonical team names.
func (r *Resolver) Canonicals() []string {
	names := make([]string, 0, len(r.aliases))
	for name := range r.aliases {
		names = append(names, name)
	}
	return names
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
