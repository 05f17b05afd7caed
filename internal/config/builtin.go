package config

import "github.com/peekknuf/rankstat/internal/schema"

// Built-in schema names
const (
	SchemaElections = "elections"
	SchemaIslands   = "islands"
	SchemaStates    = "states"
)

// BuiltinSchemas returns the column mappings of the presidential election
// results, the island index and the states of the world files.
func BuiltinSchemas() []Schema {
	return []Schema{
		{
			Name: SchemaElections,
			Fields: []schema.Field{
				{Name: "departement", Patterns: []string{"libelle departement", "departement", "code"}},
				{Name: "inscrits", Patterns: []string{"inscrit"}},
				{Name: "votants", Patterns: []string{"votant"}},
				{Name: "abstentions", Patterns: []string{"abstention"}},
				{Name: "blancs", Patterns: []string{"blanc"}},
				{Name: "nuls", Patterns: []string{"nul"}},
				{Name: "exprimes", Patterns: []string{"exprim"}},
			},
		},
		{
			Name: SchemaIslands,
			Fields: []schema.Field{
				{Name: "name", Patterns: []string{"nom", "name", "ile"}, Optional: true},
				{Name: "surface", Patterns: []string{"surface km", "surface"}},
			},
		},
		{
			Name: SchemaStates,
			Fields: []schema.Field{
				{Name: "state", Patterns: []string{"etat", "state"}},
				{Name: "pop2007", Patterns: []string{"pop 2007"}},
				{Name: "pop2025", Patterns: []string{"pop 2025"}},
				{Name: "dens2007", Patterns: []string{"dens 2007"}},
				{Name: "dens2025", Patterns: []string{"dens 2025"}},
			},
		},
	}
}
