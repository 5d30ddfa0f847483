package competition

import (
	"sort"
	"strings"
)

// ID is the canonical identifier of a competition. Free-text competition
// names are many-to-one mapped onto this closed set; anything unmatched
// lands in Other so no data is dropped.
type ID string

const (
	CL  ID = "CL"  // UEFA Champions League
	EL  ID = "EL"  // UEFA Europa League
	WC  ID = "WC"  // FIFA World Cup
	EC  ID = "EC"  // European Championship
	CLI ID = "CLI" // Copa Libertadores
	PL  ID = "PL"  // Premier League
	PD  ID = "PD"  // La Liga (Primera Division)
	SA  ID = "SA"  // Serie A
	BL1 ID = "BL1" // Bundesliga
	FL1 ID = "FL1" // Ligue 1
	DED ID = "DED" // Eredivisie
	PPL ID = "PPL" // Primeira Liga
	ELC ID = "ELC" // Championship
	BSA ID = "BSA" // Brasileirao Serie A
	IL1 ID = "IL1" // Liga 1 Indonesia
	CDR ID = "CDR" // Copa del Rey
	FAC ID = "FAC" // FA Cup
	CIT ID = "CIT" // Coppa Italia
	DFB ID = "DFB" // DFB-Pokal

	// Other buckets everything the table does not recognize.
	Other ID = "OTHER"
)

// Info carries the display metadata for a canonical competition.
type Info struct {
	ID          ID
	DisplayName string
	Country     string
	// Rank orders groupings: continental first, then domestic leagues, then
	// domestic cups. Other always sorts last.
	Rank int
}

var infoByID = map[ID]Info{
	CL:  {ID: CL, DisplayName: "UEFA Champions League", Country: "Europe", Rank: 10},
	EL:  {ID: EL, DisplayName: "UEFA Europa League", Country: "Europe", Rank: 11},
	WC:  {ID: WC, DisplayName: "FIFA World Cup", Country: "World", Rank: 12},
	EC:  {ID: EC, DisplayName: "European Championship", Country: "Europe", Rank: 13},
	CLI: {ID: CLI, DisplayName: "Copa Libertadores", Country: "South America", Rank: 14},
	PL:  {ID: PL, DisplayName: "Premier League", Country: "England", Rank: 20},
	PD:  {ID: PD, DisplayName: "La Liga", Country: "Spain", Rank: 21},
	SA:  {ID: SA, DisplayName: "Serie A", Country: "Italy", Rank: 22},
	BL1: {ID: BL1, DisplayName: "Bundesliga", Country: "Germany", Rank: 23},
	FL1: {ID: FL1, DisplayName: "Ligue 1", Country: "France", Rank: 24},
	DED: {ID: DED, DisplayName: "Eredivisie", Country: "Netherlands", Rank: 25},
	PPL: {ID: PPL, DisplayName: "Primeira Liga", Country: "Portugal", Rank: 26},
	ELC: {ID: ELC, DisplayName: "Championship", Country: "England", Rank: 27},
	BSA: {ID: BSA, DisplayName: "Brasileirao Serie A", Country: "Brazil", Rank: 28},
	IL1: {ID: IL1, DisplayName: "Liga 1 Indonesia", Country: "Indonesia", Rank: 29},
	CDR: {ID: CDR, DisplayName: "Copa del Rey", Country: "Spain", Rank: 40},
	FAC: {ID: FAC, DisplayName: "FA Cup", Country: "England", Rank: 41},
	CIT: {ID: CIT, DisplayName: "Coppa Italia", Country: "Italy", Rank: 42},
	DFB: {ID: DFB, DisplayName: "DFB-Pokal", Country: "Germany", Rank: 43},
}

const otherRank = 1000

// fragmentRule maps recognized name fragments onto a canonical id. Rules are
// evaluated in slice order: specific tournament names must come before
// generic league fragments so "Copa del Rey" never matches a "liga" rule.
type fragmentRule struct {
	id        ID
	fragments []string
}

var fragmentRules = []fragmentRule{
	{CDR, []string{"copa del rey", "kings cup"}},
	{FAC, []string{"fa cup", "emirates fa cup"}},
	{CIT, []string{"coppa italia"}},
	{DFB, []string{"dfb-pokal", "dfb pokal"}},
	{CLI, []string{"libertadores"}},
	{CL, []string{"champions league", "ucl"}},
	{EL, []string{"europa league", "uel"}},
	{WC, []string{"world cup", "mundial"}},
	{EC, []string{"euro 20", "european championship", "eurocopa"}},
	{ELC, []string{"championship", "efl championship"}},
	{PL, []string{"premier league", "epl"}},
	{PD, []string{"la liga", "laliga", "primera division", "primera"}},
	{BSA, []string{"brasileirao", "serie a do brasil", "campeonato brasileiro"}},
	{SA, []string{"serie a", "calcio"}},
	{BL1, []string{"bundesliga"}},
	{FL1, []string{"ligue 1", "ligue un"}},
	{DED, []string{"eredivisie"}},
	{PPL, []string{"primeira liga", "liga portugal"}},
	{IL1, []string{"liga 1 indonesia", "liga satu"}},
}

// Canonicalize maps a free-text competition name onto its canonical id.
// Matching is case-insensitive substring matching in fixed rule order; an
// already-canonical id maps to itself; unmatched names return Other.
func Canonicalize(freeText string) ID {
	candidate := strings.ToLower(strings.TrimSpace(freeText))
	if candidate == "" {
		return Other
	}

	if known, ok := infoByID[ID(strings.ToUpper(candidate))]; ok {
		return known.ID
	}

	for _, rule := range fragmentRules {
		for _, fragment := range rule.fragments {
			if strings.Contains(candidate, fragment) {
				return rule.id
			}
		}
	}

	return Other
}

// Lookup returns display metadata for an id. Unknown ids get the Other
// bucket's metadata with the original id preserved.
func Lookup(id ID) Info {
	if info, ok := infoByID[id]; ok {
		return info
	}
	return Info{ID: id, DisplayName: string(id), Country: "", Rank: otherRank}
}

// Rank returns the grouping priority of an id; lower sorts first.
func Rank(id ID) int {
	return Lookup(id).Rank
}

// SortIDs orders ids by priority rank, ties broken alphabetically, with the
// Other bucket always last.
func SortIDs(ids []ID) {
	sort.SliceStable(ids, func(i, j int) bool {
		ri, rj := Rank(ids[i]), Rank(ids[j])
		if ri != rj {
			return ri < rj
		}
		return ids[i] < ids[j]
	})
}

// Default is the set of competitions tracked when no explicit selection is
// configured: the top five leagues plus the Champions League.
func Default() []ID {
	return []ID{CL, PL, PD, SA, BL1, FL1}
}

// All returns every known canonical id in priority order.
func All() []ID {
	out := make([]ID, 0, len(infoByID))
	for id := range infoByID {
		out = append(out, id)
	}
	SortIDs(out)
	return out
}
