package query

// Curated lookup tables used by the classifier. Kept as plain data so they
// can be tested and extended without touching classification logic. All
// entries are stored pre-normalized (lowercase, no diacritics).

// CountryNames covers nations whose bare name almost always means the
// national team in a football lookup context.
var CountryNames = map[string]struct{}{
	"brazil":        {},
	"brasil":        {},
	"argentina":     {},
	"france":        {},
	"francia":       {},
	"germany":       {},
	"alemania":      {},
	"spain":         {},
	"espana":        {},
	"england":       {},
	"inglaterra":    {},
	"italy":         {},
	"italia":        {},
	"portugal":      {},
	"netherlands":   {},
	"holanda":       {},
	"belgium":       {},
	"belgica":       {},
	"croatia":       {},
	"croacia":       {},
	"uruguay":       {},
	"colombia":      {},
	"mexico":        {},
	"usa":           {},
	"united states": {},
	"japan":         {},
	"morocco":       {},
	"marruecos":     {},
	"senegal":       {},
	"ghana":         {},
	"nigeria":       {},
	"indonesia":     {},
	"south korea":   {},
	"poland":        {},
	"denmark":       {},
	"switzerland":   {},
	"ecuador":       {},
	"chile":         {},
	"peru":          {},
}

// ClubIndicatorTokens are tokens that, appearing anywhere in a normalized
// query, strongly suggest a club side rather than a person.
var ClubIndicatorTokens = map[string]struct{}{
	"fc":        {},
	"cf":        {},
	"afc":       {},
	"cd":        {},
	"sc":        {},
	"ac":        {},
	"as":        {},
	"ss":        {},
	"rc":        {},
	"united":    {},
	"city":      {},
	"real":      {},
	"atletico":  {},
	"athletic":  {},
	"sporting":  {},
	"deportivo": {},
	"racing":    {},
	"inter":     {},
	"borussia":  {},
	"dynamo":    {},
	"dinamo":    {},
	"olympique": {},
	"wanderers": {},
	"albion":    {},
	"hotspur":   {},
	"rovers":    {},
	"persija":   {},
	"persib":    {},
}

// KnownPlayerFragments are normalized surname fragments of widely searched
// players. An exact token match yields a high-confidence player intent.
var KnownPlayerFragments = map[string]struct{}{
	"messi":      {},
	"mbappe":     {},
	"haaland":    {},
	"ronaldo":    {},
	"neymar":     {},
	"vinicius":   {},
	"bellingham": {},
	"lewandowski": {},
	"salah":      {},
	"kane":       {},
	"modric":     {},
	"pedri":      {},
	"yamal":      {},
	"griezmann":  {},
	"de bruyne":  {},
	"musiala":    {},
	"wirtz":      {},
	"rodri":      {},
	"saka":       {},
	"foden":      {},
	"osimhen":    {},
	"son":        {},
}

// MatchIndicatorTokens mark queries that ask for fixtures or results rather
// than an entity profile.
var MatchIndicatorTokens = map[string]struct{}{
	"matches":   {},
	"match":     {},
	"fixtures":  {},
	"fixture":   {},
	"results":   {},
	"resultados": {},
	"partidos":  {},
	"schedule":  {},
	"jornada":   {},
	"vs":        {},
}
