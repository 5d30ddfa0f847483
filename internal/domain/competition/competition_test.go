package competition

import "testing"

func TestCanonicalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want ID
	}{
		{"la liga fragment", "La Liga Santander", PD},
		{"primera fragment", "Primera Division", PD},
		{"copa del rey beats liga rules", "Copa del Rey", CDR},
		{"fa cup beats championship", "Emirates FA Cup", FAC},
		{"champions league", "UEFA Champions League 2025/26", CL},
		{"premier league", "English Premier League", PL},
		{"case insensitive", "BUNDESLIGA", BL1},
		{"brasileirao beats italian serie a", "Brasileirao Serie A", BSA},
		{"serie a do brasil beats italian serie a", "Serie A do Brasil", BSA},
		{"campeonato brasileiro beats italian serie a", "Campeonato Brasileiro Serie A", BSA},
		{"italian serie a still matches", "Serie A TIM", SA},
		{"already canonical id", "PD", PD},
		{"unknown bucket", "Kreisliga C Staffel 4", Other},
		{"empty", "   ", Other},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Canonicalize(tc.in); got != tc.want {
				t.Fatalf("Canonicalize(%q) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}
}

func TestCanonicalizeIdempotent(t *testing.T) {
	t.Parallel()

	for _, id := range All() {
		if got := Canonicalize(string(id)); got != id {
			t.Fatalf("re-canonicalizing %s returned %s", id, got)
		}
	}
}

func TestCanonicalizeStable(t *testing.T) {
	t.Parallel()

	first := Canonicalize("Serie A TIM")
	for i := 0; i < 5; i++ {
		if got := Canonicalize("Serie A TIM"); got != first {
			t.Fatalf("unstable mapping: %s then %s", first, got)
		}
	}
}

func TestSortIDs(t *testing.T) {
	t.Parallel()

	ids := []ID{Other, CDR, PL, CL}
	SortIDs(ids)

	want := []ID{CL, PL, CDR, Other}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("unexpected order: got=%v want=%v", ids, want)
		}
	}
}
