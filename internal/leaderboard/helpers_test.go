package leaderboard

import (
	"fmt"
	"strings"
	"testing"
)

const fullHeader = "positionDuelsLeaderboard,nick,countryCode,rating,divisionName," +
	"gameModeRatingsStandardduels,gameModeRatingsNomoveduels,gameModeRatingsNmpzduels,id,current_time"

type player struct {
	nick     string
	country  string
	rating   string
	division string
}

func csvFor(players []player) string {
	var b strings.Builder
	b.WriteString(fullHeader + "\n")
	for i, p := range players {
		fmt.Fprintf(&b, "%d,%s,%s,%s,%s,%s,%s,%s,id%d,2024-05-01 12:00:00\n",
			i+1, p.nick, p.country, p.rating, p.division, p.rating, p.rating, p.rating, i+1)
	}
	return b.String()
}

func generatedCSV(n int) string {
	players := make([]player, n)
	for i := range players {
		players[i] = player{
			nick:     fmt.Sprintf("player%04d", i),
			country:  "fr",
			rating:   fmt.Sprintf("%d", 1000+i%700),
			division: DivisionOrder[i%len(DivisionOrder)],
		}
	}
	return csvFor(players)
}

func buildSnapshot(t *testing.T, text string) *Snapshot {
	t.Helper()
	snap, err := NewMaterializer(MaterializerOptions{}).Build(text)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return snap
}

func newTestStore(t *testing.T, text string, pageSize int) (*Store, *Buffer) {
	t.Helper()
	buf := &Buffer{}
	store := NewStore(buf, StoreOptions{PageSize: pageSize})
	store.Reset(buildSnapshot(t, text).Rows)
	store.DisplayInitialPage()
	return store, buf
}

func columnTexts(rows []*Row, label string) []string {
	idx := ColumnIndex(DefaultColumns, label)
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Text(idx)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
