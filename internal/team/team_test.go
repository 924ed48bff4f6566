package team

import (
	"testing"

	"github.com/pfrederiksen/milb-data/internal/record"
	"github.com/pfrederiksen/milb-data/internal/wiki"
)

func TestMascotName(t *testing.T) {
	tests := []struct {
		team string
		city string
		want string
	}{
		{"Akron RubberDucks", "Akron", "RubberDucks"},
		{"Lehigh Valley IronPigs", "Allentown", "IronPigs"},
		{"Threshers", "Clearwater", "Threshers"},
		{"Salt Lake Bees", "Salt Lake City", "Bees"},
	}

	for _, tt := range tests {
		t.Run(tt.team, func(t *testing.T) {
			if got := MascotName(tt.team, tt.city); got != tt.want {
				t.Errorf("MascotName(%q, %q) = %q, want %q", tt.team, tt.city, got, tt.want)
			}
		})
	}
}

func TestFromFrame(t *testing.T) {
	f := record.NewFrame(wiki.ColIndex, "Team", wiki.ColCity, wiki.ColState, "Capacity", "MLB affiliation", wiki.ColLeague, wiki.ColTableIndex)
	f.Rows = []record.Row{
		{
			wiki.ColIndex:      record.Int(0),
			"Team":             record.Text("Akron RubberDucks"),
			wiki.ColCity:       record.Text("Akron"),
			wiki.ColState:      record.Text("Ohio"),
			"Capacity":         record.Text("7,630"),
			"MLB affiliation":  record.Text("Cleveland Guardians"),
			wiki.ColLeague:     record.Text("Eastern League"),
			wiki.ColTableIndex: record.Int(3),
		},
		{
			wiki.ColIndex: record.Int(1),
			"Team":        record.Missing(),
		},
	}

	teams := FromFrame(f)
	if len(teams) != 1 {
		t.Fatalf("FromFrame() returned %d teams, want 1", len(teams))
	}
	got := teams[0]
	if got.Team != "Akron RubberDucks" || got.City != "Akron" || got.State != "Ohio" {
		t.Errorf("FromFrame() = %+v", got)
	}
	if got.Capacity == nil || *got.Capacity != 7630 {
		t.Errorf("Capacity = %v, want 7630", got.Capacity)
	}
	if got.Affiliate != "Cleveland Guardians" || got.TableIndex != 3 || got.Mascot != "RubberDucks" {
		t.Errorf("FromFrame() = %+v", got)
	}
	if got.Location() != "Akron, Ohio" {
		t.Errorf("Location() = %q", got.Location())
	}
}

func TestSort(t *testing.T) {
	teams := []Team{
		{Team: "C", City: "Reno", State: "Nevada", TableIndex: 2, Index: 5},
		{Team: "A", City: "Akron", State: "Ohio", TableIndex: 1, Index: 1},
		{Team: "B", City: "Buffalo", State: "New York", TableIndex: 1, Index: 0},
	}

	tests := []struct {
		order SortOrder
		want  []string
	}{
		{SortByLeague, []string{"B", "A", "C"}},
		{SortByState, []string{"C", "B", "A"}},
		{SortByCity, []string{"A", "B", "C"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			list := append([]Team(nil), teams...)
			Sort(list, tt.order)
			for i, name := range tt.want {
				if list[i].Team != name {
					t.Errorf("Sort(%s)[%d] = %s, want %s", tt.order, i, list[i].Team, name)
				}
			}
		})
	}
}

func TestParseSortOrder(t *testing.T) {
	if o, err := ParseSortOrder(""); err != nil || o != SortByLeague {
		t.Errorf("ParseSortOrder(\"\") = %v, %v", o, err)
	}
	if o, err := ParseSortOrder("State"); err != nil || o != SortByState {
		t.Errorf("ParseSortOrder(State) = %v, %v", o, err)
	}
	if _, err := ParseSortOrder("date"); err == nil {
		t.Error("ParseSortOrder(date) should fail")
	}
}
