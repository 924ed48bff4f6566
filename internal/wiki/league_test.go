package wiki

import (
	"testing"
)

const leaguesPage = `
<html><body>
<h1>List of Minor League Baseball leagues and teams</h1>
<h2>Triple-A</h2>
<h3>International League</h3>
<table class="wikitable">
  <thead><tr><th>Division</th><th>Team</th><th>City</th><th>State</th><th>Stadium</th><th>Capacity</th></tr></thead>
  <tbody>
  <tr><td rowspan="2">East</td><td>Buffalo Bisons</td><td> Buffalo </td><td>New York </td><td>Sahlen Field</td><td>16,600</td></tr>
  <tr><td>Lehigh Valley IronPigs</td><td>Allentown</td><td>Pennsylvania</td><td>Coca-Cola Park</td><td>10,100</td></tr>
  </tbody>
</table>
<h3>Florida State League</h3>
<table class="wikitable">
  <tr><th>Team</th><th>City (all in Florida)</th><th>Stadium</th></tr>
  <tr><td>Clearwater Threshers</td><td>Clearwater</td><td>BayCare Ballpark</td></tr>
</table>
<h3>Arizona Fall League</h3>
<table class="wikitable">
  <tr><th>Team</th><th>City</th></tr>
  <tr><td>Mesa Solar Sox</td><td>Mesa</td></tr>
</table>
<h3>Dominican Summer League</h3>
<table class="wikitable">
  <tr><th>Team</th><th>City</th></tr>
  <tr><td>DSL Astros</td><td>Boca Chica</td></tr>
</table>
<h3>Northwest League</h3>
<table class="wikitable">
  <tr><th>Team</th><th>City</th><th>State/Province</th></tr>
  <tr><td>Vancouver Canadians</td><td>Vancouver</td><td>British Columbia</td></tr>
</table>
<h3>Canadian teams</h3>
<table class="wikitable">
  <tr><th>Team</th><th>City</th><th>Province</th></tr>
  <tr><td>Ottawa Titans</td><td>Ottawa</td><td>Ontario</td></tr>
</table>
<h3>Mystery League</h3>
<table class="wikitable">
  <tr><th>Team</th><th>City</th></tr>
  <tr><td>Somewhere Somethings</td><td>Somewhere</td></tr>
</table>
</body></html>`

func TestExtractLeagues(t *testing.T) {
	frame, warnings := ExtractLeagues(mustDoc(t, leaguesPage))
	if frame == nil {
		t.Fatal("ExtractLeagues() returned nil frame")
	}
	if frame.Len() != 7 {
		t.Fatalf("ExtractLeagues() returned %d rows, want 7", frame.Len())
	}

	tests := []struct {
		row        int
		team       string
		league     string
		tableIndex int64
		city       string
		state      string
	}{
		{0, "Buffalo Bisons", "International League", 1, "Buffalo", "New York"},
		{1, "Lehigh Valley IronPigs", "International League", 1, "Allentown", "Pennsylvania"},
		{2, "Clearwater Threshers", "Florida State League", 2, "Clearwater", "Florida"},
		{3, "Mesa Solar Sox", "Arizona Fall League", 3, "Mesa", "Arizona"},
		{4, "Vancouver Canadians", "Northwest League", 4, "Vancouver", "British Columbia"},
		{5, "Ottawa Titans", "Canadian teams", 5, "Ottawa", "Ontario"},
		{6, "Somewhere Somethings", "Mystery League", 6, "Somewhere", ""},
	}

	for _, tt := range tests {
		t.Run(tt.team, func(t *testing.T) {
			row := frame.Rows[tt.row]
			if got := row.Text("Team"); got != tt.team {
				t.Errorf("Team = %q, want %q", got, tt.team)
			}
			if got := row.Text(ColLeague); got != tt.league {
				t.Errorf("League = %q, want %q", got, tt.league)
			}
			if got, _ := row.Get(ColTableIndex).Integer(); got != tt.tableIndex {
				t.Errorf("TableIndex = %d, want %d", got, tt.tableIndex)
			}
			if got := row.Text(ColCity); got != tt.city {
				t.Errorf("City = %q, want %q", got, tt.city)
			}
			if got := row.Text(ColState); got != tt.state {
				t.Errorf("State = %q, want %q", got, tt.state)
			}
			if got, _ := row.Get(ColIndex).Integer(); got != int64(tt.row) {
				t.Errorf("Index = %d, want %d", got, tt.row)
			}
		})
	}

	if got := frame.Rows[1].Text("Division"); got != "East" {
		t.Errorf("rowspan Division = %q, want East", got)
	}
	if frame.HasColumn("City (all in Florida)") || frame.HasColumn("State/Province") {
		t.Errorf("source location columns should be dropped: %v", frame.Columns)
	}
	for _, row := range frame.Rows {
		if row.Text("Team") == "DSL Astros" {
			t.Error("excluded league rows must be skipped")
		}
	}

	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", warnings)
	}
	if warnings[0].League != "Mystery League" || warnings[0].TableIndex != 6 {
		t.Errorf("warning = %+v, want Mystery League table 6", warnings[0])
	}
}

func TestExtractLeagues_EmptyTableCounts(t *testing.T) {
	page := `<html><body>
<h3>Defunct League</h3>
<table class="wikitable">
  <tr><th>Team</th><th>City</th><th>State</th></tr>
</table>
<h3>Eastern League</h3>
<table class="wikitable">
  <tr><th>Team</th><th>City</th><th>State</th></tr>
  <tr><td>Akron RubberDucks</td><td>Akron</td><td>Ohio</td></tr>
</table>
</body></html>`

	frame, warnings := ExtractLeagues(mustDoc(t, page))
	if frame == nil || frame.Len() != 1 {
		t.Fatalf("ExtractLeagues() = %v, want one row", frame)
	}
	if got, _ := frame.Rows[0].Get(ColTableIndex).Integer(); got != 2 {
		t.Errorf("TableIndex = %d, want 2", got)
	}
	if len(warnings) != 1 || warnings[0].League != "Defunct League" || warnings[0].TableIndex != 1 {
		t.Errorf("warnings = %+v", warnings)
	}
}

func TestExtractLeagues_Nil(t *testing.T) {
	frame, warnings := ExtractLeagues(nil)
	if frame != nil || warnings != nil {
		t.Errorf("ExtractLeagues(nil) = %v, %v", frame, warnings)
	}
}

func TestParseTable_Spans(t *testing.T) {
	html := `<table>
	  <tr><th rowspan="2">Team</th><th colspan="2">Location</th></tr>
	  <tr><th>City</th><th>State</th></tr>
	  <tr><td>Akron RubberDucks</td><td colspan="2">Akron, Ohio</td></tr>
	  <tr><td>Erie SeaWolves</td><td>Erie</td><td>Pennsylvania</td><td>extra</td></tr>
	</table>`
	doc := mustDoc(t, html)
	tbl := ParseTable(doc.Find("table").First())

	wantHeader := []string{"Team", "Location City", "Location State", "Unnamed: 3"}
	if len(tbl.Header) != len(wantHeader) {
		t.Fatalf("Header = %q, want %q", tbl.Header, wantHeader)
	}
	for i := range wantHeader {
		if tbl.Header[i] != wantHeader[i] {
			t.Errorf("Header[%d] = %q, want %q", i, tbl.Header[i], wantHeader[i])
		}
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("Rows = %d, want 2", len(tbl.Rows))
	}
	if tbl.Rows[0][1] != "Akron, Ohio" || tbl.Rows[0][2] != "Akron, Ohio" {
		t.Errorf("colspan not expanded: %q", tbl.Rows[0])
	}
	if tbl.Rows[0][3] != "" {
		t.Errorf("short row should be padded, got %q", tbl.Rows[0][3])
	}
}

func TestParseTable_FirstRowHeaderAndDuplicates(t *testing.T) {
	html := `<table>
	  <tr><td>Team</td><td>City</td><td>City</td></tr>
	  <tr><td>A</td><td>B</td><td>C</td></tr>
	</table>`
	tbl := ParseTable(mustDoc(t, html).Find("table").First())
	want := []string{"Team", "City", "City.1"}
	for i := range want {
		if tbl.Header[i] != want[i] {
			t.Errorf("Header[%d] = %q, want %q", i, tbl.Header[i], want[i])
		}
	}
	if len(tbl.Rows) != 1 || tbl.Rows[0][2] != "C" {
		t.Errorf("Rows = %q", tbl.Rows)
	}
}

func TestParseTable_IgnoresNestedTables(t *testing.T) {
	html := `<table>
	  <tr><th>Team</th><th>Logo</th></tr>
	  <tr><td>A</td><td><table><tr><td>inner</td></tr></table></td></tr>
	</table>`
	tbl := ParseTable(mustDoc(t, html).Find("table").First())
	if len(tbl.Rows) != 1 {
		t.Fatalf("Rows = %d, want 1 (nested rows excluded)", len(tbl.Rows))
	}
}
