package record

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestCell_Kinds(t *testing.T) {
	tests := []struct {
		name        string
		cell        Cell
		wantMissing bool
		wantString  string
	}{
		{"missing", Missing(), true, ""},
		{"text", Text("Akron"), false, "Akron"},
		{"float", Float(12.5), false, "12.5"},
		{"nan float", Float(math.NaN()), true, ""},
		{"int", Int(1889), false, "1889"},
		{"time", Time(time.Date(1901, 1, 1, 0, 0, 0, 0, time.UTC)), false, "1901-01-01T00:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cell.IsMissing(); got != tt.wantMissing {
				t.Errorf("IsMissing() = %v, want %v", got, tt.wantMissing)
			}
			if got := tt.cell.String(); got != tt.wantString {
				t.Errorf("String() = %q, want %q", got, tt.wantString)
			}
		})
	}
}

func TestCell_MarshalJSON(t *testing.T) {
	row := map[string]Cell{
		"a": Missing(),
		"b": Int(3),
		"c": Text("x"),
	}
	data, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"a":null,"b":3,"c":"x"}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}

func TestCell_Value(t *testing.T) {
	v, err := Missing().Value()
	if err != nil || v != nil {
		t.Errorf("Missing().Value() = %v, %v; want nil, nil", v, err)
	}
	v, _ = Float(4.5).Value()
	if v != 4.5 {
		t.Errorf("Float(4.5).Value() = %v", v)
	}
}

func TestFrame_RenameDropAppend(t *testing.T) {
	f := NewFrame("Team", "City (all in Florida)")
	f.Rows = []Row{
		{"Team": Text("Clearwater Threshers"), "City (all in Florida)": Text("Clearwater")},
	}

	f.Rename("City (all in Florida)", "City")
	if !f.HasColumn("City") || f.HasColumn("City (all in Florida)") {
		t.Fatalf("Rename() columns = %v", f.Columns)
	}
	if got := f.Rows[0].Text("City"); got != "Clearwater" {
		t.Errorf("City = %q, want Clearwater", got)
	}

	other := NewFrame("Team", "State")
	other.Rows = []Row{{"Team": Text("Reno Aces"), "State": Text("Nevada")}}
	f.Append(other)

	if f.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", f.Len())
	}
	wantCols := []string{"Team", "City", "State"}
	for i, c := range wantCols {
		if f.Columns[i] != c {
			t.Errorf("Columns[%d] = %q, want %q", i, f.Columns[i], c)
		}
	}
	if !f.Rows[0].Get("State").IsMissing() {
		t.Error("appended column should read as missing on earlier rows")
	}

	f.Drop("State")
	if f.HasColumn("State") || f.Rows[1].Has("State") {
		t.Error("Drop() left State behind")
	}
}

func TestFrame_ColumnsWithPrefix(t *testing.T) {
	f := NewFrame("Team", "State/Province", "State/Province.1", "City")
	got := f.ColumnsWithPrefix("State/")
	if len(got) != 2 || got[0] != "State/Province" {
		t.Errorf("ColumnsWithPrefix() = %v", got)
	}
}
