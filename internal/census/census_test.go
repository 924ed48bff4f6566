package census

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/pfrederiksen/milb-data/internal/httpx"
)

func TestNormalizeState(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"Ohio", "OH", false},
		{"ohio", "OH", false},
		{" north carolina ", "NC", false},
		{"oh", "OH", false},
		{"DC", "DC", false},
		{"District of Columbia", "DC", false},
		{"district of columbia", "DC", false},
		{"DISTRICT OF  COLUMBIA", "DC", false},
		{"dc", "DC", false},
		{"Ontario", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeState(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeState(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrUnknownState) {
				t.Errorf("error = %v, want ErrUnknownState", err)
			}
			if got != tt.want {
				t.Errorf("NormalizeState(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAbbreviate(t *testing.T) {
	if got, ok := Abbreviate("new york"); !ok || got != "NY" {
		t.Errorf("Abbreviate(new york) = %q, %v", got, ok)
	}
	if _, ok := Abbreviate("NY"); ok {
		t.Error("Abbreviate only accepts full names")
	}
}

func TestCBSAVintage(t *testing.T) {
	tests := []struct {
		year    int
		want    string
		wantErr bool
	}{
		{2023, "2020", false},
		{2020, "2020", false},
		{2019, "2010", false},
		{2012, "2010", false},
		{2005, "2000", false},
		{2004, "", true},
		{2030, "", true},
	}
	for _, tt := range tests {
		got, err := CBSAVintage(tt.year)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("CBSAVintage(%d) = %q, %v", tt.year, got, err)
		}
	}
}

func TestVariableCodes(t *testing.T) {
	codes := VariableCodes()
	if len(codes) != len(ACS5Variables) || codes[0] != "B01003_001E" {
		t.Errorf("VariableCodes() = %v", codes)
	}
	seen := make(map[string]bool)
	for _, c := range codes {
		if seen[c] {
			t.Errorf("duplicate variable %s", c)
		}
		seen[c] = true
	}
}

// acsServer fakes the ACS endpoint for Ohio. Variables listed in missing are
// rejected with 400 whenever they appear in a query.
func acsServer(t *testing.T, missing map[string]bool, calls *int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if !strings.HasSuffix(r.URL.Path, "/2023/acs/acs5") {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		if q.Get("key") != "test-key" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		get := strings.Split(q.Get("get"), ",")
		for _, v := range get {
			if missing[v] {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("error: unknown variable '" + v + "'"))
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		switch {
		case q.Get("for") == "state:*":
			w.Write([]byte(`[["NAME","state"],["Ohio","39"],["Utah","49"]]`))
		case q.Get("for") == "place:*" && q.Get("in") == "state:39":
			w.Write([]byte(`[["NAME","state","place"],
				["Akron city, Ohio","39","01000"],
				["Columbus city, Ohio","39","18000"],
				["Columbus Grove village, Ohio","39","18028"],
				["Dayton city, Ohio","39","21000"],
				["Daytona village, Ohio","39","99999"]]`))
		case q.Get("for") == "place:01000":
			header := `"NAME"`
			values := `"Akron city, Ohio"`
			for _, v := range get[1:] {
				header += `,"` + v + `"`
				if v == "B19013_001E" {
					values += `,"-666666666"`
				} else {
					values += `,"190273"`
				}
			}
			w.Write([]byte(`[[` + header + `,"state","place"],[` + values + `,"39","01000"]]`))
		case q.Get("for") == "place:77777":
			w.Write([]byte(`[["NAME","state","place"]]`))
		case strings.HasPrefix(q.Get("for"), cbsaGeography+":"):
			w.Write([]byte(`[["NAME","B01003_001E","` + cbsaGeography + `"],["Akron, OH Metro Area","701456","10420"]]`))
		default:
			w.Write([]byte(`[]`))
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, missing map[string]bool, calls *int32) *Client {
	server := acsServer(t, missing, calls)
	c := NewClient(httpx.New(), "test-key", 2023)
	c.SetBaseURL(server.URL)
	return c
}

func TestStateFIPS(t *testing.T) {
	var calls int32
	c := newTestClient(t, nil, &calls)
	ctx := context.Background()

	for _, in := range []string{"Ohio", "OH", "ohio"} {
		got, err := c.StateFIPS(ctx, in)
		if err != nil || got != "39" {
			t.Errorf("StateFIPS(%q) = %q, %v", in, got, err)
		}
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("state table fetched %d times, want 1", calls)
	}

	if _, err := c.StateFIPS(ctx, "Texas"); !errors.Is(err, ErrUnknownState) {
		t.Errorf("StateFIPS(Texas) error = %v", err)
	}
}

func TestPlaceFIPS(t *testing.T) {
	var calls int32
	c := newTestClient(t, nil, &calls)

	tests := []struct {
		city    string
		want    string
		wantErr bool
	}{
		{"Akron", "01000", false},
		{"Columbus", "18000", false}, // two prefixes, " city" wins
		{"Dayton", "21000", false},
		{"Toledo", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.city, func(t *testing.T) {
			p, err := c.PlaceFIPS(context.Background(), tt.city, "Ohio")
			if (err != nil) != tt.wantErr {
				t.Fatalf("PlaceFIPS(%q) error = %v", tt.city, err)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrPlaceNotFound) {
					t.Errorf("error = %v, want ErrPlaceNotFound", err)
				}
				return
			}
			if p.PlaceFIPS != tt.want || p.StateFIPS != "39" {
				t.Errorf("PlaceFIPS(%q) = %+v", tt.city, p)
			}
		})
	}
}

func TestCheckFIPS(t *testing.T) {
	var calls int32
	c := newTestClient(t, nil, &calls)
	ctx := context.Background()

	if err := c.CheckFIPS(ctx, Place{StateFIPS: "39", PlaceFIPS: "01000"}); err != nil {
		t.Errorf("CheckFIPS(akron) error = %v", err)
	}
	if err := c.CheckFIPS(ctx, Place{StateFIPS: "39", PlaceFIPS: "77777"}); !errors.Is(err, ErrPlaceNotFound) {
		t.Errorf("CheckFIPS(unknown) error = %v", err)
	}
	if err := c.CheckFIPS(ctx, Place{StateFIPS: "39"}); !errors.Is(err, ErrPlaceNotFound) {
		t.Errorf("CheckFIPS(incomplete) error = %v", err)
	}
}

func TestAvailableVariables(t *testing.T) {
	missing := map[string]bool{"B11016_001E": true, "C24050_013E": true}
	var calls int32
	c := newTestClient(t, missing, &calls)
	place := Place{Name: "Akron city, Ohio", StateFIPS: "39", PlaceFIPS: "01000"}

	vars := VariableCodes()
	got, err := c.AvailableVariables(context.Background(), vars, place, DefaultBatch)
	if err != nil {
		t.Fatalf("AvailableVariables() error = %v", err)
	}

	if len(got) != len(vars)-len(missing) {
		t.Errorf("got %d variables, want %d", len(got), len(vars)-len(missing))
	}
	for _, v := range got {
		if missing[v] {
			t.Errorf("unavailable variable %s returned", v)
		}
	}
	// input order is kept
	if got[0] != vars[0] || got[len(got)-1] != "C24050_012E" {
		t.Errorf("order not kept: first %s last %s", got[0], got[len(got)-1])
	}
}

func TestAvailableVariables_TransportError(t *testing.T) {
	c := NewClient(httpx.New(), "test-key", 2023)
	c.SetBaseURL("http://127.0.0.1:1")

	_, err := c.AvailableVariables(context.Background(), []string{"B01003_001E"}, Place{StateFIPS: "39", PlaceFIPS: "01000"}, 10)
	if err == nil {
		t.Fatal("transport errors must abort the probe")
	}
}

func TestCityEstimate(t *testing.T) {
	missing := map[string]bool{"B11016_001E": true}
	var calls int32
	c := newTestClient(t, missing, &calls)

	est, err := c.CityEstimate(context.Background(), "Akron", "OH", VariableCodes())
	if err != nil {
		t.Fatalf("CityEstimate() error = %v", err)
	}
	if est.PlaceName != "Akron city, Ohio" || est.City != "Akron" || est.State != "OH" {
		t.Errorf("identity = %+v", est)
	}
	if len(est.Values) != len(ACS5Variables) {
		t.Errorf("got %d values, want every variable", len(est.Values))
	}
	if n, ok := est.Values.Get("B01003_001E").Number(); !ok || n != 190273 {
		t.Errorf("population = %v", est.Values.Get("B01003_001E"))
	}
	if !est.Values.Get("B11016_001E").IsMissing() {
		t.Error("unavailable variable should be missing")
	}
	if !est.Values.Get("B19013_001E").IsMissing() {
		t.Error("annotation code should be missing")
	}
}

func TestQueryCBSA(t *testing.T) {
	var calls int32
	c := newTestClient(t, nil, &calls)

	row, err := c.QueryCBSA(context.Background(), "10420", []string{"B01003_001E"})
	if err != nil {
		t.Fatalf("QueryCBSA() error = %v", err)
	}
	if row.Text("NAME") != "Akron, OH Metro Area" {
		t.Errorf("NAME = %q", row.Text("NAME"))
	}
	if n, _ := row.Get("B01003_001E").Number(); n != 701456 {
		t.Errorf("population = %v", row.Get("B01003_001E"))
	}
}

func TestEstimateArea(t *testing.T) {
	var calls int32
	c := newTestClient(t, nil, &calls)

	area := Area{
		CBSA:   CBSA{Code: "10420", Name: "Akron, OH", Vintage: "2020", Type: "metro"},
		Cities: []string{"Akron, Ohio"},
	}
	est, err := c.EstimateArea(context.Background(), area, []string{"B01003_001E", "B19013_001E"})
	if err != nil {
		t.Fatalf("EstimateArea() error = %v", err)
	}
	if est.ACSName != "Akron, OH Metro Area" || est.Code != "10420" || len(est.Cities) != 1 {
		t.Errorf("EstimateArea() = %+v", est)
	}
	if n, _ := est.Values.Get("B01003_001E").Number(); n != 701456 {
		t.Errorf("population = %v", est.Values.Get("B01003_001E"))
	}
	// not in the response
	if v, ok := est.Values["B19013_001E"]; !ok || !v.IsMissing() {
		t.Errorf("income = %v, %v, want missing", v, ok)
	}
}

func TestLookupCBSA(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("vintage") != "Current_2020" || q.Get("benchmark") != "Public_AR_Current" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch {
		case strings.HasPrefix(q.Get("address"), "Akron") && q.Get("layers") == "CBSA":
			w.Write([]byte(`{"result":{"geographies":{"CBSA":[{"GEOID":"10420","NAME":"Akron, OH"}]}}}`))
		case strings.HasPrefix(q.Get("address"), "Frederick") && q.Get("layers") == "MICRO":
			w.Write([]byte(`{"result":{"geographies":{"MICRO":[{"GEOID":"99999","NAME":"Frederick, MD"}]}}}`))
		case strings.HasPrefix(q.Get("address"), "Broken"):
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.Write([]byte(`{"result":{"geographies":{}}}`))
		}
	}))
	defer server.Close()

	g := NewGeocoder(httpx.New())
	g.SetBaseURL(server.URL)
	ctx := context.Background()

	tests := []struct {
		city     string
		wantOK   bool
		wantCode string
		wantType string
	}{
		{"Akron", true, "10420", "metro"},
		{"Frederick", true, "99999", "micro"},
		{"Nowhere", false, "", ""},
		{"Broken", false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.city, func(t *testing.T) {
			got, ok, err := g.LookupCBSA(ctx, tt.city, "OH", 2023)
			if err != nil {
				t.Fatalf("LookupCBSA() error = %v", err)
			}
			if ok != tt.wantOK || got.Code != tt.wantCode || got.Type != tt.wantType {
				t.Errorf("LookupCBSA(%s) = %+v, %v", tt.city, got, ok)
			}
			if ok && got.Vintage != "2020" {
				t.Errorf("Vintage = %q", got.Vintage)
			}
		})
	}

	if _, _, err := g.LookupCBSA(ctx, "Akron", "OH", 1999); err == nil {
		t.Error("LookupCBSA() with an unmapped ACS year should fail")
	}
}

func TestResolveCBSAs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("layers") != "CBSA" {
			w.Write([]byte(`{"result":{"geographies":{}}}`))
			return
		}
		switch {
		case strings.HasPrefix(q.Get("address"), "Tacoma"), strings.HasPrefix(q.Get("address"), "Everett"):
			w.Write([]byte(`{"result":{"geographies":{"CBSA":[{"GEOID":"42660","NAME":"Seattle-Tacoma-Bellevue, WA"}]}}}`))
		default:
			w.Write([]byte(`{"result":{"geographies":{}}}`))
		}
	}))
	defer server.Close()

	g := NewGeocoder(httpx.New())
	g.SetBaseURL(server.URL)

	areas, err := g.ResolveCBSAs(context.Background(), [][2]string{
		{"Tacoma", "WA"}, {"Nowhere", "WA"}, {"Everett", "WA"},
	}, 2023)
	if err != nil {
		t.Fatalf("ResolveCBSAs() error = %v", err)
	}
	if len(areas) != 1 || len(areas[0].Cities) != 2 || areas[0].Cities[1] != "Everett, WA" {
		t.Errorf("areas = %+v", areas)
	}
}
