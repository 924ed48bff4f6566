package fred

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pfrederiksen/milb-data/internal/httpx"
)

func TestMetroGDPSeries(t *testing.T) {
	if got := MetroGDPSeries("10420"); got != "NGMP10420" {
		t.Errorf("MetroGDPSeries() = %q", got)
	}
}

func TestObservations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/series/observations" || q.Get("api_key") != "k" || q.Get("file_type") != "json" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if q.Get("series_id") != "NGMP10420" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error_code":400,"error_message":"Bad Request. The series does not exist."}`))
			return
		}
		w.Write([]byte(`{"observations":[
			{"date":"2021-01-01","value":"38456.2"},
			{"date":"2022-01-01","value":"."},
			{"date":"2023-01-01","value":"41012.9"}]}`))
	}))
	defer server.Close()

	c := NewClient(httpx.New(), "k")
	c.SetBaseURL(server.URL)

	obs, err := c.Observations(context.Background(), "NGMP10420")
	if err != nil {
		t.Fatalf("Observations() error = %v", err)
	}
	if len(obs) != 3 {
		t.Fatalf("got %d observations, want 3", len(obs))
	}
	if obs[0].Date.Year() != 2021 || obs[0].SeriesID != "NGMP10420" {
		t.Errorf("obs[0] = %+v", obs[0])
	}
	if v, ok := obs[0].Value.Number(); !ok || v != 38456.2 {
		t.Errorf("obs[0].Value = %v", obs[0].Value)
	}
	if !obs[1].Value.IsMissing() {
		t.Errorf("\".\" should be missing, got %v", obs[1].Value)
	}

	_, err = c.Observations(context.Background(), "NGMP00000")
	var se *httpx.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusNotFound {
		t.Errorf("unknown series error = %v", err)
	}
}

func TestObservations_NoKey(t *testing.T) {
	if _, err := NewClient(nil, "").Observations(context.Background(), "NGMP10420"); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("error = %v, want ErrNoAPIKey", err)
	}
}
