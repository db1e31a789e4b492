package regions_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/components/regions"
)

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var out []string
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestHandler_KnownCountry(t *testing.T) {
	rec := get(t, regions.Handler(), "/api/getStates?dependentValue=Canada")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	got := decodeList(t, rec)
	want := []string{
		"Alberta", "British Columbia", "Manitoba", "New Brunswick",
		"Newfoundland and Labrador", "Nova Scotia", "Ontario",
		"Prince Edward Island", "Quebec", "Saskatchewan",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("regions mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_UnknownCountryIsEmptyList(t *testing.T) {
	rec := get(t, regions.Handler(), "/api/getStates?dependentValue=Atlantis")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decodeList(t, rec); len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
}

func TestHandler_CustomParamAndTable(t *testing.T) {
	handler := regions.Handler(
		regions.WithDependentParam("country"),
		regions.WithRegions(map[string][]string{"Narnia": {"Lantern Waste"}}),
	)

	rec := get(t, handler, "/api/getStates?country=Narnia")
	want := []string{"Lantern Waste"}
	if diff := cmp.Diff(want, decodeList(t, rec)); diff != "" {
		t.Fatalf("regions mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/getStates", nil)
	rec := httptest.NewRecorder()
	regions.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHandler_Guard(t *testing.T) {
	handler := regions.Handler(regions.WithGuard(func(*http.Request) error {
		return regions.StatusError{Code: http.StatusUnauthorized, Err: errors.New("no token")}
	}))

	rec := get(t, handler, "/api/getStates?dependentValue=USA")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestMountPath(t *testing.T) {
	cases := []struct {
		base string
		want string
	}{
		{"", "/api/getStates"},
		{"/", "/api/getStates"},
		{"/v1", "/v1/api/getStates"},
		{"v1/", "/v1/api/getStates"},
	}
	for _, tc := range cases {
		if got := regions.MountPath(tc.base); got != tc.want {
			t.Fatalf("MountPath(%q) = %q, want %q", tc.base, got, tc.want)
		}
	}
}

func TestRegisterRoutes(t *testing.T) {
	mux := http.NewServeMux()
	pattern, err := regions.RegisterRoutes(mux, "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if pattern != "/api/getStates" {
		t.Fatalf("pattern = %q", pattern)
	}

	rec := get(t, mux, "/api/getStates?dependentValue=USA")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decodeList(t, rec); len(got) != 10 || got[0] != "Alabama" {
		t.Fatalf("unexpected regions: %v", got)
	}

	if _, err := regions.RegisterRoutes(nil, ""); err == nil {
		t.Fatal("nil mux accepted")
	}
}

func TestDefaultRegionsIsACopy(t *testing.T) {
	table := regions.DefaultRegions()
	table["USA"][0] = "Mutated"

	if regions.DefaultRegions()["USA"][0] != "Alabama" {
		t.Fatal("DefaultRegions leaks internal state")
	}
}
