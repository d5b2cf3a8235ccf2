/*
handlers_test.go - Tests for API handlers

Tests for:
- Seed/process/list round trip over HTTP
- Response cache invalidation on process, delete, and send
- Roster management (dependents, employee removal)
- Error status mapping (400/404/409)
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/warp/payroll-engine/cache"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
)

func newTestServer(t *testing.T) (*httptest.Server, *sqlite.Store) {
	t.Helper()
	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	engine := payroll.NewEngine(store, store, payroll.DefaultConfig(), nil)
	handler := NewHandler(engine, store, cache.NewMemoryCache(), nil)
	server := httptest.NewServer(NewRouter(handler))
	t.Cleanup(server.Close)
	return server, store
}

func doRequest(t *testing.T, method, url string) (*http.Response, []byte) {
	t.Helper()
	return doJSONRequest(t, method, url, "")
}

func doJSONRequest(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	return resp, respBody
}

func listPaychecks(t *testing.T, server *httptest.Server, employeeID int64, year int) []PaycheckDTO {
	t.Helper()
	resp, body := doRequest(t, http.MethodGet,
		fmt.Sprintf("%s/api/paychecks?employeeId=%d&year=%d", server.URL, employeeID, year))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET paychecks returned %d: %s", resp.StatusCode, body)
	}
	var dtos []PaycheckDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		t.Fatalf("Failed to decode paychecks: %v", err)
	}
	return dtos
}

func TestAPI_SeedProcessList(t *testing.T) {
	// GIVEN: A seeded database
	// WHEN: Processing 2025 and listing it
	// THEN: 26 paychecks come back with string-typed amounts

	server, _ := newTestServer(t)

	resp, _ := doRequest(t, http.MethodPost, server.URL+"/api/seed")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("seed returned %d", resp.StatusCode)
	}

	resp, body := doRequest(t, http.MethodPost,
		server.URL+"/api/paychecks/process?employeeId=1&year=2025")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("process returned %d: %s", resp.StatusCode, body)
	}

	paychecks := listPaychecks(t, server, 1, 2025)
	if len(paychecks) != 26 {
		t.Fatalf("got %d paychecks, want 26", len(paychecks))
	}
	if paychecks[0].GrossAmount != "2000.00" {
		t.Errorf("gross = %q, want \"2000.00\"", paychecks[0].GrossAmount)
	}
	// John + Jane + Kevin + Alex
	if len(paychecks[0].Costs) != 4 {
		t.Errorf("got %d cost lines, want 4", len(paychecks[0].Costs))
	}
}

func TestAPI_CacheInvalidatedOnWrite(t *testing.T) {
	// GIVEN: A cached paycheck listing
	// WHEN: Deleting the year's paychecks
	// THEN: The next listing reflects the deletion instead of the cache

	server, _ := newTestServer(t)
	doRequest(t, http.MethodPost, server.URL+"/api/seed")
	doRequest(t, http.MethodPost, server.URL+"/api/paychecks/process?employeeId=1&year=2025")

	if got := listPaychecks(t, server, 1, 2025); len(got) != 26 {
		t.Fatalf("got %d paychecks, want 26", len(got))
	}
	// Listing again hits the cache; still 26.
	if got := listPaychecks(t, server, 1, 2025); len(got) != 26 {
		t.Fatalf("cached listing: got %d paychecks, want 26", len(got))
	}

	resp, _ := doRequest(t, http.MethodDelete, server.URL+"/api/paychecks?employeeId=1&year=2025")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete returned %d", resp.StatusCode)
	}

	if got := listPaychecks(t, server, 1, 2025); len(got) != 0 {
		t.Errorf("after delete: got %d paychecks, want 0", len(got))
	}
}

func TestAPI_SendPaycheck(t *testing.T) {
	server, _ := newTestServer(t)
	doRequest(t, http.MethodPost, server.URL+"/api/seed")
	doRequest(t, http.MethodPost, server.URL+"/api/paychecks/process?employeeId=1&year=2025")

	first := listPaychecks(t, server, 1, 2025)[0]
	sendURL := fmt.Sprintf("%s/api/paychecks/%d/send?employeeId=1&year=2025", server.URL, first.ID)

	resp, _ := doRequest(t, http.MethodPost, sendURL)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("send returned %d", resp.StatusCode)
	}
	if got := listPaychecks(t, server, 1, 2025)[0]; got.SentAt == nil {
		t.Error("sent paycheck should carry sent_at")
	}

	// Double send conflicts.
	resp, _ = doRequest(t, http.MethodPost, sendURL)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("double send returned %d, want 409", resp.StatusCode)
	}
}

func TestAPI_DependentLifecycle(t *testing.T) {
	// GIVEN: A seeded employee with three dependents
	// WHEN: Adding, renaming, and removing a fourth
	// THEN: The dependents listing tracks every step

	server, _ := newTestServer(t)
	doRequest(t, http.MethodPost, server.URL+"/api/seed")

	resp, body := doJSONRequest(t, http.MethodPost, server.URL+"/api/employees/1/dependents",
		`{"first_name":"Sam","last_name":"Doe","relationship":"child"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create dependent returned %d: %s", resp.StatusCode, body)
	}
	var created DependentDTO
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode dependent: %v", err)
	}
	if created.ID == 0 || created.FirstName != "Sam" {
		t.Fatalf("created dependent = %+v, want Sam with an id", created)
	}

	listDependents := func() []DependentDTO {
		t.Helper()
		resp, body := doRequest(t, http.MethodGet, server.URL+"/api/employees/1/dependents")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("list dependents returned %d", resp.StatusCode)
		}
		var deps []DependentDTO
		if err := json.Unmarshal(body, &deps); err != nil {
			t.Fatalf("decode dependents: %v", err)
		}
		return deps
	}
	if deps := listDependents(); len(deps) != 4 {
		t.Fatalf("got %d dependents after create, want 4", len(deps))
	}

	updateURL := fmt.Sprintf("%s/api/dependents/%d", server.URL, created.ID)
	resp, body = doJSONRequest(t, http.MethodPut, updateURL,
		`{"first_name":"Samantha","last_name":"Doe","relationship":"spouse"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update dependent returned %d: %s", resp.StatusCode, body)
	}
	deps := listDependents()
	last := deps[len(deps)-1]
	if last.FirstName != "Samantha" || last.Relationship != "spouse" {
		t.Errorf("updated dependent = %+v, want Samantha the spouse", last)
	}

	resp, _ = doRequest(t, http.MethodDelete, updateURL)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete dependent returned %d", resp.StatusCode)
	}
	if deps := listDependents(); len(deps) != 3 {
		t.Errorf("got %d dependents after delete, want 3", len(deps))
	}

	// Gone is gone.
	resp, _ = doRequest(t, http.MethodDelete, updateURL)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete returned %d, want 404", resp.StatusCode)
	}
}

func TestAPI_DependentValidation(t *testing.T) {
	server, _ := newTestServer(t)
	doRequest(t, http.MethodPost, server.URL+"/api/seed")

	cases := []struct {
		name string
		body string
	}{
		{"missing first name", `{"last_name":"Doe","relationship":"child"}`},
		{"unknown relationship", `{"first_name":"Sam","relationship":"cousin"}`},
		{"malformed json", `{"first_name":`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := doJSONRequest(t, http.MethodPost,
				server.URL+"/api/employees/1/dependents", tc.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("returned %d, want 400 (%s)", resp.StatusCode, body)
			}
		})
	}

	resp, _ := doJSONRequest(t, http.MethodPost, server.URL+"/api/employees/999/dependents",
		`{"first_name":"Sam","relationship":"child"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("create for unknown employee returned %d, want 404", resp.StatusCode)
	}
}

func TestAPI_DeleteEmployee(t *testing.T) {
	// GIVEN: A seeded, processed employee with a cached listing
	// WHEN: Deleting the employee
	// THEN: The employee, their paychecks, and the cached listing are gone

	server, _ := newTestServer(t)
	doRequest(t, http.MethodPost, server.URL+"/api/seed")
	doRequest(t, http.MethodPost, server.URL+"/api/paychecks/process?employeeId=1&year=2025")
	if got := listPaychecks(t, server, 1, 2025); len(got) != 26 {
		t.Fatalf("got %d paychecks, want 26", len(got))
	}

	resp, body := doRequest(t, http.MethodDelete, server.URL+"/api/employees/1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete employee returned %d: %s", resp.StatusCode, body)
	}

	resp, _ = doRequest(t, http.MethodGet, server.URL+"/api/employees/1")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get deleted employee returned %d, want 404", resp.StatusCode)
	}
	if got := listPaychecks(t, server, 1, 2025); len(got) != 0 {
		t.Errorf("got %d paychecks after employee delete, want 0", len(got))
	}

	resp, _ = doRequest(t, http.MethodDelete, server.URL+"/api/employees/1")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete returned %d, want 404", resp.StatusCode)
	}
}

func TestAPI_ErrorStatuses(t *testing.T) {
	server, _ := newTestServer(t)
	doRequest(t, http.MethodPost, server.URL+"/api/seed")

	cases := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"unknown employee", http.MethodPost, "/api/paychecks/process?employeeId=999&year=2025", http.StatusNotFound},
		{"malformed employee id", http.MethodPost, "/api/paychecks/process?employeeId=abc&year=2025", http.StatusBadRequest},
		{"missing year", http.MethodGet, "/api/paychecks?employeeId=1", http.StatusBadRequest},
		{"negative year", http.MethodPost, "/api/paychecks/process?employeeId=1&year=-5", http.StatusBadRequest},
		{"unknown paycheck send", http.MethodPost, "/api/paychecks/404/send?employeeId=1&year=2025", http.StatusNotFound},
		{"unknown employee lookup", http.MethodGet, "/api/employees/999", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := doRequest(t, tc.method, server.URL+tc.path)
			if resp.StatusCode != tc.want {
				t.Errorf("%s %s returned %d, want %d (%s)", tc.method, tc.path, resp.StatusCode, tc.want, body)
			}
		})
	}
}

func TestAPI_EmployeeAndBenefits(t *testing.T) {
	server, store := newTestServer(t)
	if _, err := SeedDemo(context.Background(), store); err != nil {
		t.Fatalf("seed: %v", err)
	}

	resp, body := doRequest(t, http.MethodGet, server.URL+"/api/employees/1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get employee returned %d", resp.StatusCode)
	}
	var emp EmployeeDTO
	if err := json.Unmarshal(body, &emp); err != nil {
		t.Fatalf("decode employee: %v", err)
	}
	if emp.FirstName != "John" || len(emp.Dependents) != 3 {
		t.Errorf("employee = %s with %d dependents, want John with 3", emp.FirstName, len(emp.Dependents))
	}

	resp, body = doRequest(t, http.MethodGet, server.URL+"/api/benefits/employee")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list benefits returned %d", resp.StatusCode)
	}
	var benefits []BenefitDTO
	if err := json.Unmarshal(body, &benefits); err != nil {
		t.Fatalf("decode benefits: %v", err)
	}
	if len(benefits) != 1 || benefits[0].AnnualCost != "1000.00" {
		t.Errorf("benefits = %+v, want one 1000.00 entry", benefits)
	}
}

func TestAPI_SeedIsIdempotent(t *testing.T) {
	server, store := newTestServer(t)

	doRequest(t, http.MethodPost, server.URL+"/api/seed")
	doRequest(t, http.MethodPost, server.URL+"/api/seed")

	seeded, err := store.HasEmployees(context.Background())
	if err != nil || !seeded {
		t.Fatalf("seed state: %v %v", seeded, err)
	}
	benefits, err := store.ActiveEmployeeBenefits(context.Background())
	if err != nil {
		t.Fatalf("benefits: %v", err)
	}
	if len(benefits) != 1 {
		t.Errorf("got %d employee benefits after double seed, want 1", len(benefits))
	}
}
