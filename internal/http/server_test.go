package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kharcha/internal/auth"
	"kharcha/internal/core"
	"kharcha/internal/services"
	"kharcha/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	ms := store.NewMemoryStore()
	sessions := auth.NewMemorySessionStore(time.Hour)
	t.Cleanup(sessions.Stop)

	srv := NewServer(":0", auth.NewService(ms, 20000), sessions, services.NewExpenseService(ms, nil, 20000, "₹"))
	t.Cleanup(func() {
		srv.cacheManager.Stop()
		srv.limiter.Stop()
	})
	return srv
}

func do(srv *Server, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func register(t *testing.T, srv *Server, username string) []*http.Cookie {
	t.Helper()
	rr := do(srv, http.MethodPost, "/register", `{"username":"`+username+`","password":"pw"}`, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("register status=%d body=%s", rr.Code, rr.Body.String())
	}
	cookies := rr.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("register set no cookie")
	}
	return cookies
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := do(srv, http.MethodGet, path, "", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestRegisterLoginLogout(t *testing.T) {
	srv := newTestServer(t)

	cookies := register(t, srv, "alice")

	rr := do(srv, http.MethodPost, "/register", `{"username":"alice","password":"other"}`, nil)
	if rr.Code != http.StatusConflict {
		t.Fatalf("duplicate register status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Username already exists") {
		t.Fatalf("duplicate body=%s", rr.Body.String())
	}

	rr = do(srv, http.MethodPost, "/login", `{"username":"alice","password":"wrong"}`, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status=%d", rr.Code)
	}

	rr = do(srv, http.MethodPost, "/login", `{"username":"alice","password":"pw"}`, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("login status=%d", rr.Code)
	}

	rr = do(srv, http.MethodPost, "/logout", "", cookies)
	if rr.Code != http.StatusOK {
		t.Fatalf("logout status=%d", rr.Code)
	}
	rr = do(srv, http.MethodGet, "/api/expenses", "", cookies)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("after logout status=%d", rr.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	srv := newTestServer(t)

	cases := []string{
		`{"username":"","password":"pw"}`,
		`{"username":"bob","password":""}`,
		`not json`,
	}
	for i, body := range cases {
		rr := do(srv, http.MethodPost, "/register", body, nil)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("case %d status=%d", i, rr.Code)
		}
	}
}

func TestUnauthenticatedIsRejected(t *testing.T) {
	srv := newTestServer(t)

	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/expenses"},
		{http.MethodGet, "/api/categories"},
		{http.MethodGet, "/api/monthly-summary"},
		{http.MethodGet, "/export-csv"},
	}
	for _, p := range paths {
		rr := do(srv, p.method, p.path, "", nil)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s status=%d", p.path, rr.Code)
		}
		if !strings.Contains(rr.Body.String(), "Unauthorized") {
			t.Fatalf("%s body=%s", p.path, rr.Body.String())
		}
	}
}

func TestExpenseCRUD(t *testing.T) {
	srv := newTestServer(t)
	cookies := register(t, srv, "alice")
	today := time.Now().Format(core.DateLayout)

	rr := do(srv, http.MethodPost, "/api/expenses", `{"date":"`+today+`","category":"Food","amount":100}`, cookies)
	if rr.Code != http.StatusOK {
		t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
	}
	var stored core.Expense
	if err := json.Unmarshal(rr.Body.Bytes(), &stored); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stored.ID != 0 {
		t.Fatalf("id=%d", stored.ID)
	}

	// Amount as string decodes the same way.
	rr = do(srv, http.MethodPost, "/api/expenses", `{"date":"`+today+`","category":"Bills","amount":"42.5"}`, cookies)
	if rr.Code != http.StatusOK {
		t.Fatalf("string amount status=%d body=%s", rr.Code, rr.Body.String())
	}

	rr = do(srv, http.MethodGet, "/api/expenses", "", cookies)
	if rr.Code != http.StatusOK {
		t.Fatalf("list status=%d", rr.Code)
	}
	var listed []core.Expense
	if err := json.Unmarshal(rr.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("len=%d", len(listed))
	}

	rr = do(srv, http.MethodDelete, "/api/expenses", `{"id":0}`, cookies)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete status=%d", rr.Code)
	}
	rr = do(srv, http.MethodGet, "/api/expenses", "", cookies)
	listed = nil
	if err := json.Unmarshal(rr.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != 1 {
		t.Fatalf("after delete=%+v", listed)
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	srv := newTestServer(t)
	cookies := register(t, srv, "alice")

	cases := []string{
		`{"date":"03/01/2024","category":"Food","amount":10}`,
		`{"date":"2024-03-01","category":"","amount":10}`,
		`{"date":"2024-03-01","category":"Food","amount":0}`,
		`{"date":"2024-03-01","category":"Food","amount":-5}`,
	}
	for i, body := range cases {
		rr := do(srv, http.MethodPost, "/api/expenses", body, cookies)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("case %d status=%d body=%s", i, rr.Code, rr.Body.String())
		}
	}
}

func TestDeleteRequiresID(t *testing.T) {
	srv := newTestServer(t)
	cookies := register(t, srv, "alice")

	rr := do(srv, http.MethodDelete, "/api/expenses", `{}`, cookies)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", rr.Code)
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	srv := newTestServer(t)
	cookies := register(t, srv, "alice")

	rr := do(srv, http.MethodGet, "/api/categories", "", cookies)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	var resp map[string][]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp["categories"]) != 5 || resp["categories"][0] != "Food" {
		t.Fatalf("categories=%v", resp["categories"])
	}
}

func TestMonthlySummaryEndpoint(t *testing.T) {
	srv := newTestServer(t)
	cookies := register(t, srv, "alice")
	today := time.Now().Format(core.DateLayout)

	rr := do(srv, http.MethodPost, "/api/expenses", `{"date":"`+today+`","category":"Food","amount":150}`, cookies)
	if rr.Code != http.StatusOK {
		t.Fatalf("create status=%d", rr.Code)
	}

	rr = do(srv, http.MethodGet, "/api/monthly-summary", "", cookies)
	if rr.Code != http.StatusOK {
		t.Fatalf("summary status=%d body=%s", rr.Code, rr.Body.String())
	}
	var summary core.Summary
	if err := json.Unmarshal(rr.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if summary.TotalSpent != 150 || summary.MonthlyBudget != 20000 || summary.ExpenseCount != 1 {
		t.Fatalf("summary=%+v", summary)
	}

	// A new expense must invalidate the cached summary.
	rr = do(srv, http.MethodPost, "/api/expenses", `{"date":"`+today+`","category":"Rent","amount":50}`, cookies)
	if rr.Code != http.StatusOK {
		t.Fatalf("create status=%d", rr.Code)
	}
	rr = do(srv, http.MethodGet, "/api/monthly-summary", "", cookies)
	summary = core.Summary{}
	if err := json.Unmarshal(rr.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if summary.TotalSpent != 200 || summary.ExpenseCount != 2 {
		t.Fatalf("stale summary=%+v", summary)
	}
}

func TestExportCSVEndpoint(t *testing.T) {
	srv := newTestServer(t)
	cookies := register(t, srv, "alice")

	rr := do(srv, http.MethodPost, "/api/expenses", `{"date":"2024-01-05","category":"Bills","amount":42.5}`, cookies)
	if rr.Code != http.StatusOK {
		t.Fatalf("create status=%d", rr.Code)
	}

	rr = do(srv, http.MethodGet, "/export-csv", "", cookies)
	if rr.Code != http.StatusOK {
		t.Fatalf("export status=%d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type=%q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "expenses_") {
		t.Fatalf("disposition=%q", cd)
	}

	body := rr.Body.String()
	if !strings.HasPrefix(body, "Date,Category,Amount (₹)") {
		t.Fatalf("header row: %q", body)
	}
	if !strings.Contains(body, "01/05/2024,Bills,₹42.50") {
		t.Fatalf("row: %q", body)
	}
}

func TestUsersAreIsolated(t *testing.T) {
	srv := newTestServer(t)
	alice := register(t, srv, "alice")
	bob := register(t, srv, "bob")

	rr := do(srv, http.MethodPost, "/api/expenses", `{"date":"2024-03-01","category":"Food","amount":10}`, alice)
	if rr.Code != http.StatusOK {
		t.Fatalf("create status=%d", rr.Code)
	}

	rr = do(srv, http.MethodGet, "/api/expenses", "", bob)
	var listed []core.Expense
	if err := json.Unmarshal(rr.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("bob sees alice's expenses: %+v", listed)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	cookies := register(t, srv, "alice")

	rr := do(srv, http.MethodGet, "/register", "", nil)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("register GET status=%d", rr.Code)
	}
	rr = do(srv, http.MethodPut, "/api/expenses", `{}`, cookies)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expenses PUT status=%d", rr.Code)
	}
}
