package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/splittab/splittab/internal/auth"
	"github.com/splittab/splittab/internal/handler"
	"github.com/splittab/splittab/internal/payment"
	"github.com/splittab/splittab/internal/service"
	"github.com/splittab/splittab/internal/storage/sqlite"
)

// newTestServer wires the full stack against a temp database, mirroring
// the wiring in cmd/server.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)
	linker := service.NewLinker(store)
	bills := service.NewBillService(store, linker)
	groups := service.NewGroupService(store)
	splits := service.NewSplitService(store)
	menu := service.NewMenuService(store)
	cards := payment.NewProvider(store)

	e := echo.New()
	e.HideBanner = true
	Register(e, jwtManager,
		handler.NewAuthHandler(authenticator, jwtManager),
		handler.NewVendorHandler(menu, bills, linker),
		handler.NewCustomerHandler(groups, bills, linker, splits, cards),
		"/metrics",
	)
	return e
}

func do(t *testing.T, e *echo.Echo, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func signup(t *testing.T, e *echo.Echo, username, role, vendorName string) (userID, token string) {
	t.Helper()

	rec := do(t, e, http.MethodPost, "/auth/signup", "", map[string]string{
		"username":    username,
		"email":       username + "@example.com",
		"password":    "password123",
		"role":        role,
		"vendor_name": vendorName,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup %s: expected 201, got %d: %s", username, rec.Code, rec.Body.String())
	}
	var resp struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
		Token string `json:"token"`
	}
	decode(t, rec, &resp)
	return resp.User.ID, resp.Token
}

type billJSON struct {
	ID          string  `json:"id"`
	Subtotal    float64 `json:"subtotal"`
	Status      string  `json:"status"`
	SessionCode string  `json:"session_code"`
	Contents    []struct {
		ID         string   `json:"id"`
		Name       string   `json:"name"`
		Amount     float64  `json:"amount"`
		AssignedTo []string `json:"assigned_to"`
	} `json:"contents"`
}

// TestDinnerFlow walks the whole product loop over HTTP: a vendor builds a
// bill from their menu, a customer group attaches to it with the session
// code, splits the items and checks what everyone owes.
func TestDinnerFlow(t *testing.T) {
	e := newTestServer(t)

	_, vendorToken := signup(t, e, "diner", "vendor", "The Diner")
	aliceID, aliceToken := signup(t, e, "alice", "customer", "")
	bobID, bobToken := signup(t, e, "bob", "customer", "")

	// Customers must not reach the vendor surface.
	if rec := do(t, e, http.MethodGet, "/vendor/bills", aliceToken, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer on vendor route, got %d", rec.Code)
	}
	if rec := do(t, e, http.MethodGet, "/vendor/bills", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rec.Code)
	}

	// Vendor sets up the menu.
	var pizza, beer struct {
		ID string `json:"id"`
	}
	rec := do(t, e, http.MethodPost, "/vendor/menu", vendorToken, map[string]any{"name": "Pizza", "price": 10, "category": "Mains"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create menu item: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &pizza)
	rec = do(t, e, http.MethodPost, "/vendor/menu", vendorToken, map[string]any{"name": "Beer", "price": 5, "category": "Drinks"})
	decode(t, rec, &beer)

	// Vendor opens a bill and rings up pizza x2 and one beer.
	var bill billJSON
	rec = do(t, e, http.MethodPost, "/vendor/bills", vendorToken, map[string]string{"table_number": "7"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create bill: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &bill)
	if bill.Status != "pending" || bill.SessionCode == "" {
		t.Fatalf("unexpected new bill: %+v", bill)
	}

	do(t, e, http.MethodPost, "/vendor/bills/"+bill.ID+"/items", vendorToken, map[string]any{"menu_item_id": pizza.ID, "quantity": 2})
	rec = do(t, e, http.MethodPost, "/vendor/bills/"+bill.ID+"/items", vendorToken, map[string]any{"menu_item_id": beer.ID})
	decode(t, rec, &bill)
	if bill.Subtotal != 25 {
		t.Fatalf("expected subtotal 25, got %f", bill.Subtotal)
	}
	if len(bill.Contents) != 2 {
		t.Fatalf("expected 2 items, got %d", len(bill.Contents))
	}

	// Alice forms the group, bob joins with the code.
	var group struct {
		ID   string `json:"id"`
		Code string `json:"code"`
	}
	rec = do(t, e, http.MethodPost, "/customer/groups", aliceToken, map[string]string{"name": "Friday dinner"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create group: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &group)
	if rec := do(t, e, http.MethodPost, "/customer/groups/join", bobToken, map[string]string{"code": group.Code}); rec.Code != http.StatusOK {
		t.Fatalf("join group: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// Attaching by session code activates the bill.
	rec = do(t, e, http.MethodPost, "/customer/groups/"+group.ID+"/attach", aliceToken, map[string]string{"session_code": bill.SessionCode})
	if rec.Code != http.StatusOK {
		t.Fatalf("attach: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var attachResp struct {
		Bill billJSON `json:"bill"`
	}
	decode(t, rec, &attachResp)
	if attachResp.Bill.Status != "active" {
		t.Fatalf("expected active bill after attach, got %q", attachResp.Bill.Status)
	}

	// Pizza is shared; the beer is bob's alone.
	pizzaLine, beerLine := bill.Contents[0], bill.Contents[1]
	rec = do(t, e, http.MethodPost, "/customer/groups/"+group.ID+"/bill/items/"+pizzaLine.ID+"/assign", aliceToken,
		map[string]any{"user_ids": []string{aliceID, bobID}})
	if rec.Code != http.StatusOK {
		t.Fatalf("assign: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	do(t, e, http.MethodPost, "/customer/groups/"+group.ID+"/bill/items/"+beerLine.ID+"/assign", bobToken,
		map[string]any{"user_ids": []string{bobID}})

	// Alice owes half the pizza, bob the other half plus the beer.
	rec = do(t, e, http.MethodGet, "/customer/groups/"+group.ID+"/bill", aliceToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("group bill: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var billView struct {
		Shares []struct {
			UserID string  `json:"user_id"`
			Total  float64 `json:"total"`
		} `json:"shares"`
		Unassigned float64 `json:"unassigned"`
	}
	decode(t, rec, &billView)
	if billView.Unassigned != 0 {
		t.Errorf("expected nothing unassigned, got %f", billView.Unassigned)
	}
	totals := make(map[string]float64)
	for _, s := range billView.Shares {
		totals[s.UserID] = s.Total
	}
	if totals[aliceID] != 10 || totals[bobID] != 15 {
		t.Errorf("expected alice=10 bob=15, got %v", totals)
	}

	// Vendor sees the attached group.
	rec = do(t, e, http.MethodGet, "/vendor/bills/"+bill.ID+"/group", vendorToken, nil)
	var attachedView struct {
		Group *struct {
			ID string `json:"id"`
		} `json:"group"`
	}
	decode(t, rec, &attachedView)
	if attachedView.Group == nil || attachedView.Group.ID != group.ID {
		t.Errorf("expected attached group %s, got %+v", group.ID, attachedView.Group)
	}

	// Deleting the bill detaches the group; the group then has no bill.
	if rec := do(t, e, http.MethodDelete, "/vendor/bills/"+bill.ID, vendorToken, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete bill: expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, e, http.MethodGet, "/customer/groups/"+group.ID+"/bill", aliceToken, nil); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after bill delete, got %d", rec.Code)
	}
}

func TestCardEndpoints(t *testing.T) {
	e := newTestServer(t)
	_, aliceToken := signup(t, e, "alice", "customer", "")
	_, bobToken := signup(t, e, "bob", "customer", "")

	rec := do(t, e, http.MethodPost, "/customer/cards", aliceToken, map[string]string{
		"number":          "4242424242424242",
		"cvc":             "123",
		"expiry":          time.Now().AddDate(1, 0, 0).Format("2006-01"),
		"cardholder_name": "Alice Example",
		"nickname":        "personal",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register card: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var card struct {
		Token    string `json:"token"`
		LastFour string `json:"last_four"`
	}
	decode(t, rec, &card)
	if card.LastFour != "4242" {
		t.Errorf("expected last four 4242, got %q", card.LastFour)
	}

	rec = do(t, e, http.MethodPost, "/customer/cards", aliceToken, map[string]string{
		"number": "4242", "cvc": "123", "expiry": "2030-01", "cardholder_name": "A",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid card, got %d", rec.Code)
	}

	// Bob cannot remove alice's card.
	if rec := do(t, e, http.MethodDelete, "/customer/cards/"+card.Token, bobToken, nil); rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for foreign card, got %d", rec.Code)
	}
	if rec := do(t, e, http.MethodDelete, "/customer/cards/"+card.Token, aliceToken, nil); rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}

	var list struct {
		Cards []json.RawMessage `json:"cards"`
	}
	rec = do(t, e, http.MethodGet, "/customer/cards", aliceToken, nil)
	decode(t, rec, &list)
	if len(list.Cards) != 0 {
		t.Errorf("expected no cards left, got %d", len(list.Cards))
	}
}
