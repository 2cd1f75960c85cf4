package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/exactmatch/storefront/internal/cart"
	pkgerrors "github.com/exactmatch/storefront/pkg/errors"
)

type memorySnapshots struct {
	state cart.State
	saved bool
}

func (m *memorySnapshots) Load(context.Context) (cart.State, error) {
	if !m.saved {
		return cart.State{}, cart.ErrNoSnapshot
	}
	return m.state, nil
}

func (m *memorySnapshots) Save(_ context.Context, state cart.State) error {
	m.state = state
	m.saved = true
	return nil
}

func newTestCartRouter(t *testing.T) (chi.Router, *cart.Store) {
	t.Helper()
	store, err := cart.NewStore(&memorySnapshots{}, nil, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	router := chi.NewRouter()
	router.Get("/api/cart", CartFetch(store, nil))
	router.Delete("/api/cart", CartClear(store, nil))
	router.Post("/api/cart/items", CartAddItem(store, nil))
	router.Patch("/api/cart/items/{itemId}", CartUpdateItem(store, nil))
	router.Delete("/api/cart/items/{itemId}", CartRemoveItem(store, nil))
	return router, store
}

const batteryPayload = `{
	"battery": {
		"id": 1,
		"name": "N70",
		"brand": "Amaron",
		"voltage": "12V",
		"amp_hours": "70",
		"cold_cranking_amps": 650,
		"condition": "new",
		"price": "15500.00",
		"is_featured": false,
		"is_popular": true,
		"is_in_stock": true,
		"stock_quantity": 4,
		"slug": "amaron-n70"
	},
	"quantity": 2
}`

func TestCartAddFetchAndDerivedTotals(t *testing.T) {
	router, _ := newTestCartRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(batteryPayload)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var view struct {
		Items []cart.Item `json:"items"`
		Count int         `json:"count"`
		Total string      `json:"total"`
	}
	decodeData(t, rec, &view)
	if len(view.Items) != 1 || view.Count != 2 {
		t.Fatalf("unexpected view: %+v", view)
	}
	if view.Total != "31000.00" {
		t.Fatalf("expected derived total 31000.00, got %q", view.Total)
	}
	if view.Items[0].Specs != "12V • 70Ah • 650A CCA" {
		t.Fatalf("unexpected specs snapshot: %q", view.Items[0].Specs)
	}
	if view.Items[0].Brand != "Amaron" {
		t.Fatalf("expected bare-string brand normalized, got %q", view.Items[0].Brand)
	}
}

func TestCartReAddAccumulatesQuantity(t *testing.T) {
	router, store := newTestCartRouter(t)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(batteryPayload)))
		if rec.Code != http.StatusCreated {
			t.Fatalf("add %d failed: %d", i, rec.Code)
		}
	}

	if got := store.Quantity(1); got != 4 {
		t.Fatalf("expected accumulated quantity 4, got %d", got)
	}
	if got := len(store.Items()); got != 1 {
		t.Fatalf("expected single line, got %d", got)
	}
}

func TestCartUpdateQuantityAndRemoveViaZero(t *testing.T) {
	router, store := newTestCartRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(batteryPayload)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("add failed: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/cart/items/1", strings.NewReader(`{"quantity": 5}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("patch failed: %d", rec.Code)
	}
	if got := store.Quantity(1); got != 5 {
		t.Fatalf("expected quantity 5, got %d", got)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/cart/items/1", strings.NewReader(`{"quantity": 0}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("patch to zero failed: %d", rec.Code)
	}
	if store.IsInCart(1) {
		t.Fatal("expected zero quantity to remove the line")
	}
}

func TestCartUpdateRequiresQuantity(t *testing.T) {
	router, _ := newTestCartRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/cart/items/1", strings.NewReader(`{}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != string(pkgerrors.CodeValidation) {
		t.Fatalf("expected validation code, got %q", code)
	}
}

func TestCartRemoveAbsentIDIsNoOp(t *testing.T) {
	router, store := newTestCartRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(batteryPayload)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("add failed: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/cart/items/999", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := store.Count(); got != 2 {
		t.Fatalf("expected cart untouched, got count %d", got)
	}
}

func TestCartClearEmptiesEverything(t *testing.T) {
	router, store := newTestCartRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(batteryPayload)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("add failed: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/cart", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if store.Count() != 0 || len(store.Items()) != 0 {
		t.Fatal("expected empty cart after clear")
	}
}

func TestCartAddRejectsMissingBatteryID(t *testing.T) {
	router, _ := newTestCartRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(`{"quantity": 2}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
