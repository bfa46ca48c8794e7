package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/invtrail/invtrail/internal/auth"
	"github.com/invtrail/invtrail/internal/db"
	"github.com/invtrail/invtrail/internal/model"
	"github.com/invtrail/invtrail/internal/store"
)

const testJWTSecret = "test-secret"

func setupTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	database := db.NewTestDB(t)
	provider := &auth.StoreProvider{DB: database}
	router := NewRouter(database, provider, testJWTSecret)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	// Create admin user.
	ctx := context.Background()
	hash, err := auth.HashPassword("password")
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	store.CreateUser(ctx, database, "admin", hash)

	// Get token.
	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "password"})
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var loginResp map[string]string
	json.NewDecoder(resp.Body).Decode(&loginResp)
	token := loginResp["token"]
	if token == "" {
		t.Fatal("empty token from login")
	}

	return server, token
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func doJSON(t *testing.T, req *http.Request, target any) int {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if target != nil {
		json.NewDecoder(resp.Body).Decode(target)
	}
	return resp.StatusCode
}

func TestLoginEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)

	// Test invalid credentials.
	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
	resp, _ := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestItemsAPIFlow(t *testing.T) {
	server, token := setupTestServer(t)

	// Create item.
	req, _ := authRequest("POST", server.URL+"/api/items", token, map[string]any{
		"product_name": "Widget",
		"sku":          "A1",
		"quantity":     5,
		"price":        2.5,
	})
	var created map[string]int64
	if status := doJSON(t, req, &created); status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	id := created["id"]
	if id == 0 {
		t.Fatal("expected assigned id")
	}

	// List items.
	req, _ = authRequest("GET", server.URL+"/api/items", token, nil)
	var items []model.Item
	if status := doJSON(t, req, &items); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(items) != 1 || items[0].SKU != "A1" {
		t.Errorf("unexpected items: %+v", items)
	}

	// Get single item.
	req, _ = authRequest("GET", server.URL+"/api/items/1", token, nil)
	var item model.Item
	if status := doJSON(t, req, &item); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if item.Quantity != 5 || item.Price != 2.5 {
		t.Errorf("unexpected item: %+v", item)
	}

	// Partial update: only fields present in the body change.
	req, _ = authRequest("PUT", server.URL+"/api/items/1", token, map[string]any{
		"quantity": 10,
		"location": "Bay2",
	})
	var putResp map[string]string
	if status := doJSON(t, req, &putResp); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if putResp["status"] != "ok" {
		t.Errorf(`expected {"status":"ok"}, got %v`, putResp)
	}

	req, _ = authRequest("GET", server.URL+"/api/items/1", token, nil)
	doJSON(t, req, &item)
	if item.Quantity != 10 || item.Location != "Bay2" {
		t.Errorf("patch not applied: %+v", item)
	}
	if item.ProductName != "Widget" || item.Price != 2.5 {
		t.Errorf("omitted fields not retained: %+v", item)
	}

	// Delete.
	req, _ = authRequest("DELETE", server.URL+"/api/items/1", token, nil)
	var delResp map[string]string
	if status := doJSON(t, req, &delResp); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if delResp["status"] != "deleted" {
		t.Errorf(`expected {"status":"deleted"}, got %v`, delResp)
	}

	// Gone now.
	req, _ = authRequest("GET", server.URL+"/api/items/1", token, nil)
	if status := doJSON(t, req, nil); status != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", status)
	}
	req, _ = authRequest("DELETE", server.URL+"/api/items/1", token, nil)
	if status := doJSON(t, req, nil); status != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", status)
	}
}

func TestCreateItemErrors(t *testing.T) {
	server, token := setupTestServer(t)

	// Missing SKU.
	req, _ := authRequest("POST", server.URL+"/api/items", token, map[string]any{
		"product_name": "No SKU",
	})
	var errResp map[string]string
	if status := doJSON(t, req, &errResp); status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if errResp["error"] != "Missing sku" {
		t.Errorf(`expected error "Missing sku", got %q`, errResp["error"])
	}

	// Duplicate SKU.
	req, _ = authRequest("POST", server.URL+"/api/items", token, map[string]any{"sku": "A1"})
	if status := doJSON(t, req, nil); status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	req, _ = authRequest("POST", server.URL+"/api/items", token, map[string]any{"sku": "A1"})
	if status := doJSON(t, req, &errResp); status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if errResp["error"] != "SKU exists" {
		t.Errorf(`expected error "SKU exists", got %q`, errResp["error"])
	}
}

func TestUpdateItemDuplicateSKU(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/items", token, map[string]any{"sku": "A1"})
	doJSON(t, req, nil)
	req, _ = authRequest("POST", server.URL+"/api/items", token, map[string]any{"sku": "B2"})
	var created map[string]int64
	doJSON(t, req, &created)

	// SKU collisions are rejected on the JSON update path too.
	req, _ = authRequest("PUT", server.URL+"/api/items/2", token, map[string]any{"sku": "A1"})
	var errResp map[string]string
	if status := doJSON(t, req, &errResp); status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if errResp["error"] != "SKU exists" {
		t.Errorf(`expected error "SKU exists", got %q`, errResp["error"])
	}
}

func TestAuditEndpoint(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/items", token, map[string]any{
		"product_name": "Widget",
		"sku":          "A1",
	})
	var created map[string]int64
	doJSON(t, req, &created)

	req, _ = authRequest("GET", server.URL+"/api/audit", token, nil)
	var entries []model.AuditEntry
	if status := doJSON(t, req, &entries); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Action != model.ActionCreate || e.ItemID != created["id"] {
		t.Errorf("unexpected audit entry: %+v", e)
	}
	if e.UserID == nil {
		t.Error("expected audit entry attributed to the acting user")
	}
	if e.Details != "Created item Widget" {
		t.Errorf("unexpected details: %q", e.Details)
	}
}

func TestUnauthenticatedAccess(t *testing.T) {
	database := db.NewTestDB(t)
	provider := &auth.StoreProvider{DB: database}
	router := NewRouter(database, provider, testJWTSecret)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	resp, _ := http.Get(server.URL + "/api/items")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for unauthenticated request, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestChangePassword(t *testing.T) {
	server, token := setupTestServer(t)

	// Wrong current password is rejected.
	req, _ := authRequest("PUT", server.URL+"/api/auth/password", token, map[string]string{
		"current_password": "wrong",
		"new_password":     "changed",
	})
	if status := doJSON(t, req, nil); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong current password, got %d", status)
	}

	req, _ = authRequest("PUT", server.URL+"/api/auth/password", token, map[string]string{
		"current_password": "password",
		"new_password":     "changed",
	})
	var resp map[string]string
	if status := doJSON(t, req, &resp); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if resp["message"] != "password updated" {
		t.Errorf(`expected "password updated", got %q`, resp["message"])
	}

	// Old password no longer works.
	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "password"})
	loginResp, _ := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if loginResp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 with old password, got %d", loginResp.StatusCode)
	}
	loginResp.Body.Close()

	// New password does.
	body, _ = json.Marshal(map[string]string{"username": "admin", "password": "changed"})
	loginResp, _ = http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if loginResp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 with new password, got %d", loginResp.StatusCode)
	}
	loginResp.Body.Close()
}

func TestLogoutRevokesToken(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/auth/logout", token, nil)
	if status := doJSON(t, req, nil); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	req, _ = authRequest("GET", server.URL+"/api/items", token, nil)
	if status := doJSON(t, req, nil); status != http.StatusUnauthorized {
		t.Errorf("expected 401 with revoked token, got %d", status)
	}
}
