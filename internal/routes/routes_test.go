package routes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"plantopia_back_end/internal/handlers"
	"plantopia_back_end/internal/services"
	"plantopia_back_end/internal/store/memstore"
)

type response struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	OrderID    string          `json:"orderId"`
	InsertedID string          `json:"insertedId"`
	Store      string          `json:"store"`
	Data       json.RawMessage `json:"data"`
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := memstore.New()
	orders := services.NewOrderService(st, nil, nil, nil, nil)
	h := &handlers.Handler{
		Store:    st,
		Users:    services.NewUserService(st, nil),
		Orders:   orders,
		Comments: services.NewCommentService(st, nil),
		Wishlist: services.NewWishlistService(st),
		Products: services.NewProductService(st),
		Blogs:    services.NewBlogService(st),
		Payments: services.NewPaymentService(nil, orders, ""),
		Images:   services.NewImageService(nil),
		Events:   services.NewMemoryEvents(),
	}

	r := gin.New()
	RegisterRoutes(r, h, Options{})
	return r
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) (int, response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w.Code, resp
}

func placeOrder(t *testing.T, r *gin.Engine, uid string) string {
	t.Helper()
	code, resp := do(t, r, http.MethodPost, "/api/orders", gin.H{
		"userId":   uid,
		"items":    []gin.H{{"_id": "p1", "name": "Fern", "price": 20, "qty": 1}},
		"shipping": gin.H{"name": "Ada", "city": "Paris"},
		"summary":  gin.H{"total": 20},
	})
	if code != http.StatusOK || resp.OrderID == "" {
		t.Fatalf("POST /api/orders = %d %+v", code, resp)
	}
	return resp.OrderID
}

func TestOrderLifecycle(t *testing.T) {
	r := newRouter(t)

	if code, resp := do(t, r, http.MethodPost, "/api/users", gin.H{"uid": "u1", "email": "ada@example.com"}); code != http.StatusOK || resp.Message != "User created successfully" {
		t.Fatalf("POST /api/users = %d %+v", code, resp)
	}
	id := placeOrder(t, r, "u1")

	code, resp := do(t, r, http.MethodGet, "/api/users/u1/orders", nil)
	if code != http.StatusOK {
		t.Fatalf("GET orders = %d", code)
	}
	var orders []struct {
		ID     string `json:"_id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(resp.Data, &orders); err != nil {
		t.Fatalf("data: %v", err)
	}
	if len(orders) != 1 || orders[0].ID != id || orders[0].Status != "pending" {
		t.Fatalf("orders = %+v", orders)
	}

	if code, resp := do(t, r, http.MethodPut, "/api/orders/"+id+"/status", gin.H{"status": "teleported"}); code != http.StatusBadRequest || resp.Message != "Invalid status value" {
		t.Fatalf("statut invalide = %d %+v", code, resp)
	}
	if code, _ := do(t, r, http.MethodPut, "/api/orders/"+id+"/status", gin.H{"status": "accepted"}); code != http.StatusOK {
		t.Fatalf("PUT status = %d", code)
	}

	if code, _ := do(t, r, http.MethodDelete, "/api/orders/"+id, gin.H{"userId": "intruder"}); code != http.StatusForbidden {
		t.Fatalf("DELETE par un tiers = %d", code)
	}
	if code, _ := do(t, r, http.MethodDelete, "/api/orders/"+id, gin.H{"userId": "u1"}); code != http.StatusOK {
		t.Fatalf("DELETE = %d", code)
	}
	_, resp = do(t, r, http.MethodGet, "/api/users/u1/orders", nil)
	if string(resp.Data) != "[]" {
		t.Fatalf("orders après suppression = %s", resp.Data)
	}
}

func TestUnknownCategoryIsNotFound(t *testing.T) {
	r := newRouter(t)

	code, resp := do(t, r, http.MethodGet, "/api/rocks", nil)
	if code != http.StatusNotFound || resp.Message != "Invalid product type" {
		t.Fatalf("GET /api/rocks = %d %+v", code, resp)
	}
	if code, _ := do(t, r, http.MethodGet, "/nowhere", nil); code != http.StatusNotFound {
		t.Fatalf("GET /nowhere = %d", code)
	}
}

func TestMalformedIDIsServerError(t *testing.T) {
	r := newRouter(t)

	code, resp := do(t, r, http.MethodGet, "/api/plants/not-an-id", nil)
	if code != http.StatusInternalServerError || resp.Success {
		t.Fatalf("GET /api/plants/not-an-id = %d %+v", code, resp)
	}
	if code, _ := do(t, r, http.MethodGet, "/api/plants/65a1b2c3d4e5f60718293a4b", nil); code != http.StatusNotFound {
		t.Fatalf("produit absent = %d", code)
	}
}

func TestCommentThread(t *testing.T) {
	r := newRouter(t)

	code, resp := do(t, r, http.MethodPost, "/api/plants", gin.H{"name": "Monstera", "price": 25})
	if code != http.StatusCreated || resp.Message != "plant added successfully" {
		t.Fatalf("POST /api/plants = %d %+v", code, resp)
	}
	base := "/api/plants/" + resp.InsertedID + "/comments"

	for _, text := range []string{"first", "second"} {
		if code, _ := do(t, r, http.MethodPost, base, gin.H{"user": gin.H{"uid": "u1", "displayName": "Ada"}, "text": text}); code != http.StatusCreated {
			t.Fatalf("POST comment = %d", code)
		}
	}

	_, resp = do(t, r, http.MethodGet, base, nil)
	var comments []struct {
		ID   string `json:"_id"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(resp.Data, &comments); err != nil {
		t.Fatalf("data: %v", err)
	}
	if len(comments) != 2 || comments[0].Text != "second" {
		t.Fatalf("comments = %+v", comments)
	}

	url := base + "/" + comments[0].ID
	if code, resp := do(t, r, http.MethodDelete, url, gin.H{"userUid": "u2"}); code != http.StatusForbidden || resp.Message != "You can only delete your own comments" {
		t.Fatalf("DELETE par un tiers = %d %+v", code, resp)
	}
	if code, _ := do(t, r, http.MethodDelete, url, gin.H{"userUid": "u1"}); code != http.StatusOK {
		t.Fatalf("DELETE par l'auteur = %d", code)
	}
}

func TestHealthz(t *testing.T) {
	r := newRouter(t)

	code, resp := do(t, r, http.MethodGet, "/healthz", nil)
	if code != http.StatusOK || resp.Store != "memory" {
		t.Fatalf("GET /healthz = %d %+v", code, resp)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Body.String() != "Plantopia server is running" {
		t.Fatalf("GET / = %q", w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("X-Request-ID absent")
	}
}

func TestUploadWithoutFile(t *testing.T) {
	r := newRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("note", "no file here")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload-image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("POST /api/upload-image = %d %s", w.Code, w.Body.String())
	}
}

func TestPaymentIntentWithoutStripe(t *testing.T) {
	r := newRouter(t)

	if code, _ := do(t, r, http.MethodPost, "/api/create-payment-intent", gin.H{"currency": "usd"}); code != http.StatusBadRequest {
		t.Fatalf("sans montant = %d", code)
	}
	if code, _ := do(t, r, http.MethodPost, "/api/create-payment-intent", gin.H{"amount": 1000, "currency": "usd"}); code != http.StatusInternalServerError {
		t.Fatalf("Stripe non configuré = %d", code)
	}
}
