package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"batani-inventory/internal/dbtest"
	"batani-inventory/internal/lock"
	"batani-inventory/internal/repository"
	"batani-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db := dbtest.Open(t)
	suppliers := repository.NewSupplierRepo(db)
	products := repository.NewProductRepo(db)
	customers := repository.NewCustomerRepo(db)
	sales := repository.NewSaleRepo(db)

	locker := lock.NewLocal()
	resolver := service.NewCustomerResolver(customers)
	ledger := service.NewStockLedger(products)
	now := func() time.Time { return time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC) }

	app := fiber.New()
	Register(app.Group("/api/v1"), Handlers{
		Inventory: NewInventoryHandler(service.NewInventoryService(suppliers, products, nil, locker, nil)),
		Customer:  NewCustomerHandler(service.NewCustomerService(db, customers, sales, resolver, locker)),
		Sale:      NewSaleHandler(service.NewSaleService(db, sales, ledger, resolver, locker, nil, now)),
		Report:    NewReportHandler(service.NewReportService(sales, customers, products, now, time.UTC)),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := map[string]interface{}{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	} else if len(raw) > 0 {
		var list []interface{}
		require.NoError(t, json.Unmarshal(raw, &list))
		out["list"] = list
	}
	return resp.StatusCode, out
}

func createProduct(t *testing.T, app *fiber.App, number string, stock int, price float64) string {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"product_number": number,
		"name":           "Item " + number,
		"stock_quantity": stock,
		"price":          price,
	})
	require.Equal(t, http.StatusCreated, status, body)
	return body["data"].(map[string]interface{})["id"].(string)
}

func TestSaleStatusMapping(t *testing.T) {
	app := newTestApp(t)
	productID := createProduct(t, app, "P-1", 5, 1000)

	sale := func(qty int, commission float64) (int, map[string]interface{}) {
		return doJSON(t, app, http.MethodPost, "/api/v1/sales", map[string]interface{}{
			"customerName": "Neema",
			"phone":        "255700",
			"productId":    productID,
			"quantity":     qty,
			"soldPrice":    1000,
			"commission":   commission,
		})
	}

	status, body := sale(2, 2500)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "commission", body["field"])

	status, body = sale(5, 0)
	require.Equal(t, http.StatusCreated, status, body)
	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, 0, data["remainingStock"])
	assert.Equal(t, true, data["customerCreated"])

	status, body = sale(1, 0)
	assert.Equal(t, http.StatusConflict, status)
	assert.EqualValues(t, 0, body["available"])
	assert.Equal(t, "Item P-1", body["product_name"])

	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/sales", map[string]interface{}{
		"customerName": "Neema",
		"phone":        "255700",
		"productId":    "6f1c1a44-4a3f-4a36-9b53-5d0f7f37c0aa",
		"quantity":     1,
		"soldPrice":    10,
		"commission":   0,
	})
	assert.Equal(t, http.StatusNotFound, status)

	status, body = doJSON(t, app, http.MethodGet, "/api/v1/sales", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["list"], 1)
}

func TestInvalidRequests(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	status, _ := doJSON(t, app, http.MethodGet, "/api/v1/products/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/reports/customers?limit=-1", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestProductRoutes(t *testing.T) {
	app := newTestApp(t)
	id := createProduct(t, app, "Hoe-7", 3, 25)

	status, body := doJSON(t, app, http.MethodGet, "/api/v1/products/sku/HOE-7", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, id, body["id"])
	assert.Nil(t, body["supplier"])

	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/products/sku/none", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = doJSON(t, app, http.MethodGet, "/api/v1/products/search?q=hoe", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["list"], 1)

	status, body = doJSON(t, app, http.MethodPost, "/api/v1/products/"+id+"/images", map[string]interface{}{"urls": []string{"https://img.test/1.jpg"}})
	require.Equal(t, http.StatusCreated, status, body)
	image := body["data"].([]interface{})[0].(map[string]interface{})

	status, _ = doJSON(t, app, http.MethodDelete, "/api/v1/products/"+id+"/images/"+image["id"].(string), nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodPut, "/api/v1/products/"+id, map[string]interface{}{
		"product_number": "Hoe-7",
		"name":           "Long hoe",
		"stock_quantity": 8,
		"price":          "30.00",
	})
	assert.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodDelete, "/api/v1/products/"+id, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/products/"+id, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUploadWithoutStoreIsNotImplemented(t *testing.T) {
	app := newTestApp(t)
	id := createProduct(t, app, "UP-1", 1, 1)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="a.png"`)
	header.Set("Content-Type", "image/png")
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/"+id+"/images/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
}

func TestSupplierRoutes(t *testing.T) {
	app := newTestApp(t)

	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/suppliers", map[string]interface{}{"name": ""})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/suppliers", map[string]interface{}{"name": "Agro"})
	require.Equal(t, http.StatusCreated, status)
	id := body["data"].(map[string]interface{})["id"].(string)

	status, _ = doJSON(t, app, http.MethodPut, "/api/v1/suppliers/"+id, map[string]interface{}{"name": "Agro Ltd"})
	assert.Equal(t, http.StatusOK, status)

	status, body = doJSON(t, app, http.MethodGet, "/api/v1/suppliers", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["list"], 1)

	status, _ = doJSON(t, app, http.MethodDelete, "/api/v1/suppliers/"+id, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/suppliers/"+id, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCustomerAndReportRoutes(t *testing.T) {
	app := newTestApp(t)
	productID := createProduct(t, app, "R-1", 10, 500)

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/customers/resolve", map[string]interface{}{"phone": "255700", "fullName": "Juma"})
	require.Equal(t, http.StatusCreated, status)
	customerID := body["data"].(map[string]interface{})["id"].(string)

	status, body = doJSON(t, app, http.MethodPost, "/api/v1/customers/resolve", map[string]interface{}{"phone": "255700", "fullName": "Other"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["created"])

	for _, price := range []float64{500, 1500} {
		status, body = doJSON(t, app, http.MethodPost, "/api/v1/sales", map[string]interface{}{
			"customerName": "Juma",
			"phone":        "255700",
			"productId":    productID,
			"quantity":     1,
			"soldPrice":    price,
			"commission":   0,
		})
		require.Equal(t, http.StatusCreated, status, body)
	}

	status, body = doJSON(t, app, http.MethodGet, "/api/v1/customers/"+customerID+"/history", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, body["purchaseCount"])

	status, body = doJSON(t, app, http.MethodGet, "/api/v1/reports/customers?limit=5", nil)
	require.Equal(t, http.StatusOK, status)
	rows := body["data"].([]interface{})
	require.Len(t, rows, 1)
	assert.EqualValues(t, 2, rows[0].(map[string]interface{})["purchaseCount"])

	status, body = doJSON(t, app, http.MethodGet, "/api/v1/reports/dashboard", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, body["totalSalesCount"])
	assert.EqualValues(t, 1, body["totalCustomers"])

	status, body = doJSON(t, app, http.MethodGet, "/api/v1/reports/monthly", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["list"], 1)

	status, _ = doJSON(t, app, http.MethodDelete, "/api/v1/customers/"+customerID, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/customers/"+customerID, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
