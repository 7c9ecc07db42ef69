package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cashflow-insight/internal/analysis"
	"cashflow-insight/internal/dataset"
	"cashflow-insight/internal/insight"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const transactionsCSV = "date,transaction_id,product_id,product_name,category,quantity,unit_price,gross_sales,discount,net_sales,tax,line_total,payment_type,tip_amount\n" +
	"2024-03-04,T1,P1,Latte,Drinks,2,4.50,9.00,1.00,8.00,0.80,8.80,CARD,0.50\n" +
	"2024-03-05,T2,P2,Muffin,Bakery,1,3.00,3.00,0.00,3.00,0.30,3.30,CASH,0.00\n"

const productsCSV = "product_id,product_name,category,cogs\n" +
	"P1,Latte,Drinks,1.20\n" +
	"P2,Muffin,Bakery,0.80\n"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := analysis.NewService(dataset.NewHolder(), dataset.NewFileStore(t.TempDir()), nil, analysis.DefaultPolicy())
	insights := insight.NewGenerator("", "gpt-4o-mini", 600, nil, time.Hour)

	router := gin.New()
	handler := NewHandler(svc, insights, nil, []string{"http://localhost:3000"})
	handler.SetupRoutes(router)
	return router
}

func multipartUpload(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for field, content := range files {
		fw, err := w.CreateFormFile(field, field+".csv")
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func uploadSampleData(t *testing.T, router *gin.Engine) {
	t.Helper()
	body, contentType := multipartUpload(t, map[string]string{
		"transactions": transactionsCSV,
		"products":     productsCSV,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ai_available":false`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUploadAndStatus(t *testing.T) {
	router := newTestRouter(t)
	uploadSampleData(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/datasets/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var status struct {
		Transactions struct {
			Loaded bool `json:"loaded"`
			Rows   int  `json:"rows"`
		} `json:"transactions"`
		Refunds struct {
			Loaded bool `json:"loaded"`
		} `json:"refunds"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.Transactions.Loaded)
	assert.Equal(t, 2, status.Transactions.Rows)
	assert.False(t, status.Refunds.Loaded)
}

func TestUploadNoFiles(t *testing.T) {
	router := newTestRouter(t)

	body, contentType := multipartUpload(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No files uploaded")
}

func TestUploadValidationFailure(t *testing.T) {
	router := newTestRouter(t)

	body, contentType := multipartUpload(t, map[string]string{
		"products": "product_id,product_name\nP1,Latte\n",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing")
	assert.Contains(t, rec.Body.String(), "cogs")
}

func TestAnalysesRequireData(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{
		"/api/v1/analyses/snapshot",
		"/api/v1/analyses/cash-eaters",
		"/api/v1/analyses/reorder-plan",
		"/api/v1/analyses/clearance",
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "no data loaded", path)
	}
}

func TestGetSnapshot(t *testing.T) {
	router := newTestRouter(t)
	uploadSampleData(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/snapshot", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var snap struct {
		WindowStart      string  `json:"window_start"`
		TransactionCount int     `json:"transaction_count"`
		GrossSales       float64 `json:"gross_sales"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, "2024-03-04", snap.WindowStart)
	assert.Equal(t, 2, snap.TransactionCount)
	assert.Equal(t, 12.0, snap.GrossSales)
}

func TestGetReorderPlanBudget(t *testing.T) {
	router := newTestRouter(t)
	uploadSampleData(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/reorder-plan?budget=50", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var plan struct {
		Budget float64 `json:"budget"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.Equal(t, 50.0, plan.Budget)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/reorder-plan?budget=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/reorder-plan?budget=-5", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResetDataset(t *testing.T) {
	router := newTestRouter(t)
	uploadSampleData(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/datasets", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/snapshot", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInsightsUnavailableWithoutKey(t *testing.T) {
	router := newTestRouter(t)
	uploadSampleData(t, router)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/insights/cash_eaters",
		strings.NewReader(`{"language":"english"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "OPENAI_API_KEY")
}

func TestInsightsUnknownKind(t *testing.T) {
	router := newTestRouter(t)
	uploadSampleData(t, router)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/insights/horoscope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unknown insight kind")
}

func TestRunsWithoutStore(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/datasets/status", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	// Unlisted origins get no CORS grant.
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
