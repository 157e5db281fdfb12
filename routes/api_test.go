package routes

import (
	"io"
	"net/http/httptest"
	"testing"

	"zistino-api/utils"

	"github.com/stretchr/testify/assert"
)

func init() {
	utils.IsTestMode = true
}

func TestServiceStatus(t *testing.T) {
	app := InitRoutes()
	req := httptest.NewRequest("GET", "/service-status", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "running")
}

// manual-award registers before the :lotteryId wildcards, so it must hit the
// award handler (auth gate) rather than be swallowed as a lottery id.
func TestManualAwardRouteTakesPrecedence(t *testing.T) {
	app := InitRoutes()
	req := httptest.NewRequest("POST", "/lotteries/manual-award", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "no access token")
}

func TestUnknownRouteReturns404(t *testing.T) {
	app := InitRoutes()
	req := httptest.NewRequest("GET", "/nope", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestProtectedRoutesAreRegistered(t *testing.T) {
	app := InitRoutes()
	targets := []struct {
		method string
		path   string
	}{
		{"GET", "/manager/driver-payout-tiers"},
		{"GET", "/manager/weight-range-minimums"},
		{"GET", "/manager/weight-shortfalls/export"},
		{"GET", "/manager/drivers"},
		{"GET", "/lotteries/"},
		{"GET", "/lotteries/7"},
		{"POST", "/payments/manager/transactions"},
	}
	for _, target := range targets {
		req := httptest.NewRequest(target.method, target.path, nil)
		resp, err := app.Test(req, -1)
		assert.NoError(t, err, target.path)
		assert.Equal(t, 401, resp.StatusCode, target.path)
	}
}
