package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"zistino-api/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func init() {
	utils.IsTestMode = true
}

func TestLimitOffset(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		description    string
		request        PageRequest
		expectedLimit  int
		expectedOffset int
	}{
		{"defaults", PageRequest{}, 20, 0},
		{"first page explicit", PageRequest{PageNumber: 1, PageSize: 10}, 10, 0},
		{"third page", PageRequest{PageNumber: 3, PageSize: 10}, 10, 20},
		{"negative page", PageRequest{PageNumber: -2, PageSize: 10}, 10, 0},
		{"oversized page", PageRequest{PageNumber: 1, PageSize: 5000}, 100, 0},
	}
	for _, test := range tests {
		limit, offset := test.request.limitOffset()
		a.Equal(test.expectedLimit, limit, test.description)
		a.Equal(test.expectedOffset, offset, test.description)
	}
}

func TestShortfallFilterWhereClause(t *testing.T) {
	a := assert.New(t)
	userId := 12
	deducted := true

	filter := shortfallFilter{}
	where, args, err := filter.whereClause()
	a.NoError(err)
	a.Equal(" where 1=1", where)
	a.Empty(args)

	filter = shortfallFilter{UserId: &userId, IsDeducted: &deducted, DateFrom: "2026-01-01", DateTo: "2026-01-31"}
	where, args, err = filter.whereClause()
	a.NoError(err)
	a.Contains(where, "customer_id=$1")
	a.Contains(where, "is_deducted=$2")
	a.Contains(where, "created_at >= $3")
	a.Contains(where, "created_at < $4")
	a.Len(args, 4)

	filter = shortfallFilter{DateFrom: "January first"}
	_, _, err = filter.whereClause()
	a.Error(err)

	filter = shortfallFilter{DateTo: "31/01/2026"}
	_, _, err = filter.whereClause()
	a.Error(err)
}

func TestSettlementEndpointsRequireAuth(t *testing.T) {
	app := fiber.New()
	app.Post("/manager/deliveries/complete", CompleteDelivery)
	app.Post("/manager/driver-payout-tiers", SetPayoutTiers)
	app.Get("/manager/driver-payout-tiers", GetPayoutTiers)

	a := assert.New(t)
	tests := []struct {
		description string
		method      string
		target      string
		payload     interface{}
	}{
		{"settle without token", "POST", "/manager/deliveries/complete", map[string]int{"deliveryId": 1}},
		{"set tiers without token", "POST", "/manager/driver-payout-tiers", map[string]interface{}{"tiers": []map[string]interface{}{}}},
		{"get tiers without token", "GET", "/manager/driver-payout-tiers", nil},
	}
	for _, test := range tests {
		var body io.Reader
		if test.payload != nil {
			reqBody, _ := json.Marshal(test.payload)
			body = bytes.NewReader(reqBody)
		}
		req := httptest.NewRequest(test.method, test.target, body)
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req, -1)
		a.Equal(401, resp.StatusCode, test.description)
		respBody, _ := io.ReadAll(resp.Body)
		a.Contains(string(respBody), "no access token", test.description)
	}
}
