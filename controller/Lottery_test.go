package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestLotteryEndpointsRequireAuth(t *testing.T) {
	app := fiber.New()
	app.Post("/lotteries/manual-award", ManualPointAward)
	app.Post("/lotteries", CreateLottery)
	app.Post("/lotteries/:lotteryId/draw", StartLotteryDraw)
	app.Post("/lotteries/:lotteryId/activate", ActivateLottery)
	app.Get("/lotteries/:lotteryId/eligible-drivers", GetEligibleDrivers)

	a := assert.New(t)
	tests := []struct {
		description string
		method      string
		target      string
		payload     interface{}
	}{
		{"manual award without token", "POST", "/lotteries/manual-award", map[string]interface{}{"userId": 1, "amount": 10}},
		{"create without token", "POST", "/lotteries", map[string]interface{}{"title": "Summer draw"}},
		{"draw without token", "POST", "/lotteries/4/draw", map[string]interface{}{"method": "random"}},
		{"activate without token", "POST", "/lotteries/4/activate", nil},
		{"eligibles without token", "GET", "/lotteries/4/eligible-drivers", nil},
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
	}
}

func TestRecordPaymentRequiresAuth(t *testing.T) {
	app := fiber.New()
	app.Post("/payments/manager/payments/record", RecordPayment)
	app.Post("/payments/manager/transactions", SearchTransactions)

	a := assert.New(t)
	for _, target := range []string{"/payments/manager/payments/record", "/payments/manager/transactions"} {
		reqBody, _ := json.Marshal(map[string]interface{}{"userId": 1, "amount": 500, "transactionType": "credit"})
		req := httptest.NewRequest("POST", target, bytes.NewReader(reqBody))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req, -1)
		a.Equal(401, resp.StatusCode, target)
	}
}
