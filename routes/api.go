package routes

import (
	"time"

	"zistino-api/controller"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func InitRoutes() *fiber.App {
	app := fiber.New(fiber.Config{
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ReadTimeout:  time.Minute * 5,
		WriteTimeout: time.Minute * 5,
		BodyLimit:    20 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000",
		AllowHeaders:     "Content-Type, Access-Control-Allow-Headers, Authorization, X-Requested-With, x-csrf-token",
		AllowMethods:     "*",
		AllowCredentials: false,
	}))

	app.All("/service-status", controller.ServiceStatusCheck)
	app.Get("/", controller.Index)
	app.Post("/login", controller.LoginWithEmail)
	app.Get("/profile", controller.GetUserProfile)
	app.Post("/user", controller.AddUser)
	app.Get("/users", controller.GetUsers)
	app.Post("/user_status/:userId", controller.ChangeUserStatus)
	app.Get("/departments", controller.GetDepartments)
	app.Post("/change_password", controller.ChangePassword)
	app.Post("/forgot_password", controller.ForgotPassword)
	app.Post("/validate_otp", controller.ValidateOTP)
	app.Post("/set_password", controller.SetNewPassword)

	manager := app.Group("/manager")
	manager.Get("/driver-payout-tiers", controller.GetPayoutTiers)
	manager.Post("/driver-payout-tiers", controller.SetPayoutTiers)
	manager.Get("/weight-range-minimums", controller.GetWeightRanges)
	manager.Post("/weight-range-minimums", controller.SetWeightRanges)
	manager.Get("/deliveries", controller.GetDeliveries)
	manager.Post("/deliveries", controller.CreateDelivery)
	manager.Post("/deliveries/complete", controller.CompleteDelivery)
	manager.Get("/weight-shortfalls/export", controller.ExportWeightShortfalls)
	manager.Post("/weight-shortfalls", controller.SearchWeightShortfalls)
	manager.Get("/customers", controller.GetCustomers)
	manager.Get("/drivers", controller.GetDrivers)
	manager.Get("/drivers/:driverId", controller.GetDriver)
	manager.Get("/drivers/:driverId/points", controller.GetDriverPoints)

	lotteries := app.Group("/lotteries")
	// the static award path has to register before the :lotteryId wildcards
	lotteries.Post("/manual-award", controller.ManualPointAward)
	lotteries.Post("/", controller.CreateLottery)
	lotteries.Get("/", controller.GetLotteries)
	lotteries.Get("/:lotteryId", controller.GetLottery)
	lotteries.Put("/:lotteryId", controller.UpdateLottery)
	lotteries.Post("/:lotteryId/activate", controller.ActivateLottery)
	lotteries.Post("/:lotteryId/cancel", controller.CancelLottery)
	lotteries.Post("/:lotteryId/end", controller.EndLottery)
	lotteries.Get("/:lotteryId/eligible-drivers", controller.GetEligibleDrivers)
	lotteries.Post("/:lotteryId/draw", controller.StartLotteryDraw)

	payments := app.Group("/payments/manager")
	payments.Post("/payments/record", controller.RecordPayment)
	payments.Post("/transactions", controller.SearchTransactions)

	return app
}
