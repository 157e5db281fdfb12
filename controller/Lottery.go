package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"zistino-api/config"
	"zistino-api/model"
	"zistino-api/service"
	"zistino-api/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/spf13/viper"
)

func CreateLottery(c *fiber.Ctx) error {
	userPayload, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, err.Error())
	}
	if !userPayload.CanTriggerDraw {
		return utils.JsonErrorResponse(c, fiber.StatusForbidden, "You are not allowed to manage lotteries")
	}
	type FormData struct {
		Title       string    `json:"title" binding:"required" validate:"required,min=3,max=150"`
		Description string    `json:"description" validate:"max=500"`
		PrizeName   string    `json:"prizeName" binding:"required" validate:"required,min=2,max=150"`
		StartDate   time.Time `json:"startDate" binding:"required" validate:"required"`
		EndDate     time.Time `json:"endDate" binding:"required" validate:"required"`
	}
	formData := new(FormData)
	if err := c.BodyParser(formData); err != nil || formData.Title == "" {
		c.SendStatus(400)
		return c.JSON(fiber.Map{"status": 400, "message": "Please provide all required data", "details": err})
	}
	if err := Validate.Struct(formData); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, "Provided data are not valid")
	}
	if !formData.EndDate.After(formData.StartDate) {
		return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, "End date have to be after the start date")
	}
	var lotteryId int
	err = config.DB.QueryRow(ctx,
		`insert into lotteries (title,description,prize_name,start_date,end_date,status,operator_id) values ($1,$2,$3,$4,$5,'draft',$6) returning id`,
		formData.Title, formData.Description, formData.PrizeName, formData.StartDate, formData.EndDate, userPayload.Id).Scan(&lotteryId)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Unable to save data, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("CreateLottery: Unable to save lottery %s, err:%v", formData.Title, err),
			ServiceName: config.ServiceName,
		})
	}
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "Lottery created successfully", "data": fiber.Map{"lotteryId": lotteryId}})
}

func GetLotteries(c *fiber.Ctx) error {
	_, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, err.Error())
	}
	formData := new(PageRequest)
	c.BodyParser(formData)
	keyword := formData.Keyword
	if keyword == "" {
		keyword = c.Query("keyword")
	}
	where := ""
	args := []interface{}{}
	if keyword != "" {
		args = append(args, "%"+keyword+"%")
		where = " where title ilike $1"
	}
	var total int
	if err = config.DB.QueryRow(ctx, `select count(*) from lotteries`+where, args...).Scan(&total); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Get lottery data failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     "GetLotteries: Unable to count lottery data, error: " + err.Error(),
			ServiceName: config.ServiceName,
		})
	}
	limit, offset := formData.limitOffset()
	args = append(args, limit, offset)
	rows, err := config.DB.Query(ctx,
		`select id,title,description,prize_name,start_date,end_date,status,drawn_at,created_at from lotteries`+where+
			fmt.Sprintf(" order by created_at desc limit $%d offset $%d", len(args)-1, len(args)), args...)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Get lottery data failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     "GetLotteries: Unable to get lottery data, error: " + err.Error(),
			ServiceName: config.ServiceName,
		})
	}
	lotteries := []model.Lottery{}
	for rows.Next() {
		lottery := model.Lottery{}
		err = rows.Scan(&lottery.Id, &lottery.Title, &lottery.Description, &lottery.PrizeName, &lottery.StartDate,
			&lottery.EndDate, &lottery.Status, &lottery.DrawnAt, &lottery.CreatedAt)
		if err != nil {
			return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Get lottery data failed", utils.Logger{
				LogLevel:    utils.CRITICAL,
				Message:     "GetLotteries: Unable to get lottery data, error: " + err.Error(),
				ServiceName: config.ServiceName,
			})
		}
		lotteries = append(lotteries, lottery)
	}
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "success", "items": lotteries, "total": total})
}

func GetLottery(c *fiber.Ctx) error {
	_, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, err.Error())
	}
	lotteryId, err := c.ParamsInt("lotteryId")
	if err != nil || lotteryId == 0 {
		return utils.JsonErrorResponse(c, fiber.StatusBadRequest, "lottery id is required")
	}
	lottery := model.Lottery{}
	var winnerId *int
	err = config.DB.QueryRow(ctx,
		`select id,title,description,prize_name,start_date,end_date,status,winner_id,drawn_at,created_at from lotteries where id=$1`, lotteryId).
		Scan(&lottery.Id, &lottery.Title, &lottery.Description, &lottery.PrizeName, &lottery.StartDate,
			&lottery.EndDate, &lottery.Status, &winnerId, &lottery.DrawnAt, &lottery.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return utils.JsonErrorResponse(c, fiber.StatusNotFound, "lottery id provided is not valid")
		}
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Get lottery data failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("GetLottery: Unable to get lottery %d, error: %v", lotteryId, err),
			ServiceName: config.ServiceName,
		})
	}
	if winnerId != nil {
		winner := model.Driver{}
		err = config.DB.QueryRow(ctx, `select id,names,phone,created_at from drivers where id=$1`, *winnerId).
			Scan(&winner.Id, &winner.Names, &winner.Phone, &winner.CreatedAt)
		if err == nil {
			winner.Phone = utils.MaskPhone(winner.Phone)
			lottery.Winner = &winner
		}
	}
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "success", "data": fiber.Map{"lottery": lottery}})
}

func UpdateLottery(c *fiber.Ctx) error {
	userPayload, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, err.Error())
	}
	if !userPayload.CanTriggerDraw {
		return utils.JsonErrorResponse(c, fiber.StatusForbidden, "You are not allowed to manage lotteries")
	}
	lotteryId, err := c.ParamsInt("lotteryId")
	if err != nil || lotteryId == 0 {
		return utils.JsonErrorResponse(c, fiber.StatusBadRequest, "lottery id is required")
	}
	type FormData struct {
		Title       string    `json:"title" binding:"required" validate:"required,min=3,max=150"`
		Description string    `json:"description" validate:"max=500"`
		PrizeName   string    `json:"prizeName" binding:"required" validate:"required,min=2,max=150"`
		StartDate   time.Time `json:"startDate" binding:"required" validate:"required"`
		EndDate     time.Time `json:"endDate" binding:"required" validate:"required"`
	}
	formData := new(FormData)
	if err := c.BodyParser(formData); err != nil || formData.Title == "" {
		c.SendStatus(400)
		return c.JSON(fiber.Map{"status": 400, "message": "Please provide all required data", "details": err})
	}
	if err := Validate.Struct(formData); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, "Provided data are not valid")
	}
	if !formData.EndDate.After(formData.StartDate) {
		return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, "End date have to be after the start date")
	}
	// only drafts and pending lotteries can still change
	result, err := config.DB.Exec(ctx,
		`update lotteries set title=$1, description=$2, prize_name=$3, start_date=$4, end_date=$5, updated_at=now()
		where id=$6 and status in ('draft','pending')`,
		formData.Title, formData.Description, formData.PrizeName, formData.StartDate, formData.EndDate, lotteryId)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Unable to save data, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("UpdateLottery: Unable to update lottery %d, err:%v", lotteryId, err),
			ServiceName: config.ServiceName,
		})
	}
	if result.RowsAffected() == 0 {
		return utils.JsonErrorResponse(c, fiber.StatusConflict, "Lottery not found or no longer editable")
	}
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "Lottery updated successfully"})
}

func transitionLottery(c *fiber.Ctx, to string, successMessage string) error {
	userPayload, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, err.Error())
	}
	if !userPayload.CanTriggerDraw {
		return utils.JsonErrorResponse(c, fiber.StatusForbidden, "You are not allowed to manage lotteries")
	}
	lotteryId, err := c.ParamsInt("lotteryId")
	if err != nil || lotteryId == 0 {
		return utils.JsonErrorResponse(c, fiber.StatusBadRequest, "lottery id is required")
	}
	var status string
	err = config.DB.QueryRow(ctx, `select status from lotteries where id=$1`, lotteryId).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return utils.JsonErrorResponse(c, fiber.StatusNotFound, "lottery id provided is not valid")
		}
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Unable to save data, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("transitionLottery: Unable to load lottery %d, err:%v", lotteryId, err),
			ServiceName: config.ServiceName,
		})
	}
	if !service.CanTransition(status, to) {
		return utils.JsonErrorResponse(c, fiber.StatusConflict, fmt.Sprintf("A %s lottery can not move to %s", status, to))
	}
	result, err := config.DB.Exec(ctx, `update lotteries set status=$1, updated_at=now() where id=$2 and status=$3`, to, lotteryId, status)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Unable to save data, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("transitionLottery: Unable to update lottery %d, err:%v", lotteryId, err),
			ServiceName: config.ServiceName,
		})
	}
	if result.RowsAffected() == 0 {
		return utils.JsonErrorResponse(c, fiber.StatusConflict, "Lottery status changed in the meantime, please retry")
	}
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": successMessage})
}

func ActivateLottery(c *fiber.Ctx) error {
	return transitionLottery(c, model.LotteryActive, "Lottery activated successfully")
}

func CancelLottery(c *fiber.Ctx) error {
	return transitionLottery(c, model.LotteryCancelled, "Lottery cancelled successfully")
}

func EndLottery(c *fiber.Ctx) error {
	return transitionLottery(c, model.LotteryEnded, "Lottery ended successfully")
}

type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Point entries dated inside the lottery window decide eligibility, ordered by
// points so the admin panel can show the leaderboard as posted.
func eligibleDriversQuery(db rowQuerier, startDate time.Time, endDate time.Time, minPoints int) ([]model.EligibleDriver, error) {
	rows, err := db.Query(ctx,
		`select d.id, d.names, d.phone, coalesce(sum(p.amount),0) as points
		from drivers d inner join point_entries p on p.driver_id = d.id
		where d.status='OKAY' and p.created_at >= $1 and p.created_at <= $2
		group by d.id, d.names, d.phone
		having coalesce(sum(p.amount),0) >= $3
		order by points desc, d.id`, startDate, endDate, minPoints)
	if err != nil {
		return nil, err
	}
	eligible := []model.EligibleDriver{}
	for rows.Next() {
		driver := model.EligibleDriver{}
		if err = rows.Scan(&driver.UserId, &driver.UserName, &driver.UserPhone, &driver.Points); err != nil {
			return nil, err
		}
		eligible = append(eligible, driver)
	}
	return eligible, nil
}

func GetEligibleDrivers(c *fiber.Ctx) error {
	_, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, err.Error())
	}
	lotteryId, err := c.ParamsInt("lotteryId")
	if err != nil || lotteryId == 0 {
		return utils.JsonErrorResponse(c, fiber.StatusBadRequest, "lottery id is required")
	}
	minPoints := c.QueryInt("min_points", 1)
	if minPoints < 1 {
		return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, "min_points have to be at least 1")
	}
	var startDate, endDate time.Time
	err = config.DB.QueryRow(ctx, `select start_date,end_date from lotteries where id=$1`, lotteryId).Scan(&startDate, &endDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return utils.JsonErrorResponse(c, fiber.StatusNotFound, "lottery id provided is not valid")
		}
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Get eligible drivers failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("GetEligibleDrivers: Unable to load lottery %d, err:%v", lotteryId, err),
			ServiceName: config.ServiceName,
		})
	}
	eligible, err := eligibleDriversQuery(config.DB, startDate, endDate, minPoints)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Get eligible drivers failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("GetEligibleDrivers: Unable to aggregate points for lottery %d, err:%v", lotteryId, err),
			ServiceName: config.ServiceName,
		})
	}
	for i := range eligible {
		eligible[i].UserPhone = utils.MaskPhone(eligible[i].UserPhone)
	}
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "success", "items": eligible, "total": len(eligible)})
}

// StartLotteryDraw picks the winner inside the lottery row lock so two
// concurrent draws can not both succeed. The SMS goes out only after commit,
// a delivery failure never rolls the draw back.
func StartLotteryDraw(c *fiber.Ctx) error {
	userPayload, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, err.Error())
	}
	if !userPayload.CanTriggerDraw {
		return utils.JsonErrorResponse(c, fiber.StatusForbidden, "You are not allowed to trigger a draw")
	}
	lotteryId, err := c.ParamsInt("lotteryId")
	if err != nil || lotteryId == 0 {
		return utils.JsonErrorResponse(c, fiber.StatusBadRequest, "lottery id is required")
	}
	type FormData struct {
		Method    string `json:"method" binding:"required" validate:"required,oneof=random"`
		MinPoints int    `json:"min_points" validate:"min=0"`
	}
	formData := new(FormData)
	if err := c.BodyParser(formData); err != nil || formData.Method == "" {
		c.SendStatus(400)
		return c.JSON(fiber.Map{"status": 400, "message": "Please provide all required data", "details": err})
	}
	if err := Validate.Struct(formData); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, "Provided data are not valid")
	}
	minPoints := formData.MinPoints
	if minPoints < 1 {
		minPoints = 1
	}
	tx, err := config.DB.Begin(ctx)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Draw failed, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("StartLotteryDraw: Unable to begin transaction, err:%v", err),
			ServiceName: config.ServiceName,
		})
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				utils.LogMessage(utils.CRITICAL, fmt.Sprintf("StartLotteryDraw: Unable to rollback transaction, err:%v", rbErr), config.ServiceName)
			}
		}
	}()
	lottery := model.Lottery{}
	err = tx.QueryRow(ctx, `select id,title,prize_name,start_date,end_date,status from lotteries where id=$1 for update`, lotteryId).
		Scan(&lottery.Id, &lottery.Title, &lottery.PrizeName, &lottery.StartDate, &lottery.EndDate, &lottery.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return utils.JsonErrorResponse(c, fiber.StatusNotFound, "lottery id provided is not valid")
		}
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Draw failed, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("StartLotteryDraw: Unable to load lottery %d, err:%v", lotteryId, err),
			ServiceName: config.ServiceName,
		})
	}
	if lottery.Status != model.LotteryActive {
		err = errors.New("lottery is not active")
		return utils.JsonErrorResponse(c, fiber.StatusConflict, fmt.Sprintf("Draw is only allowed on an active lottery, this one is %s", lottery.Status))
	}
	eligible, err := eligibleDriversQuery(tx, lottery.StartDate, lottery.EndDate, minPoints)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Draw failed, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("StartLotteryDraw: Unable to aggregate eligibles for lottery %d, err:%v", lotteryId, err),
			ServiceName: config.ServiceName,
		})
	}
	winner, err := service.PickWinner(eligible)
	if err != nil {
		if errors.Is(err, service.ErrNoEligibleParticipants) {
			tx.Rollback(ctx)
			err = nil
			return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "No driver reached the required points for this draw", "data": fiber.Map{"winner": nil}})
		}
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Draw failed, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("StartLotteryDraw: Unable to pick a winner for lottery %d, err:%v", lotteryId, err),
			ServiceName: config.ServiceName,
		})
	}
	result, err := tx.Exec(ctx, `update lotteries set status='drawn', winner_id=$1, drawn_at=now(), updated_at=now() where id=$2 and status='active'`,
		winner.UserId, lotteryId)
	if err != nil || result.RowsAffected() == 0 {
		if err == nil {
			err = errors.New("lottery already drawn")
		}
		return utils.JsonErrorResponse(c, fiber.StatusConflict, "This lottery has already been drawn", utils.Logger{
			LogLevel:    utils.WARNING,
			Message:     fmt.Sprintf("StartLotteryDraw: Draw race detected on lottery %d, err:%v", lotteryId, err),
			ServiceName: config.ServiceName,
		})
	}
	if err = tx.Commit(ctx); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Draw failed, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("StartLotteryDraw: Unable to commit draw of lottery %d, err:%v", lotteryId, err),
			ServiceName: config.ServiceName,
		})
	}
	message := fmt.Sprintf("Congratulations %s! You won %s in the %s draw. Our team will contact you shortly.",
		winner.UserName, lottery.PrizeName, lottery.Title)
	smsSent := true
	smsStatus := "sent"
	if smsErr := utils.SendSMS(winner.UserPhone, message, viper.GetString("sender_id"), config.ServiceName, "lottery_winner", config.SMSTx); smsErr != nil {
		smsSent = false
		smsStatus = "failed"
		utils.LogMessage(utils.ERROR, fmt.Sprintf("StartLotteryDraw: Unable to notify winner of lottery %d, err:%v", lotteryId, smsErr), config.ServiceName)
	}
	if _, logErr := config.DB.Exec(ctx, `insert into sms_log (phone,message,sms_type,status) values ($1,$2,'lottery_winner',$3)`,
		winner.UserPhone, message, smsStatus); logErr != nil {
		utils.LogMessage(utils.ERROR, fmt.Sprintf("StartLotteryDraw: Unable to log winner sms of lottery %d, err:%v", lotteryId, logErr), config.ServiceName)
	}
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "Draw completed successfully", "data": fiber.Map{
		"lotteryId": lotteryId,
		"winner": fiber.Map{
			"userId":   winner.UserId,
			"userName": winner.UserName,
			"points":   winner.Points,
		},
		"winner_phone": utils.MaskPhone(winner.UserPhone),
		"sms_sent":     smsSent,
	}})
}

// ManualPointAward credits lottery points outside the delivery flow, a support
// tool for disputes and promotions. The new balance is the driver's lifetime
// point total after the award.
func ManualPointAward(c *fiber.Ctx) error {
	userPayload, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, err.Error())
	}
	if !userPayload.CanTriggerDraw {
		return utils.JsonErrorResponse(c, fiber.StatusForbidden, "You are not allowed to award points")
	}
	type FormData struct {
		UserId      int    `json:"userId" binding:"required" validate:"required,number"`
		Amount      int    `json:"amount" binding:"required" validate:"required,number"`
		Description string `json:"description" validate:"max=500"`
	}
	formData := new(FormData)
	if err := c.BodyParser(formData); err != nil || formData.UserId == 0 {
		c.SendStatus(400)
		return c.JSON(fiber.Map{"status": 400, "message": "Please provide all required data", "details": err})
	}
	if err := Validate.Struct(formData); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, "Provided data are not valid")
	}
	if formData.Amount <= 0 {
		return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, "Point amount have to be greater than zero")
	}
	_, err = config.DB.Exec(ctx, `insert into point_entries (driver_id,amount,description,source,operator_id) values ($1,$2,$3,'manual',$4)`,
		formData.UserId, formData.Amount, formData.Description, userPayload.Id)
	if err != nil {
		if ok, _ := utils.IsForeignKeyErr(err); ok {
			return utils.JsonErrorResponse(c, fiber.StatusNotFound, "driver id provided is not valid")
		}
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Unable to save data, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("ManualPointAward: Unable to award points to driver %d, err:%v", formData.UserId, err),
			ServiceName: config.ServiceName,
		})
	}
	var newBalance int
	if err = config.DB.QueryRow(ctx, `select coalesce(sum(amount),0) from point_entries where driver_id=$1`, formData.UserId).Scan(&newBalance); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Unable to save data, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("ManualPointAward: Unable to total points of driver %d, err:%v", formData.UserId, err),
			ServiceName: config.ServiceName,
		})
	}
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "Points awarded successfully", "data": fiber.Map{"new_balance": newBalance}})
}
