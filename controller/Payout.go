package controller

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"zistino-api/config"
	"zistino-api/model"
	"zistino-api/service"
	"zistino-api/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/xuri/excelize/v2"
)

// PageRequest is the shared request shape of every paginated search endpoint.
type PageRequest struct {
	PageNumber int    `json:"pageNumber"`
	PageSize   int    `json:"pageSize"`
	Keyword    string `json:"keyword"`
}

func (p *PageRequest) limitOffset() (int, int) {
	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = 20
	} else if pageSize > 100 {
		pageSize = 100
	}
	pageNumber := p.PageNumber
	if pageNumber <= 0 {
		pageNumber = 1
	}
	return pageSize, (pageNumber - 1) * pageSize
}

func GetPayoutTiers(c *fiber.Ctx) error {
	_, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, err.Error())
	}
	tiers := []model.PayoutTier{}
	rows, err := config.DB.Query(ctx, `select id,min_visits,max_visits,rate_per_kg,created_at from payout_tiers order by position`)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Get payout tiers failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     "GetPayoutTiers: Unable to get tier data, error: " + err.Error(),
			ServiceName: config.ServiceName,
		})
	}
	for rows.Next() {
		tier := model.PayoutTier{}
		if err = rows.Scan(&tier.Id, &tier.Min, &tier.Max, &tier.RatePerKg, &tier.CreatedAt); err != nil {
			return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Get payout tiers failed", utils.Logger{
				LogLevel:    utils.CRITICAL,
				Message:     "GetPayoutTiers: Unable to get tier data, error: " + err.Error(),
				ServiceName: config.ServiceName,
			})
		}
		tiers = append(tiers, tier)
	}
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "success", "data": fiber.Map{"tiers": tiers}})
}

// SetPayoutTiers replaces the whole tier table in one transaction so a GET right
// after returns exactly what was posted, order included.
func SetPayoutTiers(c *fiber.Ctx) error {
	userPayload, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, err.Error())
	}
	if !userPayload.CanManageTiers {
		return utils.JsonErrorResponse(c, fiber.StatusForbidden, "You are not allowed to manage payout tiers")
	}
	type FormData struct {
		Tiers []model.PayoutTier `json:"tiers" binding:"required" validate:"required,dive"`
	}
	formData := new(FormData)
	if err := c.BodyParser(formData); err != nil || len(formData.Tiers) == 0 {
		c.SendStatus(400)
		return c.JSON(fiber.Map{"status": 400, "message": "Please provide all required data", "details": err})
	}
	if err := Validate.Struct(formData); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, "Provided data are not valid")
	}
	if err := service.ValidateTiers(formData.Tiers); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, err.Error())
	}
	tx, err := config.DB.Begin(ctx)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Unable to save data, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("SetPayoutTiers: Unable to begin transaction, err:%v", err),
			ServiceName: config.ServiceName,
		})
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				utils.LogMessage(utils.CRITICAL, fmt.Sprintf("SetPayoutTiers: Unable to rollback transaction, err:%v", rbErr), config.ServiceName)
			}
		}
	}()
	if _, err = tx.Exec(ctx, `delete from payout_tiers`); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Unable to save data, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("SetPayoutTiers: Unable to clear tier table, err:%v", err),
			ServiceName: config.ServiceName,
		})
	}
	for position, tier := range formData.Tiers {
		_, err = tx.Exec(ctx, `insert into payout_tiers (min_visits,max_visits,rate_per_kg,position,operator_id) values ($1,$2,$3,$4,$5)`,
			tier.Min, tier.Max, tier.RatePerKg, position, userPayload.Id)
		if err != nil {
			return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Unable to save data, system error. please try again later", utils.Logger{
				LogLevel:    utils.CRITICAL,
				Message:     fmt.Sprintf("SetPayoutTiers: Unable to save tier %d, err:%v", position+1, err),
				ServiceName: config.ServiceName,
			})
		}
	}
	if err = tx.Commit(ctx); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Unable to save data, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("SetPayoutTiers: Unable to commit transaction, err:%v", err),
			ServiceName: config.ServiceName,
		})
	}
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "Payout tiers saved successfully"})
}

func GetWeightRanges(c *fiber.Ctx) error {
	_, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, err.Error())
	}
	ranges := []model.WeightRange{}
	rows, err := config.DB.Query(ctx, `select id,label,minimum_kg,created_at from weight_ranges order by position`)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Get weight ranges failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     "GetWeightRanges: Unable to get range data, error: " + err.Error(),
			ServiceName: config.ServiceName,
		})
	}
	for rows.Next() {
		weightRange := model.WeightRange{}
		if err = rows.Scan(&weightRange.Id, &weightRange.Label, &weightRange.MinimumKg, &weightRange.CreatedAt); err != nil {
			return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Get weight ranges failed", utils.Logger{
				LogLevel:    utils.CRITICAL,
				Message:     "GetWeightRanges: Unable to get range data, error: " + err.Error(),
				ServiceName: config.ServiceName,
			})
		}
		ranges = append(ranges, weightRange)
	}
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "success", "data": fiber.Map{"ranges": ranges}})
}

func SetWeightRanges(c *fiber.Ctx) error {
	userPayload, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, err.Error())
	}
	if !userPayload.CanManageTiers {
		return utils.JsonErrorResponse(c, fiber.StatusForbidden, "You are not allowed to manage weight ranges")
	}
	type FormData struct {
		Ranges []model.WeightRange `json:"ranges" binding:"required" validate:"required,dive"`
	}
	formData := new(FormData)
	if err := c.BodyParser(formData); err != nil || len(formData.Ranges) == 0 {
		c.SendStatus(400)
		return c.JSON(fiber.Map{"status": 400, "message": "Please provide all required data", "details": err})
	}
	if err := Validate.Struct(formData); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, "Provided data are not valid")
	}
	seen := map[string]bool{}
	for i, weightRange := range formData.Ranges {
		if weightRange.MinimumKg < 0 {
			return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, fmt.Sprintf("range %d: minimum can not be negative", i+1))
		}
		if seen[weightRange.Label] {
			return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, fmt.Sprintf("range %d: duplicate label %s", i+1, weightRange.Label))
		}
		seen[weightRange.Label] = true
	}
	tx, err := config.DB.Begin(ctx)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Unable to save data, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("SetWeightRanges: Unable to begin transaction, err:%v", err),
			ServiceName: config.ServiceName,
		})
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				utils.LogMessage(utils.CRITICAL, fmt.Sprintf("SetWeightRanges: Unable to rollback transaction, err:%v", rbErr), config.ServiceName)
			}
		}
	}()
	if _, err = tx.Exec(ctx, `delete from weight_ranges`); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Unable to save data, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("SetWeightRanges: Unable to clear range table, err:%v", err),
			ServiceName: config.ServiceName,
		})
	}
	for position, weightRange := range formData.Ranges {
		_, err = tx.Exec(ctx, `insert into weight_ranges (label,minimum_kg,position,operator_id) values ($1,$2,$3,$4)`,
			weightRange.Label, weightRange.MinimumKg, position, userPayload.Id)
		if err != nil {
			return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Unable to save data, system error. please try again later", utils.Logger{
				LogLevel:    utils.CRITICAL,
				Message:     fmt.Sprintf("SetWeightRanges: Unable to save range %s, err:%v", weightRange.Label, err),
				ServiceName: config.ServiceName,
			})
		}
	}
	if err = tx.Commit(ctx); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Unable to save data, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("SetWeightRanges: Unable to commit transaction, err:%v", err),
			ServiceName: config.ServiceName,
		})
	}
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "Weight range minimums saved successfully"})
}

type shortfallFilter struct {
	PageRequest
	UserId     *int   `json:"userId"`
	IsDeducted *bool  `json:"isDeducted"`
	DateFrom   string `json:"dateFrom"`
	DateTo     string `json:"dateTo"`
}

func (f *shortfallFilter) whereClause() (string, []interface{}, error) {
	where := " where 1=1"
	args := []interface{}{}
	if f.UserId != nil {
		args = append(args, *f.UserId)
		where += fmt.Sprintf(" and customer_id=$%d", len(args))
	}
	if f.IsDeducted != nil {
		args = append(args, *f.IsDeducted)
		where += fmt.Sprintf(" and is_deducted=$%d", len(args))
	}
	if f.DateFrom != "" {
		dateFrom, err := time.Parse("2006-01-02", f.DateFrom)
		if err != nil {
			return "", nil, errors.New("dateFrom is not a valid date")
		}
		args = append(args, dateFrom)
		where += fmt.Sprintf(" and created_at >= $%d", len(args))
	}
	if f.DateTo != "" {
		dateTo, err := time.Parse("2006-01-02", f.DateTo)
		if err != nil {
			return "", nil, errors.New("dateTo is not a valid date")
		}
		args = append(args, dateTo.AddDate(0, 0, 1))
		where += fmt.Sprintf(" and created_at < $%d", len(args))
	}
	if f.Keyword != "" {
		args = append(args, f.Keyword)
		where += fmt.Sprintf(" and estimated_range=$%d", len(args))
	}
	return where, args, nil
}

func SearchWeightShortfalls(c *fiber.Ctx) error {
	_, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, err.Error())
	}
	formData := new(shortfallFilter)
	if err := c.BodyParser(formData); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusBadRequest, "Please provide all required data")
	}
	where, args, err := formData.whereClause()
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, err.Error())
	}
	var total int
	if err = config.DB.QueryRow(ctx, `select count(*) from weight_shortfalls`+where, args...).Scan(&total); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Get shortfall data failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     "SearchWeightShortfalls: Unable to count shortfall data, error: " + err.Error(),
			ServiceName: config.ServiceName,
		})
	}
	limit, offset := formData.limitOffset()
	args = append(args, limit, offset)
	rows, err := config.DB.Query(ctx,
		`select id,customer_id,delivery_id,estimated_range,minimum_kg,delivered_kg,shortfall_kg,remaining_kg,is_deducted,created_at,deducted_at
		from weight_shortfalls`+where+fmt.Sprintf(" order by created_at desc limit $%d offset $%d", len(args)-1, len(args)), args...)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Get shortfall data failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     "SearchWeightShortfalls: Unable to get shortfall data, error: " + err.Error(),
			ServiceName: config.ServiceName,
		})
	}
	items := []model.WeightShortfall{}
	for rows.Next() {
		shortfall := model.WeightShortfall{}
		err = rows.Scan(&shortfall.Id, &shortfall.CustomerId, &shortfall.DeliveryId, &shortfall.EstimatedRange, &shortfall.MinimumKg,
			&shortfall.DeliveredKg, &shortfall.ShortfallKg, &shortfall.RemainingKg, &shortfall.IsDeducted, &shortfall.CreatedAt, &shortfall.DeductedAt)
		if err != nil {
			return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Get shortfall data failed", utils.Logger{
				LogLevel:    utils.CRITICAL,
				Message:     "SearchWeightShortfalls: Unable to get shortfall data, error: " + err.Error(),
				ServiceName: config.ServiceName,
			})
		}
		items = append(items, shortfall)
	}
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "success", "items": items, "total": total})
}

// ExportWeightShortfalls streams the full ledger as an xlsx reconciliation report.
func ExportWeightShortfalls(c *fiber.Ctx) error {
	_, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, err.Error())
	}
	rows, err := config.DB.Query(ctx,
		`select s.id,s.customer_id,c.names,s.estimated_range,s.minimum_kg,s.delivered_kg,s.shortfall_kg,s.remaining_kg,s.is_deducted,s.created_at,s.deducted_at
		from weight_shortfalls s inner join customers c on s.customer_id = c.id order by s.created_at`)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Export shortfall data failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     "ExportWeightShortfalls: Unable to get shortfall data, error: " + err.Error(),
			ServiceName: config.ServiceName,
		})
	}
	file := excelize.NewFile()
	sheet := "Shortfalls"
	file.SetSheetName("Sheet1", sheet)
	file.SetSheetRow(sheet, "A1", &[]interface{}{"ID", "Customer ID", "Customer", "Range", "Minimum (kg)", "Delivered (kg)", "Shortfall (kg)", "Remaining (kg)", "Deducted", "Created at", "Deducted at"})
	rowNumber := 2
	for rows.Next() {
		shortfall := model.WeightShortfall{}
		var customerNames string
		err = rows.Scan(&shortfall.Id, &shortfall.CustomerId, &customerNames, &shortfall.EstimatedRange, &shortfall.MinimumKg,
			&shortfall.DeliveredKg, &shortfall.ShortfallKg, &shortfall.RemainingKg, &shortfall.IsDeducted, &shortfall.CreatedAt, &shortfall.DeductedAt)
		if err != nil {
			return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Export shortfall data failed", utils.Logger{
				LogLevel:    utils.CRITICAL,
				Message:     "ExportWeightShortfalls: Unable to get shortfall data, error: " + err.Error(),
				ServiceName: config.ServiceName,
			})
		}
		deductedAt := ""
		if shortfall.DeductedAt != nil {
			deductedAt = shortfall.DeductedAt.Format(time.DateTime)
		}
		file.SetSheetRow(sheet, fmt.Sprintf("A%d", rowNumber), &[]interface{}{shortfall.Id, shortfall.CustomerId, customerNames, shortfall.EstimatedRange,
			shortfall.MinimumKg, shortfall.DeliveredKg, shortfall.ShortfallKg, shortfall.RemainingKg, shortfall.IsDeducted,
			shortfall.CreatedAt.Format(time.DateTime), deductedAt})
		rowNumber++
	}
	buffer, err := file.WriteToBuffer()
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Export shortfall data failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     "ExportWeightShortfalls: Unable to write workbook, error: " + err.Error(),
			ServiceName: config.ServiceName,
		})
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="weight_shortfalls.xlsx"`)
	return c.SendStream(bytes.NewReader(buffer.Bytes()))
}

func CreateDelivery(c *fiber.Ctx) error {
	_, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, err.Error())
	}
	type FormData struct {
		CustomerId     int     `json:"customerId" binding:"required" validate:"required,number"`
		DriverId       int     `json:"driverId" binding:"required" validate:"required,number"`
		EstimatedRange string  `json:"estimatedRange" binding:"required" validate:"required,max=20"`
		DeliveredKg    float64 `json:"deliveredWeightKg" validate:"min=0"`
	}
	formData := new(FormData)
	if err := c.BodyParser(formData); err != nil || formData.CustomerId == 0 {
		c.SendStatus(400)
		return c.JSON(fiber.Map{"status": 400, "message": "Please provide all required data", "details": err})
	}
	if err := Validate.Struct(formData); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, "Provided data are not valid")
	}
	var deliveryId int
	err = config.DB.QueryRow(ctx,
		`insert into deliveries (customer_id,driver_id,estimated_range,delivered_kg,status) values ($1,$2,$3,$4,'completed') returning id`,
		formData.CustomerId, formData.DriverId, formData.EstimatedRange, formData.DeliveredKg).Scan(&deliveryId)
	if err != nil {
		if ok, key := utils.IsForeignKeyErr(err); ok {
			return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, fmt.Sprintf("Unable to save data, %s is invalid", key))
		}
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Unable to save data, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("CreateDelivery: Unable to save delivery, customer:%d, err:%v", formData.CustomerId, err),
			ServiceName: config.ServiceName,
		})
	}
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "Delivery recorded successfully", "data": fiber.Map{"deliveryId": deliveryId}})
}

func GetDeliveries(c *fiber.Ctx) error {
	_, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, err.Error())
	}
	formData := new(PageRequest)
	c.BodyParser(formData)
	where := " where 1=1"
	args := []interface{}{}
	if status := c.Query("status"); status != "" {
		if status != "completed" && status != "settled" {
			return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, "status have to be completed or settled")
		}
		args = append(args, status)
		where += fmt.Sprintf(" and d.status=$%d", len(args))
	}
	if customerId := c.QueryInt("customerId"); customerId != 0 {
		args = append(args, customerId)
		where += fmt.Sprintf(" and d.customer_id=$%d", len(args))
	}
	var total int
	if err = config.DB.QueryRow(ctx, `select count(*) from deliveries d`+where, args...).Scan(&total); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Get delivery data failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     "GetDeliveries: Unable to count delivery data, error: " + err.Error(),
			ServiceName: config.ServiceName,
		})
	}
	limit, offset := formData.limitOffset()
	args = append(args, limit, offset)
	rows, err := config.DB.Query(ctx,
		`select d.id, d.estimated_range, d.delivered_kg, d.net_kg, d.rate_per_kg, d.payout_amount, d.status, d.completed_at, d.settled_at,
			c.id, c.names, c.phone, v.id, v.names, v.phone
		from deliveries d
		inner join customers c on d.customer_id = c.id
		inner join drivers v on d.driver_id = v.id`+where+
			fmt.Sprintf(" order by d.completed_at desc limit $%d offset $%d", len(args)-1, len(args)), args...)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Get delivery data failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     "GetDeliveries: Unable to get delivery data, error: " + err.Error(),
			ServiceName: config.ServiceName,
		})
	}
	deliveries := []model.Delivery{}
	for rows.Next() {
		delivery := model.Delivery{}
		err = rows.Scan(&delivery.Id, &delivery.EstimatedRange, &delivery.DeliveredKg, &delivery.NetKg, &delivery.RatePerKg,
			&delivery.PayoutAmount, &delivery.Status, &delivery.CompletedAt, &delivery.SettledAt,
			&delivery.Customer.Id, &delivery.Customer.Names, &delivery.Customer.Phone,
			&delivery.Driver.Id, &delivery.Driver.Names, &delivery.Driver.Phone)
		if err != nil {
			return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Get delivery data failed", utils.Logger{
				LogLevel:    utils.CRITICAL,
				Message:     "GetDeliveries: Unable to get delivery data, error: " + err.Error(),
				ServiceName: config.ServiceName,
			})
		}
		deliveries = append(deliveries, delivery)
	}
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "success", "items": deliveries, "total": total})
}

// CompleteDelivery settles a completed delivery: shortfall carry-over first, then
// the new shortfall, then tier resolution and the driver payout, all in one
// transaction. The customer row lock serializes concurrent settlements for the
// same customer; settlements for different customers run in parallel.
func CompleteDelivery(c *fiber.Ctx) error {
	userPayload, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, err.Error())
	}
	type FormData struct {
		DeliveryId int `json:"deliveryId" binding:"required" validate:"required,number"`
	}
	formData := new(FormData)
	if err := c.BodyParser(formData); err != nil || formData.DeliveryId == 0 {
		c.SendStatus(400)
		return c.JSON(fiber.Map{"status": 400, "message": "Please provide all required data", "details": err})
	}
	tx, err := config.DB.Begin(ctx)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Settlement failed, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("CompleteDelivery: Unable to begin transaction, err:%v", err),
			ServiceName: config.ServiceName,
		})
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				utils.LogMessage(utils.CRITICAL, fmt.Sprintf("CompleteDelivery: Unable to rollback transaction, err:%v", rbErr), config.ServiceName)
			}
		}
	}()
	var customerId, driverId int
	var estimatedRange, status string
	var deliveredKg float64
	err = tx.QueryRow(ctx, `select customer_id,driver_id,estimated_range,delivered_kg,status from deliveries where id=$1 for update`, formData.DeliveryId).
		Scan(&customerId, &driverId, &estimatedRange, &deliveredKg, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return utils.JsonErrorResponse(c, fiber.StatusNotFound, "delivery id provided is not valid")
		}
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Settlement failed, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("CompleteDelivery: Unable to load delivery %d, err:%v", formData.DeliveryId, err),
			ServiceName: config.ServiceName,
		})
	}
	if status != "completed" {
		err = errors.New("already settled")
		return utils.JsonErrorResponse(c, fiber.StatusConflict, "This delivery has already been settled")
	}
	// serialize settlements per customer
	if _, err = tx.Exec(ctx, `select id from customers where id=$1 for update`, customerId); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Settlement failed, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("CompleteDelivery: Unable to lock customer %d, err:%v", customerId, err),
			ServiceName: config.ServiceName,
		})
	}
	var minimumKg float64
	err = tx.QueryRow(ctx, `select minimum_kg from weight_ranges where label=$1`, estimatedRange).Scan(&minimumKg)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, fmt.Sprintf("No weight range minimum configured for bucket %s", estimatedRange))
		}
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Settlement failed, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("CompleteDelivery: Unable to load weight range %s, err:%v", estimatedRange, err),
			ServiceName: config.ServiceName,
		})
	}
	rows, err := tx.Query(ctx,
		`select id,customer_id,delivery_id,estimated_range,minimum_kg,delivered_kg,shortfall_kg,remaining_kg,is_deducted,created_at,deducted_at
		from weight_shortfalls where customer_id=$1 and is_deducted=false order by created_at for update`, customerId)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Settlement failed, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("CompleteDelivery: Unable to load shortfalls of customer %d, err:%v", customerId, err),
			ServiceName: config.ServiceName,
		})
	}
	pending := []model.WeightShortfall{}
	for rows.Next() {
		shortfall := model.WeightShortfall{}
		err = rows.Scan(&shortfall.Id, &shortfall.CustomerId, &shortfall.DeliveryId, &shortfall.EstimatedRange, &shortfall.MinimumKg,
			&shortfall.DeliveredKg, &shortfall.ShortfallKg, &shortfall.RemainingKg, &shortfall.IsDeducted, &shortfall.CreatedAt, &shortfall.DeductedAt)
		if err != nil {
			return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Settlement failed, system error. please try again later", utils.Logger{
				LogLevel:    utils.CRITICAL,
				Message:     fmt.Sprintf("CompleteDelivery: Unable to scan shortfall of customer %d, err:%v", customerId, err),
				ServiceName: config.ServiceName,
			})
		}
		pending = append(pending, shortfall)
	}
	now := time.Now()
	netKg, consumed := service.ApplyCarryOver(pending, deliveredKg, now)
	for _, shortfall := range consumed {
		_, err = tx.Exec(ctx, `update weight_shortfalls set remaining_kg=$1, is_deducted=$2, deducted_at=$3 where id=$4`,
			shortfall.RemainingKg, shortfall.IsDeducted, shortfall.DeductedAt, shortfall.Id)
		if err != nil {
			return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Settlement failed, system error. please try again later", utils.Logger{
				LogLevel:    utils.CRITICAL,
				Message:     fmt.Sprintf("CompleteDelivery: Unable to consume shortfall %d, err:%v", shortfall.Id, err),
				ServiceName: config.ServiceName,
			})
		}
	}
	newShortfallKg := service.ComputeShortfall(minimumKg, netKg)
	if newShortfallKg > 0 {
		_, err = tx.Exec(ctx,
			`insert into weight_shortfalls (customer_id,delivery_id,estimated_range,minimum_kg,delivered_kg,shortfall_kg,remaining_kg) values ($1,$2,$3,$4,$5,$6,$6)`,
			customerId, formData.DeliveryId, estimatedRange, minimumKg, netKg, newShortfallKg)
		if err != nil {
			return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Settlement failed, system error. please try again later", utils.Logger{
				LogLevel:    utils.CRITICAL,
				Message:     fmt.Sprintf("CompleteDelivery: Unable to record shortfall of delivery %d, err:%v", formData.DeliveryId, err),
				ServiceName: config.ServiceName,
			})
		}
	}
	// visit counts are 1-based and include the delivery being settled
	var settledVisits int
	if err = tx.QueryRow(ctx, `select count(*) from deliveries where customer_id=$1 and status='settled'`, customerId).Scan(&settledVisits); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Settlement failed, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("CompleteDelivery: Unable to count visits of customer %d, err:%v", customerId, err),
			ServiceName: config.ServiceName,
		})
	}
	visitCount := settledVisits + 1
	tierRows, err := tx.Query(ctx, `select id,min_visits,max_visits,rate_per_kg,created_at from payout_tiers order by position`)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Settlement failed, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("CompleteDelivery: Unable to load payout tiers, err:%v", err),
			ServiceName: config.ServiceName,
		})
	}
	tiers := []model.PayoutTier{}
	for tierRows.Next() {
		tier := model.PayoutTier{}
		if err = tierRows.Scan(&tier.Id, &tier.Min, &tier.Max, &tier.RatePerKg, &tier.CreatedAt); err != nil {
			return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Settlement failed, system error. please try again later", utils.Logger{
				LogLevel:    utils.CRITICAL,
				Message:     fmt.Sprintf("CompleteDelivery: Unable to scan payout tier, err:%v", err),
				ServiceName: config.ServiceName,
			})
		}
		tiers = append(tiers, tier)
	}
	tier, err := service.ResolveTier(tiers, visitCount)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, fmt.Sprintf("No payout tier configured for visit count %d", visitCount))
	}
	payout := service.ComputePayout(tier, netKg)
	var newBalance int64
	err = tx.QueryRow(ctx, `update drivers set balance = balance + $1, updated_at=now() where id=$2 returning balance`, payout, driverId).Scan(&newBalance)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Settlement failed, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("CompleteDelivery: Unable to credit driver %d, err:%v", driverId, err),
			ServiceName: config.ServiceName,
		})
	}
	_, err = tx.Exec(ctx,
		`insert into transactions (driver_id,amount,transaction_type,description,ref_no,balance_after,initiated_by,operator_id) values ($1,$2,'payout',$3,$4,$5,'system',$6)`,
		driverId, payout, fmt.Sprintf("Payout for delivery #%d", formData.DeliveryId), utils.RandString(12), newBalance, userPayload.Id)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Settlement failed, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("CompleteDelivery: Unable to record payout transaction for delivery %d, err:%v", formData.DeliveryId, err),
			ServiceName: config.ServiceName,
		})
	}
	// every settled kilogram earns the driver one lottery point
	points := int(netKg)
	if points > 0 {
		_, err = tx.Exec(ctx, `insert into point_entries (driver_id,amount,description,source,delivery_id) values ($1,$2,$3,'delivery',$4)`,
			driverId, points, fmt.Sprintf("Recyclable weight reward for delivery #%d", formData.DeliveryId), formData.DeliveryId)
		if err != nil {
			return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Settlement failed, system error. please try again later", utils.Logger{
				LogLevel:    utils.CRITICAL,
				Message:     fmt.Sprintf("CompleteDelivery: Unable to record points for delivery %d, err:%v", formData.DeliveryId, err),
				ServiceName: config.ServiceName,
			})
		}
	}
	_, err = tx.Exec(ctx, `update deliveries set status='settled', net_kg=$1, rate_per_kg=$2, payout_amount=$3, settled_at=$4 where id=$5`,
		netKg, tier.RatePerKg, payout, now, formData.DeliveryId)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Settlement failed, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("CompleteDelivery: Unable to mark delivery %d settled, err:%v", formData.DeliveryId, err),
			ServiceName: config.ServiceName,
		})
	}
	if err = tx.Commit(ctx); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Settlement failed, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("CompleteDelivery: Unable to commit transaction for delivery %d, err:%v", formData.DeliveryId, err),
			ServiceName: config.ServiceName,
		})
	}
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "Delivery settled successfully", "data": fiber.Map{
		"deliveryId":   formData.DeliveryId,
		"netWeightKg":  netKg,
		"ratePerKg":    tier.RatePerKg,
		"payoutAmount": payout,
		"newBalance":   newBalance,
		"shortfallKg":  newShortfallKg,
		"points":       points,
	}})
}
