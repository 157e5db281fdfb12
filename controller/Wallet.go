package controller

import (
	"errors"
	"fmt"

	"zistino-api/config"
	"zistino-api/model"
	"zistino-api/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

// RecordPayment moves money on a driver wallet outside the settlement flow.
// Credits top the wallet up, debits pay the driver out. The driver row lock
// keeps concurrent payments from racing past the balance check.
func RecordPayment(c *fiber.Ctx) error {
	userPayload, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, err.Error())
	}
	if !userPayload.CanRecordPayments {
		return utils.JsonErrorResponse(c, fiber.StatusForbidden, "You are not allowed to record payments")
	}
	type FormData struct {
		UserId          int    `json:"userId" binding:"required" validate:"required,number"`
		Amount          int64  `json:"amount" binding:"required" validate:"required,number"`
		TransactionType string `json:"transactionType" binding:"required" validate:"required,oneof=credit debit"`
		Description     string `json:"description" validate:"max=500"`
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
		return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, "Payment amount have to be greater than zero")
	}
	tx, err := config.DB.Begin(ctx)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Unable to save data, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("RecordPayment: Unable to begin transaction, err:%v", err),
			ServiceName: config.ServiceName,
		})
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				utils.LogMessage(utils.CRITICAL, fmt.Sprintf("RecordPayment: Unable to rollback transaction, err:%v", rbErr), config.ServiceName)
			}
		}
	}()
	var balance int64
	err = tx.QueryRow(ctx, `select balance from drivers where id=$1 for update`, formData.UserId).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return utils.JsonErrorResponse(c, fiber.StatusNotFound, "driver id provided is not valid")
		}
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Unable to save data, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("RecordPayment: Unable to lock driver %d, err:%v", formData.UserId, err),
			ServiceName: config.ServiceName,
		})
	}
	delta := formData.Amount
	if formData.TransactionType == "debit" {
		if balance < formData.Amount {
			err = errors.New("insufficient balance")
			return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, "Driver balance is not enough for this payment")
		}
		delta = -formData.Amount
	}
	var newBalance int64
	err = tx.QueryRow(ctx, `update drivers set balance = balance + $1, updated_at=now() where id=$2 returning balance`, delta, formData.UserId).Scan(&newBalance)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Unable to save data, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("RecordPayment: Unable to update balance of driver %d, err:%v", formData.UserId, err),
			ServiceName: config.ServiceName,
		})
	}
	_, err = tx.Exec(ctx,
		`insert into transactions (driver_id,amount,transaction_type,description,ref_no,balance_after,initiated_by,operator_id) values ($1,$2,$3,$4,$5,$6,'admin',$7)`,
		formData.UserId, delta, formData.TransactionType, formData.Description, utils.RandString(12), newBalance, userPayload.Id)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Unable to save data, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("RecordPayment: Unable to record transaction for driver %d, err:%v", formData.UserId, err),
			ServiceName: config.ServiceName,
		})
	}
	if err = tx.Commit(ctx); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Unable to save data, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("RecordPayment: Unable to commit transaction for driver %d, err:%v", formData.UserId, err),
			ServiceName: config.ServiceName,
		})
	}
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "Payment recorded successfully", "data": fiber.Map{"newBalance": newBalance}})
}

func SearchTransactions(c *fiber.Ctx) error {
	_, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, err.Error())
	}
	type FormData struct {
		PageRequest
		UserId          *int   `json:"userId"`
		TransactionType string `json:"transactionType" validate:"omitempty,oneof=credit debit payout"`
	}
	formData := new(FormData)
	if err := c.BodyParser(formData); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusBadRequest, "Please provide all required data")
	}
	if err := Validate.Struct(formData); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, "Provided data are not valid")
	}
	where := " where 1=1"
	args := []interface{}{}
	if formData.UserId != nil {
		args = append(args, *formData.UserId)
		where += fmt.Sprintf(" and driver_id=$%d", len(args))
	}
	if formData.TransactionType != "" {
		args = append(args, formData.TransactionType)
		where += fmt.Sprintf(" and transaction_type=$%d", len(args))
	}
	if formData.Keyword != "" {
		args = append(args, "%"+formData.Keyword+"%")
		where += fmt.Sprintf(" and (description ilike $%d or ref_no ilike $%d)", len(args), len(args))
	}
	var total int
	if err = config.DB.QueryRow(ctx, `select count(*) from transactions`+where, args...).Scan(&total); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Get transaction data failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     "SearchTransactions: Unable to count transaction data, error: " + err.Error(),
			ServiceName: config.ServiceName,
		})
	}
	limit, offset := formData.limitOffset()
	args = append(args, limit, offset)
	rows, err := config.DB.Query(ctx,
		`select id,driver_id,amount,transaction_type,description,ref_no,balance_after,initiated_by,status,created_at from transactions`+where+
			fmt.Sprintf(" order by created_at desc limit $%d offset $%d", len(args)-1, len(args)), args...)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Get transaction data failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     "SearchTransactions: Unable to get transaction data, error: " + err.Error(),
			ServiceName: config.ServiceName,
		})
	}
	items := []model.Transactions{}
	for rows.Next() {
		transaction := model.Transactions{}
		err = rows.Scan(&transaction.Id, &transaction.DriverId, &transaction.Amount, &transaction.TransactionType, &transaction.Description,
			&transaction.RefNo, &transaction.BalanceAfter, &transaction.InitiatedBy, &transaction.Status, &transaction.CreatedAt)
		if err != nil {
			return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Get transaction data failed", utils.Logger{
				LogLevel:    utils.CRITICAL,
				Message:     "SearchTransactions: Unable to get transaction data, error: " + err.Error(),
				ServiceName: config.ServiceName,
			})
		}
		items = append(items, transaction)
	}
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "success", "items": items, "total": total})
}
