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

func GetDrivers(c *fiber.Ctx) error {
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
		where = " where names ilike $1 or phone ilike $1"
	}
	var total int
	if err = config.DB.QueryRow(ctx, `select count(*) from drivers`+where, args...).Scan(&total); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Get driver data failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     "GetDrivers: Unable to count driver data, error: " + err.Error(),
			ServiceName: config.ServiceName,
		})
	}
	limit, offset := formData.limitOffset()
	args = append(args, limit, offset)
	rows, err := config.DB.Query(ctx,
		`select id,names,phone,balance,status,created_at from drivers`+where+
			fmt.Sprintf(" order by names limit $%d offset $%d", len(args)-1, len(args)), args...)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Get driver data failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     "GetDrivers: Unable to get driver data, error: " + err.Error(),
			ServiceName: config.ServiceName,
		})
	}
	drivers := []model.Driver{}
	for rows.Next() {
		driver := model.Driver{}
		if err = rows.Scan(&driver.Id, &driver.Names, &driver.Phone, &driver.Balance, &driver.Status, &driver.CreatedAt); err != nil {
			return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Get driver data failed", utils.Logger{
				LogLevel:    utils.CRITICAL,
				Message:     "GetDrivers: Unable to get driver data, error: " + err.Error(),
				ServiceName: config.ServiceName,
			})
		}
		drivers = append(drivers, driver)
	}
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "success", "items": drivers, "total": total})
}

func GetCustomers(c *fiber.Ctx) error {
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
		where = " where names ilike $1 or phone ilike $1"
	}
	var total int
	if err = config.DB.QueryRow(ctx, `select count(*) from customers`+where, args...).Scan(&total); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Get customer data failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     "GetCustomers: Unable to count customer data, error: " + err.Error(),
			ServiceName: config.ServiceName,
		})
	}
	limit, offset := formData.limitOffset()
	args = append(args, limit, offset)
	rows, err := config.DB.Query(ctx,
		`select c.id, c.names, c.phone, c.status, c.created_at,
			coalesce((select sum(remaining_kg) from weight_shortfalls where customer_id = c.id and is_deducted = false), 0)
		from customers c`+where+fmt.Sprintf(" order by c.names limit $%d offset $%d", len(args)-1, len(args)), args...)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Get customer data failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     "GetCustomers: Unable to get customer data, error: " + err.Error(),
			ServiceName: config.ServiceName,
		})
	}
	type customerRow struct {
		model.Customer
		PendingShortfallKg float64 `json:"pendingShortfallKg"`
	}
	customers := []customerRow{}
	for rows.Next() {
		customer := customerRow{}
		err = rows.Scan(&customer.Id, &customer.Names, &customer.Phone, &customer.Status, &customer.CreatedAt, &customer.PendingShortfallKg)
		if err != nil {
			return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Get customer data failed", utils.Logger{
				LogLevel:    utils.CRITICAL,
				Message:     "GetCustomers: Unable to get customer data, error: " + err.Error(),
				ServiceName: config.ServiceName,
			})
		}
		customers = append(customers, customer)
	}
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "success", "items": customers, "total": total})
}

func GetDriverPoints(c *fiber.Ctx) error {
	_, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, err.Error())
	}
	driverId, err := c.ParamsInt("driverId")
	if err != nil || driverId == 0 {
		return utils.JsonErrorResponse(c, fiber.StatusBadRequest, "driver id is required")
	}
	rows, err := config.DB.Query(ctx,
		`select id,driver_id,amount,description,source,delivery_id,operator_id,created_at from point_entries where driver_id=$1 order by created_at desc`, driverId)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Get point data failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("GetDriverPoints: Unable to get point data of driver %d, error: %v", driverId, err),
			ServiceName: config.ServiceName,
		})
	}
	entries := []model.PointEntry{}
	balance := 0
	for rows.Next() {
		entry := model.PointEntry{}
		err = rows.Scan(&entry.Id, &entry.DriverId, &entry.Amount, &entry.Description, &entry.Source, &entry.DeliveryId, &entry.OperatorId, &entry.CreatedAt)
		if err != nil {
			return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Get point data failed", utils.Logger{
				LogLevel:    utils.CRITICAL,
				Message:     fmt.Sprintf("GetDriverPoints: Unable to get point data of driver %d, error: %v", driverId, err),
				ServiceName: config.ServiceName,
			})
		}
		balance += entry.Amount
		entries = append(entries, entry)
	}
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "success", "data": fiber.Map{"entries": entries, "balance": balance}})
}

// GetDriver returns the wallet balance together with the lifetime point total
// and how many deliveries the driver has settled.
func GetDriver(c *fiber.Ctx) error {
	_, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, err.Error())
	}
	driverId, err := c.ParamsInt("driverId")
	if err != nil || driverId == 0 {
		return utils.JsonErrorResponse(c, fiber.StatusBadRequest, "driver id is required")
	}
	driver := model.Driver{}
	var settledDeliveries int
	err = config.DB.QueryRow(ctx,
		`select d.id, d.names, d.phone, d.balance, d.status, d.created_at,
			coalesce((select sum(amount) from point_entries where driver_id = d.id), 0),
			(select count(*) from deliveries where driver_id = d.id and status = 'settled')
		from drivers d where d.id = $1`, driverId).
		Scan(&driver.Id, &driver.Names, &driver.Phone, &driver.Balance, &driver.Status, &driver.CreatedAt, &driver.Points, &settledDeliveries)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return utils.JsonErrorResponse(c, fiber.StatusNotFound, "driver id provided is not valid")
		}
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Get driver data failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("GetDriver: Unable to get driver %d, error: %v", driverId, err),
			ServiceName: config.ServiceName,
		})
	}
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "success", "data": fiber.Map{
		"driver":            driver,
		"settledDeliveries": settledDeliveries,
	}})
}
