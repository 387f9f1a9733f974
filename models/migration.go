package models

import (
	"bitbucket.org/ebfdigital/manager_backend/config"
	"bitbucket.org/ebfdigital/manager_backend/utils"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Profile{}, &Technician{},
		&StockItem{}, &Intervention{}, &DailyReport{}, &DailyStat{},
		&TickerMessage{}, &Notification{},
		&Chantier{}, &Transaction{}, &Employee{}, &Payroll{},
		&Client{}, &CashMovement{}, &Supplier{}, &PurchaseOrder{},
		&ChangeMessageRecord{},
	)
	utils.ErrorPanic(err)
}
