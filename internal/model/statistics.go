package model

import "github.com/shopspring/decimal"

// DashboardStats aggregates solicitud counts and amounts for the dashboard
type DashboardStats struct {
	TotalSolicitudes    int             `json:"totalSolicitudes"`
	PendingSolicitudes  int             `json:"pendingSolicitudes"`
	ApprovedSolicitudes int             `json:"approvedSolicitudes"`
	TotalAmount         decimal.Decimal `json:"totalAmount"`
	ApprovedAmount      decimal.Decimal `json:"approvedAmount"`
	Ministries          int             `json:"ministries"`
	Users               int             `json:"users"`
}
