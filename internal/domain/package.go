package domain

// Package is a subscription package offered by the backend.
type Package struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	DataLimitGB  int     `json:"dataLimitGB"`
	VoiceMinutes int     `json:"voiceMinutes"`
	SMSCount     int     `json:"smsCount"`
	Active       bool    `json:"active"`
	PackageType  string  `json:"packageType,omitempty"`
	StartDate    string  `json:"startDate,omitempty"`
	EndDate      string  `json:"endDate,omitempty"`
	CreatedAt    string  `json:"createdAt,omitempty"`
	UpdatedAt    string  `json:"updatedAt,omitempty"`
}

// PackageRequest is the create/update payload for packages.
type PackageRequest struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	DataLimitGB  int     `json:"dataLimitGB"`
	VoiceMinutes int     `json:"voiceMinutes"`
	SMSCount     int     `json:"smsCount"`
	PackageType  string  `json:"packageType,omitempty"`
}

// Package categories.
const (
	PackageTypePrepaid  = "PREPAID"
	PackageTypePostpaid = "POSTPAID"
)

// DashboardStats summarizes backend counts for the dashboard view.
type DashboardStats struct {
	TotalUsers     int `json:"totalUsers"`
	TotalPackages  int `json:"totalPackages"`
	ActivePackages int `json:"activePackages"`
}
