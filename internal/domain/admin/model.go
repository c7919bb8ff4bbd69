package admin

import (
	"time"

	"github.com/google/uuid"

	"github.com/cureconnect/cureconnect/internal/platform/apperr"
)

// Pharmacy verification states.
const (
	PharmacyPending   = "pending"
	PharmacyVerified  = "verified"
	PharmacyRejected  = "rejected"
	PharmacySuspended = "suspended"
)

var validPharmacyStatus = map[string]bool{
	PharmacyPending:   true,
	PharmacyVerified:  true,
	PharmacyRejected:  true,
	PharmacySuspended: true,
}

// OrderDelivered is the only order status counted as revenue.
const OrderDelivered = "delivered"

// recentWindow bounds the "recent" counters on the dashboards.
const recentWindow = 30 * 24 * time.Hour

// ordersLimit caps GET /admin/orders.
const ordersLimit = 100

type Owner struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Contact string    `json:"contact"`
}

type Pharmacy struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	Name               string     `db:"name" json:"name"`
	OwnerID            *uuid.UUID `db:"owner_id" json:"ownerId,omitempty"`
	Owner              *Owner     `json:"owner,omitempty"`
	Address            string     `db:"address" json:"address"`
	LicenseNumber      string     `db:"license_number" json:"licenseNumber"`
	VerificationStatus string     `db:"verification_status" json:"verificationStatus"`
	CreatedAt          time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updatedAt"`
}

type Order struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	UserID       uuid.UUID  `db:"user_id" json:"userId"`
	User         *Owner     `json:"user,omitempty"`
	PharmacyID   *uuid.UUID `db:"pharmacy_id" json:"pharmacyId,omitempty"`
	PharmacyName string     `json:"pharmacyName,omitempty"`
	Status       string     `db:"status" json:"status"`
	TotalAmount  float64    `db:"total_amount" json:"totalAmount"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
}

// PharmacyCounts is what the store reports about pharmacies.
type PharmacyCounts struct {
	Total    int
	Verified int
	Pending  int
}

// OrderCounts is what the store reports about orders since a cut-off.
type OrderCounts struct {
	Total         int
	Recent        int
	Revenue       float64
	RecentRevenue float64
}

// Analytics is the body of GET /admin/analytics.
type Analytics struct {
	TotalPharmacies    int     `json:"totalPharmacies"`
	VerifiedPharmacies int     `json:"verifiedPharmacies"`
	PendingPharmacies  int     `json:"pendingPharmacies"`
	TotalOrders        int     `json:"totalOrders"`
	TotalUsers         int     `json:"totalUsers"`
	RecentOrders       int     `json:"recentOrders"`
	RecentUsers        int     `json:"recentUsers"`
	TotalRevenue       float64 `json:"totalRevenue"`
	MonthlyRevenue     float64 `json:"monthlyRevenue"`
}

// DashboardStats is the body of GET /admin/stats.
type DashboardStats struct {
	TotalUsers        int `json:"totalUsers"`
	TotalDoctors      int `json:"totalDoctors"`
	TotalPharmacists  int `json:"totalPharmacists"`
	TotalPharmacies   int `json:"totalPharmacies"`
	RecentUsers       int `json:"recentUsers"`
	RecentDoctors     int `json:"recentDoctors"`
	RecentPharmacists int `json:"recentPharmacists"`
	Total             int `json:"total"`
}

// RegisterInput is the body of POST /admin/register.
type RegisterInput struct {
	Name     string `json:"name"`
	Contact  string `json:"contact"`
	Password string `json:"password"`
	AdminKey string `json:"adminKey"`
}

// BulkInput is the body of the bulk user endpoints. IsBlocked is only read by
// bulk-status.
type BulkInput struct {
	UserIDs   []string `json:"userIds"`
	IsBlocked *bool    `json:"isBlocked"`
}

var (
	ErrPharmacyNotFound = apperr.NotFound("Pharmacy not found")
	ErrOrderNotFound    = apperr.NotFound("Order not found")
	ErrInvalidStatus    = apperr.Invalid("Invalid status value")
	ErrNoUserIDs        = apperr.Invalid("Please provide valid user IDs")
	ErrAdminTarget      = apperr.Forbidden("Cannot delete admin users")
)
