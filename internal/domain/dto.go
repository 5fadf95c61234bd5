package domain

import (
	"time"

	"github.com/google/uuid"
)

// DTOs for API responses

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// API Response wrapper
type APIResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
}

// Pagination response wrapper
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// TenantDTO represents a business in API responses
type TenantDTO struct {
	ID        TenantID `json:"id"`
	Name      string   `json:"name"`
	ShortName string   `json:"shortName"`
	Color     string   `json:"color"`
	Logo      string   `json:"logo,omitempty"`
	IsActive  bool     `json:"isActive"`
}

// Client DTOs

type ClientDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt string    `json:"createdAt"` // ISO 8601
	UpdatedAt string    `json:"updatedAt"` // ISO 8601
}

type CreateClientRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Phone string `json:"phone" validate:"required,max=50"`
	Email string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Notes string `json:"notes,omitempty"`
}

type UpdateClientRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Phone string `json:"phone" validate:"required,max=50"`
	Email string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Notes string `json:"notes,omitempty"`
}

// ClientProfileDTO is a computed directory entry: one row per distinct client
// name, aggregated from the visit history plus any manual stub.
type ClientProfileDTO struct {
	Name               string   `json:"name"`
	Phone              string   `json:"phone,omitempty"`
	Email              string   `json:"email,omitempty"`
	TotalSpent         float64  `json:"totalSpent"`
	VisitCount         int      `json:"visitCount"`
	AvgSpent           float64  `json:"avgSpent"`
	AvgNps             *float64 `json:"avgNps,omitempty"` // absent when no NPS data
	FavoriteService    string   `json:"favoriteService,omitempty"`
	LastVisit          string   `json:"lastVisit"` // ISO 8601 date
	DaysSinceLastVisit int      `json:"daysSinceLastVisit"`
	Segment            string   `json:"segment"`
	CustomSegments     []string `json:"customSegments"`
	Insights           []string `json:"insights,omitempty"`
}

// DirectorySummaryDTO holds the headline numbers above the client list
type DirectorySummaryDTO struct {
	ClientCount      int      `json:"clientCount"`
	AvgLifetimeValue float64  `json:"avgLifetimeValue"`
	NewClientCount   int      `json:"newClientCount"`
	AvgNps           *float64 `json:"avgNps,omitempty"`
}

// DirectoryResponse is the full client directory payload
type DirectoryResponse struct {
	Clients []ClientProfileDTO  `json:"clients"`
	Summary DirectorySummaryDTO `json:"summary"`
}

// Visit DTOs

type VisitDTO struct {
	ID          uuid.UUID     `json:"id"`
	ClientName  string        `json:"clientName"`
	Date        string        `json:"date"` // ISO 8601 date
	OccurredAt  string        `json:"occurredAt"`
	ServiceName string        `json:"serviceName"`
	Category    VisitCategory `json:"category"`
	Amount      float64       `json:"amount"`
	StaffName   string        `json:"staffName"`
	NPS         *int          `json:"nps,omitempty"`
	Insight     string        `json:"insight,omitempty"`
	IsNewClient bool          `json:"isNewClient"`
	Commission  *float64      `json:"commission,omitempty"`
}

type CreateVisitRequest struct {
	ClientName  string        `json:"clientName" validate:"required,max=200"`
	Date        time.Time     `json:"date" validate:"required"`
	ServiceName string        `json:"serviceName" validate:"required,max=200"`
	Category    VisitCategory `json:"category" validate:"required"`
	Amount      float64       `json:"amount" validate:"gte=0"`
	StaffName   string        `json:"staffName" validate:"required,max=200"`
	NPS         *int          `json:"nps,omitempty" validate:"omitempty,min=0,max=10"`
	Insight     string        `json:"insight,omitempty"`
	IsNewClient bool          `json:"isNewClient,omitempty"`
	Commission  *float64      `json:"commission,omitempty" validate:"omitempty,gte=0"`
}

// Segment DTOs

type SegmentDTO struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Color     string        `json:"color"`
	Rules     []SegmentRule `json:"rules"`
	CreatedAt string        `json:"createdAt"`
}

type SegmentRuleRequest struct {
	Metric   RuleMetric   `json:"metric" validate:"required"`
	Operator RuleOperator `json:"operator" validate:"required"`
	Value    float64      `json:"value"`
	Value2   float64      `json:"value2,omitempty"`
	Active   bool         `json:"active"`
}

type CreateSegmentRequest struct {
	Name  string               `json:"name" validate:"required,max=100"`
	Color string               `json:"color,omitempty" validate:"omitempty,max=20"`
	Rules []SegmentRuleRequest `json:"rules" validate:"dive"`
}

// Attachment DTOs

type AttachmentDTO struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	ClientID    uuid.UUID `json:"clientId"`
	UploadedBy  string    `json:"uploadedBy,omitempty"`
	CreatedAt   string    `json:"createdAt"`
}

// Statistics DTOs

// PeriodKPIsDTO holds the five headline metrics of one date interval
type PeriodKPIsDTO struct {
	Revenue          float64  `json:"revenue"`
	AppointmentCount int      `json:"appointmentCount"`
	AvgTicket        float64  `json:"avgTicket"`
	AvgSatisfaction  *float64 `json:"avgSatisfaction,omitempty"`
	RetentionRate    int      `json:"retentionRate"`
}

// KPIDeltasDTO holds per-metric percentage change against the comparison
// period. A nil delta means the baseline was zero or absent.
type KPIDeltasDTO struct {
	Revenue          *float64 `json:"revenue,omitempty"`
	AppointmentCount *float64 `json:"appointmentCount,omitempty"`
	AvgTicket        *float64 `json:"avgTicket,omitempty"`
	AvgSatisfaction  *float64 `json:"avgSatisfaction,omitempty"`
	RetentionRate    *float64 `json:"retentionRate,omitempty"`
}

// StatisticsKPIResponse is the /statistics/kpis payload
type StatisticsKPIResponse struct {
	Period     IntervalDTO    `json:"period"`
	Current    PeriodKPIsDTO  `json:"current"`
	Comparison *IntervalDTO   `json:"comparisonPeriod,omitempty"`
	Previous   *PeriodKPIsDTO `json:"previous,omitempty"`
	Deltas     *KPIDeltasDTO  `json:"deltas,omitempty"`
}

// IntervalDTO is an inclusive date interval
type IntervalDTO struct {
	Start string `json:"start"` // ISO 8601 date
	End   string `json:"end"`   // ISO 8601 date
}

// RevenuePointDTO is one day of the revenue chart
type RevenuePointDTO struct {
	Date            string   `json:"date"` // ISO 8601 date
	Revenue         float64  `json:"revenue"`
	PreviousRevenue *float64 `json:"previousRevenue,omitempty"`
}

// StaffStatsDTO is one row of the staff performance breakdown
type StaffStatsDTO struct {
	StaffName  string   `json:"staffName"`
	Revenue    float64  `json:"revenue"`
	Count      int      `json:"count"`
	Commission float64  `json:"commission"`
	AvgNps     *float64 `json:"avgNps,omitempty"`
}

// SalesDrillDownDTO carries the handoff from a statistics slice to the
// filtered visit list: a free-text search plus the interval bounds.
type SalesDrillDownDTO struct {
	SearchTerm string `json:"searchTerm"`
	StartDate  string `json:"startDate"` // ISO 8601 date
	EndDate    string `json:"endDate"`   // ISO 8601 date
}

// SalesSliceDTO is one slice of the sales profile pie
type SalesSliceDTO struct {
	Name      string            `json:"name"`
	Revenue   float64           `json:"revenue"`
	Count     int               `json:"count"`
	DrillDown SalesDrillDownDTO `json:"drillDown"`
}

// SalesProfileResponse is the /statistics/sales-profile payload
type SalesProfileResponse struct {
	View   string          `json:"view"` // binary | services | products
	Slices []SalesSliceDTO `json:"slices"`
}

// User / auth DTOs

type UserDTO struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// AuthUserDTO represents the current authenticated user with full context
type AuthUserDTO struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Roles    []string   `json:"roles"`
	Tenant   *TenantDTO `json:"tenant,omitempty"`
	Initials string     `json:"initials"`
	IsOwner  bool       `json:"isOwner"`
}
