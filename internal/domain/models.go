package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns the primary key client-side so the same models work on
// postgres and on the in-memory sqlite databases used in tests.
func (b *BaseModel) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TenantID identifies one of the businesses served by the platform
type TenantID string

const (
	TenantAll       TenantID = "all"
	TenantSalon     TenantID = "salon"
	TenantNutrition TenantID = "nutrition"
)

// IsValidTenantID checks whether the value names a known tenant
func IsValidTenantID(id string) bool {
	switch TenantID(id) {
	case TenantAll, TenantSalon, TenantNutrition:
		return true
	}
	return false
}

// Tenant represents a business served by the platform (stored in database)
type Tenant struct {
	ID        TenantID  `gorm:"type:varchar(50);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(200);not null" json:"name"`
	ShortName string    `gorm:"type:varchar(50);not null;column:short_name" json:"shortName"`
	Color     string    `gorm:"type:varchar(20);not null;default:'#000000'" json:"color"`
	Logo      string    `gorm:"type:varchar(500)" json:"logo,omitempty"`
	IsActive  bool      `gorm:"not null;default:true;column:is_active" json:"isActive"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// VisitCategory represents the service category of a visit
type VisitCategory string

const (
	VisitCategoryHaircut VisitCategory = "Haircut"
	VisitCategoryColor   VisitCategory = "Color"
	VisitCategoryNails   VisitCategory = "Nails"
	VisitCategorySkin    VisitCategory = "Skin"
	VisitCategoryRetail  VisitCategory = "Retail"
)

// IsValid checks if the VisitCategory is a valid enum value
func (vc VisitCategory) IsValid() bool {
	switch vc {
	case VisitCategoryHaircut, VisitCategoryColor, VisitCategoryNails, VisitCategorySkin, VisitCategoryRetail:
		return true
	}
	return false
}

// IsProduct reports whether the category represents retail product sales
// rather than a performed service.
func (vc VisitCategory) IsProduct() bool {
	return vc == VisitCategoryRetail
}

// Visit represents a single immutable transaction record: one service
// performed or one product sold. Visits are the sole input of the
// segmentation and statistics engines and arrive either through the POS
// import or through manual entry.
type Visit struct {
	BaseModel
	ClientName  string        `gorm:"type:varchar(200);not null;index;column:client_name"`
	Date        time.Time     `gorm:"type:date;not null;index"`
	OccurredAt  time.Time     `gorm:"not null;index;column:occurred_at"`
	ServiceName string        `gorm:"type:varchar(200);not null;column:service_name"`
	Category    VisitCategory `gorm:"type:varchar(50);not null;index"`
	Amount      float64       `gorm:"type:decimal(15,2);not null;default:0"`
	StaffName   string        `gorm:"type:varchar(200);not null;index;column:staff_name"`
	NPS         *int          `gorm:"column:nps"`
	Insight     string        `gorm:"type:text"`
	IsNewClient bool          `gorm:"not null;default:false;column:is_new_client"`
	Commission  *float64      `gorm:"type:decimal(15,2)"`
	POSRef      string        `gorm:"type:varchar(100);column:pos_ref;index"`
	TenantID    TenantID      `gorm:"type:varchar(50);not null;index;column:tenant_id"`
	Tenant      *Tenant       `gorm:"foreignKey:TenantID"`
}

// Client represents a manually created client stub: contact details recorded
// before (or independently of) any visit. Profiles are derived per request
// from visits plus these stubs and are never persisted.
type Client struct {
	BaseModel
	Name        string       `gorm:"type:varchar(200);not null;index"`
	Phone       string       `gorm:"type:varchar(50);not null"`
	Email       string       `gorm:"type:varchar(255)"`
	Notes       string       `gorm:"type:text"`
	TenantID    TenantID     `gorm:"type:varchar(50);not null;index;column:tenant_id"`
	Tenant      *Tenant      `gorm:"foreignKey:TenantID"`
	Attachments []Attachment `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
}

// RuleMetric represents the client attribute a segment rule evaluates
type RuleMetric string

const (
	RuleMetricTotalSpent         RuleMetric = "totalSpent"
	RuleMetricVisitCount         RuleMetric = "visitCount"
	RuleMetricAvgNps             RuleMetric = "avgNps"
	RuleMetricDaysSinceLastVisit RuleMetric = "daysSinceLastVisit"
)

// IsValid checks if the RuleMetric is a valid enum value
func (rm RuleMetric) IsValid() bool {
	switch rm {
	case RuleMetricTotalSpent, RuleMetricVisitCount, RuleMetricAvgNps, RuleMetricDaysSinceLastVisit:
		return true
	}
	return false
}

// RuleOperator represents the comparison a segment rule applies
type RuleOperator string

const (
	RuleOperatorGreater RuleOperator = ">"
	RuleOperatorLess    RuleOperator = "<"
	RuleOperatorEqual   RuleOperator = "="
	RuleOperatorRange   RuleOperator = "range"
)

// IsValid checks if the RuleOperator is a valid enum value
func (ro RuleOperator) IsValid() bool {
	switch ro {
	case RuleOperatorGreater, RuleOperatorLess, RuleOperatorEqual, RuleOperatorRange:
		return true
	}
	return false
}

// SegmentRule is one condition of a custom segment. Val2 is only meaningful
// for the range operator, where both bounds are inclusive. An inactive rule
// is kept for later reactivation and never constrains matching.
type SegmentRule struct {
	Metric   RuleMetric   `json:"metric"`
	Operator RuleOperator `json:"operator"`
	Value    float64      `json:"value"`
	Value2   float64      `json:"value2,omitempty"`
	Active   bool         `json:"active"`
}

// SegmentRules is the ordered rule list of a segment, persisted as a single
// jsonb column so rules stay atomic with their segment.
type SegmentRules []SegmentRule

// Value implements driver.Valuer
func (sr SegmentRules) Value() (driver.Value, error) {
	if sr == nil {
		sr = SegmentRules{}
	}
	return json.Marshal(sr)
}

// Scan implements sql.Scanner
func (sr *SegmentRules) Scan(value interface{}) error {
	if value == nil {
		*sr = SegmentRules{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, sr)
	case string:
		return json.Unmarshal([]byte(v), sr)
	}
	return fmt.Errorf("unsupported type %T for SegmentRules", value)
}

// Segment represents a user-authored custom client segment: a named
// conjunction of rules. Built-in segments (VIP, Loyal, ...) are computed and
// never stored.
type Segment struct {
	BaseModel
	Name     string       `gorm:"type:varchar(100);not null;index"`
	Color    string       `gorm:"type:varchar(20);not null;default:'#8884d8'"`
	Rules    SegmentRules `gorm:"type:jsonb;not null"`
	TenantID TenantID     `gorm:"type:varchar(50);not null;index;column:tenant_id"`
	Tenant   *Tenant      `gorm:"foreignKey:TenantID"`
}

// Attachment represents an uploaded file linked to a client (consent forms,
// meal plans, before/after photos)
type Attachment struct {
	BaseModel
	Filename    string    `gorm:"type:varchar(255);not null"`
	ContentType string    `gorm:"type:varchar(100);not null"`
	Size        int64     `gorm:"not null"`
	StoragePath string    `gorm:"type:varchar(500);not null;unique"`
	ClientID    uuid.UUID `gorm:"type:uuid;not null;index;column:client_id"`
	Client      *Client   `gorm:"foreignKey:ClientID"`
	UploadedBy  string    `gorm:"type:varchar(200);column:uploaded_by"`
	TenantID    TenantID  `gorm:"type:varchar(50);not null;index;column:tenant_id"`
}

// UserRoleType represents a role a user can have
type UserRoleType string

const (
	RoleOwner      UserRoleType = "owner"
	RoleManager    UserRoleType = "manager"
	RoleStaff      UserRoleType = "staff"
	RoleViewer     UserRoleType = "viewer"
	RoleAPIService UserRoleType = "api_service"
)

// User represents an authenticated user of the dashboard
type User struct {
	ID          string         `gorm:"type:varchar(100);primaryKey" json:"id"`
	Email       string         `gorm:"type:varchar(255);not null;unique" json:"email"`
	DisplayName string         `gorm:"type:varchar(200);not null;column:name" json:"displayName"`
	Roles       pq.StringArray `gorm:"type:text[];not null" json:"roles"`
	TenantID    *TenantID      `gorm:"type:varchar(50);column:tenant_id" json:"tenantId,omitempty"`
	Tenant      *Tenant        `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	IsActive    bool           `gorm:"not null;default:true;column:is_active" json:"isActive"`
	LastLoginAt *time.Time     `gorm:"column:last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// HasRole reports whether the user has the given role
func (u *User) HasRole(role UserRoleType) bool {
	for _, r := range u.Roles {
		if r == string(role) {
			return true
		}
	}
	return false
}

// AuditAction represents the type of audit action
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
	AuditActionExport AuditAction = "export"
	AuditActionImport AuditAction = "import"
)

// AuditLog represents an audit trail entry. Entries are append-only.
type AuditLog struct {
	ID          uuid.UUID   `gorm:"type:uuid;primary_key"`
	UserID      string      `gorm:"type:varchar(100);column:user_id"`
	UserEmail   string      `gorm:"type:varchar(255);column:user_email"`
	UserName    string      `gorm:"type:varchar(200);column:user_name"`
	Action      AuditAction `gorm:"type:varchar(50);not null"`
	EntityType  string      `gorm:"type:varchar(50);not null;column:entity_type"`
	EntityID    *uuid.UUID  `gorm:"type:uuid;column:entity_id"`
	EntityName  string      `gorm:"type:varchar(200);column:entity_name"`
	TenantID    *TenantID   `gorm:"type:varchar(50);column:tenant_id"`
	OldValues   string      `gorm:"type:jsonb;column:old_values"`
	NewValues   string      `gorm:"type:jsonb;column:new_values"`
	Changes     string      `gorm:"type:jsonb"`
	IPAddress   string      `gorm:"type:varchar(100);column:ip_address"`
	UserAgent   string      `gorm:"type:text;column:user_agent"`
	RequestID   string      `gorm:"type:varchar(100);column:request_id"`
	Metadata    string      `gorm:"type:jsonb"`
	PerformedAt time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP;column:performed_at"`
	CreatedAt   time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns the primary key client-side, same as BaseModel
func (a *AuditLog) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
