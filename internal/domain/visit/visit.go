package visit

import (
	"time"

	"github.com/shopspring/decimal"
)

// Procedure is a billing line item attached to exactly one visit. The hcpcs,
// description, status code and work RVU are snapshot copies taken from the
// reference table when the procedure was added; the billing record must stay
// stable even if the reference table is later corrected.
type Procedure struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	VisitID     int64           `gorm:"column:visit_id;not null;index" json:"visit_id"`
	Hcpcs       string          `gorm:"column:hcpcs;type:varchar(5);not null" json:"hcpcs"`
	Description string          `gorm:"column:description;type:text;not null" json:"description"`
	StatusCode  string          `gorm:"column:status_code;type:varchar(5)" json:"status_code"`
	WorkRvu     decimal.Decimal `gorm:"column:work_rvu;type:numeric(7,2);not null" json:"work_rvu"`
	Quantity    int             `gorm:"column:quantity;not null;default:1" json:"quantity"`
}

func (Procedure) TableName() string {
	return "billing.visit_procedures"
}

type Visit struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	UserID   string    `gorm:"column:user_id;type:varchar(255);not null;index:idx_visits_user_date" json:"user_id"`
	Date     time.Time `gorm:"column:date;type:date;not null;index:idx_visits_user_date" json:"date"`
	Time     *string   `gorm:"column:time;type:varchar(8)" json:"time,omitempty"` // display only
	IsNoShow bool      `gorm:"column:is_no_show;not null;default:false" json:"is_no_show"`
	Notes    string    `gorm:"column:notes;type:text" json:"notes,omitempty"`

	Procedures []Procedure `gorm:"foreignKey:VisitID;constraint:OnDelete:CASCADE" json:"procedures"`
}

func (Visit) TableName() string {
	return "billing.visits"
}

// TotalWorkRvu sums work_rvu * quantity over the visit's procedures.
func (v *Visit) TotalWorkRvu() decimal.Decimal {
	total := decimal.Zero
	for _, p := range v.Procedures {
		total = total.Add(p.WorkRvu.Mul(decimal.NewFromInt(int64(p.Quantity))))
	}
	return total
}

// ProcedureInput is one requested line item; Quantity defaults to 1 when
// omitted or non-positive.
type ProcedureInput struct {
	Hcpcs       string
	Description string
	StatusCode  string
	WorkRvu     decimal.Decimal
	Quantity    int
}

type CreateVisitCommand struct {
	UserID     string
	Date       time.Time
	Time       *string
	Notes      string
	IsNoShow   bool
	Procedures []ProcedureInput
}

// UpdateVisitCommand replaces the visit's fields and its whole procedure set.
type UpdateVisitCommand struct {
	ID         int64
	UserID     string
	Date       time.Time
	Time       *string
	Notes      string
	IsNoShow   bool
	Procedures []ProcedureInput
}
