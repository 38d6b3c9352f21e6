package rvucode

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ReferenceCode is one row of the CMS RVU reference table: a billable HCPCS
// procedure code with its work-RVU weight. Rows are loaded in bulk and never
// mutated individually; the whole snapshot is replaced on refresh.
type ReferenceCode struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Hcpcs       string          `gorm:"column:hcpcs;type:varchar(5);uniqueIndex;not null" json:"hcpcs"`
	Description string          `gorm:"column:description;type:text;not null" json:"description"`
	StatusCode  string          `gorm:"column:status_code;type:varchar(5)" json:"status_code"`
	WorkRvu     decimal.Decimal `gorm:"column:work_rvu;type:numeric(7,2);not null" json:"work_rvu"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at,omitempty"`
}

func (ReferenceCode) TableName() string {
	return "reference.rvu_codes"
}

// Matches reports whether the code's HCPCS or description contains the given
// lowercased query.
func (c *ReferenceCode) Matches(lowerQuery string) bool {
	return strings.Contains(strings.ToLower(c.Hcpcs), lowerQuery) ||
		strings.Contains(strings.ToLower(c.Description), lowerQuery)
}
