package domain

import "time"

// Resource names a plan-limited resource.
type Resource string

const (
	ResourceBeneficiaries Resource = "beneficiaries"
	ResourceEmployees     Resource = "employees"
)

// Unlimited is the cap value meaning "no limit".
const Unlimited = 0

// Plan is a subscription tier.
type Plan struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	Price            float64   `json:"price"`
	DurationDays     int       `json:"duration_days"`
	MaxBeneficiaries int       `json:"max_beneficiaries"`
	MaxEmployees     int       `json:"max_employees"`
	Features         []string  `json:"features"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// LimitFor returns the cap the plan puts on r.
func (p *Plan) LimitFor(r Resource) int {
	if p == nil {
		return Unlimited
	}
	switch r {
	case ResourceBeneficiaries:
		return p.MaxBeneficiaries
	case ResourceEmployees:
		return p.MaxEmployees
	}
	return Unlimited
}

// Allows reports whether one more r can be created when count already exist.
func (p *Plan) Allows(r Resource, count int64) bool {
	limit := p.LimitFor(r)
	if limit == Unlimited {
		return true
	}
	return count < int64(limit)
}
