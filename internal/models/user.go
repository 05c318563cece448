package models

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// UserProfile is the normalized request-time view of a user. It is built per
// request by the caller and is never mutated while a ranking runs.
type UserProfile struct {
	ID                  string             `json:"id,omitempty" yaml:"id,omitempty"`
	Age                 int                `json:"age" yaml:"age"`
	Gender              Gender             `json:"gender" yaml:"gender"`
	Income              float64            `json:"income" yaml:"income"`
	SpendingCategories  map[string]float64 `json:"spending_categories" yaml:"spending_categories"`
	PreferredIndustries []string           `json:"preferred_industries" yaml:"preferred_industries"`
}
