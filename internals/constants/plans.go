package constants

const (
	PlanBasic = "basic"
	PlanPro   = "pro"
)

const (
	SubscriptionActive  = "active"
	SubscriptionExpired = "expired"
)

// SubscriptionPeriodDays is fixed; renewals start a new period from "now".
const SubscriptionPeriodDays = 30

// BasicMaxChapters is how many chapters (by position) a basic plan opens.
const BasicMaxChapters = 5

type PlanPrice struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Price         int64  `json:"price"`
	OriginalPrice int64  `json:"original_price,omitempty"`
	Currency      string `json:"currency"`
}

var Plans = map[string]PlanPrice{
	PlanBasic: {ID: PlanBasic, Name: "Basic", Price: 99, Currency: "INR"},
	PlanPro:   {ID: PlanPro, Name: "Pro", Price: 999, OriginalPrice: 4999, Currency: "INR"},
}

func LookupPlan(id string) (PlanPrice, bool) {
	p, ok := Plans[id]
	return p, ok
}
