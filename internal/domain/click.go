package domain

// ClickKey is the composite identity of one aggregate click record. A key is
// never globally unique by surrogate id alone; the triplet is the identity.
type ClickKey struct {
	UserID   string `json:"user_id"`
	Dept     string `json:"dept"`
	Campaign string `json:"campaign"`
}

// ClickEvent is the aggregate interaction history for one (user, dept,
// campaign) triplet. IP, UserAgent and Time always reflect the most recent
// event; ClickCount is cumulative and never resets.
type ClickEvent struct {
	ID         int64  `json:"id" db:"id"`
	UserID     string `json:"user_id" db:"user_id"`
	Dept       string `json:"dept" db:"dept"`
	Campaign   string `json:"campaign" db:"campaign"`
	IP         string `json:"ip" db:"ip"`
	UserAgent  string `json:"user_agent" db:"user_agent"`
	Time       string `json:"time" db:"time"`
	ClickCount int    `json:"click_count" db:"click_count"`
}

// Key returns the identity triplet of the event.
func (e *ClickEvent) Key() ClickKey {
	return ClickKey{UserID: e.UserID, Dept: e.Dept, Campaign: e.Campaign}
}

// ClickSeed is a pre-provisioned click row created when tracking links are
// generated, before any link is activated. Seeds start at click count zero so
// the first real click lands the row at one.
type ClickSeed struct {
	UserID    string `json:"user_id"`
	Dept      string `json:"dept"`
	Campaign  string `json:"campaign"`
	IP        string `json:"ip"`
	UserAgent string `json:"user_agent"`
	Time      string `json:"time"`
}

// UpsertAction reports which branch an identity-key upsert took.
type UpsertAction string

const (
	ActionInserted UpsertAction = "inserted"
	ActionUpdated  UpsertAction = "updated"
)

// DeptStat is a per-department click count aggregate.
type DeptStat struct {
	Dept  string `json:"dept"`
	Count int    `json:"count"`
}

// BrowserStat is a per-browser click count aggregate, bucketed from the
// recorded user agent.
type BrowserStat struct {
	Browser string `json:"browser"`
	Count   int    `json:"count"`
}
