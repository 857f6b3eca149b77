package models

import (
	"time"

	"gorm.io/gorm"
)

// QuoteStatus is the lifecycle state of a quote request.
type QuoteStatus string

const (
	QuoteStatusPending QuoteStatus = "pending" // submitted, untouched by staff
	QuoteStatusRead    QuoteStatus = "read"    // opened by an admin
	QuoteStatusReplied QuoteStatus = "replied" // staff responded to the customer
	QuoteStatusClosed  QuoteStatus = "closed"  // terminal
)

// statusRank orders the states. Transitions only ever move forward;
// skipping ahead (pending → closed) is allowed, moving back never is.
var statusRank = map[QuoteStatus]int{
	QuoteStatusPending: 0,
	QuoteStatusRead:    1,
	QuoteStatusReplied: 2,
	QuoteStatusClosed:  3,
}

// Valid reports whether s is a known status.
func (s QuoteStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanTransition reports whether moving from s to next is allowed.
func (s QuoteStatus) CanTransition(next QuoteStatus) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to > from
}

// Closed quote-field vocabularies. Validation rejects anything outside
// these sets; they are shared between the input tags and the admin UI.
const (
	CultivationOrganic      = "organic"
	CultivationConventional = "conventional"
)

var (
	Units               = []string{"kg", "mt", "lb", "container"}
	Incoterms           = []string{"EXW", "FOB", "CFR", "CIF", "DAP", "DDP"}
	DeliveryFrequencies = []string{"one_time", "weekly", "monthly", "quarterly", "annually"}
	ProcessingMethods   = []string{"raw", "sun_dried", "machine_dried", "roasted", "ground"}
	PurchaseTypes       = []string{"one_time", "annual", "not_sure"}
)

// Quote is a customer's request to buy a commodity.
type Quote struct {
	gorm.Model

	// Contact
	FullName string `gorm:"size:255;not null"      json:"full_name"`
	Email    string `gorm:"size:255;not null;index" json:"email"`
	Phone    string `gorm:"size:50"                json:"phone"`
	Company  string `gorm:"size:255"               json:"company"`
	Website  string `gorm:"size:255"               json:"website"`

	// Product
	ProductName      string     `gorm:"size:255;not null" json:"product_name"`
	ProductType      string     `gorm:"size:255"          json:"product_type"`
	CultivationTypes StringList `gorm:"type:text"         json:"cultivation_types"`
	ProcessingMethod string     `gorm:"size:100"          json:"processing_method"`

	// Quantity
	Unit         string `gorm:"size:50"  json:"unit"`
	Volume       string `gorm:"size:100" json:"volume"` // free-form, e.g. "2 x 40ft"
	PurchaseType string `gorm:"size:50"  json:"purchase_type"`

	// Delivery
	DeliveryAddress   string    `gorm:"type:text"  json:"delivery_address"`
	Incoterm          string    `gorm:"size:20"    json:"incoterm"`
	DeliveryDate      time.Time `gorm:"not null"   json:"delivery_date"`
	DeliveryFrequency string    `gorm:"size:50"    json:"delivery_frequency"`

	Notes       string     `gorm:"type:text" json:"notes"`
	Attachments StringList `gorm:"type:text" json:"attachments"` // storage keys

	Status QuoteStatus `gorm:"size:20;not null;default:pending;index" json:"status"`
}
