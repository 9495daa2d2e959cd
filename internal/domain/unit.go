package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CollectionUnits holds Exim compliance units.
const CollectionUnits = "units"

// UnitType discriminates STPI from Non-STPI units. Forced by the route on
// every write, same as Customer.Section.
type UnitType string

const (
	UnitSTPI    UnitType = "stpi"
	UnitNonSTPI UnitType = "non-stpi"
)

func (t UnitType) Valid() bool {
	return t == UnitSTPI || t == UnitNonSTPI
}

// SoftexDetail is one Softex filing row. All columns are free text.
type SoftexDetail struct {
	Year   string `bson:"year" json:"year"`
	Month  string `bson:"month" json:"month"`
	Amount string `bson:"amount" json:"amount"`
	MPR    string `bson:"mpr" json:"mpr"`
}

// FinancialExpense is one expense/revenue row on a unit.
type FinancialExpense struct {
	Year        string `bson:"year" json:"year"`
	Amount      string `bson:"amount" json:"amount"`
	Description string `bson:"description" json:"description"`
}

// Unit is an Exim compliance unit (STPI or Non-STPI).
type Unit struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type      UnitType           `bson:"type" json:"type"`
	Name      string             `bson:"name" json:"name"`
	StartDate string             `bson:"startDate" json:"startDate"`
	EndDate   string             `bson:"endDate" json:"endDate"`

	// Legal agreements are shown for STPI units only, but the schema does not
	// enforce that; Non-STPI units may carry them.
	LegalAgreements   []string           `bson:"legalAgreements" json:"legalAgreements"`
	APRReports        []string           `bson:"aprReports" json:"aprReports"`
	SoftexDetails     []SoftexDetail     `bson:"softexDetails" json:"softexDetails"`
	FinancialExpenses []FinancialExpense `bson:"financialExpenses" json:"financialExpenses"`

	// Director / manager details
	ManagerName        string `bson:"managerName" json:"managerName"`
	ManagerEmail       string `bson:"managerEmail" json:"managerEmail"`
	ManagerPhone       string `bson:"managerPhone" json:"managerPhone"`
	ManagerDesignation string `bson:"managerDesignation" json:"managerDesignation"`

	// Contact details
	ContactName  string `bson:"contactName" json:"contactName"`
	ContactEmail string `bson:"contactEmail" json:"contactEmail"`
	ContactPhone string `bson:"contactPhone" json:"contactPhone"`

	// Registration identifiers
	ROC string `bson:"roc" json:"roc"`
	GST string `bson:"gst" json:"gst"`
	IEC string `bson:"iec" json:"iec"`

	Address string `bson:"address" json:"address"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u *Unit) RecordID() string {
	if u.ID.IsZero() {
		return ""
	}
	return u.ID.Hex()
}

func (u *Unit) SetRecordID(id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	u.ID = oid
	return nil
}

func (u *Unit) Defaults() {
	if u.LegalAgreements == nil {
		u.LegalAgreements = []string{}
	}
	if u.APRReports == nil {
		u.APRReports = []string{}
	}
	if u.SoftexDetails == nil {
		u.SoftexDetails = []SoftexDetail{}
	}
	if u.FinancialExpenses == nil {
		u.FinancialExpenses = []FinancialExpense{}
	}
}

func (u *Unit) Touch(now time.Time) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
}

func (u *Unit) Validate() error {
	if !u.Type.Valid() {
		return validationErrorf("validation failed: type must be stpi or non-stpi (got %q)", u.Type)
	}
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"name", u.Name},
		{"startDate", u.StartDate},
		{"endDate", u.EndDate},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missingFields(missing)
}
