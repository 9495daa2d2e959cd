package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CollectionCoLocations holds rack/hosting customers. The REST surface exposes
// them under /api/projects for historical reasons.
const CollectionCoLocations = "colocations"

// CoLocation is a rack/hosting customer. Required numeric and boolean fields
// are pointers so that an absent field can be told apart from a zero value at
// validation time.
type CoLocation struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	CustomerName string `bson:"customerName" json:"customerName"`

	ManagerName        string `bson:"managerName" json:"managerName"`
	ManagerEmail       string `bson:"managerEmail" json:"managerEmail"`
	ManagerPhone       string `bson:"managerPhone" json:"managerPhone"`
	ManagerDesignation string `bson:"managerDesignation" json:"managerDesignation"`

	AdminName        string `bson:"adminName" json:"adminName"`
	AdminEmail       string `bson:"adminEmail" json:"adminEmail"`
	AdminPhone       string `bson:"adminPhone" json:"adminPhone"`
	AdminDesignation string `bson:"adminDesignation" json:"adminDesignation"`

	RackSpaceUnits     *float64 `bson:"rackSpaceUnits" json:"rackSpaceUnits"`
	DataTransferGB     *float64 `bson:"dataTransferGB" json:"dataTransferGB"`
	ActivationDate     string   `bson:"activationDate" json:"activationDate"`
	AgreementEntered   *bool    `bson:"agreementEntered" json:"agreementEntered"`
	TotalAnnualCharges *float64 `bson:"totalAnnualCharges" json:"totalAnnualCharges"`
	QuarterlyCharges   *float64 `bson:"quarterlyCharges" json:"quarterlyCharges"`

	Remarks          string           `bson:"remarks" json:"remarks"`
	PRTGGraphLink    string           `bson:"prtgGraphLink" json:"prtgGraphLink"`
	IPDetails        IPDetails        `bson:"ipDetails" json:"ipDetails"`
	BandwidthDetails BandwidthDetails `bson:"bandwidthDetails" json:"bandwidthDetails"`
	ServicePeriods   []ServicePeriod  `bson:"servicePeriods" json:"servicePeriods"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (c *CoLocation) RecordID() string {
	if c.ID.IsZero() {
		return ""
	}
	return c.ID.Hex()
}

func (c *CoLocation) SetRecordID(id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	c.ID = oid
	return nil
}

func (c *CoLocation) Defaults() {
	if c.ServicePeriods == nil {
		c.ServicePeriods = []ServicePeriod{}
	}
}

func (c *CoLocation) Touch(now time.Time) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
}

func (c *CoLocation) Validate() error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"customerName", c.CustomerName},
		{"managerName", c.ManagerName},
		{"managerEmail", c.ManagerEmail},
		{"managerPhone", c.ManagerPhone},
		{"managerDesignation", c.ManagerDesignation},
		{"adminName", c.AdminName},
		{"adminEmail", c.AdminEmail},
		{"adminPhone", c.AdminPhone},
		{"adminDesignation", c.AdminDesignation},
		{"activationDate", c.ActivationDate},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if c.RackSpaceUnits == nil {
		missing = append(missing, "rackSpaceUnits")
	}
	if c.DataTransferGB == nil {
		missing = append(missing, "dataTransferGB")
	}
	if c.AgreementEntered == nil {
		missing = append(missing, "agreementEntered")
	}
	if c.TotalAnnualCharges == nil {
		missing = append(missing, "totalAnnualCharges")
	}
	if c.QuarterlyCharges == nil {
		missing = append(missing, "quarterlyCharges")
	}
	return missingFields(missing)
}
