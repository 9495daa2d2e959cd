package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CollectionCustomers holds datacom (rf/lan) and incubation customers.
const CollectionCustomers = "customers"

// Section discriminates which list route a customer belongs to. It is forced
// by the route on every write, so a record cannot move between sections.
type Section string

const (
	SectionRF         Section = "rf"
	SectionLAN        Section = "lan"
	SectionIncubation Section = "incubation"
)

func (s Section) Valid() bool {
	switch s {
	case SectionRF, SectionLAN, SectionIncubation:
		return true
	}
	return false
}

// BridgeSide holds the radio parameters of one end of an RF bridge.
type BridgeSide struct {
	BridgeIP         string `bson:"bridgeIp" json:"bridgeIp"`
	Frequency        string `bson:"frequency" json:"frequency"`
	SSID             string `bson:"ssid" json:"ssid"`
	WPA2PreSharedKey string `bson:"wpa2PreSharedKey" json:"wpa2PreSharedKey"`
	PeakRSSI         string `bson:"peakRssi" json:"peakRssi"`
	ChannelBandwidth string `bson:"channelBandwidth" json:"channelBandwidth"`
}

// BridgeDetails covers both ends of the link: the STPI side and the customer side.
type BridgeDetails struct {
	STPI     BridgeSide `bson:"stpi" json:"stpi"`
	Customer BridgeSide `bson:"customer" json:"customer"`
}

// ServicePeriod is one dated bandwidth-allocation history entry.
type ServicePeriod struct {
	Date      string `bson:"date" json:"date"`
	Bandwidth string `bson:"bandwidth" json:"bandwidth"`
}

// BandwidthDetails is the free/purchased/total summary. Total is derived by
// the client as free+purchased; the server stores it as given and never
// recomputes it.
type BandwidthDetails struct {
	Free      float64 `bson:"free" json:"free"`
	Purchased float64 `bson:"purchased" json:"purchased"`
	Total     float64 `bson:"total" json:"total"`
}

// Derived returns the client-side total for the current free/purchased values.
func (b BandwidthDetails) Derived() float64 { return b.Free + b.Purchased }

// RouterDetail is one router name/port entry.
type RouterDetail struct {
	Name string `bson:"name" json:"name"`
	Port string `bson:"port" json:"port"`
}

// Customer is an RF/LAN connectivity customer or an incubation tenant,
// discriminated by Section.
type Customer struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Section            Section            `bson:"section" json:"section"`
	CompanyName        string             `bson:"companyName" json:"companyName"`
	ManagerName        string             `bson:"managerName" json:"managerName"`
	ManagerPhone       string             `bson:"managerPhone" json:"managerPhone"`
	ManagerEmail       string             `bson:"managerEmail" json:"managerEmail"`
	ManagerDesignation string             `bson:"managerDesignation" json:"managerDesignation"`
	LeaderName         string             `bson:"leaderName" json:"leaderName"`
	LeaderPhone        string             `bson:"leaderPhone" json:"leaderPhone"`
	LeaderEmail        string             `bson:"leaderEmail" json:"leaderEmail"`
	LeaderDesignation  string             `bson:"leaderDesignation" json:"leaderDesignation"`
	StartDate          string             `bson:"startDate" json:"startDate"`
	EndDate            string             `bson:"endDate" json:"endDate"`
	Bandwidth          string             `bson:"bandwidth" json:"bandwidth"`
	IPDetails          IPDetails          `bson:"ipDetails" json:"ipDetails"`
	BridgeDetails      BridgeDetails      `bson:"bridgeDetails" json:"bridgeDetails"`
	PRTGGraphLink      string             `bson:"prtgGraphLink" json:"prtgGraphLink"`
	ServicePeriods     []ServicePeriod    `bson:"servicePeriods" json:"servicePeriods"`
	BandwidthDetails   BandwidthDetails   `bson:"bandwidthDetails" json:"bandwidthDetails"`
	RouterDetails      []RouterDetail     `bson:"routerDetails" json:"routerDetails"`
	PathDiagram        string             `bson:"pathDiagram" json:"pathDiagram"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (c *Customer) RecordID() string {
	if c.ID.IsZero() {
		return ""
	}
	return c.ID.Hex()
}

func (c *Customer) SetRecordID(id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	c.ID = oid
	return nil
}

// Defaults normalises optional list fields so responses always carry arrays.
func (c *Customer) Defaults() {
	if c.ServicePeriods == nil {
		c.ServicePeriods = []ServicePeriod{}
	}
	if c.RouterDetails == nil {
		c.RouterDetails = []RouterDetail{}
	}
}

func (c *Customer) Touch(now time.Time) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
}

func (c *Customer) Validate() error {
	if !c.Section.Valid() {
		return validationErrorf("validation failed: section must be one of rf, lan, incubation (got %q)", c.Section)
	}
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"companyName", c.CompanyName},
		{"managerName", c.ManagerName},
		{"managerPhone", c.ManagerPhone},
		{"managerEmail", c.ManagerEmail},
		{"managerDesignation", c.ManagerDesignation},
		{"leaderName", c.LeaderName},
		{"leaderPhone", c.LeaderPhone},
		{"leaderEmail", c.LeaderEmail},
		{"leaderDesignation", c.LeaderDesignation},
		{"startDate", c.StartDate},
		{"endDate", c.EndDate},
		{"bandwidth", c.Bandwidth},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missingFields(missing)
}
