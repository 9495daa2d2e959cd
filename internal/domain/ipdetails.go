package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// IPDetails is the structured IP allocation block attached to customers and
// co-location records. Field values are free text; IP syntax is not checked.
//
// An older schema generation stored the whole block as one free-text string
// ("gateway: 10.0.0.1, networkIp: 10.0.0.0, ..."). That legacy form is still
// accepted on the way in (JSON and BSON) and resolved into the structured
// shape here, at the data-access boundary. The structured form is canonical
// and is the only form ever written back.
type IPDetails struct {
	Gateway    string `bson:"gateway" json:"gateway"`
	NetworkIP  string `bson:"networkIp" json:"networkIp"`
	StartIP    string `bson:"startIp" json:"startIp"`
	LastIP     string `bson:"lastIp" json:"lastIp"`
	SubnetMask string `bson:"subnetMask" json:"subnetMask"`
}

// plainIPDetails avoids recursing into the custom unmarshallers.
type plainIPDetails IPDetails

func (d *IPDetails) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var legacy string
		if err := json.Unmarshal(data, &legacy); err != nil {
			return err
		}
		*d = ParseLegacyIPDetails(legacy)
		return nil
	}
	return json.Unmarshal(data, (*plainIPDetails)(d))
}

func (d *IPDetails) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bson.TypeString:
		legacy, _, ok := bsoncore.ReadString(data)
		if !ok {
			return fmt.Errorf("ipDetails: malformed BSON string")
		}
		*d = ParseLegacyIPDetails(legacy)
		return nil
	case bson.TypeEmbeddedDocument:
		return bson.Unmarshal(data, (*plainIPDetails)(d))
	case bson.TypeNull:
		*d = IPDetails{}
		return nil
	default:
		return fmt.Errorf("ipDetails: cannot decode BSON type %s", t)
	}
}

// ParseLegacyIPDetails parses the flat-string IP block into key/value pairs.
// Entries are separated by commas or newlines, keys are matched loosely
// ("networkIp", "network ip" and "network-ip" are all accepted) and unknown
// keys are dropped.
func ParseLegacyIPDetails(s string) IPDetails {
	var d IPDetails
	for _, entry := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' || r == ';' }) {
		key, value, found := strings.Cut(entry, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		switch normalizeLegacyKey(key) {
		case "gateway":
			d.Gateway = value
		case "networkip":
			d.NetworkIP = value
		case "startip":
			d.StartIP = value
		case "lastip":
			d.LastIP = value
		case "subnetmask":
			d.SubnetMask = value
		}
	}
	return d
}

func normalizeLegacyKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	key = strings.ReplaceAll(key, " ", "")
	key = strings.ReplaceAll(key, "-", "")
	key = strings.ReplaceAll(key, "_", "")
	return key
}
