package domain

import (
	"errors"
	"regexp"
)

var ErrClientNotFound = errors.New("client not found")
var ErrZoneNotFound = errors.New("zone not found")
var ErrInvalidID = errors.New("invalid identifier")

// idPattern matches a 24-character hexadecimal document identifier.
var idPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// IsValidID reports whether s is a well-formed document identifier.
func IsValidID(s string) bool {
	return idPattern.MatchString(s)
}

// Zone is a trackable sub-area within a Location. Its QR code encodes the
// zone identifier and is generated once, the first time the zone is seen
// without one. Timestamps are RFC 3339 strings, empty when never visited.
type Zone struct {
	ID            string   `json:"_id,omitempty" bson:"_id,omitempty"`
	ZoneName      string   `json:"zonename" bson:"zonename"`
	Steps         []string `json:"steps" bson:"steps"`
	QRCode        string   `json:"qrcode" bson:"qrcode"`
	LastCheckIn   string   `json:"lastcheckin" bson:"lastcheckin"`
	LastCheckOut  string   `json:"lastcheckout" bson:"lastcheckout"`
	TimeSpent     string   `json:"timespent" bson:"timespent"`
	AssignedUsers []string `json:"assignedusers" bson:"assignedusers"`
}

// Location is a physical site containing Zones, embedded in a Client.
type Location struct {
	ID            string   `json:"_id,omitempty" bson:"_id,omitempty"`
	LocationName  string   `json:"locationname" bson:"locationname"`
	AssignedUsers []string `json:"assignedusers" bson:"assignedusers"`
	Zones         []Zone   `json:"zone" bson:"zone"`
}

// Client is the aggregate root: a tenant organization owning Locations.
// The whole tree is persisted as a single document; updates replace it
// atomically.
type Client struct {
	ID         string     `json:"_id,omitempty" bson:"_id,omitempty"`
	ClientName string     `json:"clientname" bson:"clientname"`
	Locations  []Location `json:"location" bson:"location"`
	UserRefs   []string   `json:"userRefs" bson:"userRefs"`
}

// FindZone returns the zone with the given identifier, searching every
// location in the tree.
func (c *Client) FindZone(zoneID string) *Zone {
	for li := range c.Locations {
		for zi := range c.Locations[li].Zones {
			if c.Locations[li].Zones[zi].ID == zoneID {
				return &c.Locations[li].Zones[zi]
			}
		}
	}
	return nil
}
