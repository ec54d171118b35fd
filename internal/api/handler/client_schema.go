package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// messageResponse is the envelope for operations that return no entity.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Request types ---
//
// Field names mirror the stored document shape so a fetched tree can be
// edited and submitted back verbatim.

type createClientRequest struct {
	ClientName string `json:"clientname" validate:"required"`
}

type zoneRequest struct {
	ID            string   `json:"_id"`
	ZoneName      string   `json:"zonename"`
	Steps         []string `json:"steps"`
	QRCode        string   `json:"qrcode"`
	LastCheckIn   string   `json:"lastcheckin"`
	LastCheckOut  string   `json:"lastcheckout"`
	TimeSpent     string   `json:"timespent"`
	AssignedUsers []string `json:"assignedusers"`
}

type locationRequest struct {
	ID            string        `json:"_id"`
	LocationName  string        `json:"locationname"`
	AssignedUsers []string      `json:"assignedusers"`
	Zones         []zoneRequest `json:"zone"`
}

// updateClientRequest is the full or partial tree submitted on PUT.
// Omitted (null) userRefs or location arrays keep their stored value. The
// client identifier always comes from the URL, never from the body.
type updateClientRequest struct {
	ClientName string            `json:"clientname"`
	UserRefs   []string          `json:"userRefs"`
	Locations  []locationRequest `json:"location"`
}

type checkInRequest struct {
	ZoneID string `json:"zoneId" validate:"required,len=24,hexadecimal"`
	UserID string `json:"userId" validate:"required,len=24,hexadecimal"`
	// Direction defaults to "in" when omitted.
	Direction string `json:"direction" validate:"omitempty,oneof=in out"`
}
