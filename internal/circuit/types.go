// Package circuit provides the business logic for circuit record management.
// This package has no UI dependencies and can be used by any frontend.
package circuit

// Field names of a circuit record, as they appear on the wire and in forms.
const (
	FieldCircuitID   = "circuit_id"
	FieldClientName  = "client_name"
	FieldClientIP    = "client_ip"
	FieldSubnet      = "subnet"
	FieldDNS         = "dns"
	FieldVLAN        = "vlan"
	FieldBandwidth   = "bandwidth"
	FieldLocation    = "location"
	FieldMuxID       = "mux_id"
	FieldPortID      = "port_id"
	FieldLastUpdated = "last_updated"
)

// AllFields lists the user-supplied fields in display order.
// last_updated is excluded: it is always set by the server.
var AllFields = []string{
	FieldCircuitID,
	FieldClientName,
	FieldClientIP,
	FieldSubnet,
	FieldDNS,
	FieldVLAN,
	FieldBandwidth,
	FieldLocation,
	FieldMuxID,
	FieldPortID,
}

// EditableFields lists the fields that may change after registration.
// circuit_id is the immutable record identity; last_updated is server-set.
var EditableFields = []string{
	FieldClientName,
	FieldClientIP,
	FieldSubnet,
	FieldDNS,
	FieldVLAN,
	FieldBandwidth,
	FieldLocation,
	FieldMuxID,
	FieldPortID,
}

// Record is a provisioned network circuit with addressing, bandwidth,
// and hardware-port metadata.
type Record struct {
	CircuitID   string `json:"circuit_id"`
	ClientName  string `json:"client_name"`
	ClientIP    string `json:"client_ip"`
	Subnet      string `json:"subnet"`
	DNS         string `json:"dns"`
	VLAN        string `json:"vlan"`
	Bandwidth   string `json:"bandwidth"`
	Location    string `json:"location"`
	MuxID       string `json:"mux_id"`
	PortID      string `json:"port_id"`
	LastUpdated string `json:"last_updated"` // RFC 3339, set on create/update
}

// Field returns the value of a user-supplied field by name.
// Unknown names return the empty string.
func (r Record) Field(name string) string {
	switch name {
	case FieldCircuitID:
		return r.CircuitID
	case FieldClientName:
		return r.ClientName
	case FieldClientIP:
		return r.ClientIP
	case FieldSubnet:
		return r.Subnet
	case FieldDNS:
		return r.DNS
	case FieldVLAN:
		return r.VLAN
	case FieldBandwidth:
		return r.Bandwidth
	case FieldLocation:
		return r.Location
	case FieldMuxID:
		return r.MuxID
	case FieldPortID:
		return r.PortID
	}
	return ""
}

// SetField assigns a user-supplied field by name. Returns false for
// unknown names and for fields that are not user-assignable.
func (r *Record) SetField(name, value string) bool {
	switch name {
	case FieldCircuitID:
		r.CircuitID = value
	case FieldClientName:
		r.ClientName = value
	case FieldClientIP:
		r.ClientIP = value
	case FieldSubnet:
		r.Subnet = value
	case FieldDNS:
		r.DNS = value
	case FieldVLAN:
		r.VLAN = value
	case FieldBandwidth:
		r.Bandwidth = value
	case FieldLocation:
		r.Location = value
	case FieldMuxID:
		r.MuxID = value
	case FieldPortID:
		r.PortID = value
	default:
		return false
	}
	return true
}

// View identifies which section of the single-page UI is active.
// The active view is explicit request state, never ambient globals.
type View int

const (
	ViewSearch View = iota
	ViewDetails
	ViewRegister
)

// ParseView maps a query-string value to a View. Unknown values
// fall back to the search view.
func ParseView(s string) View {
	switch s {
	case "details":
		return ViewDetails
	case "register":
		return ViewRegister
	default:
		return ViewSearch
	}
}

func (v View) String() string {
	switch v {
	case ViewDetails:
		return "details"
	case ViewRegister:
		return "register"
	default:
		return "search"
	}
}
