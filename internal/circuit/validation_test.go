package circuit

import (
	"strings"
	"testing"
)

func TestFieldLabel(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"circuit_id", "Circuit Id"},
		{"client_ip", "Client Ip"},
		{"client_name", "Client Name"},
		{"vlan", "Vlan"},
		{"bandwidth", "Bandwidth"},
		{"mux_id", "Mux Id"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			if got := FieldLabel(tt.field); got != tt.want {
				t.Errorf("FieldLabel(%q) = %q, want %q", tt.field, got, tt.want)
			}
		})
	}
}

func TestValidate_Required(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
		want  string
	}{
		{"empty circuit id", "circuit_id", "", "Circuit Id is required"},
		{"whitespace only", "client_name", "   ", "Client Name is required"},
		{"tab and newline", "vlan", "\t\n", "Vlan is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.field, tt.value)
			if err == nil {
				t.Fatalf("Validate(%q, %q) = nil, want error", tt.field, tt.value)
			}
			if err.Error() != tt.want {
				t.Errorf("Validate(%q, %q) = %q, want %q", tt.field, tt.value, err.Error(), tt.want)
			}
		})
	}
}

func TestValidate_Lengths(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   string
		wantErr bool
	}{
		{"circuit id too short", "circuit_id", "AB", true},
		{"circuit id minimum", "circuit_id", "ABC", false},
		{"client name single char", "client_name", "A", true},
		{"client name minimum", "client_name", "Al", false},
		{"location too short", "location", "DC", true},
		{"location ok", "location", "DC-East", false},
		{"mux id too short", "mux_id", "M1", true},
		{"mux id ok", "mux_id", "MUX-204", false},
		{"port id too short", "port_id", "P2", true},
		{"port id ok", "port_id", "GE-0/1/4", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.field, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%q, %q) error = %v, wantErr %v", tt.field, tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidate_DottedQuad(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		wantErr    bool
		wantInMsg  string
	}{
		{"valid address", "192.168.1.10", false, ""},
		{"valid low", "0.0.0.0", false, ""},
		{"valid high", "255.255.255.255", false, ""},
		{"three groups", "10.0.1", true, "dotted-quad"},
		{"five groups", "10.0.0.1.2", true, "dotted-quad"},
		{"letters", "10.0.0.x", true, "dotted-quad"},
		{"four digit group", "1000.0.0.1", true, "dotted-quad"},
		{"octet over 255", "10.0.0.256", true, "octets must be between 0 and 255"},
		{"first octet over 255", "999.1.1.1", true, "octets must be between 0 and 255"},
	}

	// The same rule applies to every dotted-quad field.
	for _, field := range []string{FieldClientIP, FieldSubnet, FieldDNS} {
		for _, tt := range tests {
			t.Run(field+"/"+tt.name, func(t *testing.T) {
				err := Validate(field, tt.value)
				if (err != nil) != tt.wantErr {
					t.Fatalf("Validate(%q, %q) error = %v, wantErr %v", field, tt.value, err, tt.wantErr)
				}
				if err != nil && !strings.Contains(err.Error(), tt.wantInMsg) {
					t.Errorf("Validate(%q, %q) = %q, want message containing %q", field, tt.value, err.Error(), tt.wantInMsg)
				}
			})
		}
	}
}

func TestValidate_OctetRangeErrorIsDistinct(t *testing.T) {
	shapeErr := Validate(FieldClientIP, "10.0.0")
	rangeErr := Validate(FieldClientIP, "10.0.0.300")

	if shapeErr == nil || rangeErr == nil {
		t.Fatal("expected both shape and range errors")
	}
	if shapeErr.Error() == rangeErr.Error() {
		t.Errorf("shape and octet-range errors should differ, both = %q", shapeErr.Error())
	}
}

func TestValidate_VLAN(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"1", false},
		{"4094", false},
		{"110", false},
		{"0", true},
		{"4095", true},
		{"-1", true},
		{"abc", true},
		{"10.5", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := Validate(FieldVLAN, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(vlan, %q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Bandwidth(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"100 Mbps", false},
		{"1Gbps", false},
		{"50 kbps", false},
		{"10 GBPS", false},
		{"500   Kbps", false},
		{"100", true},
		{"100 Mbs", true},
		{"Mbps", true},
		{"ten Mbps", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := Validate(FieldBandwidth, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(bandwidth, %q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRecord_CollectsOneErrorPerField(t *testing.T) {
	rec := Record{
		CircuitID:  "AB",       // too short
		ClientName: "",         // required
		ClientIP:   "10.0.0.1", // ok
		Subnet:     "bad",      // shape
		DNS:        "10.0.0.300", // octet range
		VLAN:       "5000",     // out of range
		Bandwidth:  "100 Mbs",  // bad unit
		Location:   "DC-East",  // ok
		MuxID:      "MUX-1",    // ok
		PortID:     "P1",       // too short
	}

	errs := ValidateRecord(rec)
	if errs == nil {
		t.Fatal("ValidateRecord() = nil, want errors")
	}

	wantFields := []string{"circuit_id", "client_name", "subnet", "dns", "vlan", "bandwidth", "port_id"}
	if len(errs) != len(wantFields) {
		t.Errorf("ValidateRecord() returned %d errors, want %d: %v", len(errs), len(wantFields), errs)
	}
	for _, f := range wantFields {
		if _, ok := errs[f]; !ok {
			t.Errorf("ValidateRecord() missing error for field %q", f)
		}
	}
	if _, ok := errs["client_ip"]; ok {
		t.Error("ValidateRecord() reported error for valid client_ip")
	}
}

func TestValidateRecord_ValidRecordPasses(t *testing.T) {
	for _, rec := range DemoRecords() {
		if errs := ValidateRecord(rec); errs != nil {
			t.Errorf("demo record %s failed validation: %v", rec.CircuitID, errs)
		}
	}
}

func TestValidateFields_EditableSubsetSkipsCircuitID(t *testing.T) {
	rec := Record{
		CircuitID:  "", // would fail the full validation
		ClientName: "Acme",
		ClientIP:   "10.0.0.1",
		Subnet:     "255.255.255.0",
		DNS:        "10.0.0.2",
		VLAN:       "100",
		Bandwidth:  "1 Gbps",
		Location:   "DC-East",
		MuxID:      "MUX-1",
		PortID:     "GE-0/0/1",
	}

	if errs := ValidateFields(rec, EditableFields); errs != nil {
		t.Errorf("ValidateFields(editable) = %v, want nil", errs)
	}
	if errs := ValidateRecord(rec); errs == nil {
		t.Error("ValidateRecord() = nil, want circuit_id error")
	}
}
