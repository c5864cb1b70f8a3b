package circuit

// validation.go provides field-level validation for circuit records.
//
// Validation happens at two levels:
//  1. Required check: every submitted field must be non-blank
//  2. Field rules: each field value is checked against its format rule
//
// Validate is pure and per-field; ValidateFields aggregates one error per
// invalid field into a map keyed by field name, which is what the forms
// display inline. Submission is blocked while that map is non-empty.
//
// The registration and edit paths share this single validator, so the
// dotted-quad octet bound (<= 255) applies on both. The edit path used to
// be the only place that enforced it; unifying the two copies fixed that.

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// FieldError describes a single invalid field value.
type FieldError struct {
	Field   string // Field name as submitted (e.g. "client_ip")
	Value   string // The invalid value
	Message string // Human-readable error message
}

func (e FieldError) Error() string {
	return e.Message
}

// ValidationErrors maps field names to their error messages.
// A non-empty map blocks submission.
type ValidationErrors map[string]string

func (e ValidationErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	return fmt.Sprintf("validation failed for %d field(s): %s",
		len(e), strings.Join(fields, ", "))
}

var (
	// Four dot-separated numeric groups of 1-3 digits each.
	dottedQuadRe = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)

	// Digits, optional whitespace, then a bandwidth unit token.
	bandwidthRe = regexp.MustCompile(`(?i)^\d+\s*(kbps|mbps|gbps)$`)
)

// VLAN tags are 12-bit with 0 and 4095 reserved.
const (
	vlanMin = 1
	vlanMax = 4094
)

// FieldLabel converts a field name to its display form: underscores become
// spaces and each word is capitalized ("client_ip" -> "Client Ip").
func FieldLabel(field string) string {
	words := strings.Split(strings.ReplaceAll(field, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Validate checks a single field value against its rule.
// Returns nil if valid, or a FieldError describing the problem.
// Blank and whitespace-only values fail the required check for every field.
func Validate(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return FieldError{
			Field:   field,
			Value:   value,
			Message: FieldLabel(field) + " is required",
		}
	}

	switch field {
	case FieldCircuitID:
		if len(value) < 3 {
			return fieldErr(field, value, "must be at least 3 characters")
		}

	case FieldClientName:
		if len(value) < 2 {
			return fieldErr(field, value, "must be at least 2 characters")
		}

	case FieldClientIP, FieldSubnet, FieldDNS:
		if !dottedQuadRe.MatchString(value) {
			return fieldErr(field, value, "must be a dotted-quad address (e.g. 192.168.1.10)")
		}
		for _, octet := range strings.Split(value, ".") {
			// Shape already guarantees 1-3 digits per group.
			if n, _ := strconv.Atoi(octet); n > 255 {
				return fieldErr(field, value, "octets must be between 0 and 255")
			}
		}

	case FieldVLAN:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < vlanMin || n > vlanMax {
			return fieldErr(field, value, "must be an integer between 1 and 4094")
		}

	case FieldBandwidth:
		if !bandwidthRe.MatchString(strings.TrimSpace(value)) {
			return fieldErr(field, value, "must be a number followed by Kbps, Mbps or Gbps")
		}

	case FieldLocation, FieldMuxID, FieldPortID:
		if len(value) < 3 {
			return fieldErr(field, value, "must be at least 3 characters")
		}
	}

	return nil
}

// ValidateFields runs Validate over the named fields of a record and
// collects one error message per invalid field. An empty result means
// the record may be accepted.
func ValidateFields(r Record, fields []string) ValidationErrors {
	errs := make(ValidationErrors)
	for _, f := range fields {
		if err := Validate(f, r.Field(f)); err != nil {
			errs[f] = err.Error()
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateRecord validates every user-supplied field of a record.
// Used on the registration path.
func ValidateRecord(r Record) ValidationErrors {
	return ValidateFields(r, AllFields)
}

func fieldErr(field, value, rule string) FieldError {
	return FieldError{
		Field:   field,
		Value:   value,
		Message: FieldLabel(field) + " " + rule,
	}
}
