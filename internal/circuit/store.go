package circuit

// store.go holds the in-memory circuit inventory. Records live only for
// the lifetime of the process: there is deliberately no persistence layer
// behind this store, it stands in for a provisioning backend that does
// not exist yet. The configurable latency mimics the round-trip the real
// backend would add, so the UI exercises its pending states.

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Store is a mutex-guarded in-memory record set keyed by circuit ID.
// All operations honor context cancellation while the simulated latency
// timer runs.
type Store struct {
	mu      sync.RWMutex
	records map[string]Record // key: lowercased circuit_id
	latency time.Duration
}

// NewStore creates an empty store. latency is the fixed delay applied
// before every operation; pass 0 to disable (tests do).
func NewStore(latency time.Duration) *Store {
	return &Store{
		records: make(map[string]Record),
		latency: latency,
	}
}

// Seed inserts records without validation or timestamp rewriting.
// Intended for loading the demo set at startup.
func (s *Store) Seed(records []Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.records[strings.ToLower(r.CircuitID)] = r
	}
}

// Count returns the number of records currently held.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Lookup finds a record by circuit ID. Matching is case-insensitive and
// exact. A miss returns an error naming the queried ID.
func (s *Store) Lookup(ctx context.Context, circuitID string) (Record, error) {
	if err := s.simulate(ctx); err != nil {
		return Record{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[strings.ToLower(strings.TrimSpace(circuitID))]
	if !ok {
		return Record{}, fmt.Errorf("circuit %q not found", circuitID)
	}
	return rec, nil
}

// Register validates all fields of a new record, stamps last_updated,
// and inserts it. The circuit ID must not collide with an existing
// record (case-insensitive).
func (s *Store) Register(ctx context.Context, rec Record) (Record, error) {
	if err := s.simulate(ctx); err != nil {
		return Record{}, err
	}

	if errs := ValidateRecord(rec); errs != nil {
		return Record{}, errs
	}

	key := strings.ToLower(rec.CircuitID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[key]; exists {
		return Record{}, fmt.Errorf("circuit %q already exists", rec.CircuitID)
	}

	rec.LastUpdated = time.Now().Format(time.RFC3339)
	s.records[key] = rec
	return rec, nil
}

// Update applies a set of field changes to an existing record. Only the
// fields in EditableFields may change: circuit_id is the immutable record
// identity and last_updated is always stamped by the store. The stored
// record is replaced only when every changed field validates; on any
// error the original record is untouched.
func (s *Store) Update(ctx context.Context, circuitID string, fields map[string]string) (Record, error) {
	if err := s.simulate(ctx); err != nil {
		return Record{}, err
	}

	for name := range fields {
		switch name {
		case FieldCircuitID:
			return Record{}, fmt.Errorf("field %q cannot be changed", FieldCircuitID)
		case FieldLastUpdated:
			return Record{}, fmt.Errorf("field %q is set by the server", FieldLastUpdated)
		}
		if !isEditable(name) {
			return Record{}, fmt.Errorf("unknown field %q", name)
		}
	}

	key := strings.ToLower(strings.TrimSpace(circuitID))

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		return Record{}, fmt.Errorf("circuit %q not found", circuitID)
	}

	// Work on a copy so a validation failure leaves the original intact.
	updated := rec
	for name, value := range fields {
		updated.SetField(name, value)
	}

	if errs := ValidateFields(updated, EditableFields); errs != nil {
		return Record{}, errs
	}

	updated.LastUpdated = time.Now().Format(time.RFC3339)
	s.records[key] = updated
	return updated, nil
}

func isEditable(name string) bool {
	for _, f := range EditableFields {
		if f == name {
			return true
		}
	}
	return false
}

// simulate blocks for the configured latency or until ctx is done.
func (s *Store) simulate(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// DemoRecords returns the fixed demo circuit set loaded at startup.
func DemoRecords() []Record {
	stamp := time.Now().Format(time.RFC3339)
	return []Record{
		{
			CircuitID:   "CKT-1001",
			ClientName:  "Acme Logistics",
			ClientIP:    "10.20.30.5",
			Subnet:      "255.255.255.0",
			DNS:         "10.20.30.1",
			VLAN:        "110",
			Bandwidth:   "100 Mbps",
			Location:    "DC-East Rack 12",
			MuxID:       "MUX-204",
			PortID:      "GE-0/1/4",
			LastUpdated: stamp,
		},
		{
			CircuitID:   "CKT-1002",
			ClientName:  "Borealis Media",
			ClientIP:    "10.44.2.17",
			Subnet:      "255.255.255.128",
			DNS:         "10.44.2.1",
			VLAN:        "220",
			Bandwidth:   "1 Gbps",
			Location:    "DC-East Rack 3",
			MuxID:       "MUX-117",
			PortID:      "XE-0/0/2",
			LastUpdated: stamp,
		},
		{
			CircuitID:   "CKT-1003",
			ClientName:  "Cobalt Health",
			ClientIP:    "172.16.8.42",
			Subnet:      "255.255.252.0",
			DNS:         "172.16.8.1",
			VLAN:        "45",
			Bandwidth:   "500 Kbps",
			Location:    "POP-North Cab 7",
			MuxID:       "MUX-033",
			PortID:      "FE-1/0/9",
			LastUpdated: stamp,
		},
		{
			CircuitID:   "CKT-1004",
			ClientName:  "Delta Freight",
			ClientIP:    "192.168.77.10",
			Subnet:      "255.255.255.0",
			DNS:         "192.168.77.1",
			VLAN:        "4001",
			Bandwidth:   "10Gbps",
			Location:    "DC-West Rack 21",
			MuxID:       "MUX-310",
			PortID:      "ET-0/2/0",
			LastUpdated: stamp,
		},
	}
}
