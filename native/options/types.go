package options

import (
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Status represents the lifecycle state of an option contract. Transitions are
// one-way: an option leaves StatusActive exactly once and never returns.
type Status uint8

const (
	StatusActive Status = iota
	StatusExercised
	StatusExpired
)

// Valid reports whether the status value is within the supported range.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusExercised, StatusExpired:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusExercised:
		return "exercised"
	case StatusExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Byte bounds enforced on the variable-length fields. The storage layer
// allocates records against these worst cases, so they are validation
// invariants rather than hints.
const (
	MaxOptionIDLen   = 32
	MaxEventNameLen  = 64
	MaxEventDateLen  = 16
	MaxTicketTypeLen = 32

	MinQuantity = 1
	MaxQuantity = 20

	MaxVenueRoyaltyBps = 5000
)

// MaxEncodedSize is the worst-case on-disk footprint of a stored option
// record: an 8-byte structural tag ahead of the user fields, a 4-byte length
// prefix reserved per string field plus its maximum byte count, and the
// fixed-width fields. The serialized record never exceeds this reservation.
const MaxEncodedSize = 8 +
	(4 + MaxOptionIDLen) +
	(4 + MaxEventNameLen) +
	(4 + MaxEventDateLen) +
	(4 + MaxTicketTypeLen) +
	1 + // quantity
	8 + // premium
	20 + // holder
	8 + // expiry
	1 + // status
	8 + // created at
	2 // venue royalty bps

// addressNamespace is the fixed tag prepended to the option id when deriving
// the storage address, keeping option records in their own key space.
var addressNamespace = []byte("option")

// DeriveID computes the deterministic storage address of an option from its
// business identifier. The same identifier always maps to the same address,
// so address collision at creation time doubles as the uniqueness check.
func DeriveID(optionID string) [32]byte {
	buf := make([]byte, 0, len(addressNamespace)+len(optionID))
	buf = append(buf, addressNamespace...)
	buf = append(buf, optionID...)
	var id [32]byte
	copy(id[:], ethcrypto.Keccak256(buf))
	return id
}

// Option captures the metadata and runtime status of a single ticket option.
// All fields except Status are immutable after creation; the premium is held
// on the option account's own balance for the lifetime of the record.
type Option struct {
	ID              [32]byte
	OptionID        string
	EventName       string
	EventDate       string
	TicketType      string
	Quantity        uint8
	PremiumLamports uint64
	Holder          [20]byte
	Expiry          int64
	CreatedAt       int64
	VenueRoyaltyBps uint16
	Status          Status
}

// Clone returns a copy of the option so callers can mutate it without
// affecting the stored instance.
func (o *Option) Clone() *Option {
	if o == nil {
		return nil
	}
	clone := *o
	return &clone
}

// Sanitize validates the supplied option against the field bounds and returns
// a cloned instance. The original value is not mutated.
func Sanitize(o *Option) (*Option, error) {
	if o == nil {
		return nil, ErrOptionNotFound
	}
	clone := o.Clone()
	if len(clone.OptionID) > MaxOptionIDLen ||
		len(clone.EventName) > MaxEventNameLen ||
		len(clone.EventDate) > MaxEventDateLen ||
		len(clone.TicketType) > MaxTicketTypeLen {
		return nil, ErrStringTooLong
	}
	if clone.Quantity < MinQuantity || clone.Quantity > MaxQuantity {
		return nil, ErrInvalidQuantity
	}
	if clone.PremiumLamports == 0 {
		return nil, ErrInvalidPremium
	}
	if clone.VenueRoyaltyBps > MaxVenueRoyaltyBps {
		return nil, ErrInvalidRoyalty
	}
	if !clone.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	return clone, nil
}
