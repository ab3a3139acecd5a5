package state

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"quorum/core/types"
	"quorum/native/options"
	"quorum/storage"
)

// optionRecordTag is the fixed-width structural marker written ahead of the
// user fields. Readers reject payloads that do not start with it, so a key
// collision with a foreign record surfaces as corruption instead of a decode
// of garbage.
var optionRecordTag = []byte{0x51, 0x52, 0x4d, 0x4f, 0x50, 0x54, 0x4e, 0x31} // "QRMOPTN1"

func optionStorageKey(id [32]byte) []byte {
	return storageKey(optionRecordPrefix, id[:])
}

func optionEscrowKey(id [32]byte) []byte {
	return storageKey(optionEscrowPrefix, id[:])
}

// storedOption mirrors options.Option for RLP encoding. Timestamps ride as
// big integers because RLP has no signed integer encoding.
type storedOption struct {
	OptionID        string
	EventName       string
	EventDate       string
	TicketType      string
	Quantity        uint8
	PremiumLamports uint64
	Holder          [20]byte
	Expiry          *big.Int
	CreatedAt       *big.Int
	VenueRoyaltyBps uint16
	Status          uint8
}

func newStoredOption(o *options.Option) *storedOption {
	if o == nil {
		return nil
	}
	return &storedOption{
		OptionID:        o.OptionID,
		EventName:       o.EventName,
		EventDate:       o.EventDate,
		TicketType:      o.TicketType,
		Quantity:        o.Quantity,
		PremiumLamports: o.PremiumLamports,
		Holder:          o.Holder,
		Expiry:          big.NewInt(o.Expiry),
		CreatedAt:       big.NewInt(o.CreatedAt),
		VenueRoyaltyBps: o.VenueRoyaltyBps,
		Status:          uint8(o.Status),
	}
}

func (s *storedOption) toOption() (*options.Option, error) {
	if s == nil {
		return nil, fmt.Errorf("options: nil storage record")
	}
	out := &options.Option{
		ID:              options.DeriveID(s.OptionID),
		OptionID:        s.OptionID,
		EventName:       s.EventName,
		EventDate:       s.EventDate,
		TicketType:      s.TicketType,
		Quantity:        s.Quantity,
		PremiumLamports: s.PremiumLamports,
		Holder:          s.Holder,
		VenueRoyaltyBps: s.VenueRoyaltyBps,
		Status:          options.Status(s.Status),
	}
	if s.Expiry != nil {
		out.Expiry = s.Expiry.Int64()
	}
	if s.CreatedAt != nil {
		out.CreatedAt = s.CreatedAt.Int64()
	}
	if !out.Status.Valid() {
		return nil, options.ErrInvalidStatus
	}
	return out, nil
}

func encodeOptionRecord(o *options.Option) ([]byte, error) {
	encoded, err := rlp.EncodeToBytes(newStoredOption(o))
	if err != nil {
		return nil, err
	}
	record := make([]byte, 0, len(optionRecordTag)+len(encoded))
	record = append(record, optionRecordTag...)
	record = append(record, encoded...)
	if len(record) > options.MaxEncodedSize {
		return nil, fmt.Errorf("state: option record exceeds %d bytes", options.MaxEncodedSize)
	}
	return record, nil
}

// OptionPut persists the option record under its derived address. The encoded
// record is capped at options.MaxEncodedSize; the field bounds enforced by
// Sanitize keep every valid record inside the cap.
func (m *Manager) OptionPut(o *options.Option) error {
	if m == nil || m.db == nil {
		return fmt.Errorf("state: database not configured")
	}
	sanitized, err := options.Sanitize(o)
	if err != nil {
		return err
	}
	record, err := encodeOptionRecord(sanitized)
	if err != nil {
		return err
	}
	return m.db.Put(optionStorageKey(sanitized.ID), record)
}

// ApplyCreate commits the full effect of an option creation in one atomic
// write: the debited holder account, the escrow credit and the option record
// all land together or not at all.
func (m *Manager) ApplyCreate(o *options.Option, holder []byte, account *types.Account, premium *big.Int) error {
	if m == nil || m.db == nil {
		return fmt.Errorf("state: database not configured")
	}
	if premium == nil || premium.Sign() <= 0 {
		return options.ErrInvalidPremium
	}
	sanitized, err := options.Sanitize(o)
	if err != nil {
		return err
	}
	record, err := encodeOptionRecord(sanitized)
	if err != nil {
		return err
	}
	accountRecord, err := encodeAccount(account)
	if err != nil {
		return err
	}
	current, err := m.OptionBalance(sanitized.ID)
	if err != nil {
		return err
	}
	escrowRecord, err := rlp.EncodeToBytes(new(big.Int).Add(current, premium))
	if err != nil {
		return err
	}
	batch := new(storage.Batch)
	batch.Put(storageKey(accountRecordPrefix, holder), accountRecord)
	batch.Put(optionEscrowKey(sanitized.ID), escrowRecord)
	batch.Put(optionStorageKey(sanitized.ID), record)
	return m.db.Write(batch)
}

// OptionGet loads the option stored at the derived address id.
func (m *Manager) OptionGet(id [32]byte) (*options.Option, bool) {
	if m == nil || m.db == nil {
		return nil, false
	}
	ok, err := m.db.Has(optionStorageKey(id))
	if err != nil || !ok {
		return nil, false
	}
	data, err := m.db.Get(optionStorageKey(id))
	if err != nil || len(data) <= len(optionRecordTag) {
		return nil, false
	}
	if !bytes.Equal(data[:len(optionRecordTag)], optionRecordTag) {
		return nil, false
	}
	stored := new(storedOption)
	if err := rlp.DecodeBytes(data[len(optionRecordTag):], stored); err != nil {
		return nil, false
	}
	record, err := stored.toOption()
	if err != nil {
		return nil, false
	}
	return record, true
}

// OptionBalance returns the escrow balance held on the option account.
func (m *Manager) OptionBalance(id [32]byte) (*big.Int, error) {
	if m == nil || m.db == nil {
		return nil, fmt.Errorf("state: database not configured")
	}
	ok, err := m.db.Has(optionEscrowKey(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	data, err := m.db.Get(optionEscrowKey(id))
	if err != nil {
		return nil, err
	}
	balance := new(big.Int)
	if err := rlp.DecodeBytes(data, balance); err != nil {
		return nil, fmt.Errorf("state: corrupt escrow balance: %w", err)
	}
	return balance, nil
}
