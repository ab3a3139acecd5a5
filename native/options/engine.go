package options

import (
	"errors"
	"math/big"
	"time"

	"quorum/core/events"
	"quorum/core/types"
)

var errNilState = errors.New("options engine: state not configured")

type engineState interface {
	OptionPut(*Option) error
	OptionGet(id [32]byte) (*Option, bool)
	OptionBalance(id [32]byte) (*big.Int, error)
	GetAccount(addr []byte) (*types.Account, error)
	// ApplyCreate commits the debited holder account, the escrow credit and
	// the option record as one atomic write.
	ApplyCreate(opt *Option, holder []byte, account *types.Account, premium *big.Int) error
}

type optionEvent struct {
	evt *types.Event
}

func (e optionEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e optionEvent) Event() *types.Event { return e.evt }

// CreateParams carries the caller-supplied fields of a new option contract.
type CreateParams struct {
	OptionID        string
	EventName       string
	EventDate       string
	TicketType      string
	Quantity        uint8
	PremiumLamports uint64
	Expiry          int64
	VenueRoyaltyBps uint16
}

// Engine wires the option lifecycle logic with external state and event
// emitters. Callers are expected to serialize invocations per ledger; the
// engine itself performs no locking.
type Engine struct {
	state   engineState
	emitter events.Emitter
	nowFn   func() int64
}

// NewEngine creates an options engine with a no-op emitter. Callers can
// override the emitter via SetEmitter.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetEmitter configures the event emitter used by the engine. Passing nil
// resets the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetNowFunc overrides the time source used by the engine. Primarily intended
// for tests to provide deterministic timestamps.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

func (e *Engine) emit(event *types.Event) {
	if e == nil || e.emitter == nil || event == nil {
		return
	}
	e.emitter.Emit(optionEvent{evt: event})
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

func ensureAccount(acc *types.Account) *types.Account {
	if acc == nil {
		return &types.Account{Balance: big.NewInt(0)}
	}
	if acc.Balance == nil {
		acc.Balance = big.NewInt(0)
	}
	return acc
}

func (e *Engine) loadOption(id [32]byte) (*Option, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	opt, ok := e.state.OptionGet(id)
	if !ok {
		return nil, ErrOptionNotFound
	}
	return opt, nil
}

// Create validates the supplied parameters, moves the premium from the holder
// onto the new option account and persists the record in Active status. The
// checks run in a fixed order and the first failure wins; nothing is written
// until every precondition holds.
func (e *Engine) Create(holder [20]byte, params CreateParams) (*Option, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if params.Quantity < MinQuantity || params.Quantity > MaxQuantity {
		return nil, ErrInvalidQuantity
	}
	if params.PremiumLamports == 0 {
		return nil, ErrInvalidPremium
	}
	if len(params.OptionID) > MaxOptionIDLen ||
		len(params.EventName) > MaxEventNameLen ||
		len(params.EventDate) > MaxEventDateLen ||
		len(params.TicketType) > MaxTicketTypeLen {
		return nil, ErrStringTooLong
	}
	if params.VenueRoyaltyBps > MaxVenueRoyaltyBps {
		return nil, ErrInvalidRoyalty
	}
	now := e.now()
	if params.Expiry <= now {
		return nil, ErrExpiryInPast
	}

	// Allocate-if-absent: the derived address is the uniqueness lock, so a
	// second creation with the same id collides here before any transfer.
	id := DeriveID(params.OptionID)
	if _, ok := e.state.OptionGet(id); ok {
		return nil, ErrOptionExists
	}

	premium := new(big.Int).SetUint64(params.PremiumLamports)
	acc, err := e.state.GetAccount(holder[:])
	if err != nil {
		return nil, err
	}
	acc = ensureAccount(acc)
	if acc.Balance.Cmp(premium) < 0 {
		return nil, ErrInsufficientFunds
	}
	acc.Balance = new(big.Int).Sub(acc.Balance, premium)

	opt := &Option{
		ID:              id,
		OptionID:        params.OptionID,
		EventName:       params.EventName,
		EventDate:       params.EventDate,
		TicketType:      params.TicketType,
		Quantity:        params.Quantity,
		PremiumLamports: params.PremiumLamports,
		Holder:          holder,
		Expiry:          params.Expiry,
		CreatedAt:       now,
		VenueRoyaltyBps: params.VenueRoyaltyBps,
		Status:          StatusActive,
	}
	// Everything lands in one commit; a storage failure leaves the holder
	// balance, the escrow and the record all untouched.
	if err := e.state.ApplyCreate(opt, holder[:], acc, premium); err != nil {
		return nil, err
	}
	e.emit(NewCreatedEvent(opt))
	return opt.Clone(), nil
}

// Exercise records that the holder claimed the right before expiry. No funds
// move; the premium stays on the option account for downstream redemption.
func (e *Engine) Exercise(id [32]byte, caller [20]byte) error {
	opt, err := e.loadOption(id)
	if err != nil {
		return err
	}
	if DeriveID(opt.OptionID) != id {
		return ErrAddressMismatch
	}
	if opt.Status != StatusActive {
		return ErrNotActive
	}
	if caller != opt.Holder {
		return ErrUnauthorizedHolder
	}
	if e.now() > opt.Expiry {
		return ErrOptionExpired
	}
	opt.Status = StatusExercised
	if err := e.state.OptionPut(opt); err != nil {
		return err
	}
	e.emit(NewExercisedEvent(opt))
	return nil
}

// Expire sweeps an option whose window has closed. The transition takes no
// caller identity: anyone may submit it once the deadline has passed, which
// keeps expired options collectable without a privileged sweeper. The premium
// stays on the option account as forfeited.
func (e *Engine) Expire(id [32]byte) error {
	opt, err := e.loadOption(id)
	if err != nil {
		return err
	}
	if DeriveID(opt.OptionID) != id {
		return ErrAddressMismatch
	}
	if opt.Status != StatusActive {
		return ErrNotActive
	}
	if e.now() <= opt.Expiry {
		return ErrNotExpiredYet
	}
	opt.Status = StatusExpired
	if err := e.state.OptionPut(opt); err != nil {
		return err
	}
	e.emit(NewExpiredEvent(opt))
	return nil
}

// Get returns a copy of the stored option.
func (e *Engine) Get(id [32]byte) (*Option, error) {
	opt, err := e.loadOption(id)
	if err != nil {
		return nil, err
	}
	return opt.Clone(), nil
}

// EscrowBalance returns the premium currently held on the option account.
func (e *Engine) EscrowBalance(id [32]byte) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	return e.state.OptionBalance(id)
}
