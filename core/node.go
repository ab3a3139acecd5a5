package core

import (
	"fmt"
	"math/big"
	"sync"

	"quorum/core/events"
	"quorum/core/state"
	"quorum/core/types"
	"quorum/native/options"
	"quorum/storage"
)

type eventWithPayload interface {
	events.Event
	Event() *types.Event
}

// optionEventEmitter forwards engine events into the node's buffer so RPC
// consumers can observe them in emission order.
type optionEventEmitter struct {
	node *Node
}

func (e optionEventEmitter) Emit(evt events.Event) {
	if e.node == nil || evt == nil {
		return
	}
	payload, ok := evt.(eventWithPayload)
	if !ok {
		return
	}
	event := payload.Event()
	if event == nil {
		return
	}
	e.node.events.Emit(nodeEvent{evt: event})
}

type nodeEvent struct {
	evt *types.Event
}

func (e nodeEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e nodeEvent) Event() *types.Event { return e.evt }

// Node owns the ledger state and serializes every mutation, so the engines it
// hosts see a consistent, exclusively-held view per request. The status guard
// inside the options engine is what decides racing exercise/expire; the mutex
// only provides the transaction-serial execution the guard relies on.
type Node struct {
	mu     sync.Mutex
	db     storage.Database
	state  *state.Manager
	engine *options.Engine
	events *events.Buffer
}

// NewNode wires a node over the provided database.
func NewNode(db storage.Database) *Node {
	n := &Node{
		db:     db,
		state:  state.NewManager(db),
		engine: options.NewEngine(),
		events: events.NewBuffer(1024),
	}
	n.engine.SetState(n.state)
	n.engine.SetEmitter(optionEventEmitter{node: n})
	return n
}

// SetNowFunc overrides the engine time source. Intended for tests.
func (n *Node) SetNowFunc(now func() int64) {
	n.engine.SetNowFunc(now)
}

// ApplyGenesis credits the allocation once per data directory. Subsequent
// calls are no-ops.
func (n *Node) ApplyGenesis(alloc map[[20]byte]*big.Int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	applied, err := n.state.GenesisApplied()
	if err != nil {
		return err
	}
	if applied {
		return nil
	}
	for addr, amount := range alloc {
		if amount == nil || amount.Sign() <= 0 {
			return fmt.Errorf("core: invalid genesis amount for %x", addr)
		}
		acc, err := n.state.GetAccount(addr[:])
		if err != nil {
			return err
		}
		acc.Balance = new(big.Int).Add(acc.Balance, amount)
		if err := n.state.PutAccount(addr[:], acc); err != nil {
			return err
		}
	}
	return n.state.MarkGenesisApplied()
}

// OptionsCreate validates and persists a new option, moving the premium from
// the holder onto the option account.
func (n *Node) OptionsCreate(holder [20]byte, params options.CreateParams) (*options.Option, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.engine.Create(holder, params)
}

// OptionsExercise transitions an active option to Exercised on behalf of its
// holder.
func (n *Node) OptionsExercise(id [32]byte, caller [20]byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.engine.Exercise(id, caller)
}

// OptionsExpire sweeps an active option past its deadline. Deliberately takes
// no caller: the transition is permissionless.
func (n *Node) OptionsExpire(id [32]byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.engine.Expire(id)
}

// OptionsGet returns the stored option at the derived address id.
func (n *Node) OptionsGet(id [32]byte) (*options.Option, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.engine.Get(id)
}

// OptionsEscrowBalance returns the premium held on an option account.
func (n *Node) OptionsEscrowBalance(id [32]byte) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.engine.EscrowBalance(id)
}

// GetAccount returns the ledger account stored for addr.
func (n *Node) GetAccount(addr []byte) (*types.Account, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.GetAccount(addr)
}

// Events returns a snapshot of the buffered ledger events. Each entry is a
// deep copy, so callers cannot corrupt the buffered history through the
// attribute maps.
func (n *Node) Events() []*types.Event {
	buffered := n.events.Events()
	out := make([]*types.Event, 0, len(buffered))
	for _, evt := range buffered {
		payload, ok := evt.(eventWithPayload)
		if !ok {
			continue
		}
		out = append(out, payload.Event().Clone())
	}
	return out
}
