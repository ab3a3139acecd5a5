package options

import (
	"encoding/hex"
	"strconv"

	"quorum/core/types"
)

const (
	EventTypeOptionCreated   = "options.created"
	EventTypeOptionExercised = "options.exercised"
	EventTypeOptionExpired   = "options.expired"
)

// NewCreatedEvent returns the canonical event payload for a newly created
// option. Consumers receive the fields an off-chain indexer needs to track
// the window: identifier, event, holder, premium and expiry.
func NewCreatedEvent(o *Option) *types.Event {
	evt := newOptionEvent(EventTypeOptionCreated, o)
	if o == nil {
		return evt
	}
	evt.Attributes["eventName"] = o.EventName
	evt.Attributes["premiumLamports"] = strconv.FormatUint(o.PremiumLamports, 10)
	evt.Attributes["expiry"] = strconv.FormatInt(o.Expiry, 10)
	return evt
}

// NewExercisedEvent returns the canonical event payload emitted when the
// holder exercises before expiry.
func NewExercisedEvent(o *Option) *types.Event {
	return newOptionEvent(EventTypeOptionExercised, o)
}

// NewExpiredEvent returns the canonical event payload emitted when an option
// is swept past its deadline. The forfeited premium rides along for
// downstream accounting.
func NewExpiredEvent(o *Option) *types.Event {
	evt := newOptionEvent(EventTypeOptionExpired, o)
	if o == nil {
		return evt
	}
	evt.Attributes["premiumLamports"] = strconv.FormatUint(o.PremiumLamports, 10)
	return evt
}

func newOptionEvent(eventType string, o *Option) *types.Event {
	attrs := make(map[string]string)
	if o != nil {
		attrs["optionId"] = o.OptionID
		attrs["holder"] = hex.EncodeToString(o.Holder[:])
	}
	return &types.Event{Type: eventType, Attributes: attrs}
}
