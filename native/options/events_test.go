package options

import (
	"encoding/hex"
	"testing"
)

func TestCreatedEventCarriesNotificationFields(t *testing.T) {
	opt := validOption()
	evt := NewCreatedEvent(opt)
	if evt.Type != EventTypeOptionCreated {
		t.Fatalf("unexpected type %s", evt.Type)
	}
	if evt.Attributes["optionId"] != opt.OptionID {
		t.Fatalf("optionId attribute mismatch")
	}
	if evt.Attributes["eventName"] != opt.EventName {
		t.Fatalf("eventName attribute mismatch")
	}
	if evt.Attributes["holder"] != hex.EncodeToString(opt.Holder[:]) {
		t.Fatalf("holder attribute mismatch")
	}
	if evt.Attributes["premiumLamports"] != "1000000" {
		t.Fatalf("premium attribute mismatch: %q", evt.Attributes["premiumLamports"])
	}
	if evt.Attributes["expiry"] != "1700003600" {
		t.Fatalf("expiry attribute mismatch: %q", evt.Attributes["expiry"])
	}
}

func TestExercisedEventOmitsFundFields(t *testing.T) {
	evt := NewExercisedEvent(validOption())
	if evt.Type != EventTypeOptionExercised {
		t.Fatalf("unexpected type %s", evt.Type)
	}
	if _, ok := evt.Attributes["premiumLamports"]; ok {
		t.Fatalf("exercised event must not carry the premium")
	}
	if evt.Attributes["optionId"] == "" || evt.Attributes["holder"] == "" {
		t.Fatalf("exercised event missing identity attributes: %v", evt.Attributes)
	}
}

func TestExpiredEventCarriesForfeitedPremium(t *testing.T) {
	evt := NewExpiredEvent(validOption())
	if evt.Type != EventTypeOptionExpired {
		t.Fatalf("unexpected type %s", evt.Type)
	}
	if evt.Attributes["premiumLamports"] != "1000000" {
		t.Fatalf("expired event missing premium: %v", evt.Attributes)
	}
}

func TestNilOptionEvents(t *testing.T) {
	if evt := NewCreatedEvent(nil); len(evt.Attributes) != 0 {
		t.Fatalf("nil option must produce empty attributes")
	}
	if evt := NewExpiredEvent(nil); len(evt.Attributes) != 0 {
		t.Fatalf("nil option must produce empty attributes")
	}
}
