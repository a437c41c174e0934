package sync

import "time"

const (
	EventCollectionAdd    = "collection.add"
	EventCollectionRemove = "collection.remove"
	EventDeckCreate       = "deck.create"
	EventDeckCardAdd      = "deck.card.add"
	EventDeckCardUpdate   = "deck.card.update"
	EventDeckCardRemove   = "deck.card.remove"
)

// Event is one user-visible mutation. Only the ids relevant to Type are set.
type Event struct {
	Type           string    `json:"type"`
	UserID         string    `json:"user_id"`
	CardInstanceID string    `json:"card_instance_id,omitempty"`
	OracleID       string    `json:"oracle_id,omitempty"`
	PrintID        string    `json:"print_id,omitempty"`
	DeckID         string    `json:"deck_id,omitempty"`
	DeckCardID     string    `json:"deck_card_id,omitempty"`
	CardLocation   string    `json:"card_location,omitempty"`
	At             time.Time `json:"at"`
}

// Publisher is what handlers use to announce mutations.
type Publisher interface {
	Publish(Event)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(Event) {}
