package protocol

import (
	"encoding/json"
	"fmt"
)

const Version = "1.0"

// Event types emitted by the host client.
const (
	TypeGameStateChanged     = "GAME_STATE_CHANGED"
	TypeGameTick             = "GAME_TICK"
	TypeChatMessage          = "CHAT_MESSAGE"
	TypeItemContainerChanged = "ITEM_CONTAINER_CHANGED"
	TypeMenuOptionClicked    = "MENU_OPTION_CLICKED"
	TypeMenuEntryAdded       = "MENU_ENTRY_ADDED"
	TypeFakeXPDrop           = "FAKE_XP_DROP"
	TypeDialogText           = "DIALOG_TEXT"
	TypeFriendsChanged       = "FRIENDS_CHANGED"
	TypeFriendRenamed        = "FRIEND_RENAMED"
	TypeFriendRemoved        = "FRIEND_REMOVED"
	TypeConfigChanged        = "CONFIG_CHANGED"
	TypeLocalPlayerChanged   = "LOCAL_PLAYER_CHANGED"
	TypeChatChannelChanged   = "CHAT_CHANNEL_CHANGED"
)

// Event is implemented by every host event payload.
type Event interface {
	EventType() string
}

// RecordedEvent is the journal form of an event: its type plus the JSON payload.
type RecordedEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// TickEntry groups the events delivered during one game tick, in delivery order.
// The tick's own GAME_TICK event is the last one.
type TickEntry struct {
	Tick   uint64          `json:"tick"`
	Events []RecordedEvent `json:"events"`
}

func Encode(ev Event) (RecordedEvent, error) {
	if ev == nil {
		return RecordedEvent{}, fmt.Errorf("encode: nil event")
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return RecordedEvent{}, fmt.Errorf("encode %s: %w", ev.EventType(), err)
	}
	return RecordedEvent{Type: ev.EventType(), Data: b}, nil
}

func Decode(rec RecordedEvent) (Event, error) {
	switch rec.Type {
	case TypeGameStateChanged:
		return decodeAs[GameStateChanged](rec)
	case TypeGameTick:
		return decodeAs[GameTick](rec)
	case TypeChatMessage:
		return decodeAs[ChatMessage](rec)
	case TypeItemContainerChanged:
		return decodeAs[ItemContainerChanged](rec)
	case TypeMenuOptionClicked:
		return decodeAs[MenuOptionClicked](rec)
	case TypeMenuEntryAdded:
		return decodeAs[MenuEntryAdded](rec)
	case TypeFakeXPDrop:
		return decodeAs[FakeXPDrop](rec)
	case TypeDialogText:
		return decodeAs[DialogText](rec)
	case TypeFriendsChanged:
		return decodeAs[FriendsChanged](rec)
	case TypeFriendRenamed:
		return decodeAs[FriendRenamed](rec)
	case TypeFriendRemoved:
		return decodeAs[FriendRemoved](rec)
	case TypeConfigChanged:
		return decodeAs[ConfigChanged](rec)
	case TypeLocalPlayerChanged:
		return decodeAs[LocalPlayerChanged](rec)
	case TypeChatChannelChanged:
		return decodeAs[ChatChannelChanged](rec)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, rec.Type)
	}
}

func decodeAs[T Event](rec RecordedEvent) (Event, error) {
	var ev T
	if len(rec.Data) == 0 {
		return ev, nil
	}
	if err := json.Unmarshal(rec.Data, &ev); err != nil {
		return nil, fmt.Errorf("decode %s: %w", rec.Type, err)
	}
	return ev, nil
}
