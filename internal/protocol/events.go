package protocol

type GameState string

const (
	GameStateLoginScreen GameState = "LOGIN_SCREEN"
	GameStateLoggingIn   GameState = "LOGGING_IN"
	GameStateLoggedIn    GameState = "LOGGED_IN"
	GameStateHopping     GameState = "HOPPING"
	GameStateLoading     GameState = "LOADING"
)

type ChatType string

const (
	ChatGameMessage ChatType = "GAMEMESSAGE"
	ChatSpam        ChatType = "SPAM"
	ChatPublic      ChatType = "PUBLICCHAT"
	ChatPrivate     ChatType = "PRIVATECHAT"
)

type ContainerID string

const (
	ContainerInventory ContainerID = "INVENTORY"
	ContainerEquipment ContainerID = "EQUIPMENT"
)

// Equipment container slot indexes.
const (
	SlotAmulet = 2
	SlotRing   = 12
)

// Channel names a chat channel the player can be a member of.
type Channel string

const (
	ChannelFriendsChat Channel = "FRIENDS_CHAT"
	ChannelClan        Channel = "CLAN"
	ChannelGuestClan   Channel = "GUEST_CLAN"
)

const (
	SkillCooking = "COOKING"

	WidgetGroupFriendsList = 429
)

// Item is one container slot. Empty slots carry ID -1.
type Item struct {
	ID       int `json:"id"`
	Quantity int `json:"quantity"`
}

type GameStateChanged struct {
	State GameState `json:"state"`
}

type GameTick struct{}

type ChatMessage struct {
	ChatType ChatType `json:"chat_type"`
	Message  string   `json:"message"`
	Name     string   `json:"name,omitempty"`
}

// ItemContainerChanged carries the full contents of the container after the change.
type ItemContainerChanged struct {
	Container ContainerID `json:"container"`
	Items     []Item      `json:"items"`
}

type MenuOptionClicked struct {
	Option string `json:"option"`
	Target string `json:"target,omitempty"`
	ItemID int    `json:"item_id"`
}

type MenuEntryAdded struct {
	Option      string `json:"option"`
	Target      string `json:"target"`
	WidgetGroup int    `json:"widget_group"`
}

type FakeXPDrop struct {
	Skill string `json:"skill"`
	XP    int    `json:"xp,omitempty"`
}

// DialogText is the text of a chatbox dialog widget, as rendered by the host.
type DialogText struct {
	Text string `json:"text"`
}

type Friend struct {
	Name     string `json:"name"`
	PrevName string `json:"prev_name,omitempty"`
	// World is 0 while the friend is offline.
	World int `json:"world"`
}

type FriendsChanged struct {
	Friends []Friend `json:"friends"`
}

type FriendRenamed struct {
	Name     string `json:"name"`
	PrevName string `json:"prev_name"`
}

type FriendRemoved struct {
	Name string `json:"name"`
}

type ConfigChanged struct {
	Group string `json:"group"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

// LocalPlayerChanged is sent once the player has spawned and after every world hop.
type LocalPlayerChanged struct {
	Name  string `json:"name"`
	World int    `json:"world"`
}

type ChannelMember struct {
	Name  string `json:"name"`
	World int    `json:"world"`
	// Higher ranks sort first.
	Rank int `json:"rank"`
}

// ChatChannelChanged carries the full member list of a channel. A nil member
// list means the player is not in that channel.
type ChatChannelChanged struct {
	Channel Channel         `json:"channel"`
	Members []ChannelMember `json:"members"`
}

func (GameStateChanged) EventType() string     { return TypeGameStateChanged }
func (GameTick) EventType() string             { return TypeGameTick }
func (ChatMessage) EventType() string          { return TypeChatMessage }
func (ItemContainerChanged) EventType() string { return TypeItemContainerChanged }
func (MenuOptionClicked) EventType() string    { return TypeMenuOptionClicked }
func (MenuEntryAdded) EventType() string       { return TypeMenuEntryAdded }
func (FakeXPDrop) EventType() string           { return TypeFakeXPDrop }
func (DialogText) EventType() string           { return TypeDialogText }
func (FriendsChanged) EventType() string       { return TypeFriendsChanged }
func (FriendRenamed) EventType() string        { return TypeFriendRenamed }
func (FriendRemoved) EventType() string        { return TypeFriendRemoved }
func (ConfigChanged) EventType() string        { return TypeConfigChanged }
func (LocalPlayerChanged) EventType() string   { return TypeLocalPlayerChanged }
func (ChatChannelChanged) EventType() string   { return TypeChatChannelChanged }
