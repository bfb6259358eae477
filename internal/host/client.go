package host

import (
	"sync/atomic"

	"molopl.dev/addons/internal/protocol"
)

// Client mirrors the host's authoritative state. Containers and friends belong
// to the logic thread: read them only from ClientThread callbacks. Game state and
// tick count may be read from any goroutine.
type Client struct {
	gameState atomic.Value // protocol.GameState
	tickCount atomic.Uint64

	containers map[protocol.ContainerID][]protocol.Item
	friends    []protocol.Friend
	hasFriends bool
	player     *protocol.LocalPlayerChanged
	channels   map[protocol.Channel][]protocol.ChannelMember
}

func NewClient() *Client {
	c := &Client{
		containers: make(map[protocol.ContainerID][]protocol.Item),
		channels:   make(map[protocol.Channel][]protocol.ChannelMember),
	}
	c.gameState.Store(protocol.GameStateLoginScreen)
	return c
}

func (c *Client) GameState() protocol.GameState {
	return c.gameState.Load().(protocol.GameState)
}

func (c *Client) TickCount() uint64 {
	return c.tickCount.Load()
}

// ItemContainer returns a copy of the container contents. ok is false while the
// host has no such container loaded. Logic thread only.
func (c *Client) ItemContainer(id protocol.ContainerID) (items []protocol.Item, ok bool) {
	cur, ok := c.containers[id]
	if !ok {
		return nil, false
	}
	return append([]protocol.Item(nil), cur...), true
}

// Friends returns the friend list, or ok=false before the host loaded it.
// Logic thread only.
func (c *Client) Friends() (friends []protocol.Friend, ok bool) {
	if !c.hasFriends {
		return nil, false
	}
	return append([]protocol.Friend(nil), c.friends...), true
}

// LocalPlayer returns the logged in player's name and world. Logic thread only.
func (c *Client) LocalPlayer() (name string, world int, ok bool) {
	if c.player == nil {
		return "", 0, false
	}
	return c.player.Name, c.player.World, true
}

// ChatChannel returns the members of a channel, or ok=false while the player is
// not in it. Logic thread only.
func (c *Client) ChatChannel(ch protocol.Channel) (members []protocol.ChannelMember, ok bool) {
	cur, ok := c.channels[ch]
	if !ok {
		return nil, false
	}
	return append([]protocol.ChannelMember(nil), cur...), true
}

func (c *Client) setGameState(s protocol.GameState) { c.gameState.Store(s) }

func (c *Client) advanceTick() uint64 { return c.tickCount.Add(1) }

// apply folds an event into the mirrored state. Logic thread only.
func (c *Client) apply(ev protocol.Event) {
	switch e := ev.(type) {
	case protocol.GameStateChanged:
		if e.State == protocol.GameStateLoginScreen {
			clear(c.containers)
			c.friends = nil
			c.hasFriends = false
			c.player = nil
			clear(c.channels)
		}
	case protocol.ItemContainerChanged:
		c.containers[e.Container] = append([]protocol.Item(nil), e.Items...)
	case protocol.FriendsChanged:
		c.friends = append([]protocol.Friend(nil), e.Friends...)
		c.hasFriends = true
	case protocol.FriendRenamed:
		for i := range c.friends {
			if c.friends[i].Name == e.PrevName {
				c.friends[i].PrevName = e.PrevName
				c.friends[i].Name = e.Name
			}
		}
	case protocol.FriendRemoved:
		out := c.friends[:0]
		for _, f := range c.friends {
			if f.Name != e.Name {
				out = append(out, f)
			}
		}
		c.friends = out
	case protocol.LocalPlayerChanged:
		c.player = &e
	case protocol.ChatChannelChanged:
		if e.Members == nil {
			delete(c.channels, e.Channel)
		} else {
			c.channels[e.Channel] = append([]protocol.ChannelMember(nil), e.Members...)
		}
	}
}

// mutatesState reports whether ev changes state owned by the logic thread.
func mutatesState(ev protocol.Event) bool {
	switch ev.(type) {
	case protocol.GameStateChanged, protocol.ItemContainerChanged,
		protocol.FriendsChanged, protocol.FriendRenamed, protocol.FriendRemoved,
		protocol.LocalPlayerChanged, protocol.ChatChannelChanged:
		return true
	}
	return false
}
