package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	FishBarrel    FishBarrel    `yaml:"fish_barrel"`
	LastSeen      LastSeen      `yaml:"last_seen"`
	LifeSaving    LifeSaving    `yaml:"life_saving"`
	FriendsViewer FriendsViewer `yaml:"friends_viewer"`
	Notifications Notifications `yaml:"notifications"`
	Journal       Journal       `yaml:"journal"`
}

type FishBarrel struct {
	Capacity int    `yaml:"capacity"`
	Widget   Widget `yaml:"widget"`
}

// Widget describes how the host renders the barrel contents dialog.
type Widget struct {
	EmptyMessage  string `yaml:"empty_message"`
	ListingPrefix string `yaml:"listing_prefix"`
	LineBreak     string `yaml:"line_break"`
	// A page ending with any of these was cut off by line wrapping and
	// continues on the next page.
	IncompleteSuffixes []string `yaml:"incomplete_suffixes"`
}

type LastSeen struct {
	PersistEveryTicks int `yaml:"persist_every_ticks"`
}

type LifeSaving struct {
	RingOfLifeInfobox           bool `yaml:"ring_of_life_infobox"`
	RingOfLifeNotification      bool `yaml:"ring_of_life_notification"`
	PhoenixNecklaceInfobox      bool `yaml:"phoenix_necklace_infobox"`
	PhoenixNecklaceNotification bool `yaml:"phoenix_necklace_notification"`
}

// FriendsViewer controls the online player lists. MaxPlayers caps each list's
// panel; the full list is still kept.
type FriendsViewer struct {
	ShowFriends      bool `yaml:"show_friends"`
	ShowChatChannel  bool `yaml:"show_chat_channel"`
	ShowYourClan     bool `yaml:"show_your_clan"`
	ShowGuestClan    bool `yaml:"show_guest_clan"`
	MaxPlayers       int  `yaml:"max_players"`
	UpdateEveryTicks int  `yaml:"update_every_ticks"`
}

type Notifications struct {
	Desktop bool   `yaml:"desktop"`
	Title   string `yaml:"title"`
}

// Journal locates recorded sessions. Dir is the default replay source.
type Journal struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}

func Defaults() Config {
	return Config{
		FishBarrel: FishBarrel{
			Capacity: 28,
			Widget: Widget{
				EmptyMessage:       "The barrel is empty.",
				ListingPrefix:      "The barrel contains:",
				LineBreak:          "<br>",
				IncompleteSuffixes: []string{"Raw", ","},
			},
		},
		LastSeen: LastSeen{PersistEveryTicks: 100},
		LifeSaving: LifeSaving{
			RingOfLifeInfobox:           true,
			RingOfLifeNotification:      true,
			PhoenixNecklaceInfobox:      true,
			PhoenixNecklaceNotification: true,
		},
		FriendsViewer: FriendsViewer{
			ShowFriends:      true,
			ShowChatChannel:  true,
			ShowYourClan:     true,
			ShowGuestClan:    true,
			MaxPlayers:       10,
			UpdateEveryTicks: 5,
		},
		Notifications: Notifications{Desktop: false, Title: "Add-ons"},
		Journal:       Journal{Prefix: "events"},
	}
}

// Load reads a yaml config on top of Defaults. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Normalize() {
	w := &c.FishBarrel.Widget
	w.EmptyMessage = strings.TrimSpace(w.EmptyMessage)
	w.ListingPrefix = strings.TrimSpace(w.ListingPrefix)
	suffixes := w.IncompleteSuffixes[:0]
	for _, s := range w.IncompleteSuffixes {
		if s = strings.TrimSpace(s); s != "" {
			suffixes = append(suffixes, s)
		}
	}
	w.IncompleteSuffixes = suffixes
	if strings.TrimSpace(c.Journal.Prefix) == "" {
		c.Journal.Prefix = "events"
	}
}

func (c Config) Validate() error {
	if c.FishBarrel.Capacity <= 0 {
		return fmt.Errorf("fish_barrel.capacity must be positive, got %d", c.FishBarrel.Capacity)
	}
	if c.FishBarrel.Widget.EmptyMessage == "" {
		return fmt.Errorf("fish_barrel.widget.empty_message is required")
	}
	if c.FishBarrel.Widget.ListingPrefix == "" {
		return fmt.Errorf("fish_barrel.widget.listing_prefix is required")
	}
	if c.FishBarrel.Widget.LineBreak == "" {
		return fmt.Errorf("fish_barrel.widget.line_break is required")
	}
	if c.LastSeen.PersistEveryTicks <= 0 {
		return fmt.Errorf("last_seen.persist_every_ticks must be positive, got %d", c.LastSeen.PersistEveryTicks)
	}
	if c.FriendsViewer.MaxPlayers <= 0 {
		return fmt.Errorf("friends_viewer.max_players must be positive, got %d", c.FriendsViewer.MaxPlayers)
	}
	if c.FriendsViewer.UpdateEveryTicks <= 0 {
		return fmt.Errorf("friends_viewer.update_every_ticks must be positive, got %d", c.FriendsViewer.UpdateEveryTicks)
	}
	return nil
}
