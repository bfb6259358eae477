package lifesaving

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"molopl.dev/addons/internal/catalogs"
	"molopl.dev/addons/internal/config"
	"molopl.dev/addons/internal/host"
	"molopl.dev/addons/internal/protocol"
)

const (
	Name        = "life-saving-jewellery"
	ConfigGroup = "lifeSavingJewellery"
)

type jewellery struct {
	itemID      int
	slot        int
	usedMessage string
	infoboxKey  string
	notifyKey   string
}

var tracked = []jewellery{
	{
		itemID:      catalogs.RingOfLife,
		slot:        protocol.SlotRing,
		usedMessage: "Your Ring of Life saves you and is destroyed in the process.",
		infoboxKey:  "ringOfLifeInfobox",
		notifyKey:   "ringOfLifeNotification",
	},
	{
		itemID:      catalogs.PhoenixNecklace,
		slot:        protocol.SlotAmulet,
		usedMessage: "Your phoenix necklace heals you, but is destroyed in the process.",
		infoboxKey:  "phoenixNecklaceInfobox",
		notifyKey:   "phoenixNecklaceNotification",
	},
}

// Infobox marks a worn life-saving item.
type Infobox struct {
	ItemID int
	Name   string
}

type Containers interface {
	ItemContainer(id protocol.ContainerID) ([]protocol.Item, bool)
}

type Scheduler interface {
	InvokeLater(fn func())
}

type Plugin struct {
	logger     *zap.Logger
	items      host.ItemManager
	notifier   host.Notifier
	containers Containers
	scheduler  Scheduler

	// Event thread only.
	infobox map[int]bool
	notify  map[int]bool

	// Updated from both threads.
	mu     sync.Mutex
	active map[int]Infobox
}

func New(cfg config.LifeSaving, items host.ItemManager, notifier host.Notifier, containers Containers, scheduler Scheduler, logger *zap.Logger) *Plugin {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Plugin{
		logger:     logger,
		items:      items,
		notifier:   notifier,
		containers: containers,
		scheduler:  scheduler,
		infobox: map[int]bool{
			catalogs.RingOfLife:      cfg.RingOfLifeInfobox,
			catalogs.PhoenixNecklace: cfg.PhoenixNecklaceInfobox,
		},
		notify: map[int]bool{
			catalogs.RingOfLife:      cfg.RingOfLifeNotification,
			catalogs.PhoenixNecklace: cfg.PhoenixNecklaceNotification,
		},
		active: map[int]Infobox{},
	}
}

func (p *Plugin) Name() string { return Name }

func (p *Plugin) Subscribe(bus *host.Bus) {
	host.On(bus, p.onChatMessage)
	host.On(bus, p.onItemContainerChanged)
	host.On(bus, p.onConfigChanged)
}

func (p *Plugin) StartUp() error { return nil }

func (p *Plugin) ShutDown() {
	p.mu.Lock()
	clear(p.active)
	p.mu.Unlock()
}

// Infoboxes returns the active infoboxes, ring first.
func (p *Plugin) Infoboxes() []Infobox {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []Infobox
	for _, j := range tracked {
		if box, ok := p.active[j.itemID]; ok {
			out = append(out, box)
		}
	}
	return out
}

func (p *Plugin) onChatMessage(e protocol.ChatMessage) {
	if e.ChatType != protocol.ChatGameMessage {
		return
	}
	for _, j := range tracked {
		if p.notify[j.itemID] && strings.Contains(e.Message, j.usedMessage) {
			p.notifier.Notify(fmt.Sprintf("Your %s is destroyed!", p.items.ItemName(j.itemID)))
		}
	}
}

func (p *Plugin) onItemContainerChanged(e protocol.ItemContainerChanged) {
	if e.Container != protocol.ContainerEquipment {
		return
	}
	p.update(p.enabledInfoboxes(), e.Items)
}

func (p *Plugin) onConfigChanged(e protocol.ConfigChanged) {
	if e.Group != ConfigGroup {
		return
	}
	for _, j := range tracked {
		var dst map[int]bool
		switch e.Key {
		case j.infoboxKey:
			dst = p.infobox
		case j.notifyKey:
			dst = p.notify
		default:
			continue
		}
		on, err := strconv.ParseBool(e.Value)
		if err != nil {
			p.logger.Warn("invalid config value", zap.String("key", e.Key), zap.String("value", e.Value))
			return
		}
		dst[j.itemID] = on
	}

	enabled := p.enabledInfoboxes()
	p.mu.Lock()
	for id := range p.active {
		if !enabled[id] {
			delete(p.active, id)
		}
	}
	p.mu.Unlock()

	p.scheduler.InvokeLater(func() {
		items, ok := p.containers.ItemContainer(protocol.ContainerEquipment)
		if !ok {
			return
		}
		p.update(enabled, items)
	})
}

func (p *Plugin) enabledInfoboxes() map[int]bool {
	out := make(map[int]bool, len(p.infobox))
	for id, on := range p.infobox {
		out[id] = on
	}
	return out
}

// update re-evaluates the infobox of every enabled item against the worn
// equipment. Disabled items are left alone.
func (p *Plugin) update(enabled map[int]bool, worn []protocol.Item) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, j := range tracked {
		if !enabled[j.itemID] {
			continue
		}
		delete(p.active, j.itemID)
		if j.slot >= len(worn) || worn[j.slot].ID != j.itemID {
			continue
		}
		p.active[j.itemID] = Infobox{ItemID: j.itemID, Name: p.items.ItemName(j.itemID)}
	}
}
