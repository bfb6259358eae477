package fishbarrel

import (
	"sync/atomic"

	"go.uber.org/zap"

	"molopl.dev/addons/internal/catalogs"
	"molopl.dev/addons/internal/config"
	"molopl.dev/addons/internal/host"
	"molopl.dev/addons/internal/protocol"
)

const Name = "fish-barrel"

const bankFullMessage = "Your bank could not hold your fish."

// Containers reads host containers. It is only called on the logic thread.
type Containers interface {
	ItemContainer(id protocol.ContainerID) ([]protocol.Item, bool)
}

// Scheduler runs callbacks on the host logic thread.
type Scheduler interface {
	InvokeLater(fn func())
}

type itemSet map[int]struct{}

func (s itemSet) hasAny(ids []int) bool {
	for _, id := range ids {
		if _, ok := s[id]; ok {
			return true
		}
	}
	return false
}

// Plugin feeds host events into the barrel estimate. Handlers run on the event
// thread; the container snapshots are replaced from the logic thread.
type Plugin struct {
	logger     *zap.Logger
	containers Containers
	scheduler  Scheduler

	barrel    *Barrel
	estimator *Estimator
	parser    *WidgetParser

	inventory atomic.Pointer[itemSet]
	equipment atomic.Pointer[itemSet]

	// Quantities of the last inventory payload, nil until a baseline exists.
	lastInventory map[int]int
}

func New(cfg config.FishBarrel, containers Containers, scheduler Scheduler, logger *zap.Logger) *Plugin {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := NewBarrel(cfg.Capacity)
	p := &Plugin{
		logger:     logger,
		containers: containers,
		scheduler:  scheduler,
		barrel:     b,
		estimator:  NewEstimator(b),
		parser:     NewWidgetParser(cfg.Widget),
	}
	p.clearSnapshots()
	return p
}

func (p *Plugin) Name() string { return Name }

func (p *Plugin) Barrel() *Barrel { return p.barrel }

// Display is the overlay text for the barrel.
func (p *Plugin) Display() string { return p.barrel.Display() }

// Contents returns the fish listed by the last barrel check.
func (p *Plugin) Contents() []FishStack { return p.parser.Contents() }

func (p *Plugin) Subscribe(bus *host.Bus) {
	host.On(bus, p.onGameStateChanged)
	host.On(bus, p.onChatMessage)
	host.On(bus, p.onItemContainerChanged)
	host.On(bus, p.onFakeXPDrop)
	host.On(bus, p.onGameTick)
	host.On(bus, p.onMenuOptionClicked)
	host.On(bus, p.onDialogText)
}

func (p *Plugin) StartUp() error {
	p.barrel.Reset()
	return nil
}

func (p *Plugin) ShutDown() {
	p.logger.Debug("fish barrel stopped", zap.String("barrel", p.Display()))
}

func (p *Plugin) onGameStateChanged(e protocol.GameStateChanged) {
	switch e.State {
	case protocol.GameStateLoggedIn:
		p.refresh(protocol.ContainerInventory, &p.inventory)
		p.refresh(protocol.ContainerEquipment, &p.equipment)
	case protocol.GameStateLoginScreen:
		p.barrel.Reset()
		p.parser.Reset()
		p.lastInventory = nil
		p.clearSnapshots()
	}
}

func (p *Plugin) onChatMessage(e protocol.ChatMessage) {
	switch e.ChatType {
	case protocol.ChatGameMessage:
		if e.Message == bankFullMessage && p.holdsAny(catalogs.BarrelIDs) {
			p.estimator.RecordContainerFullMessage()
			p.logger.Debug("barrel contents lost track")
		}
	case protocol.ChatSpam:
		if p.holdsAny(catalogs.OpenBarrelIDs) {
			p.estimator.RecordCatchSignal(e.Message)
		}
	}
}

func (p *Plugin) onItemContainerChanged(e protocol.ItemContainerChanged) {
	switch e.Container {
	case protocol.ContainerInventory:
		counts := quantities(e.Items)
		if p.lastInventory != nil {
			for id, n := range counts {
				for i := p.lastInventory[id]; i < n; i++ {
					p.estimator.RecordNewItem(id)
				}
			}
		}
		p.lastInventory = counts
		p.refresh(protocol.ContainerInventory, &p.inventory)
	case protocol.ContainerEquipment:
		p.refresh(protocol.ContainerEquipment, &p.equipment)
	}
}

func (p *Plugin) onFakeXPDrop(e protocol.FakeXPDrop) {
	if e.Skill == protocol.SkillCooking {
		p.estimator.RecordAuxiliaryProduction()
	}
}

func (p *Plugin) onGameTick(protocol.GameTick) {
	before := p.barrel.Count()
	if after := p.estimator.ResolveTick(); after != before {
		p.logger.Debug("barrel estimate changed",
			zap.String("from", before.String()),
			zap.String("to", after.String()))
	}
}

func (p *Plugin) onMenuOptionClicked(e protocol.MenuOptionClicked) {
	if e.Option == "Empty" && catalogs.IsBarrel(e.ItemID) {
		p.estimator.RecordContainerEmptiedAction()
	}
}

func (p *Plugin) onDialogText(e protocol.DialogText) {
	switch p.parser.Parse(e.Text) {
	case Valid:
		p.barrel.Set(p.parser.FishCount())
		p.logger.Debug("barrel checked", zap.Int("fish", p.parser.FishCount()))
	case Incomplete:
		p.logger.Debug("barrel listing continues", zap.Int("so_far", p.parser.FishCount()))
	}
}

// refresh replaces a membership snapshot from the logic thread. A container the
// host has not loaded leaves the snapshot as it is.
func (p *Plugin) refresh(id protocol.ContainerID, dst *atomic.Pointer[itemSet]) {
	p.scheduler.InvokeLater(func() {
		items, ok := p.containers.ItemContainer(id)
		if !ok {
			return
		}
		set := itemSet{}
		for _, it := range items {
			set[it.ID] = struct{}{}
		}
		dst.Store(&set)
	})
}

func (p *Plugin) clearSnapshots() {
	p.inventory.Store(&itemSet{})
	p.equipment.Store(&itemSet{})
}

func (p *Plugin) holdsAny(ids []int) bool {
	return p.inventory.Load().hasAny(ids) || p.equipment.Load().hasAny(ids)
}

func quantities(items []protocol.Item) map[int]int {
	out := make(map[int]int, len(items))
	for _, it := range items {
		if it.ID < 0 || it.Quantity <= 0 {
			continue
		}
		out[it.ID] += it.Quantity
	}
	return out
}
