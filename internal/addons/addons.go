// Package addons installs every add-on into a host runtime.
package addons

import (
	"go.uber.org/zap"

	"molopl.dev/addons/internal/config"
	"molopl.dev/addons/internal/host"
	"molopl.dev/addons/internal/plugins/fishbarrel"
	"molopl.dev/addons/internal/plugins/friendsviewer"
	"molopl.dev/addons/internal/plugins/lastseen"
	"molopl.dev/addons/internal/plugins/lifesaving"
)

type Deps struct {
	Store    host.ConfigStore
	Notifier host.Notifier
	Items    host.ItemManager
	Logger   *zap.Logger
}

type Set struct {
	FishBarrel    *fishbarrel.Plugin
	LastSeen      *lastseen.Plugin
	LifeSaving    *lifesaving.Plugin
	FriendsViewer *friendsviewer.Plugin
}

// Install registers every add-on with rt. Call it before rt.Start.
func Install(rt *host.Runtime, cfg config.Config, deps Deps) *Set {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	items := deps.Items
	if items == nil {
		items = host.CatalogItems{}
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = NewNotifier(cfg.Notifications, logger)
	}

	client, thread := rt.Client(), rt.ClientThread()
	set := &Set{
		FishBarrel: fishbarrel.New(cfg.FishBarrel, client, thread, logger.Named(fishbarrel.Name)),
		LastSeen: lastseen.New(cfg.LastSeen, lastseen.NewDAO(deps.Store, logger.Named("last-seen-dao")),
			client, thread, logger.Named(lastseen.Name)),
		LifeSaving:    lifesaving.New(cfg.LifeSaving, items, notifier, client, thread, logger.Named(lifesaving.Name)),
		FriendsViewer: friendsviewer.New(cfg.FriendsViewer, client, thread, logger.Named(friendsviewer.Name)),
	}
	rt.Register(set.FishBarrel)
	rt.Register(set.LastSeen)
	rt.Register(set.LifeSaving)
	rt.Register(set.FriendsViewer)
	return set
}

// NewNotifier picks desktop or log notifications as configured.
func NewNotifier(cfg config.Notifications, logger *zap.Logger) host.Notifier {
	if cfg.Desktop {
		return host.DesktopNotifier{Title: cfg.Title, Logger: logger}
	}
	return host.LogNotifier{Logger: logger}
}
