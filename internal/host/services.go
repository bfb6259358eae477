package host

import "molopl.dev/addons/internal/catalogs"

// ConfigStore is the host's key/value string store.
type ConfigStore interface {
	Get(group, key string) (value string, ok bool, err error)
	Set(group, key, value string) error
	Unset(group, key string) error
}

// ItemManager answers item metadata queries.
type ItemManager interface {
	ItemName(id int) string
}

// CatalogItems serves item metadata from the static catalog.
type CatalogItems struct{}

func (CatalogItems) ItemName(id int) string {
	return catalogs.ItemName(id)
}
