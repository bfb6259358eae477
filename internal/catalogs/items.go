package catalogs

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Item ids as reported by the host client.
const (
	RawShrimps      = 317
	RawAnchovies    = 321
	RawSardine      = 327
	RawSalmon       = 331
	RawTrout        = 335
	RawCod          = 341
	RawHerring      = 345
	RawPike         = 349
	RawMackerel     = 353
	RawTuna         = 359
	RawBass         = 363
	RawSwordfish    = 371
	RawLobster      = 377
	RawShark        = 383
	RawLavaEel      = 2148
	RawKarambwan    = 3142
	Karambwanji     = 3150
	RawSlimyEel     = 3379
	RawCaveEel      = 5001
	RawMonkfish     = 7944
	RawRainbowFish  = 10138
	LeapingTrout    = 11328
	LeapingSalmon   = 11330
	LeapingSturgeon = 11332
	RawDarkCrab     = 11934
	SacredEel       = 13339
	RawAnglerfish   = 13439
	InfernalEel     = 21293
	Minnow          = 21356
	Bluegill        = 22826
	CommonTench     = 22829
	MottledEel      = 22832
	GreaterSiren    = 22835

	FishBarrel         = 25582
	OpenFishBarrel     = 25584
	FishSackBarrel     = 25585
	OpenFishSackBarrel = 25587

	RingOfLife      = 2570
	PhoenixNecklace = 11090
)

const (
	KindFish      = "FISH"
	KindContainer = "CONTAINER"
	KindJewellery = "JEWELLERY"
)

type ItemDef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
	// CatchName is the name used in "You catch ..." chat messages, empty when the
	// item is never announced that way.
	CatchName string `json:"catch_name,omitempty"`
}

var itemDefs = []ItemDef{
	{ID: RawShrimps, Name: "Raw shrimps", Kind: KindFish, CatchName: "shrimps"},
	{ID: RawSardine, Name: "Raw sardine", Kind: KindFish, CatchName: "sardine"},
	{ID: Karambwanji, Name: "Karambwanji", Kind: KindFish, CatchName: "Karambwanji"},
	{ID: RawHerring, Name: "Raw herring", Kind: KindFish, CatchName: "herring"},
	{ID: RawAnchovies, Name: "Raw anchovies", Kind: KindFish, CatchName: "anchovies"},
	{ID: RawMackerel, Name: "Raw mackerel", Kind: KindFish, CatchName: "mackerel"},
	{ID: RawTrout, Name: "Raw trout", Kind: KindFish, CatchName: "trout"},
	{ID: RawCod, Name: "Raw cod", Kind: KindFish, CatchName: "cod"},
	{ID: RawPike, Name: "Raw pike", Kind: KindFish, CatchName: "pike"},
	{ID: RawSlimyEel, Name: "Raw slimy eel", Kind: KindFish, CatchName: "slimy swamp eel"},
	{ID: RawSalmon, Name: "Raw salmon", Kind: KindFish, CatchName: "salmon"},
	{ID: RawTuna, Name: "Raw tuna", Kind: KindFish, CatchName: "tuna"},
	{ID: RawRainbowFish, Name: "Raw rainbow fish", Kind: KindFish, CatchName: "rainbow fish"},
	{ID: RawCaveEel, Name: "Raw cave eel", Kind: KindFish, CatchName: "cave eel"},
	{ID: RawLobster, Name: "Raw lobster", Kind: KindFish, CatchName: "lobster"},
	{ID: RawBass, Name: "Raw bass", Kind: KindFish, CatchName: "bass"},
	{ID: LeapingTrout, Name: "Leaping trout", Kind: KindFish, CatchName: "leaping trout"},
	{ID: RawSwordfish, Name: "Raw swordfish", Kind: KindFish, CatchName: "swordfish"},
	{ID: RawLavaEel, Name: "Raw lava eel", Kind: KindFish, CatchName: "lava eel"},
	{ID: LeapingSalmon, Name: "Leaping salmon", Kind: KindFish, CatchName: "leaping salmon"},
	{ID: RawMonkfish, Name: "Raw monkfish", Kind: KindFish, CatchName: "monkfish"},
	{ID: RawKarambwan, Name: "Raw karambwan", Kind: KindFish, CatchName: "Karambwan"},
	{ID: LeapingSturgeon, Name: "Leaping sturgeon", Kind: KindFish, CatchName: "leaping sturgeon"},
	{ID: RawShark, Name: "Raw shark", Kind: KindFish, CatchName: "shark"},
	{ID: InfernalEel, Name: "Infernal eel", Kind: KindFish, CatchName: "infernal eel"},
	{ID: Minnow, Name: "Minnow", Kind: KindFish, CatchName: "minnows"},
	{ID: RawAnglerfish, Name: "Raw anglerfish", Kind: KindFish, CatchName: "anglerfish"},
	{ID: RawDarkCrab, Name: "Raw dark crab", Kind: KindFish, CatchName: "dark crab"},
	{ID: SacredEel, Name: "Sacred eel", Kind: KindFish, CatchName: "sacred eel"},

	// Molch island cormorant catches are never announced by name.
	{ID: Bluegill, Name: "Bluegill", Kind: KindFish},
	{ID: CommonTench, Name: "Common tench", Kind: KindFish},
	{ID: MottledEel, Name: "Mottled eel", Kind: KindFish},
	{ID: GreaterSiren, Name: "Greater siren", Kind: KindFish},

	{ID: FishBarrel, Name: "Fish barrel", Kind: KindContainer},
	{ID: OpenFishBarrel, Name: "Open fish barrel", Kind: KindContainer},
	{ID: FishSackBarrel, Name: "Fish sack barrel", Kind: KindContainer},
	{ID: OpenFishSackBarrel, Name: "Open fish sack barrel", Kind: KindContainer},

	{ID: RingOfLife, Name: "Ring of life", Kind: KindJewellery},
	{ID: PhoenixNecklace, Name: "Phoenix necklace", Kind: KindJewellery},
}

// BarrelIDs holds every fish barrel variant, open or closed.
var BarrelIDs = []int{FishBarrel, OpenFishBarrel, FishSackBarrel, OpenFishSackBarrel}

// OpenBarrelIDs holds the variants that accept fish while fishing.
var OpenBarrelIDs = []int{OpenFishBarrel, OpenFishSackBarrel}

var (
	byID        map[int]ItemDef
	byCatchName map[string]int
	fishIDs     map[int]struct{}
	fishDefs    []ItemDef
)

func init() {
	byID = make(map[int]ItemDef, len(itemDefs))
	byCatchName = make(map[string]int)
	fishIDs = make(map[int]struct{})
	for _, d := range itemDefs {
		byID[d.ID] = d
		if d.CatchName != "" {
			byCatchName[d.CatchName] = d.ID
		}
		if d.Kind == KindFish {
			fishIDs[d.ID] = struct{}{}
			fishDefs = append(fishDefs, d)
		}
	}
	sort.Slice(fishDefs, func(i, j int) bool { return fishDefs[i].Name < fishDefs[j].Name })
}

func Item(id int) (ItemDef, bool) {
	d, ok := byID[id]
	return d, ok
}

// ItemName returns the display name of id, or "" for unknown items.
func ItemName(id int) string {
	return byID[id].Name
}

// FishByCatchName maps the fish name used in catch messages to its item id.
// The lookup is exact and case sensitive.
func FishByCatchName(name string) (int, bool) {
	id, ok := byCatchName[name]
	return id, ok
}

// IsFish reports whether id is a fish that can end up in a barrel.
func IsFish(id int) bool {
	_, ok := fishIDs[id]
	return ok
}

func IsBarrel(id int) bool {
	for _, b := range BarrelIDs {
		if b == id {
			return true
		}
	}
	return false
}

// ResolveFish maps a display name as printed by the host UI to a fish item. The
// UI wraps long lines and occasionally misspells names, so the closest catalog
// name within a length dependent edit distance wins.
func ResolveFish(name string) (ItemDef, bool) {
	want := strings.ToLower(strings.Join(strings.Fields(name), " "))
	if want == "" {
		return ItemDef{}, false
	}
	bestDist := -1
	var best ItemDef
	for _, d := range fishDefs {
		cand := strings.ToLower(d.Name)
		dist := levenshtein.ComputeDistance(want, cand)
		if dist > distanceLimit(len(cand)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			best = d
		}
	}
	return best, bestDist >= 0
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
