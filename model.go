package save

import (
	"fmt"
	"strconv"
)

// CurrencyCode is one of the fixed numeric keys inside
// Player.CurrencyAmounts. Codes the editor does not know about pass
// through the raw tree untouched.
type CurrencyCode string

const (
	CurrencyStarCoins  CurrencyCode = "80000000"
	CurrencyDreamlight CurrencyCode = "80300000"
	CurrencyDaisyCoins CurrencyCode = "80000009"
	CurrencyMist       CurrencyCode = "80000003"
	CurrencyPixelDust  CurrencyCode = "80200002"
)

// currencyCodes fixes the write-back order inside CurrencyAmounts.
var currencyCodes = []CurrencyCode{
	CurrencyStarCoins,
	CurrencyDreamlight,
	CurrencyDaisyCoins,
	CurrencyMist,
	CurrencyPixelDust,
}

// CurrencyName returns a human-readable label for a known currency code.
func CurrencyName(code CurrencyCode) string {
	switch code {
	case CurrencyStarCoins:
		return "Star Coins"
	case CurrencyDreamlight:
		return "Dreamlight"
	case CurrencyDaisyCoins:
		return "Daisy Coins"
	case CurrencyMist:
		return "Mist"
	case CurrencyPixelDust:
		return "Pixel Dust"
	default:
		return string(code)
	}
}

// InventoryItem is one entry of a player inventory bucket. Uniqueness of
// item id within a bucket is not enforced here; duplicates are legal raw
// JSON collisions resolved last-write-wins at reconciliation.
type InventoryItem struct {
	ItemID   int    `json:"item_id" jsonschema:"minimum=1,description=Catalog item id"`
	Amount   int    `json:"amount" jsonschema:"minimum=0,description=Quantity held"`
	State    string `json:"state,omitempty" jsonschema:"description=Opaque item state blob"`
	BucketID string `json:"inventory_bucket_id" jsonschema:"description=Inventory bucket the item lives in"`
}

// PetData is the fully-modeled per-pet record. PetItemID is the pet's
// identity; optional fields use pointers so zero values survive round trips.
type PetData struct {
	PetItemID       int    `json:"pet_item_id" jsonschema:"minimum=1,description=Pet item id (identity)"`
	LegacyName      string `json:"legacy_name,omitempty" jsonschema:"description=Legacy Name field"`
	CustomName      string `json:"custom_name,omitempty" jsonschema:"description=Player-assigned name"`
	FriendshipLevel *int   `json:"friendship_level,omitempty"`
	XP              *int   `json:"xp,omitempty"`
	IsFollowing     bool   `json:"is_following,omitempty"`
}

// SaveData is the structured, editable view projected from a RawDocument.
// It retains the raw tree it came from; every key the model does not own
// reappears unchanged after reconciliation.
type SaveData struct {
	PlayerName     string               `json:"player_name"`
	PlayerLevel    int                  `json:"player_level" jsonschema:"minimum=1"`
	Currencies     map[CurrencyCode]int `json:"currencies"`
	InventoryItems []InventoryItem      `json:"inventory_items"`
	Pets           []PetData            `json:"pets"`
	GameVersion    string               `json:"game_version,omitempty"`
	SaveVersion    string               `json:"save_version,omitempty"`

	// raw is the retained original tree; reconciliation mutates it in
	// place rather than rebuilding, so unmodeled keys carry through.
	raw *RawDocument
}

// Raw exposes the retained original document.
func (d *SaveData) Raw() *RawDocument {
	return d.raw
}

// Currency returns the amount for a known currency code.
func (d *SaveData) Currency(code CurrencyCode) int {
	return d.Currencies[code]
}

// SetCurrency records a currency amount. Values below zero clamp to zero on
// write-back.
func (d *SaveData) SetCurrency(code CurrencyCode, amount int) {
	if d.Currencies == nil {
		d.Currencies = make(map[CurrencyCode]int)
	}
	d.Currencies[code] = amount
}

// Project extracts the editable fields of a RawDocument into a SaveData,
// keeping a reference to the tree itself for everything unmodeled.
func Project(doc *RawDocument) *SaveData {
	player, _ := docObject(doc, "Player")

	name, ok := docString(player, "Name")
	if !ok {
		name = "Unknown"
	}
	level, ok := docInt(player, "Level")
	if !ok {
		level = 1
	}

	currencies := make(map[CurrencyCode]int, len(currencyCodes))
	amounts, _ := docObject(player, "CurrencyAmounts")
	for _, code := range currencyCodes {
		amt, _ := docInt(amounts, string(code))
		currencies[code] = amt
	}

	data := &SaveData{
		PlayerName:     name,
		PlayerLevel:    level,
		Currencies:     currencies,
		InventoryItems: projectInventories(player),
		Pets:           projectPets(player),
		raw:            doc,
	}

	if gameInfo, ok := docObject(doc, "GameInfo"); ok {
		if v, ok := gameInfo.Get("Version"); ok {
			data.GameVersion, _ = coerceString(v)
		}
	}
	if v, ok := doc.Get("Version"); ok {
		data.SaveVersion, _ = coerceString(v)
	}

	return data
}

// projectInventories flattens Player.ListInventories.<bucket>.Inventory
// into an ordered item list. Entries whose keys are not integers are
// skipped rather than failing the load.
func projectInventories(player *RawDocument) []InventoryItem {
	var items []InventoryItem
	inventories, ok := docObject(player, "ListInventories")
	if !ok {
		return items
	}

	for _, bucketID := range inventories.Keys() {
		bucket, ok := docObject(inventories, bucketID)
		if !ok {
			continue
		}
		group, ok := docObject(bucket, "Inventory")
		if !ok {
			continue
		}
		for _, itemKey := range group.Keys() {
			itemID, err := strconv.Atoi(itemKey)
			if err != nil {
				continue
			}
			entry, ok := docObject(group, itemKey)
			if !ok {
				continue
			}
			amount, ok := docInt(entry, "Amount")
			if !ok {
				amount = 1
			}
			state, _ := docString(entry, "State")
			items = append(items, InventoryItem{
				ItemID:   itemID,
				Amount:   amount,
				State:    state,
				BucketID: bucketID,
			})
		}
	}
	return items
}

// projectPets reads Player.Pets. Entries without a PetItemID are skipped,
// not fatal. XP falls back to the older FriendshipXP field name.
func projectPets(player *RawDocument) []PetData {
	var pets []PetData
	list, ok := docList(player, "Pets")
	if !ok {
		return pets
	}

	for _, raw := range list {
		entry, ok := asObject(raw)
		if !ok {
			continue
		}
		petItemID, ok := docInt(entry, "PetItemID")
		if !ok {
			continue
		}

		pet := PetData{PetItemID: petItemID}
		pet.LegacyName, _ = docString(entry, "Name")
		pet.CustomName, _ = docString(entry, "CustomName")
		if lvl, ok := docInt(entry, "FriendshipLevel"); ok {
			pet.FriendshipLevel = &lvl
		}
		if xp, ok := docInt(entry, "XP"); ok {
			pet.XP = &xp
		} else if xp, ok := docInt(entry, "FriendshipXP"); ok {
			pet.XP = &xp
		}
		if v, ok := entry.Get("IsFollowing"); ok {
			pet.IsFollowing, _ = v.(bool)
		}
		pets = append(pets, pet)
	}
	return pets
}

// Validate reports advisory issues with the model. Issues are warnings for
// a collaborator UI to surface; none of them reject the document.
func (d *SaveData) Validate() []string {
	var issues []string

	if d.PlayerLevel < 1 {
		issues = append(issues, fmt.Sprintf("player level %d is below 1 and will be raised on save", d.PlayerLevel))
	}
	for _, code := range currencyCodes {
		if d.Currencies[code] < 0 {
			issues = append(issues, fmt.Sprintf("%s amount %d is negative and will clamp to 0 on save", CurrencyName(code), d.Currencies[code]))
		}
	}
	for _, item := range d.InventoryItems {
		if item.ItemID <= 0 {
			issues = append(issues, fmt.Sprintf("inventory item id %d is not positive", item.ItemID))
		}
		if item.Amount < 0 {
			issues = append(issues, fmt.Sprintf("item %d amount %d is negative and will clamp to 0 on save", item.ItemID, item.Amount))
		}
	}

	seen := make(map[int]bool, len(d.Pets))
	for _, pet := range d.Pets {
		if seen[pet.PetItemID] {
			issues = append(issues, fmt.Sprintf("duplicate pet entry for PetItemID %d", pet.PetItemID))
		}
		seen[pet.PetItemID] = true
	}

	return issues
}
