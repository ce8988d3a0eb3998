package save

import (
	"strconv"

	"github.com/iancoleman/orderedmap"
)

// defaultBucketID receives inventory items whose bucket was never recorded.
const defaultBucketID = "1"

// Reconcile merges the model's editable fields back into the retained raw
// tree and returns it. The tree is mutated with targeted path overwrites,
// never rebuilt wholesale, so every key the model does not own passes
// through unmodified by construction. Two subtrees are the exception and
// are fully replaced, because the model covers them completely:
// Player.Pets and the Inventory lists under Player.ListInventories.
func Reconcile(m *SaveData) *RawDocument {
	doc := m.raw
	if doc == nil {
		doc = orderedmap.New()
		m.raw = doc
	}

	player := ensureObject(doc, "Player")
	player.Set("Name", m.PlayerName)
	player.Set("Level", clampMin(m.PlayerLevel, 1))

	amounts := ensureObject(player, "CurrencyAmounts")
	for _, code := range currencyCodes {
		amounts.Set(string(code), clampMin(m.Currencies[code], 0))
	}

	player.Set("Pets", reconcilePets(m.Pets))
	reconcileInventories(player, m.InventoryItems)

	if m.GameVersion != "" {
		ensureObject(doc, "GameInfo").Set("Version", m.GameVersion)
	}
	if m.SaveVersion != "" {
		doc.Set("Version", m.SaveVersion)
	}

	return doc
}

// reconcilePets rebuilds Player.Pets as a fresh list. PetItemID is always
// emitted; the optional fields only when present or non-default.
func reconcilePets(pets []PetData) []interface{} {
	list := make([]interface{}, 0, len(pets))
	for _, pet := range pets {
		entry := orderedmap.New()
		entry.Set("PetItemID", pet.PetItemID)
		if pet.CustomName != "" {
			entry.Set("CustomName", pet.CustomName)
		}
		if pet.LegacyName != "" {
			entry.Set("Name", pet.LegacyName)
		}
		if pet.FriendshipLevel != nil {
			entry.Set("FriendshipLevel", *pet.FriendshipLevel)
		}
		if pet.XP != nil {
			entry.Set("XP", *pet.XP)
		}
		if pet.IsFollowing {
			entry.Set("IsFollowing", true)
		}
		list = append(list, entry)
	}
	return list
}

// reconcileInventories rebuilds Player.ListInventories entirely from the
// model's item list, grouped by bucket. The first time a bucket is touched
// its non-Inventory sibling keys are copied forward from the original
// bucket, so per-bucket metadata survives the rebuild. Original buckets
// that end up with zero items are omitted from the output.
func reconcileInventories(player *RawDocument, items []InventoryItem) {
	original, _ := docObject(player, "ListInventories")

	rebuilt := orderedmap.New()
	for _, item := range items {
		bucketID := item.BucketID
		if bucketID == "" {
			bucketID = defaultBucketID
		}

		bucket, ok := docObject(rebuilt, bucketID)
		if !ok {
			bucket = orderedmap.New()
			if orig, found := docObject(original, bucketID); found {
				for _, key := range orig.Keys() {
					if key == "Inventory" {
						continue
					}
					if v, ok := orig.Get(key); ok {
						bucket.Set(key, v)
					}
				}
			}
			rebuilt.Set(bucketID, bucket)
		}

		group := ensureObject(bucket, "Inventory")
		entry := orderedmap.New()
		entry.Set("Amount", clampMin(item.Amount, 0))
		if item.State != "" {
			entry.Set("State", item.State)
		}
		group.Set(strconv.Itoa(item.ItemID), entry)
	}

	player.Set("ListInventories", rebuilt)
}

func clampMin(v, floor int) int {
	if v < floor {
		return floor
	}
	return v
}
