// Package testing provides test utilities for dreamsave.
package testing

import (
	save "github.com/zoobzio/dreamsave"
)

// TestKey returns a valid 32-byte AES key for testing.
func TestKey() []byte {
	return []byte("32-byte-key-for-aes-256-encrypt!")
}

// TestHexKey returns TestKey rendered as a hex string.
func TestHexKey() string {
	return save.EncodeKey(TestKey())
}

// MinimalProfile is a compact save document touching every modeled field.
// It is authored in the exact shape reconciliation emits, so an untouched
// load-save cycle reproduces it byte for byte.
const MinimalProfile = `{"Version":"12","GameInfo":{"Version":"1.9.0"},"Player":{"Name":"Ava","Level":5,` +
	`"CurrencyAmounts":{"80000000":100,"80300000":250,"80000009":0,"80000003":7,"80200002":3},` +
	`"Pets":[{"PetItemID":4001,"CustomName":"Waffles","FriendshipLevel":3,"XP":120}],` +
	`"ListInventories":{"1":{"Inventory":{"100":{"Amount":2},"200":{"Amount":1,"State":"Worn"}}}}}}`

// UnmodeledProfile carries keys the editor does not model, for round-trip
// pass-through assertions. Like MinimalProfile it is authored in emission
// shape: all five currency codes present, string versions.
const UnmodeledProfile = `{"Player":{"Name":"Ava","Level":5,` +
	`"CurrencyAmounts":{"80000000":100,"99999999":42,"80300000":0,"80000009":0,"80000003":0,"80200002":0},` +
	`"Pets":[],"ListInventories":{},` +
	`"UnknownBlock":{"Nested":{"Deep":true}}},` +
	`"Telemetry":{"Sessions":9},"GameInfo":{"Version":"1.9.0"},"Version":"3"}`

// TestEncryptor returns an AES-ECB encryptor configured with TestKey.
func TestEncryptor() save.Encryptor {
	enc, err := save.AESECB(TestKey())
	if err != nil {
		panic(err)
	}
	return enc
}
