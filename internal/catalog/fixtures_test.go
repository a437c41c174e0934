package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
)

const singleFaced = `{
  "id": "0000579f-7b35-4ed3-b44c-db2a538066fe",
  "oracle_id": "44623693-51d6-49ad-8cd7-140505caf02f",
  "name": "Fury Sliver",
  "layout": "normal",
  "image_status": "highres_scan",
  "image_uris": {
    "small": "https://cards.scryfall.io/small/front/0/0/0000579f-7b35-4ed3-b44c-db2a538066fe.jpg?1562894979",
    "png": "https://cards.scryfall.io/png/front/0/0/0000579f-7b35-4ed3-b44c-db2a538066fe.png?1562894979"
  },
  "mana_cost": "{5}{R}",
  "type_line": "Creature — Sliver",
  "oracle_text": "All Sliver creatures have double strike.",
  "colors": ["R"],
  "flavor_text": "\"A rift opened, and our arrows were abruptly stilled.\"",
  "set_name": "Time Spiral",
  "released_at": "2006-10-06",
  "rarity": "uncommon",
  "prices": {"usd": "0.10", "eur": "0.04"}
}`

const modalDoubleFaced = `{
  "id": "67f4c93b-080c-4196-b095-6a120a221988",
  "oracle_id": "562d71b9-1646-474e-9293-55da6947a758",
  "name": "Agadeem's Awakening // Agadeem, the Undercrypt",
  "layout": "modal_dfc",
  "image_status": "highres_scan",
  "set_name": "Zendikar Rising",
  "released_at": "2020-09-25",
  "rarity": "mythic",
  "colors": ["B"],
  "prices": {"eur": "18.27"},
  "card_faces": [
    {
      "name": "Agadeem's Awakening",
      "mana_cost": "{X}{B}{B}{B}",
      "type_line": "Sorcery",
      "oracle_text": "Return from your graveyard to the battlefield any number of target creature cards that each have a different mana value X or less.",
      "colors": ["B"],
      "flavor_text": "\"Now is the death-hour, just before dawn.\"",
      "image_uris": {"png": "https://cards.scryfall.io/png/front/6/7/67f4c93b-080c-4196-b095-6a120a221988.png?1604195226"}
    },
    {
      "name": "Agadeem, the Undercrypt",
      "mana_cost": "",
      "type_line": "Land",
      "oracle_text": "As Agadeem, the Undercrypt enters the battlefield, you may pay 3 life.\n{T}: Add {B}.",
      "colors": [],
      "image_uris": {"png": "https://cards.scryfall.io/png/back/6/7/67f4c93b-080c-4196-b095-6a120a221988.png?1604195226"}
    }
  ]
}`

const splitCard = `{
  "id": "01ce2601-ae94-4ab5-bbd2-65f47281ca28",
  "oracle_id": "41841bbf-1c51-494b-b299-c997cce88e44",
  "name": "Turn // Burn",
  "layout": "split",
  "image_status": "lowres",
  "image_uris": {"png": "https://cards.scryfall.io/png/front/0/1/01ce2601-ae94-4ab5-bbd2-65f47281ca28.png?1544060145"},
  "colors": ["R", "U"],
  "set_name": "GRN Guild Kit",
  "released_at": "2018-11-02",
  "rarity": "uncommon",
  "prices": {"eur": "0.16"},
  "card_faces": [
    {"name": "Turn", "mana_cost": "{2}{U}", "type_line": "Instant", "oracle_text": "Until end of turn, target creature loses all abilities."},
    {"name": "Burn", "mana_cost": "{1}{R}", "type_line": "Instant", "oracle_text": "Burn deals 2 damage to any target."}
  ]
}`

const missingImage = `{
  "id": "0131ba2a-9cea-4c4b-b15e-5f527be565e3",
  "oracle_id": "ff2580fa-5f8d-4c06-9930-84c66f4a09f0",
  "name": "Memory Lapse // Memory Lapse",
  "layout": "art_series",
  "image_status": "missing",
  "image_uris": {"png": "https://cards.scryfall.io/png/front/0/1/0131ba2a.png"},
  "set_name": "Strixhaven Art Series",
  "released_at": "2021-04-23",
  "rarity": "common",
  "prices": {"eur": null},
  "card_faces": [
    {"name": "Memory Lapse", "type_line": "Card", "image_uris": {"png": "https://example.invalid/front.png"}},
    {"name": "Memory Lapse", "type_line": "Card"}
  ]
}`

const reversible = `{
  "id": "5d1a2b3c-0000-4000-8000-000000000001",
  "name": "Zndrsplt // Zndrsplt",
  "layout": "reversible_card",
  "set_name": "Secret Lair Drop",
  "released_at": "2022-01-01",
  "rarity": "rare",
  "prices": {"eur": "1.00"},
  "card_faces": [
    {"oracle_id": "aaaa0000-0000-4000-8000-000000000001", "name": "Zndrsplt", "colors": ["U"], "image_uris": {"png": "https://example.invalid/a.png"}},
    {"oracle_id": "aaaa0000-0000-4000-8000-000000000001", "name": "Zndrsplt", "colors": ["U"], "image_uris": {"png": "https://example.invalid/b.png"}}
  ]
}`

// mixedColors has per-face colors on the second face only.
const mixedColors = `{
  "id": "6e000000-0000-4000-8000-000000000002",
  "oracle_id": "bbbb0000-0000-4000-8000-000000000002",
  "name": "Front // Back",
  "layout": "transform",
  "colors": ["G"],
  "set_name": "Test Set",
  "released_at": "2023-02-03",
  "rarity": "common",
  "prices": {"eur": "0.25"},
  "card_faces": [
    {"name": "Front", "image_uris": {"png": "https://example.invalid/f.png"}},
    {"name": "Back", "colors": ["B"], "image_uris": {"png": "https://example.invalid/b.png"}}
  ]
}`

func mustRecord(s string) Record {
	rec, err := DecodeRecord(json.RawMessage(s))
	if err != nil {
		panic(err)
	}
	return rec
}

// syntheticCatalog builds a JSON array of n distinct single-faced records.
func syntheticCatalog(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf(`{"id":"print-%03d","oracle_id":"oracle-%03d","name":"Card %d","set_name":"Set","released_at":"2020-01-01","rarity":"common","prices":{"eur":null},"colors":[]}`, i, i, i)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
