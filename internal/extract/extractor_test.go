package extract

import (
	"testing"

	"github.com/starchart-tools/wayfarer/internal/model"
	"github.com/starchart-tools/wayfarer/internal/savefile"
)

// record builds a raw save record map for tests.
func record(typ, name string, galaxyIdx, x, y, z, system, planet int, extra savefile.Map) savefile.Map {
	m := savefile.Map{
		"Type": savefile.Scalar{Value: typ},
		"Name": savefile.Scalar{Value: name},
		"Address": savefile.Map{
			"Galaxy": savefile.Scalar{Value: float64(galaxyIdx)},
			"VoxelX": savefile.Scalar{Value: float64(x)},
			"VoxelY": savefile.Scalar{Value: float64(y)},
			"VoxelZ": savefile.Scalar{Value: float64(z)},
			"System": savefile.Scalar{Value: float64(system)},
			"Planet": savefile.Scalar{Value: float64(planet)},
		},
		"Discoverer": savefile.Scalar{Value: "traveller"},
		"Timestamp":  savefile.Scalar{Value: float64(1756000000)},
	}
	for k, v := range extra {
		m[k] = v
	}
	return m
}

func document(records ...savefile.Node) savefile.Node {
	return savefile.Map{
		"Version":  savefile.Scalar{Value: float64(4155)},
		"GameMode": savefile.Scalar{Value: "normal"},
		"DiscoveryManager": savefile.Map{
			"Records": savefile.List(records),
		},
	}
}

// TestMeta tests version and mode extraction.
func TestMeta(t *testing.T) {
	t.Parallel()

	version, mode := Meta(document())
	if version != 4155 {
		t.Errorf("expected version 4155, got %d", version)
	}
	if mode != model.ModeNormal {
		t.Errorf("expected normal mode, got %s", mode)
	}

	version, mode = Meta(savefile.Map{})
	if version != 0 || mode != model.ModeNormal {
		t.Errorf("expected zero version and normal mode for empty doc, got %d/%s", version, mode)
	}
}

// TestExtract tests discovery tree assembly.
func TestExtract(t *testing.T) {
	t.Parallel()

	t.Run("nests planets and moons under their system", func(t *testing.T) {
		t.Parallel()

		doc := document(
			record("SolarSystem", "Hyadum Reach", 0, 0, 0, -1000, 1, 0, nil),
			record("Planet", "Verdant Prime", 0, 0, 0, -1000, 1, 1, nil),
			record("Planet", "Ashfall", 0, 0, 0, -1000, 1, 2, nil),
			savefile.Map{
				"Type": savefile.Scalar{Value: "Moon"},
				"Name": savefile.Scalar{Value: "Verdant Minor"},
				"Address": savefile.Map{
					"Galaxy": savefile.Scalar{Value: float64(0)},
					"VoxelZ": savefile.Scalar{Value: float64(-1000)},
					"System": savefile.Scalar{Value: float64(1)},
					"Planet": savefile.Scalar{Value: float64(3)},
				},
				"Parent": savefile.Scalar{Value: float64(1)},
			},
		)

		res := New().Extract(doc)
		if res.Dropped != 0 {
			t.Errorf("expected no drops, got %d", res.Dropped)
		}
		if res.Extracted != 4 {
			t.Errorf("expected 4 extracted, got %d", res.Extracted)
		}
		if len(res.Records) != 1 {
			t.Fatalf("expected 1 top-level record, got %d", len(res.Records))
		}

		sys := res.Records[0]
		if sys.Kind != model.KindSystem || sys.Name != "Hyadum Reach" {
			t.Errorf("unexpected system record: %+v", sys)
		}
		if sys.Galaxy != "Elyndra" {
			t.Errorf("expected galaxy name Elyndra, got %s", sys.Galaxy)
		}
		if len(sys.Children) != 2 {
			t.Fatalf("expected 2 planets, got %d", len(sys.Children))
		}
		first := sys.Children[0]
		if first.Name != "Verdant Prime" || len(first.Children) != 1 {
			t.Fatalf("expected first planet with 1 moon, got %+v", first)
		}
		if first.Children[0].Kind != model.KindMoon || first.Children[0].Name != "Verdant Minor" {
			t.Errorf("unexpected moon: %+v", first.Children[0])
		}
		if len(sys.Children[1].Children) != 0 {
			t.Errorf("expected second planet without children")
		}
	})

	t.Run("system attributes get vocabulary and defaults", func(t *testing.T) {
		t.Parallel()

		doc := document(record("SolarSystem", "Hyadum Reach", 0, 0, 0, -1000, 1, 0, savefile.Map{
			"Attributes": savefile.Map{
				"StarClass":    savefile.Scalar{Value: "F5p"},
				"Economy":      savefile.Scalar{Value: float64(3)},
				"EconomyLevel": savefile.Scalar{Value: float64(2)},
				"Conflict":     savefile.Scalar{Value: float64(1)},
			},
		}))

		sys := New().Extract(doc).Records[0]
		if sys.Attributes["star_class"] != "F5p" {
			t.Errorf("unexpected star class %q", sys.Attributes["star_class"])
		}
		if sys.Attributes["economy"] != "Manufacturing" {
			t.Errorf("unexpected economy %q", sys.Attributes["economy"])
		}
		if sys.Attributes["economy_level"] != "Balanced" {
			t.Errorf("unexpected economy level %q", sys.Attributes["economy_level"])
		}
		if sys.Attributes["conflict"] != "Low" {
			t.Errorf("unexpected conflict %q", sys.Attributes["conflict"])
		}
	})

	t.Run("planet defaults when survey data is missing", func(t *testing.T) {
		t.Parallel()

		doc := document(record("Planet", "Lonely World", 0, 5, 0, 5, 2, 1, nil))
		res := New().Extract(doc)

		// No matching system in the save: the planet surfaces top-level.
		if len(res.Records) != 1 {
			t.Fatalf("expected orphan planet at top level, got %d records", len(res.Records))
		}
		p := res.Records[0]
		if p.Attributes["sentinels"] != "None" {
			t.Errorf("expected sentinel default None, got %q", p.Attributes["sentinels"])
		}
		if p.Attributes["flora"] != "Unknown" || p.Attributes["fauna"] != "Unknown" {
			t.Errorf("expected Unknown life tiers, got %q/%q", p.Attributes["flora"], p.Attributes["fauna"])
		}
		if _, ok := p.Attributes["resources"]; ok {
			t.Error("expected no resources attribute when unsurveyed")
		}
	})

	t.Run("resources map through the resource table", func(t *testing.T) {
		t.Parallel()

		doc := document(record("Planet", "Rich World", 0, 5, 0, 5, 2, 1, savefile.Map{
			"Attributes": savefile.Map{
				"Resources": savefile.List{
					savefile.Scalar{Value: "AU"},
					savefile.Scalar{Value: "CU"},
				},
			},
		}))

		p := New().Extract(doc).Records[0]
		if p.Attributes["resources"] != "Gold, Copper" {
			t.Errorf("unexpected resources %q", p.Attributes["resources"])
		}
	})

	t.Run("drops records missing mandatory fields", func(t *testing.T) {
		t.Parallel()

		noName := record("SolarSystem", "   ", 0, 0, 0, -1000, 1, 0, nil)
		noAddress := savefile.Map{
			"Type": savefile.Scalar{Value: "SolarSystem"},
			"Name": savefile.Scalar{Value: "Addressless"},
		}
		unknownType := record("Anomaly", "Strange", 0, 0, 0, -1000, 2, 0, nil)
		good := record("SolarSystem", "Survivor", 0, 0, 0, -900, 1, 0, nil)

		res := New().Extract(document(noName, noAddress, unknownType, good))
		if res.Dropped != 3 {
			t.Errorf("expected 3 dropped, got %d", res.Dropped)
		}
		if res.Extracted != 1 || len(res.Records) != 1 || res.Records[0].Name != "Survivor" {
			t.Errorf("expected only the valid record, got %+v", res.Records)
		}
	})

	t.Run("empty or malformed documents yield empty results", func(t *testing.T) {
		t.Parallel()

		res := New().Extract(savefile.Map{})
		if res.Extracted != 0 || len(res.Records) != 0 {
			t.Errorf("expected empty result, got %+v", res)
		}

		res = New().Extract(savefile.Map{
			"DiscoveryManager": savefile.Map{"Records": savefile.Scalar{Value: "nope"}},
		})
		if res.Extracted != 0 {
			t.Errorf("expected empty result for malformed records, got %+v", res)
		}
	})
}
