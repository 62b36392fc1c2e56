package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MapInfo holds metadata for a single map, loaded from map_list.yaml.
// Width/Height are tile dimensions; the world index derives its cell
// grid from them.
type MapInfo struct {
	MapID  int16  `yaml:"map_id"`
	Name   string `yaml:"name"`
	Width  int32  `yaml:"width"`
	Height int32  `yaml:"height"`
	PvP    bool   `yaml:"pvp"`
	Indoor bool   `yaml:"indoor"`
}

// MapTable provides map metadata lookups.
type MapTable struct {
	maps map[int16]MapInfo
	list []MapInfo
}

type mapListFile struct {
	Maps []MapInfo `yaml:"maps"`
}

// LoadMapList reads map metadata from a YAML file. Duplicate map ids are
// a data error and rejected outright, since a silently shadowed map
// would corrupt the spatial index on load.
func LoadMapList(path string) (*MapTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map list %s: %w", path, err)
	}
	var file mapListFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse map list %s: %w", path, err)
	}

	t := &MapTable{maps: make(map[int16]MapInfo, len(file.Maps))}
	for _, mi := range file.Maps {
		if mi.Width < 1 || mi.Height < 1 {
			return nil, fmt.Errorf("map %d (%s): bad dimensions %dx%d",
				mi.MapID, mi.Name, mi.Width, mi.Height)
		}
		if _, dup := t.maps[mi.MapID]; dup {
			return nil, fmt.Errorf("map %d listed twice", mi.MapID)
		}
		t.maps[mi.MapID] = mi
		t.list = append(t.list, mi)
	}
	return t, nil
}

// Lookup returns the metadata for a map id.
func (t *MapTable) Lookup(mapID int16) (MapInfo, bool) {
	mi, ok := t.maps[mapID]
	return mi, ok
}

// All returns every map in file order.
func (t *MapTable) All() []MapInfo {
	return t.list
}

// Len returns the number of maps in the table.
func (t *MapTable) Len() int {
	return len(t.list)
}
