package world

// DropItem places an item stack on the ground. If a compatible stack of
// the same item already lies in the target cell it is merged into
// instead of spawning a duplicate entity, keeping loot piles from
// fragmenting across kills. Returns the surviving stack entity, or nil
// when the map is not loaded.
func (s *State) DropItem(mapID MapID, x, y, itemID, count int32, owner ID) *Entity {
	m := s.maps[mapID]
	if m == nil {
		return nil
	}
	x, y = m.Clamp(x, y)

	for _, e := range s.CellQuery(mapID, x, y, KindItemStack) {
		if e.Item.ItemID == itemID && e.X == x && e.Y == y {
			e.Item.Count += count
			if owner != 0 {
				e.Item.Owners = appendOwner(e.Item.Owners, owner)
			}
			return e
		}
	}

	e := NewItemStack(itemID, count, mapID, x, y)
	if owner != 0 {
		e.Item.Owners = []ID{owner}
	}
	if s.Spawn(e) == 0 {
		return nil
	}
	return e
}

func appendOwner(owners []ID, owner ID) []ID {
	for _, id := range owners {
		if id == owner {
			return owners
		}
	}
	return append(owners, owner)
}

// MayLoot reports whether the avatar id holds loot rights on the stack.
// An empty owner list means the claim window has lapsed and anyone may
// pick the stack up.
func MayLoot(stack *Entity, avatar ID) bool {
	if stack.Kind != KindItemStack || stack.Item == nil {
		return false
	}
	if len(stack.Item.Owners) == 0 {
		return true
	}
	for _, id := range stack.Item.Owners {
		if id == avatar {
			return true
		}
	}
	return false
}
