package domain

import "fmt"

// MigrateState upgrades a decoded state document to StateVersion in place.
// Version 0/1 documents predate the version field and may lack maps.
func MigrateState(s *State) error {
	if s.Version > StateVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedStateShape, s.Version)
	}
	if s.Inventory == nil {
		s.Inventory = Inventory{}
	}
	if s.Equipment == nil {
		s.Equipment = map[Slot]ItemSnapshot{}
	}
	if s.Skills == nil {
		s.Skills = map[string]Skill{}
	}
	for id, qty := range s.Inventory {
		if qty <= 0 {
			delete(s.Inventory, id)
		}
	}
	s.Version = StateVersion
	return nil
}
