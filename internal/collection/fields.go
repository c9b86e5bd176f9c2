package collection

import "github.com/roach88/cardvault/internal/card"

// setCardFields copies the editable card fields of src onto entry.
// The entry id is never taken from src.
func setCardFields(entry *card.CollectionCard, src card.Card) {
	entry.Name = src.Name
	entry.Image = src.Image
	entry.Rarity = src.Rarity
	entry.Color = src.Color
	entry.Type = src.Type
	entry.Set = src.Set
	entry.Description = src.Description
	entry.Price = src.Price
	entry.ManaCost = src.ManaCost
	entry.Attack = clonePtr(src.Attack)
	entry.Defense = clonePtr(src.Defense)
	entry.Condition = src.Condition
}

// syncFields overwrites the catalog-owned fields of entry with those of src
// and reports whether any differed. Condition and every collection field are
// left alone.
func syncFields(entry *card.CollectionCard, src card.Card) bool {
	changed := false
	if entry.Name != src.Name {
		entry.Name = src.Name
		changed = true
	}
	if entry.Image != src.Image {
		entry.Image = src.Image
		changed = true
	}
	if entry.Price != src.Price {
		entry.Price = src.Price
		changed = true
	}
	if entry.Description != src.Description {
		entry.Description = src.Description
		changed = true
	}
	if entry.Rarity != src.Rarity {
		entry.Rarity = src.Rarity
		changed = true
	}
	if entry.Color != src.Color {
		entry.Color = src.Color
		changed = true
	}
	if entry.Type != src.Type {
		entry.Type = src.Type
		changed = true
	}
	if entry.Set != src.Set {
		entry.Set = src.Set
		changed = true
	}
	if entry.ManaCost != src.ManaCost {
		entry.ManaCost = src.ManaCost
		changed = true
	}
	if !equalPtr(entry.Attack, src.Attack) {
		entry.Attack = clonePtr(src.Attack)
		changed = true
	}
	if !equalPtr(entry.Defense, src.Defense) {
		entry.Defense = clonePtr(src.Defense)
		changed = true
	}
	return changed
}

// sameCard compares every card field by value.
func sameCard(a, b card.Card) bool {
	return a.ID == b.ID &&
		a.Name == b.Name &&
		a.Image == b.Image &&
		a.Rarity == b.Rarity &&
		a.Color == b.Color &&
		a.Type == b.Type &&
		a.Set == b.Set &&
		a.Description == b.Description &&
		a.Price == b.Price &&
		a.ManaCost == b.ManaCost &&
		equalPtr(a.Attack, b.Attack) &&
		equalPtr(a.Defense, b.Defense) &&
		a.Condition == b.Condition
}

func equalPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func clonePtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
