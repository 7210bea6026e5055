package timeline

import (
	"sort"
	"time"
)

// Merge concatenates user items followed by sports items and orders the result
// by effective time. The sort is stable, so items sharing an instant keep their
// input order (user items before sports items). Inputs are not modified.
func Merge(loc *time.Location, userItems, sportsItems []Item) []Item {
	out := make([]Item, 0, len(userItems)+len(sportsItems))
	out = append(out, userItems...)
	out = append(out, sportsItems...)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EffectiveTime(loc).Before(out[j].EffectiveTime(loc))
	})
	return out
}
