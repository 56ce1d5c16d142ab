package roadview

import (
	"slices"

	"github.com/ha1tch/roadview/pkg/horizon"
)

// ResolveCrossingSide classifies the children of link id into crossing
// sides. The path continuation and U-turns (children sharing the link's
// internal id) are ignored. A child turning left (negative angle) sets the
// left side, a right turn sets the right side. Children with zero
// probability also mark their side prohibited, accumulated onto prohibited.
func ResolveCrossingSide(links horizon.Links, id horizon.LinkID, mpp []horizon.LinkID, prohibited ProhibitedSide) (CrossingSide, ProhibitedSide) {
	side := CrossingUnknown
	current, ok := links.LinkByID(id)
	if !ok {
		return side, prohibited
	}

	for _, cid := range current.Children {
		if slices.Contains(mpp, cid) {
			continue
		}
		child, ok := links.LinkByID(cid)
		if !ok || child.InternalID == current.InternalID {
			continue
		}

		angle := child.ParentTurnAngle(id)
		switch {
		case angle < 0:
			side |= CrossingLeft
			if child.Probability == 0 {
				prohibited |= ProhibitedLeft
			}
		case angle > 0:
			side |= CrossingRight
			if child.Probability == 0 {
				prohibited |= ProhibitedRight
			}
		}
	}
	return side, prohibited
}
