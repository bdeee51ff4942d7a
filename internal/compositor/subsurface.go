package compositor

// PlaceAbove reorders child within parent's pending subsurface list to sit
// directly above sibling (or above the parent surface itself if sibling
// is nil and no match is found below it -- wl_subsurface.place_above with
// sibling == parent surface).
func PlaceAbove(nodes []SubsurfaceNode, child *Surface, sibling *Surface) []SubsurfaceNode {
	return reorder(nodes, child, sibling, true)
}

// PlaceBelow is the mirror of PlaceAbove.
func PlaceBelow(nodes []SubsurfaceNode, child *Surface, sibling *Surface) []SubsurfaceNode {
	return reorder(nodes, child, sibling, false)
}

func reorder(nodes []SubsurfaceNode, child *Surface, sibling *Surface, above bool) []SubsurfaceNode {
	out := make([]SubsurfaceNode, 0, len(nodes))
	var removed SubsurfaceNode
	found := false
	for _, n := range nodes {
		if n.Child == child {
			removed = n
			found = true
			continue
		}
		out = append(out, n)
	}
	if !found {
		removed = SubsurfaceNode{Child: child}
	}
	if sibling == nil {
		if above {
			return append(out, removed)
		}
		return append([]SubsurfaceNode{removed}, out...)
	}
	idx := -1
	for i, n := range out {
		if n.Child == sibling {
			idx = i
			break
		}
	}
	if idx == -1 {
		// sibling is the parent surface itself: place at the very
		// top/bottom of the stacking order.
		if above {
			return append(out, removed)
		}
		return append([]SubsurfaceNode{removed}, out...)
	}
	insertAt := idx + 1
	if !above {
		insertAt = idx
	}
	result := make([]SubsurfaceNode, 0, len(out)+1)
	result = append(result, out[:insertAt]...)
	result = append(result, removed)
	result = append(result, out[insertAt:]...)
	return result
}
