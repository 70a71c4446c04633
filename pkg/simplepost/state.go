package simplepost

// GetState computes the lifecycle state of a post. State is a pure function
// of (created timestamp set, publish timestamp set, draft view); it is
// recomputed on every read and never stored.
func GetState(p *Post, useDraft bool) PostState {
	switch {
	case p == nil || p.Created.IsZero():
		return PostStateNew
	case p.Published == nil:
		return PostStateUnpublished
	case useDraft:
		return PostStateDraft
	default:
		return PostStatePublished
	}
}
