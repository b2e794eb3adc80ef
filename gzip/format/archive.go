package format

// Archive is an ordered view of the members decoded from (or destined for)
// one byte stream. Each member is self-delimiting, so concatenating two
// valid archives yields a valid archive whose member sequence is the
// concatenation of theirs. The Archive does not own the stream; it only
// records what was found in it.
type Archive struct {
	Members []*Member
}

func (a *Archive) Append(m *Member) {
	a.Members = append(a.Members, m)
}

func (a *Archive) Len() int {
	return len(a.Members)
}
