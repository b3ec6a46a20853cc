package fingerprint

// Tag is an opaque, uniquely allocated marker value. Tags compare by
// identity but fingerprint by description, so two tags with the same
// description share a fingerprint.
type Tag struct {
	desc string
}

// NewTag returns a fresh Tag described by desc.
func NewTag(desc string) *Tag {
	return &Tag{desc: desc}
}

// String renders the tag as "tag(desc)".
func (t *Tag) String() string {
	return "tag(" + t.desc + ")"
}
