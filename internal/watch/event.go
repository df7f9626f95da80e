package watch

import "github.com/fsnotify/fsnotify"

// Kind classifies a filesystem event.
type Kind int

// Event kinds.
const (
	KindAny Kind = iota
	KindCreate
	KindModifyData
	KindModifyName
	KindMetadata
	KindRemove
	KindAccess
	KindOther
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindCreate:
		return "create"
	case KindModifyData:
		return "modify(data)"
	case KindModifyName:
		return "modify(name)"
	case KindMetadata:
		return "modify(metadata)"
	case KindRemove:
		return "remove"
	case KindAccess:
		return "access"
	default:
		return "other"
	}
}

// Relevant reports whether events of this kind can change project content.
// Metadata, access and unknown events are noise: some editors touch files
// every few seconds without writing them.
func (k Kind) Relevant() bool {
	switch k {
	case KindMetadata, KindAccess, KindOther:
		return false
	default:
		return true
	}
}

// Event is one filesystem change affecting one or more paths.
type Event struct {
	Kind  Kind
	Paths []string
}

// FromFsnotify converts an fsnotify event. When several operations are set,
// the one with the largest effect on content wins.
func FromFsnotify(ev fsnotify.Event) Event {
	kind := KindOther

	switch {
	case ev.Has(fsnotify.Create):
		kind = KindCreate
	case ev.Has(fsnotify.Remove):
		kind = KindRemove
	case ev.Has(fsnotify.Rename):
		kind = KindModifyName
	case ev.Has(fsnotify.Write):
		kind = KindModifyData
	case ev.Has(fsnotify.Chmod):
		kind = KindMetadata
	}

	return Event{Kind: kind, Paths: []string{ev.Name}}
}
