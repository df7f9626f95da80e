package watch

import (
	"github.com/techs-sus/fumo/internal/project"
)

// Update is one pending change to the remote script. Path is the
// project-relative path and only matters for modules. Source is empty while
// the update waits in the queue and is filled in by the driver from the
// file's current content.
type Update struct {
	Role   project.Role
	Path   string
	Source string
}

// String returns a human-readable representation of the update.
func (u Update) String() string {
	if u.Role == project.RoleModule {
		return u.Role.String() + " " + u.Path
	}

	return u.Role.String()
}

// key identifies the remote field an update writes. Two updates with the
// same key are interchangeable once resolved.
func (u Update) key() string {
	if u.Role != project.RoleModule {
		return u.Role.String()
	}

	if name, ok := project.ModuleName(u.Path); ok {
		return "module:" + name
	}

	return "path:" + u.Path
}

// merge adds u to pending unless an update with the same key is already
// there, in which case u replaces it. It reports whether pending grew.
func merge(pending []Update, u Update) ([]Update, bool) {
	k := u.key()

	for i := range pending {
		if pending[i].key() == k {
			pending[i] = u
			return pending, false
		}
	}

	return append(pending, u), true
}
