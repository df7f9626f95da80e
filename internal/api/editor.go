package api

// EditorUpdateKind identifies which remote field an EditorUpdate sets.
type EditorUpdateKind int

// Editor update kinds.
const (
	UpdateMainSource EditorUpdateKind = iota
	UpdateDescription
	UpdateName
	UpdateWhitelist
	UpdatePublicity
	UpdateModule
)

// String returns a human-readable representation of the kind.
func (k EditorUpdateKind) String() string {
	switch k {
	case UpdateMainSource:
		return "main"
	case UpdateDescription:
		return "description"
	case UpdateName:
		return "name"
	case UpdateWhitelist:
		return "whitelist"
	case UpdatePublicity:
		return "isPublic"
	case UpdateModule:
		return "module"
	default:
		return "unknown"
	}
}

// EditorUpdate is a single field-level change of a remote script. Only the
// payload fields that belong to Kind are meaningful.
type EditorUpdate struct {
	Kind EditorUpdateKind

	// Text carries the main source, the description, the script name or
	// the module source depending on Kind.
	Text string

	// Module is the module name for UpdateModule.
	Module string

	// Whitelist is the access list for UpdateWhitelist.
	Whitelist []string

	// Public is the publicity flag for UpdatePublicity.
	Public bool
}

// MainSource sets source.main.
func MainSource(source string) EditorUpdate {
	return EditorUpdate{Kind: UpdateMainSource, Text: source}
}

// Description sets description.
func Description(description string) EditorUpdate {
	return EditorUpdate{Kind: UpdateDescription, Text: description}
}

// Name sets name.
func Name(name string) EditorUpdate {
	return EditorUpdate{Kind: UpdateName, Text: name}
}

// Whitelist sets whitelist.
func Whitelist(whitelist []string) EditorUpdate {
	return EditorUpdate{Kind: UpdateWhitelist, Whitelist: whitelist}
}

// Publicity sets isPublic.
func Publicity(public bool) EditorUpdate {
	return EditorUpdate{Kind: UpdatePublicity, Public: public}
}

// Module sets source.modules[name].
func Module(name, source string) EditorUpdate {
	return EditorUpdate{Kind: UpdateModule, Module: name, Text: source}
}

// EditorPatch is the body of PATCH /api/script/editor.
type EditorPatch struct {
	ScriptID   string          `json:"scriptId"`
	ScriptInfo ScriptInfoPatch `json:"scriptInfo"`
}

// ScriptInfoPatch is a partial ScriptInfo. Nil fields are omitted from the
// request and left untouched by the service.
type ScriptInfoPatch struct {
	Source      *SourcePatch `json:"source,omitempty"`
	Description *string      `json:"description,omitempty"`
	Whitelist   *[]string    `json:"whitelist,omitempty"`
	Name        *string      `json:"name,omitempty"`
	IsPublic    *bool        `json:"isPublic,omitempty"`
}

// SourcePatch is a partial Source.
type SourcePatch struct {
	Main    *string           `json:"main,omitempty"`
	Modules map[string]string `json:"modules,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p ScriptInfoPatch) Empty() bool {
	return p.Source == nil && p.Description == nil && p.Whitelist == nil &&
		p.Name == nil && p.IsPublic == nil
}

// BuildPatch folds updates into a single partial-update request. Later
// updates of the same field win; module updates merge into one map keyed by
// module name.
func BuildPatch(scriptID string, updates []EditorUpdate) EditorPatch {
	patch := EditorPatch{ScriptID: scriptID}
	info := &patch.ScriptInfo

	source := func() *SourcePatch {
		if info.Source == nil {
			info.Source = &SourcePatch{}
		}

		return info.Source
	}

	for _, u := range updates {
		switch u.Kind {
		case UpdateMainSource:
			main := u.Text
			source().Main = &main
		case UpdateDescription:
			description := u.Text
			info.Description = &description
		case UpdateName:
			name := u.Text
			info.Name = &name
		case UpdateWhitelist:
			whitelist := make([]string, len(u.Whitelist))
			copy(whitelist, u.Whitelist)
			info.Whitelist = &whitelist
		case UpdatePublicity:
			public := u.Public
			info.IsPublic = &public
		case UpdateModule:
			s := source()
			if s.Modules == nil {
				s.Modules = make(map[string]string)
			}

			s.Modules[u.Module] = u.Text
		}
	}

	return patch
}
