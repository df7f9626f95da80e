package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const vscodeSettings = `{
	"luau-lsp.types.robloxSecurityLevel": "None",
	"luau-lsp.types.definitionFiles": ["types.d.luau"]
}`

const mainScriptStub = `-- you can require packages with requireM("path") where path is a file inside of pkg (no extension)`

const descriptionStub = `# stuff here`

const typeDefinitions = `declare loadstringEnabled: boolean
declare owner: Player
declare arguments: { any }

declare isolatedStorage: {
  get: (name: string) -> any,
  set: (name: string, value: any?) -> ()
}

declare immediateSignals: boolean
declare NLS: (source: string, parent: Instance?) -> LocalScript
declare requireM: (moduleName: string) -> any

declare LoadAssets: (assetId: number) -> {
  Get: (asset: string) -> Instance,
  Exists: (asset: string) -> boolean,
  GetNames: () -> { string },
  GetArray: () -> { Instance },
  GetDictionary: () -> { [string]: Instance }
}`

// Init scaffolds a new project at dir. It refuses to touch an existing
// directory. The configuration is named after the directory and carries
// PlaceholderScriptID until the project is pulled or edited by hand.
func Init(dir string) error {
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("the directory at %s already exists: %w", dir, ErrDirectoryExists)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", dir, err)
	}

	for _, d := range []string{dir, filepath.Join(dir, ModuleDirectory), filepath.Join(dir, ".vscode")} {
		if err := os.Mkdir(d, 0o755); err != nil { //nolint:gosec // project directories are user-visible
			return fmt.Errorf("failed creating directory: %w", err)
		}
	}

	files := []struct {
		path     string
		contents string
	}{
		{filepath.Join(dir, ".vscode", "settings.json"), vscodeSettings},
		{filepath.Join(dir, MainScriptFile), mainScriptStub},
		{filepath.Join(dir, DescriptionFile), descriptionStub},
		{filepath.Join(dir, "types.d.luau"), typeDefinitions},
	}

	for _, f := range files {
		if err := WriteFile(f.path, f.contents); err != nil {
			return err
		}
	}

	name := filepath.Base(filepath.Clean(dir))
	if name == "." || name == string(filepath.Separator) {
		name = "unknown"
	}

	return WriteConfiguration(dir, &Configuration{
		ScriptName: name,
		ScriptID:   PlaceholderScriptID,
		Whitelist:  []string{},
	})
}
