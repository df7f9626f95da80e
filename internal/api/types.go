package api

// AccountDetails is returned by GET /api/account/getdetails.
type AccountDetails struct {
	Success       bool   `json:"success"`
	ID            string `json:"id"`
	Name          string `json:"name"`
	Icon          string `json:"icon"`
	RobloxUser    string `json:"robloxUser"`
	DiscordUserID string `json:"discordUserId"`
	NumSessions   int64  `json:"numSessions"`
}

// ScriptList is returned by GET /api/script/home/getscripts.
type ScriptList struct {
	Success bool     `json:"success"`
	Scripts []Script `json:"scripts"`
}

// Script is one entry of a ScriptList.
type Script struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        int64  `json:"type"`
	Creator     string `json:"creator"`
	CreatorIcon string `json:"creatorIcon"`
	Editable    bool   `json:"editable"`
	IsFavorite  bool   `json:"isFavorite"`
}

// Editor is returned by GET /api/script/editor.
type Editor struct {
	Success    bool       `json:"success"`
	ScriptInfo ScriptInfo `json:"scriptInfo"`
}

// ScriptInfo is the editable state of one remote script.
type ScriptInfo struct {
	Name        string   `json:"name"`
	Type        int64    `json:"type"`
	Description string   `json:"description"`
	IsPublic    bool     `json:"isPublic"`
	Whitelist   []string `json:"whitelist"`
	Source      Source   `json:"source"`
}

// Source holds the main script and the named modules of a script.
type Source struct {
	Main    string            `json:"main"`
	Modules map[string]string `json:"modules"`
}

// generatedKey is returned by PUT /api/script/generatekey.
type generatedKey struct {
	Key string `json:"key"`
}

// envelope is the common part of every API response.
type envelope struct {
	Success *bool   `json:"success"`
	Error   string  `json:"error"`
	Message string  `json:"message"`
	Banned  bool    `json:"banned"`
	Reason  *string `json:"reason"`
}
