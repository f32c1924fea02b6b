package actions

const (
	TargetAccessToken = "access_token"
	TargetIDToken     = "id_token"

	CommandSetCustomClaim    = "set_custom_claim"
	CommandEnableMultifactor = "enable_multifactor"
	CommandRenderPrompt      = "render_prompt"
)

// Command is one call a hook made on the host's api object.
type Command struct {
	Type     string `json:"type"`
	Target   string `json:"target,omitempty"`
	Name     string `json:"name,omitempty"`
	Value    any    `json:"value,omitempty"`
	Provider string `json:"provider,omitempty"`
	PromptID string `json:"prompt_id,omitempty"`
}

// API records hook calls so the host can replay them.
type API struct {
	commands []Command
}

func (a *API) SetAccessTokenClaim(name string, value any) {
	a.commands = append(a.commands, Command{Type: CommandSetCustomClaim, Target: TargetAccessToken, Name: name, Value: value})
}

func (a *API) SetIDTokenClaim(name string, value any) {
	a.commands = append(a.commands, Command{Type: CommandSetCustomClaim, Target: TargetIDToken, Name: name, Value: value})
}

func (a *API) EnableMultifactor(provider string) {
	a.commands = append(a.commands, Command{Type: CommandEnableMultifactor, Provider: provider})
}

func (a *API) RenderPrompt(id string) {
	a.commands = append(a.commands, Command{Type: CommandRenderPrompt, PromptID: id})
}

// Commands never returns nil.
func (a *API) Commands() []Command {
	if a.commands == nil {
		return []Command{}
	}
	return a.commands
}
