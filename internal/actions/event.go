package actions

// PostLoginEvent is the subset of the post-login event the hooks read.
type PostLoginEvent struct {
	Transaction *struct {
		Protocol string `json:"protocol"`
	} `json:"transaction,omitempty"`
	Organization *struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"organization,omitempty"`
	Authorization *struct {
		Roles []string `json:"roles"`
	} `json:"authorization,omitempty"`
	Authentication *struct {
		Methods []struct {
			Name string `json:"name"`
		} `json:"methods"`
	} `json:"authentication,omitempty"`
	User struct {
		UserID      string         `json:"user_id"`
		Multifactor []string       `json:"multifactor"`
		AppMetadata map[string]any `json:"app_metadata"`
	} `json:"user"`
	Secrets map[string]string `json:"secrets,omitempty"`
}

func (e PostLoginEvent) protocol() string {
	if e.Transaction == nil || e.Transaction.Protocol == "" {
		return "unknown"
	}
	return e.Transaction.Protocol
}

func (e PostLoginEvent) roles() []string {
	if e.Authorization == nil {
		return nil
	}
	return e.Authorization.Roles
}

func (e PostLoginEvent) hasAuthenticationMethod(name string) bool {
	if e.Authentication == nil {
		return false
	}
	for _, m := range e.Authentication.Methods {
		if m.Name == name {
			return true
		}
	}
	return false
}

// PhoneProviderEvent is the custom phone provider event.
type PhoneProviderEvent struct {
	Notification struct {
		MessageType string `json:"message_type"`
		AsText      string `json:"as_text"`
		Recipient   string `json:"recipient"`
	} `json:"notification"`
	Secrets map[string]string `json:"secrets,omitempty"`
}
