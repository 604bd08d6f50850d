package types

// Category represents service categories
type Category string

const (
	CategoryVault   Category = "vault"
	CategoryScripts Category = "scripts"
	CategorySystem  Category = "system"
)

// Service represents a service definition
type Service struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Category     Category `json:"category"`
	Capabilities []string `json:"capabilities"`
	Tools        []Tool   `json:"tools"`
}

// Tool represents a service tool
type Tool struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	Returns     string      `json:"returns"`
}

// Parameter represents a tool parameter
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Context provides execution context for services.
// Scopes carries the caller's granted permission scopes; providers enforce
// them through the security layer, never by inspecting this slice directly.
type Context struct {
	RequestID string   `json:"request_id,omitempty"`
	ClientID  *string  `json:"client_id,omitempty"`
	Scopes    []string `json:"scopes,omitempty"`
}

// Result represents a service execution result
type Result struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *string                `json:"error,omitempty"`
}
