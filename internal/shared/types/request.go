package types

// ExecuteRequest represents a service tool execution request
type ExecuteRequest struct {
	ToolID   string                 `json:"tool_id" binding:"required"`
	Params   map[string]interface{} `json:"params" binding:"required"`
	ClientID *string                `json:"client_id,omitempty"`
	Scopes   []string               `json:"scopes,omitempty"`
}
