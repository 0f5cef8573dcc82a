package inspect

// GetDebugPortRequest asks the launcher for a fresh inspector port.
type GetDebugPortRequest struct{}

// GetDebugPortResponse carries the assigned port.
type GetDebugPortResponse struct {
	DebugPort int `json:"debugPort"`
}
