package api

// APIResponse represents a standard API response envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// FormatRequest registers a message format with the ingest service.
type FormatRequest struct {
	ID      uint8  `json:"id"`
	Name    string `json:"name"`
	Format  string `json:"format"`
	Columns string `json:"columns"`
	Units   string `json:"units,omitempty"`
}

// RecordRequest appends one record against a previously registered format.
// Values are positional: one JSON number or string per column.
type RecordRequest struct {
	ID     uint8         `json:"id"`
	Values []interface{} `json:"values"`
}

// FormatInfo describes a registered format in API responses.
type FormatInfo struct {
	ID      uint8  `json:"id"`
	Name    string `json:"name"`
	Format  string `json:"format"`
	Columns string `json:"columns"`
	Length  uint16 `json:"length"`
}

// ServerConfig holds configuration for the ingest server.
type ServerConfig struct {
	Port            int
	Bind            string
	APIKey          string
	LogDir          string
	RegistryPath    string
	FsyncIntervalMS int
	BufferSize      int
}
