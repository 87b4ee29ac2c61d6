package protocol

import "heightfield.dev/internal/config"

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ClientName      string `json:"client_name,omitempty"`
}

// WELCOME (server -> client): the current field's identity and config. The
// client compares its desired config against the fingerprint each frame and
// sends CONFIG on mismatch.
type WelcomeMsg struct {
	Type            string            `json:"type"`
	ProtocolVersion string            `json:"protocol_version"`
	Fingerprint     string            `json:"fingerprint"`
	Config          config.Generation `json:"config"`
}

// CONFIG (client -> server): the desired generation parameters.
type ConfigMsg struct {
	Type            string            `json:"type"`
	ProtocolVersion string            `json:"protocol_version"`
	Config          config.Generation `json:"config"`
}

// BUILD (server -> client): announces a finished build. TILE frames with
// the same fingerprint follow, one per tile in row-major order.
type BuildMsg struct {
	Type             string  `json:"type"`
	Fingerprint      string  `json:"fingerprint"`
	GridExtent       int     `json:"grid_extent"`
	TileSize         float64 `json:"tile_size"`
	SamplesPerTile   int     `json:"samples_per_tile"`
	HeightMultiplier float64 `json:"height_multiplier"`
	WaterLevel       float64 `json:"water_level"`
	TileCount        int     `json:"tile_count"`
}

// TILE (server -> client): one tile's normalized height grid, quantized and
// varint-delta encoded (see internal/terrain/encoding).
type TileMsg struct {
	Type        string  `json:"type"`
	Fingerprint string  `json:"fingerprint"`
	Row         int     `json:"row"`
	Col         int     `json:"col"`
	OffsetX     float64 `json:"offset_x"`
	OffsetZ     float64 `json:"offset_z"`
	EdgeSamples int     `json:"edge_samples"`
	Heights     string  `json:"heights"`
}

// ERROR (server -> client)
type ErrorMsg struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}
