// Package server exposes card recognition and decisions for diagnostics.
//
// Two surfaces share one Server:
//
//   - an MCP (Model Context Protocol) JSON-RPC 2.0 server over stdio, one
//     request per line, so that an assistant can inspect captured frames
//     while calibrating a table;
//   - an HTTP API built on gin for other processes.
//
// # MCP methods
//
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Tools
//
// Recognition:
//   - card_recognize: Own cards and community cards of a frame
//   - card_locate: Community card rectangles with rank and suit regions
//   - card_match_region: Every template score for one region
//   - card_turn: Turn indicator score
//   - card_overlay: Calibration drawn over a coordinate grid
//
// Decision:
//   - card_decide: Action and bet fraction for card labels
//
// Library:
//   - card_library_info: Loaded and missing templates
//
// Frames passed by path are decoded once and cached for the lifetime of the
// server. card_overlay reads the color frame afresh.
//
// # HTTP API
//
//	GET  /api/ping       liveness
//	GET  /api/library    template library summary
//	POST /api/recognize  {"image": "<base64>", "decide": true}
//	POST /api/decide     {"hole_cards": [...], "community_cards": [...]}
//	GET  /metrics        Prometheus exposition
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with
// code -32000 and the Go error string as data. Lines that are not valid
// JSON get a -32700 parse error.
package server
