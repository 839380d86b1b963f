// Package io reads and writes configuration graphs.
//
// # Graph Format
//
// Graphs are stored as JSON with a node array and an edge array:
//
//	{
//	  "nodes": [
//	    {"id": "node_1", "kind": "container", "label": "Configuration Root"},
//	    {"id": "node_2", "kind": "module", "label": "Video Decoder",
//	     "properties": {"moduleId": "video_decoder"}},
//	    {"id": "node_4", "kind": "option", "label": "H.264/AVC",
//	     "properties": {"key": "h264", "editable": true, "included": true}}
//	  ],
//	  "edges": [
//	    {"source": "node_1", "target": "node_2"},
//	    {"source": "node_5", "target": "node_6", "label": "requires"}
//	  ],
//	  "exported_at": "2025-01-01T00:00:00Z"
//	}
//
// Node kinds are "container", "module", "group" and "option". The
// "visible" flag defaults to true when omitted and "visibility_rule" is
// carried as an opaque string. Property order is preserved.
//
// Use [ReadGraph] / [WriteGraph] with any reader or writer, or
// [ImportGraph] / [ExportGraph] for files.
//
// # Raw Configurations
//
// [ReadRawConfig] decodes the module/group/option configuration format
// that editors import, and [ParseConfig] turns it into a graph plus the
// rule table declared alongside it. Parsing assigns sequential "node_N"
// IDs under a single root container and adds a "requires" edge from each
// required option to its dependent.
//
// # Concurrency
//
// Functions here only read their inputs. Graphs returned by the readers
// are independent and may be modified freely.
package io
