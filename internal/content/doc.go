// Package content defines the card and detail-document model.
//
// Server-authored payloads are loosely typed JSON or YAML. They are parsed once,
// at the boundary, into a strict representation:
//   - CardInstance: a card summary resolved by the dispatcher
//   - DetailContent: an optional tab set, each tab holding ordered blocks
//   - Block: a closed tagged union (markdown, chart, list, image, video, card)
//
// Blocks with an unrecognised type are kept as UnknownBlock so renderers can
// skip them explicitly instead of failing the whole document.
package content
