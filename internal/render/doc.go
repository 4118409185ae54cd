// Package render defines the render tree produced by components and the block
// renderer, and printers that turn it into terminal text, HTML or JSON.
//
// A render tree is plain data: components never write to a terminal or
// response directly. This keeps rendering testable and lets one tree be printed
// in several formats.
package render
