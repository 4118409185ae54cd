package render

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

// WriteJSON writes n as indented JSON.
func WriteJSON(w io.Writer, n *Node) error {
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(n)
}
