package common

import "github.com/davecgh/go-spew/spew"

// EnableDebug gates all Debug* output.
var EnableDebug = false

// Dump renders v with its full structure for debug logging.
func Dump(v interface{}) string {
	return spew.Sdump(v)
}
