//go:build js && wasm

package main

import (
	"bytes"
	"context"
	"syscall/js"

	"vectrace/pkg/convert"
	"vectrace/pkg/log"
	"vectrace/pkg/vectorize"
)

// maxSize bounds the traced image in the browser.
const maxSize = 1024

func main() {
	js.Global().Set("goVectorize", js.FuncOf(goVectorize))
	<-make(chan any)
}

// goVectorize takes encoded image bytes (a Uint8Array) and an optional
// palette size, and returns the SVG document as a string. Failures come
// back as an object with an error field.
func goVectorize(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return map[string]any{"error": "goVectorize: missing image data"}
	}
	data := make([]byte, args[0].Length())
	js.CopyBytesToGo(data, args[0])

	opts := vectorize.DefaultOptions()
	opts.Workers = 1
	if len(args) > 1 && args[1].Type() == js.TypeNumber {
		opts.NumColors = args[1].Int()
	}

	c := &convert.Converter{Options: opts, MaxSize: maxSize}
	var out bytes.Buffer
	res, err := c.Convert(context.Background(), bytes.NewReader(data), &out)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	log.WithComponent("www").Info("vectorized", "bytes", len(data), "paths", res.Stats.Paths)
	return out.String()
}
