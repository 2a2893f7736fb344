package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	imgcolor "image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"vectrace/pkg/vectorize"
)

type reply struct {
	ID     json.RawMessage `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// exchange sends lines to a fresh server and decodes every reply.
func exchange(t *testing.T, lines ...string) []reply {
	t.Helper()
	opts := vectorize.DefaultOptions()
	opts.Workers = 2
	var out bytes.Buffer
	s := NewServer(opts, 4096, "test")
	require.NoError(t, s.Serve(context.Background(), strings.NewReader(strings.Join(lines, "\n")), &out))

	var replies []reply
	dec := json.NewDecoder(&out)
	for dec.More() {
		var r reply
		require.NoError(t, dec.Decode(&r))
		replies = append(replies, r)
	}
	return replies
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			c := imgcolor.NRGBA{R: 255, G: 255, B: 255, A: 255}
			if x >= 10 && x < 30 && y >= 10 && y < 30 {
				c = imgcolor.NRGBA{R: 20, G: 60, B: 160, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestInitializeAndList(t *testing.T) {
	replies := exchange(t,
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":"two","method":"tools/list"}`,
	)
	require.Len(t, replies, 2)

	require.JSONEq(t, `1`, string(replies[0].ID))
	var init struct {
		ProtocolVersion string            `json:"protocolVersion"`
		ServerInfo      map[string]string `json:"serverInfo"`
	}
	require.NoError(t, json.Unmarshal(replies[0].Result, &init))
	require.Equal(t, ProtocolVersion, init.ProtocolVersion)
	require.Equal(t, "test", init.ServerInfo["version"])

	require.JSONEq(t, `"two"`, string(replies[1].ID))
	var list struct {
		Tools []struct {
			Name        string `json:"name"`
			InputSchema struct {
				Required []string `json:"required"`
			} `json:"inputSchema"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(replies[1].Result, &list))
	require.Len(t, list.Tools, 1)
	require.Equal(t, ToolName, list.Tools[0].Name)
	require.Equal(t, []string{"input_path", "output_path"}, list.Tools[0].InputSchema.Required)
}

func TestCallConverts(t *testing.T) {
	dir := t.TempDir()
	src, dst := filepath.Join(dir, "in.png"), filepath.Join(dir, "out.svg")
	writePNG(t, src)

	args, err := json.Marshal(map[string]any{
		"name":      ToolName,
		"arguments": map[string]any{"input_path": src, "output_path": dst, "num_colors": 2, "tracer": "potrace"},
	})
	require.NoError(t, err)
	replies := exchange(t, `{"jsonrpc":"2.0","id":7,"method":"tools/call","params":`+string(args)+`}`)
	require.Len(t, replies, 1)
	require.Nil(t, replies[0].Error)

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	require.NoError(t, json.Unmarshal(replies[0].Result, &result))
	require.Len(t, result.Content, 1)
	require.Equal(t, "text", result.Content[0].Type)
	require.Contains(t, result.Content[0].Text, dst)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Contains(t, string(data), "<path")
}

func TestCallErrors(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.png")
	out := filepath.Join(dir, "out.svg")

	cases := []struct {
		name string
		msg  string
		code int
	}{
		{"unknown method", `{"jsonrpc":"2.0","id":1,"method":"resources/list"}`, codeMethodNotFound},
		{"unknown tool", `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"trace"}}`, codeMethodNotFound},
		{"no arguments", `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"convert_image_to_svg"}}`, codeInvalidParams},
		{"arguments not an object", `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"convert_image_to_svg","arguments":[1]}}`, codeInvalidParams},
		{"missing output", `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"convert_image_to_svg","arguments":{"input_path":"a.png"}}}`, codeInvalidParams},
		{"bad tracer", `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"convert_image_to_svg","arguments":{"input_path":"a.png","output_path":"b.svg","tracer":"pencil"}}}`, codeInvalidParams},
		{"missing input file", `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"convert_image_to_svg","arguments":{"input_path":"` + missing + `","output_path":"` + out + `"}}}`, codeConversion},
		{"malformed json", `{"jsonrpc":"2.0","id":`, codeParse},
		{"no method", `{"jsonrpc":"2.0","id":1}`, codeInvalidRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			replies := exchange(t, tc.msg)
			require.Len(t, replies, 1)
			require.NotNil(t, replies[0].Error)
			require.Equal(t, tc.code, replies[0].Error.Code, replies[0].Error.Message)
			require.Empty(t, replies[0].Result)
		})
	}
}

func TestServeKeepsGoingAfterErrors(t *testing.T) {
	replies := exchange(t,
		`not json`,
		``,
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
	)
	require.Len(t, replies, 2)
	require.Equal(t, codeParse, replies[0].Error.Code)
	require.JSONEq(t, `null`, string(replies[0].ID))
	require.Nil(t, replies[1].Error)
	require.JSONEq(t, `2`, string(replies[1].ID))
}

func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	err := NewServer(vectorize.DefaultOptions(), 0, "test").Serve(ctx,
		strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`), &out)
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, out.Len())
}
