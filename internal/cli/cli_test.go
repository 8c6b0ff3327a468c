package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"storefront-cms/internal/domain/composer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := NewRootCmd()
	var outBuf, errBuf bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

func TestEncodeFromStdin(t *testing.T) {
	out, _, err := runCLI(t, `[{"id":"banner-1000","content":{"title":"Hello"},"settings":{},"order":0}]`, "encode")
	require.NoError(t, err)
	assert.Equal(t, "\n<!-- component:banner-1000:0:{\"content\":{\"title\":\"Hello\"},\"settings\":{}} -->\n", out)
}

func TestEncodeRejectsBadJSON(t *testing.T) {
	_, stderr, err := runCLI(t, `{not json`, "encode")
	require.Error(t, err)
	assert.Contains(t, stderr, "parse component list")
}

func TestDecodeFileReportsSkippedTags(t *testing.T) {
	content := "<h1>ignored</h1>\n" +
		`<!-- component:text-2:10:{"content":{"body":"b"},"settings":{}} -->` + "\n" +
		`<!-- component:banner-1:0:{"content":{"title":"a -->` + "\n" +
		`<!-- component:promotion-3:5:{"content":{},"settings":{"rounded":true}} -->`
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	out, stderr, err := runCLI(t, "", "decode", path)
	require.NoError(t, err)

	var items []composer.ComponentItem
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "promotion-3", items[0].ID)
	assert.Equal(t, "promotion", items[0].Type)
	assert.Equal(t, "text-2", items[1].ID)
	assert.Contains(t, stderr, "skipping undecodable component tag")

	_, _, err = runCLI(t, "", "decode", "--strict", path)
	assert.Error(t, err)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := `[{"id":"html-7","type":"html","content":{"html":"a --> b"},"settings":{"container":true},"order":3}]`
	encoded, _, err := runCLI(t, in, "encode")
	require.NoError(t, err)
	assert.Contains(t, encoded, `a --\u003e b`)

	out, _, err := runCLI(t, encoded, "decode")
	require.NoError(t, err)
	var items []composer.ComponentItem
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "a --> b", items[0].Content["html"])
	assert.Equal(t, 3, items[0].Order)
}

func TestTemplatesListsBuiltinCatalog(t *testing.T) {
	t.Setenv("TEMPLATES_FILE", "")
	out, _, err := runCLI(t, "", "templates")
	require.NoError(t, err)

	var got struct {
		Templates []templateSummary `json:"templates"`
		Snippets  []templateSummary `json:"snippets"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Templates, len(composer.BuiltinTemplates()))
	assert.Equal(t, "storefront-home", got.Templates[0].ID)
	assert.Equal(t, 4, got.Templates[0].Components)
	assert.Len(t, got.Snippets, len(composer.BuiltinSnippets()))
}

func TestTemplatesWithCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
templates:
  - id: landing
    name: Landing
    components:
      - type: banner
        order: 0
        content: {title: Launch}
      - type: newsletter
        order: 10
`), 0o644))

	out, _, err := runCLI(t, "", "apply", "landing", "--file", path)
	require.NoError(t, err)

	items, errs := composer.Decode(out)
	require.Empty(t, errs)
	require.Len(t, items, 2)
	assert.Equal(t, "banner", items[0].Type)
	assert.Equal(t, "Launch", items[0].Content["title"])
	assert.Equal(t, "newsletter", items[1].Type)
	assert.NotEqual(t, items[0].ID, items[1].ID)
}

func TestApplyUnknownTemplate(t *testing.T) {
	t.Setenv("TEMPLATES_FILE", "")
	_, stderr, err := runCLI(t, "", "apply", "nope")
	require.Error(t, err)
	assert.True(t, composer.IsNotFound(err))
	assert.Contains(t, stderr, "template not found: nope")
}

func TestInspectFillsDefaults(t *testing.T) {
	t.Setenv("TEMPLATES_FILE", "")
	content := `<!-- component:banner-1:0:{"content":{"title":"Sale"},"settings":{}} -->` + "\n" +
		`<!-- component:carousel-2:1:{"content":{"x":1},"settings":{}} -->`

	out, _, err := runCLI(t, content, "inspect")
	require.NoError(t, err)

	var got []inspectedComponent
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)

	assert.Equal(t, "banner", got[0].Kind)
	assert.True(t, got[0].Known)
	assert.Equal(t, "Sale", got[0].Content["title"])
	assert.Equal(t, "medium", got[0].Settings["height"])

	assert.Equal(t, "carousel", got[1].Kind)
	assert.False(t, got[1].Known)
	assert.Equal(t, float64(1), got[1].Content["x"])
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := runCLI(t, "[]", "encode", "--log-level", "loud")
	assert.Error(t, err)
}
