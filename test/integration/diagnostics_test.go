package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bennypowers.dev/tldedent/internal/uriutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const element = `class XGreeting extends LitElement {
  static styles = css` + "`" + `
                      :host { display: block; }
  p { color: red; }
                 ` + "`" + `;

  render() {
    return html` + "`" + `
                <p>Hello</p>
                ` + "`" + `;
  }
}
`

func workspace(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestInitialization(t *testing.T) {
	client := NewLSPClient(t)

	result, err := client.Initialize(uriutil.PathToURI(workspace(t, nil)))
	require.NoError(t, err)

	require.NotNil(t, result.ServerInfo)
	assert.Equal(t, "template-dedent-language-server", result.ServerInfo.Name)
}

func TestPushDiagnostics(t *testing.T) {
	root := workspace(t, nil)
	client := NewLSPClient(t)
	_, err := client.Initialize(uriutil.PathToURI(root))
	require.NoError(t, err)

	uri := uriutil.PathToURI(filepath.Join(root, "x-greeting.js"))
	client.DidOpenTextDocument(uri, "javascript", element)

	diagnostics, err := client.WaitForDiagnostics(uri, 5*time.Second)
	require.NoError(t, err)
	require.Len(t, diagnostics, 1)

	d := diagnostics[0]
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 3, Character: 2},
		End:   protocol.Position{Line: 3, Character: 19},
	}, d.Range)
	assert.Equal(t, "LINE: 4, COLUMN: 3. Line must start at least at column 23.", d.Message)
	require.NotNil(t, d.Source)
	assert.Equal(t, "tldedent", *d.Source)

	t.Run("fixing the line clears the diagnostic", func(t *testing.T) {
		fixed := strings.Replace(element, "  p { color: red; }", "                      p { color: red; }", 1)
		client.DidChangeTextDocument(uri, fixed, 2)

		diagnostics, err := client.WaitForDiagnostics(uri, 5*time.Second)
		require.NoError(t, err)
		assert.Empty(t, diagnostics)
	})

	t.Run("closing clears diagnostics", func(t *testing.T) {
		client.DidCloseTextDocument(uri)

		diagnostics, err := client.WaitForDiagnostics(uri, 5*time.Second)
		require.NoError(t, err)
		assert.Empty(t, diagnostics)
	})
}

func TestConfiguration(t *testing.T) {
	t.Run("package.json tags", func(t *testing.T) {
		root := workspace(t, map[string]string{
			"package.json": `{"name": "x-greeting", "templateDedent": {"tags": ["html"]}}`,
		})
		client := NewLSPClient(t)
		_, err := client.Initialize(uriutil.PathToURI(root))
		require.NoError(t, err)

		uri := uriutil.PathToURI(filepath.Join(root, "x-greeting.js"))
		client.DidOpenTextDocument(uri, "javascript", element)

		diagnostics, err := client.WaitForDiagnostics(uri, 5*time.Second)
		require.NoError(t, err)
		assert.Empty(t, diagnostics, "css literals are not selected")
	})

	t.Run("didChangeConfiguration republishes", func(t *testing.T) {
		root := workspace(t, nil)
		client := NewLSPClient(t)
		_, err := client.Initialize(uriutil.PathToURI(root))
		require.NoError(t, err)

		uri := uriutil.PathToURI(filepath.Join(root, "x-greeting.js"))
		client.DidOpenTextDocument(uri, "javascript", element)
		diagnostics, err := client.WaitForDiagnostics(uri, 5*time.Second)
		require.NoError(t, err)
		require.Len(t, diagnostics, 1)

		client.DidChangeConfiguration(map[string]any{
			"templateDedent": map[string]any{"tags": []string{"html"}},
		})

		diagnostics, err = client.WaitForDiagnostics(uri, 5*time.Second)
		require.NoError(t, err)
		assert.Empty(t, diagnostics)
	})

	t.Run("excluded files publish nothing", func(t *testing.T) {
		root := workspace(t, nil)
		client := NewLSPClient(t)
		_, err := client.Initialize(uriutil.PathToURI(root))
		require.NoError(t, err)

		uri := uriutil.PathToURI(filepath.Join(root, "node_modules", "lib", "x-greeting.js"))
		client.DidOpenTextDocument(uri, "javascript", element)

		diagnostics, err := client.WaitForDiagnostics(uri, 5*time.Second)
		require.NoError(t, err)
		assert.Empty(t, diagnostics)
	})
}
