package integration_test

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

var (
	buildOnce   sync.Once
	binaryPath  string
	errBuild    error
	buildOutput []byte
)

// serverBinary builds tldedent once per test run
func serverBinary(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("integration tests build the server binary")
	}

	buildOnce.Do(func() {
		dir, err := os.MkdirTemp("", "tldedent-integration")
		if err != nil {
			errBuild = err
			return
		}
		binaryPath = filepath.Join(dir, "tldedent")

		cwd, err := os.Getwd()
		if err != nil {
			errBuild = err
			return
		}
		cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/tldedent")
		cmd.Dir = filepath.Join(cwd, "..", "..")
		buildOutput, errBuild = cmd.CombinedOutput()
	})
	require.NoError(t, errBuild, "Failed to build server: %s", string(buildOutput))
	return binaryPath
}

// LSPClient is a test client that communicates with an LSP server via stdio
type LSPClient struct {
	cmd         *exec.Cmd
	stdin       io.WriteCloser
	stdout      io.ReadCloser
	reader      *bufio.Reader
	msgID       int
	responses   map[int]chan json.RawMessage
	diagnostics chan protocol.PublishDiagnosticsParams
	mu          sync.Mutex
	writeMu     sync.Mutex
	t           *testing.T
}

// NewLSPClient starts `tldedent lsp` and connects to it
func NewLSPClient(t *testing.T) *LSPClient {
	t.Helper()

	serverCmd := exec.Command(serverBinary(t), "lsp", "--log-level", "debug")
	serverCmd.Dir = t.TempDir()
	stdin, err := serverCmd.StdinPipe()
	require.NoError(t, err)
	stdout, err := serverCmd.StdoutPipe()
	require.NoError(t, err)
	stderr, err := serverCmd.StderrPipe()
	require.NoError(t, err)

	require.NoError(t, serverCmd.Start())

	// Log server stderr in background
	go func() {
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			t.Logf("[SERVER] %s", scanner.Text())
		}
	}()

	client := &LSPClient{
		cmd:         serverCmd,
		stdin:       stdin,
		stdout:      stdout,
		reader:      bufio.NewReader(stdout),
		responses:   make(map[int]chan json.RawMessage),
		diagnostics: make(chan protocol.PublishDiagnosticsParams, 16),
		t:           t,
	}

	go client.readMessages()

	t.Cleanup(client.Close)
	return client
}

// Close shuts down the server
func (c *LSPClient) Close() {
	c.Shutdown()
	_ = c.stdin.Close()
	_ = c.cmd.Wait()
}

// sendRequest sends a JSON-RPC request and returns the message ID
func (c *LSPClient) sendRequest(method string, params any) int {
	c.mu.Lock()
	c.msgID++
	id := c.msgID
	c.responses[id] = make(chan json.RawMessage, 1)
	c.mu.Unlock()

	c.sendMessage(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
		"params":  params,
	})
	return id
}

// sendNotification sends a JSON-RPC notification (no response expected)
func (c *LSPClient) sendNotification(method string, params any) {
	c.sendMessage(map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
	})
}

func (c *LSPClient) sendMessage(msg any) {
	data, err := json.Marshal(msg)
	require.NoError(c.t, err)

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_, err = fmt.Fprintf(c.stdin, "Content-Length: %d\r\n\r\n%s", len(data), data)
	require.NoError(c.t, err)
}

func (c *LSPClient) waitForResponse(id int, timeout time.Duration) (json.RawMessage, error) {
	c.mu.Lock()
	ch, ok := c.responses[id]
	c.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("no response channel for message ID %d", id)
	}

	select {
	case response := <-ch:
		return response, nil
	case <-time.After(timeout):
		return nil, fmt.Errorf("timeout waiting for response to message %d", id)
	}
}

// readMessages routes responses to their requests and collects
// publishDiagnostics notifications
func (c *LSPClient) readMessages() {
	for {
		line, err := c.reader.ReadString('\n')
		if err != nil {
			return // Connection closed
		}

		var contentLength int
		if _, err := fmt.Sscanf(line, "Content-Length: %d", &contentLength); err != nil {
			continue
		}

		// Read empty line
		_, _ = c.reader.ReadString('\n')

		content := make([]byte, contentLength)
		if _, err := io.ReadFull(c.reader, content); err != nil {
			return
		}

		var message struct {
			ID     *int            `json:"id"`
			Method *string         `json:"method"`
			Params json.RawMessage `json:"params"`
			Result json.RawMessage `json:"result"`
			Error  json.RawMessage `json:"error"`
		}
		if err := json.Unmarshal(content, &message); err != nil {
			continue
		}

		if message.Method != nil {
			if *message.Method == protocol.ServerTextDocumentPublishDiagnostics {
				var params protocol.PublishDiagnosticsParams
				if err := json.Unmarshal(message.Params, &params); err == nil {
					c.diagnostics <- params
				}
			}
			continue
		}

		if message.ID != nil {
			c.mu.Lock()
			if ch, ok := c.responses[*message.ID]; ok {
				if message.Error != nil {
					ch <- message.Error
				} else {
					ch <- message.Result
				}
			}
			c.mu.Unlock()
		}
	}
}

// Initialize sends the initialize request and the initialized notification
func (c *LSPClient) Initialize(rootURI string) (*protocol.InitializeResult, error) {
	id := c.sendRequest("initialize", map[string]any{
		"rootUri":      rootURI,
		"capabilities": map[string]any{},
	})
	response, err := c.waitForResponse(id, 5*time.Second)
	if err != nil {
		return nil, err
	}

	var result protocol.InitializeResult
	if err := json.Unmarshal(response, &result); err != nil {
		return nil, err
	}

	c.sendNotification("initialized", map[string]any{})
	return &result, nil
}

// Shutdown sends the shutdown request and the exit notification
func (c *LSPClient) Shutdown() {
	id := c.sendRequest("shutdown", nil)
	_, _ = c.waitForResponse(id, 2*time.Second)
	c.sendNotification("exit", nil)
}

// DidOpenTextDocument sends a didOpen notification
func (c *LSPClient) DidOpenTextDocument(uri, languageID, text string) {
	c.sendNotification("textDocument/didOpen", map[string]any{
		"textDocument": map[string]any{
			"uri":        uri,
			"languageId": languageID,
			"version":    1,
			"text":       text,
		},
	})
}

// DidChangeTextDocument sends a whole-document didChange notification
func (c *LSPClient) DidChangeTextDocument(uri, text string, version int) {
	c.sendNotification("textDocument/didChange", map[string]any{
		"textDocument": map[string]any{
			"uri":     uri,
			"version": version,
		},
		"contentChanges": []map[string]any{
			{"text": text},
		},
	})
}

// DidCloseTextDocument sends a didClose notification
func (c *LSPClient) DidCloseTextDocument(uri string) {
	c.sendNotification("textDocument/didClose", map[string]any{
		"textDocument": map[string]any{"uri": uri},
	})
}

// DidChangeConfiguration sends a didChangeConfiguration notification
func (c *LSPClient) DidChangeConfiguration(settings map[string]any) {
	c.sendNotification("workspace/didChangeConfiguration", map[string]any{
		"settings": settings,
	})
}

// WaitForDiagnostics returns the next diagnostics published for uri
func (c *LSPClient) WaitForDiagnostics(uri string, timeout time.Duration) ([]protocol.Diagnostic, error) {
	deadline := time.After(timeout)
	for {
		select {
		case params := <-c.diagnostics:
			if params.URI == uri {
				return params.Diagnostics, nil
			}
		case <-deadline:
			return nil, fmt.Errorf("timeout waiting for diagnostics for %s", uri)
		}
	}
}
