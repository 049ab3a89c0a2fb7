package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPCmd_Use(t *testing.T) {
	assert.Equal(t, "mcp", mcpCmd.Use)
}

func TestMCPCmd_HasServeSubcommand(t *testing.T) {
	commandNames := make([]string, 0)
	for _, cmd := range mcpCmd.Commands() {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "serve")
}

func TestMCPServeCmd_PortFlag(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("port")

	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestMCPServeCmd_Long(t *testing.T) {
	assert.Contains(t, mcpServeCmd.Long, "optimize_prompt")
	assert.Contains(t, mcpServeCmd.Long, "ingest_files")
}

func TestMCPServeCmd_ServiceNotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	refinementCoordinator = nil

	_, err := execute(t, "mcp", "serve")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestMCPListenAddr(t *testing.T) {
	defer func() { mcpPort, mcpAddr = 0, "" }()

	tests := []struct {
		name string
		port int
		addr string
		want string
	}{
		{"stdio", 0, "", ""},
		{"port", 8080, "", ":8080"},
		{"addr", 0, "127.0.0.1:9000", "127.0.0.1:9000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mcpPort, mcpAddr = tt.port, tt.addr
			assert.Equal(t, tt.want, mcpListenAddr())
		})
	}
}

func TestMCPServeCmd_PortAndAddrExclusive(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	defer resetFlags()

	_, err := execute(t, "mcp", "serve", "--port", "8080", "--addr", ":9000")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "none of the others can be")
}
