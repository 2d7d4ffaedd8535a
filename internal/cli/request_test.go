package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bowtie/internal/testutil"
)

func TestRequest_Text(t *testing.T) {
	stdout, _, err := execute(t, "request", "testdata/minimum.yaml")
	require.NoError(t, err)
	testutil.AssertGoldenBytes(t, "request_minimum", []byte(stdout))
}

func TestRequest_JSON(t *testing.T) {
	stdout, _, err := execute(t, "request", "testdata/minimum.yaml", "--seq", "42", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "run", resp.Data["cmd"])
	assert.EqualValues(t, 42, resp.Data["seq"])
	assert.NotContains(t, stdout, `"valid"`)
}

func TestRequest_MissingFixture(t *testing.T) {
	_, stderr, err := execute(t, "request", "testdata/absent.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stderr, "Error [E001]")
}

func TestRequest_UnknownDialect(t *testing.T) {
	_, _, err := execute(t, "request", "testdata/minimum.yaml", "--dialect", "2030-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown dialect")
}

func TestRequest_MissingArgs(t *testing.T) {
	cmd := NewRequestCommand(&RootOptions{Format: "text"})
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}
