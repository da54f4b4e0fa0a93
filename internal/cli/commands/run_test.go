package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squareone-research/cafeferry/internal/cli/output"
	"github.com/squareone-research/cafeferry/internal/config"
	"github.com/squareone-research/cafeferry/internal/ferry"
)

func TestRunCommand(t *testing.T) {
	setupProject(t)

	out, err := executeJSON(t, NewRunCommand("test"))
	require.NoError(t, err)

	var got runOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.NotEmpty(t, got.RunID)
	assert.Equal(t, 30, got.InputRecords)
	assert.Equal(t, 30, got.OutputRecords)
	assert.Equal(t, 6, got.SOC)
	assert.Equal(t, 24, got.Competitors)
	assert.Equal(t, 0, got.Warnings.Total())
	assert.Greater(t, got.AvgCompleteness, 90.0)
	assert.NotEmpty(t, got.Distribution)

	// Derived store created at the default path
	_, statErr := os.Stat(config.Default().Derived.Path)
	assert.NoError(t, statErr)
}

func TestRunCommandMarkdownOutput(t *testing.T) {
	setupProject(t)

	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cmd := NewRunCommand("test")
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{})

	r := output.NewRenderer(out, errOut, output.ModeMarkdown)
	require.NoError(t, cmd.ExecuteContext(output.NewContext(context.Background(), r)))

	assert.Contains(t, out.String(), "# Ferry Run")
	assert.Contains(t, out.String(), "**Records:** 30 in, 30 out")
	assert.Contains(t, out.String(), "## Quality Distribution")
	assert.Contains(t, out.String(), "| Tier | Count | Share |")
}

func TestRunCommandMissingRawStore(t *testing.T) {
	config.Reset()
	t.Cleanup(config.Reset)

	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmpDir))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })

	_, err := executeJSON(t, NewRunCommand("test"))
	require.Error(t, err)
}

func TestRunCommandFatalValidationError(t *testing.T) {
	setupProject(t)

	// Blank out a required field so validation fails before writing.
	corruptRawStore(t, "UPDATE cafes SET name = NULL WHERE cafe_id = 12")

	_, err := executeJSON(t, NewRunCommand("test"))
	require.Error(t, err)

	var verr *ferry.ValidationError
	assert.ErrorAs(t, err, &verr)

	// Nothing was written
	_, statErr := os.Stat(config.Default().Derived.Path)
	assert.True(t, os.IsNotExist(statErr))
}
