package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/squareone-research/cafeferry/internal/cli/output"
	"github.com/squareone-research/cafeferry/internal/ferry"
)

func TestValidateCommandClean(t *testing.T) {
	setupProject(t)

	out, err := executeJSON(t, NewValidateCommand())
	require.NoError(t, err)

	var got ferry.ValidationReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, 30, got.Records)
	assert.Empty(t, got.Problems)
	assert.Equal(t, 0, got.Warnings.Total())
}

func TestValidateCommandYAML(t *testing.T) {
	setupProject(t)

	out := new(bytes.Buffer)
	cmd := NewValidateCommand()
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--format", "yaml"})

	r := output.NewRenderer(out, out, output.ModeMarkdown)
	require.NoError(t, cmd.ExecuteContext(output.NewContext(context.Background(), r)))

	var got ferry.ValidationReport
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, 30, got.Records)
}

func TestValidateCommandFatalProblems(t *testing.T) {
	setupProject(t)

	corruptRawStore(t, "UPDATE cafes SET name = NULL WHERE cafe_id IN (11, 12)")

	out, err := executeJSON(t, NewValidateCommand())
	require.Error(t, err)

	var verr *ferry.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Problems, 1)
	assert.Equal(t, ferry.CheckMissingRequired, verr.Problems[0].Check)
	assert.Equal(t, "name", verr.Problems[0].Field)
	assert.Equal(t, 2, verr.Problems[0].Count)

	// The report is still printed before the error propagates.
	var got ferry.ValidationReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Len(t, got.Problems, 1)
}

func TestValidateCommandWarningsAreNotFatal(t *testing.T) {
	setupProject(t)

	corruptRawStore(t, "UPDATE cafes SET google_rating = 7.5 WHERE cafe_id = 15")
	corruptRawStore(t, "UPDATE cafes SET review_count = -3 WHERE cafe_id = 16")

	out, err := executeJSON(t, NewValidateCommand())
	require.NoError(t, err)

	var got ferry.ValidationReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, 1, got.Warnings.InvalidRating)
	assert.Equal(t, 1, got.Warnings.NegativeReviews)
	assert.Empty(t, got.Problems)
}

func TestValidateCommandTextOutput(t *testing.T) {
	setupProject(t)

	out := new(bytes.Buffer)
	cmd := NewValidateCommand()
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--format", "text"})

	r := output.NewRenderer(out, out, output.ModeText)
	require.NoError(t, cmd.ExecuteContext(output.NewContext(context.Background(), r)))

	assert.Contains(t, out.String(), "Validation")
	assert.Contains(t, out.String(), "Validation passed")
}

func TestValidateCommandUnknownFormat(t *testing.T) {
	setupProject(t)

	_, err := executeJSON(t, NewValidateCommand(), "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}
