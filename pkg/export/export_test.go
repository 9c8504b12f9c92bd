package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRenderQuotesEveryCell(t *testing.T) {
	out, err := NewCSVExporter().Render(Dataset{
		Headers: []string{"ID", "Name"},
		Rows: [][]string{
			{"1", "Ann"},
			{"2", `Bob "B", Jr`},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "ID,Name\n\"1\",\"Ann\"\n\"2\",\"Bob \"\"B\"\", Jr\"\n", string(out))
}

func TestCSVRenderRejectsRaggedRows(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{Headers: []string{"A", "B"}, Rows: [][]string{{"only"}}})
	assert.Error(t, err)

	_, err = NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFRender(t *testing.T) {
	out, err := NewPDFExporter().Render(Dataset{
		Title:   "Users",
		Headers: []string{"ID", "Name"},
		Rows:    [][]string{{"1", "Ann"}},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = NewPDFExporter().Render(Dataset{})
	assert.Error(t, err)
}
