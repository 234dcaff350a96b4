package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const collection = `[
	{"id": "1", "title": "Abbey Road", "artist": "The Beatles", "genre": "Rock", "year": 1969, "tracks": 17},
	{"id": "2", "title": "Let It Be", "artist": "The Beatles", "genre": "Rock", "year": 1970, "tracks": 12},
	{"id": "3", "title": "Kind of Blue", "artist": "Miles Davis", "genre": "Jazz", "year": 1959, "tracks": 5},
	{"id": "4", "title": "Untitled"}
]`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeCollection(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "albums.json")
	require.NoError(t, os.WriteFile(path, []byte(collection), 0o600))
	return path
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"parse", "search", "orders"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "--format", "yaml", "orders")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestParse_JSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "parse", `artist:"Miles Davis" love`)
	require.NoError(t, err)

	var got parseOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "love", got.FreeText)
	assert.Equal(t, map[string]string{"artist": "Miles Davis"}, got.Fields)
}

func TestParse_UnknownKeyStaysFreeText(t *testing.T) {
	out, err := execute(t, "--format", "json", "parse", "label:apple beatles")
	require.NoError(t, err)

	var got parseOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "label:apple beatles", got.FreeText)
	assert.Empty(t, got.Fields)

	out, err = execute(t, "--format", "json", "parse", "--any-key", "a:1 a:2")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "", got.FreeText)
	assert.Equal(t, map[string]string{"a": "2"}, got.Fields)
}

func TestParse_Text(t *testing.T) {
	out, err := execute(t, "parse", "beatles", "year:1969")
	require.NoError(t, err)
	assert.Equal(t, "free text: \"beatles\"\nyear: \"1969\"\n", out)
}

func TestOrders(t *testing.T) {
	out, err := execute(t, "orders")
	require.NoError(t, err)
	assert.Equal(t, "1  artist (default)\n2  title\n3  year\n4  recent\n5  tracks\n", out)
}

func TestSearch(t *testing.T) {
	path := writeCollection(t)

	out, err := execute(t, "--format", "json", "search", "--file", path, "--order", "recent", "beatles")
	require.NoError(t, err)

	var got searchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Matches, 2)
	assert.Equal(t, "2", got.Matches[0].ID)
	assert.Equal(t, "1", got.Matches[1].ID)
	assert.Equal(t, 4, got.Total)
}

func TestSearch_CountsMatchFailures(t *testing.T) {
	path := writeCollection(t)

	out, err := execute(t, "search", "-f", path, "genre:rock")
	require.NoError(t, err)
	assert.Contains(t, out, "2 of 4 albums (1 could not be tested)")
}

func TestSearch_Errors(t *testing.T) {
	_, err := execute(t, "search", "beatles")
	require.Error(t, err)

	_, err = execute(t, "search", "--file", writeCollection(t), "--order", "rating")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown order")
}
