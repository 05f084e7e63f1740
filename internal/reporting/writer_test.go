package reporting

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

func TestWriteFile_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "run.json")

	require.NoError(t, WriteFile(path, sampleReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"run_id": "run-1"`)
	require.Contains(t, string(data), `"letter_grade": "D"`)

	back, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "run-1", back.RunID)
	require.Len(t, back.Recommendations, 1)
}

func TestWriteFile_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json.gz")

	require.NoError(t, WriteFile(path, sampleReport()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	require.Equal(t, "run.json", gz.Name)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(gz)
	require.NoError(t, err)
	require.Contains(t, buf.String(), `"unified_scores"`)

	back, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 1.0, back.Overall.GPA)
}

func TestReadFile_NotGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.gz")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	_, err := ReadFile(path)
	require.Error(t, err)
}

func TestWriteFile_BadPath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	require.Error(t, WriteFile(filepath.Join(blocker, "run.json"), sampleReport()))
}
