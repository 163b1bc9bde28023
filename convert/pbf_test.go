package convert_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lzhao/llmbatch/convert"
)

func TestParseBookmarks(t *testing.T) {
	t.Parallel()

	t.Run("wrapped document", func(t *testing.T) {
		t.Parallel()

		data := []byte(`{"bookmarks": [
			{"index": "0", "name": "Intro", "time_formatted": "00:00:01.500"},
			{"index": "1", "name": "Topic", "time_formatted": "00:01:00.000"}
		]}`)

		bookmarks, err := convert.ParseBookmarks(data)
		require.NoError(t, err)
		require.Len(t, bookmarks, 2)
		assert.Equal(t, "Intro", bookmarks[0].Name)
		assert.Equal(t, "00:01:00.000", bookmarks[1].TimeFormatted)
	})

	t.Run("bare array with numeric index", func(t *testing.T) {
		t.Parallel()

		data := []byte(`[{"index": 3, "name": "A", "time_formatted": "00:00:00.000"}]`)

		bookmarks, err := convert.ParseBookmarks(data)
		require.NoError(t, err)
		require.Len(t, bookmarks, 1)
		assert.Equal(t, "3", bookmarks[0].Index)
	})

	t.Run("code fences and BOM stripped", func(t *testing.T) {
		t.Parallel()

		data := []byte("\ufeff```json\n{\"bookmarks\": [{\"index\": \"0\", \"name\": \"X\", \"time_formatted\": \"00:00:02.000\"}]}\n```\n")

		bookmarks, err := convert.ParseBookmarks(data)
		require.NoError(t, err)
		require.Len(t, bookmarks, 1)
		assert.Equal(t, "X", bookmarks[0].Name)
	})

	t.Run("missing fields get defaults", func(t *testing.T) {
		t.Parallel()

		data := []byte(`{"bookmarks": [{"time_formatted": "00:00:03.000"}]}`)

		bookmarks, err := convert.ParseBookmarks(data)
		require.NoError(t, err)
		assert.Equal(t, "0", bookmarks[0].Index)
		assert.Equal(t, "Bookmark_0", bookmarks[0].Name)
	})

	t.Run("bare array without time_formatted rejected", func(t *testing.T) {
		t.Parallel()

		_, err := convert.ParseBookmarks([]byte(`[{"name": "not a bookmark"}]`))
		assert.Error(t, err)
	})

	t.Run("invalid JSON rejected", func(t *testing.T) {
		t.Parallel()

		_, err := convert.ParseBookmarks([]byte(`{"bookmarks": [broken`))
		assert.Error(t, err)
	})
}

func TestTimeToMilliseconds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int
	}{
		{"00:00:00.000", 0},
		{"00:00:01.500", 1500},
		{"00:01:00.000", 60000},
		{"01:02:03.450", 3723450},
	}
	for _, tt := range tests {
		got, err := convert.TimeToMilliseconds(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := convert.TimeToMilliseconds("nonsense")
	assert.Error(t, err)
}

func TestFormatPBF(t *testing.T) {
	t.Parallel()

	bookmarks := []convert.Bookmark{
		{Index: "0", Name: "Intro", TimeFormatted: "00:00:01.500"},
		{Index: "1", Name: "Topic", TimeFormatted: "00:01:00.000"},
	}

	got := convert.FormatPBF(bookmarks)

	want := "[Bookmark]\n0=1500*Intro*\n1=60000*Topic*\n2="
	assert.Equal(t, want, got)
}

func TestFormatPBFBadTimestampFallsBackToZero(t *testing.T) {
	t.Parallel()

	got := convert.FormatPBF([]convert.Bookmark{
		{Index: "0", Name: "Broken", TimeFormatted: "garbage"},
	})

	assert.Equal(t, "[Bookmark]\n0=0*Broken*\n1=", got)
}

func TestWritePBF(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.pbf")
	require.NoError(t, convert.WritePBF(path, "[Bookmark]"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// UTF-16 LE BOM followed by little-endian code units.
	require.GreaterOrEqual(t, len(data), 4)
	assert.Equal(t, byte(0xFF), data[0])
	assert.Equal(t, byte(0xFE), data[1])
	assert.Equal(t, byte('['), data[2])
	assert.Equal(t, byte(0), data[3])
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		filepath.Join("out", "video.pbf"),
		convert.OutputPath("out", filepath.Join("in", "video_bookmarks.json")))
	assert.Equal(t,
		filepath.Join("out", "plain.pbf"),
		convert.OutputPath("out", "plain.json"))
}

func TestConvertDir(t *testing.T) {
	t.Parallel()

	inputDir := t.TempDir()
	outputDir := t.TempDir()

	good := `{"bookmarks": [{"index": "0", "name": "A", "time_formatted": "00:00:01.000"}]}`
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "a_bookmarks.json"), []byte(good), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "b_bookmarks.json"), []byte("not json"), 0o644))

	summary, err := convert.ConvertDir(inputDir, outputDir)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Files)
	assert.Equal(t, 1, summary.Converted)
	assert.Equal(t, 1, summary.Failed)

	_, err = os.Stat(filepath.Join(outputDir, "a.pbf"))
	assert.NoError(t, err)
}

func TestConvertDirFallsBackToPlainJSON(t *testing.T) {
	t.Parallel()

	inputDir := t.TempDir()
	good := `[{"index": "0", "name": "A", "time_formatted": "00:00:01.000"}]`
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "notes.json"), []byte(good), 0o644))

	summary, err := convert.ConvertDir(inputDir, "")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Converted)

	_, err = os.Stat(filepath.Join(inputDir, "notes.pbf"))
	assert.NoError(t, err)
}
