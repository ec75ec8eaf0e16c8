package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"news-hallucination/pkg/model"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestFileSourceWalksInFilenameOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.json", `[{"headLine": "乙", "broadcastDate": "2018-01-02", "content": "内容。", "newsCategoryName": "经济"}]`)
	writeFile(t, dir, "a.json", `[
		{"headLine": "甲1", "broadcastDate": 20180101, "content": "内容。", "newsCategoryName": null},
		{"headLine": "甲2", "content": "内容。"}
	]`)
	writeFile(t, dir, "broken.json", `{not json`)

	var got []*model.RawNews
	err := NewFileSource(dir).Walk(context.Background(), func(news *model.RawNews) error {
		got = append(got, news)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "甲1", got[0].HeadLine)
	assert.Equal(t, "20180101", got[0].BroadcastDate)
	assert.Empty(t, got[0].NewsCategoryName)
	assert.Equal(t, "甲2", got[1].HeadLine)
	assert.Empty(t, got[1].BroadcastDate)
	assert.Equal(t, "乙", got[2].HeadLine)
	assert.Equal(t, "经济", got[2].NewsCategoryName)
}

func TestFileSourceStopsOnCallbackError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `[{"headLine": "1"}, {"headLine": "2"}]`)

	stop := errors.New("stop")
	calls := 0
	err := NewFileSource(dir).Walk(context.Background(), func(*model.RawNews) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestFileSourceMissingDir(t *testing.T) {
	err := NewFileSource(filepath.Join(t.TempDir(), "missing")).Walk(context.Background(), func(*model.RawNews) error {
		return nil
	})
	assert.Error(t, err)
}
