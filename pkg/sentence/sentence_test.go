package sentence

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitKeepsBoundaryOnPrecedingSegment(t *testing.T) {
	got := Split("第一句。第二句！第三句？结尾")
	assert.Equal(t, []string{"第一句。", "第二句！", "第三句？", "结尾"}, got)

	got = Split("只有一句。")
	assert.Equal(t, []string{"只有一句。", ""}, got)

	assert.Equal(t, []string{""}, Split(""))
}

func TestSplitIgnoresColonButSplitOutputDoesNot(t *testing.T) {
	assert.Equal(t, []string{"他说：好。", ""}, Split("他说：好。"))
	assert.Equal(t, []string{"他说：", "好。", ""}, SplitOutput("他说：好。"))
	assert.Equal(t, "他说：", FirstSentence("他说：好。后面还有"))
	assert.Equal(t, "没有标点", FirstSentence("没有标点"))
}

func TestSplitRejoinsToOriginal(t *testing.T) {
	texts := []string{
		"",
		"。。。",
		"新华社北京电。记者获悉；会议将于明日召开？是的！",
		"a。b；c？d！e：f",
		"混合 English text. 没有中文句号",
	}
	for _, text := range texts {
		assert.Equal(t, text, strings.Join(Split(text), ""))
		assert.Equal(t, text, strings.Join(SplitOutput(text), ""))
	}
}

func TestLenCountsCharacters(t *testing.T) {
	assert.Equal(t, 4, Len("中国人民"))
	assert.Equal(t, 3, Len("abc"))
	assert.Equal(t, "2018-02-27", Prefix("2018-02-27 10:00:00", 10))
	assert.Equal(t, "短", Prefix("短", 10))
	assert.Equal(t, "", Prefix("任何", 0))
}

func TestBeginning(t *testing.T) {
	s40 := strings.Repeat("字", 39) + "。"

	t.Run("two sentences fit", func(t *testing.T) {
		content := s40 + s40 + s40
		head, rest, ok := Beginning(content)
		require.True(t, ok)
		assert.Equal(t, s40+s40, head)
		assert.Equal(t, s40, rest)
		assert.Equal(t, content, head+rest)
	})

	t.Run("needs more sentences", func(t *testing.T) {
		s20 := strings.Repeat("字", 19) + "。"
		content := s20 + s20 + s20 + s20 + "余下内容。"
		head, rest, ok := Beginning(content)
		require.True(t, ok)
		assert.Equal(t, 80, Len(head))
		assert.Equal(t, "余下内容。", rest)
	})

	t.Run("never in range", func(t *testing.T) {
		s70 := strings.Repeat("字", 69) + "。"
		_, _, ok := Beginning(s70 + s70 + s70)
		assert.False(t, ok)

		s10 := strings.Repeat("字", 9) + "。"
		_, _, ok = Beginning(strings.Repeat(s10, 8))
		assert.False(t, ok)
	})
}

func TestToHalfWidth(t *testing.T) {
	assert.Equal(t, "ABC 123", ToHalfWidth("ＡＢＣ　１２３"))
	assert.Equal(t, "，。；：？！（）", ToHalfWidth("，。；：？！（）"))
	assert.Equal(t, "新华社「电」", ToHalfWidth("新华社「电」"))
}
