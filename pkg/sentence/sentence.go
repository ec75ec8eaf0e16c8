package sentence

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"
)

const (
	// 文章分句使用的句末标点
	articleBoundaries = "。；？！"
	// 模型输出额外按冒号截断
	outputBoundaries = "。；：？！"

	MinBeginningLength = 80
	MaxBeginningLength = 120
	MinBeginningCount  = 2
	MaxBeginningCount  = 5
)

// Split 按句末标点切分文章，标点保留在前一句末尾。
// 文本以标点结尾时最后一个元素为空字符串，调用方需要容忍。
func Split(text string) []string {
	return splitAfter(text, articleBoundaries)
}

// SplitOutput 与 Split 相同，但额外以全角冒号作为边界，用于截断模型续写
func SplitOutput(text string) []string {
	return splitAfter(text, outputBoundaries)
}

// FirstSentence 返回模型输出的第一句
func FirstSentence(text string) string {
	return SplitOutput(text)[0]
}

func splitAfter(text, boundaries string) []string {
	segments := make([]string, 0, 8)
	start := 0
	for i, r := range text {
		if strings.ContainsRune(boundaries, r) {
			end := i + utf8.RuneLen(r)
			segments = append(segments, text[start:end])
			start = end
		}
	}
	return append(segments, text[start:])
}

// Len 返回字符数（按 rune 计），系统中所有长度规则都以此为准
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

// Prefix 返回前 n 个字符
func Prefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Beginning 寻找前 2~5 句拼接长度落在 [80,120] 的最短开头。
// ok 为 false 表示文章不合格。
func Beginning(content string) (beginning, remainder string, ok bool) {
	sentences := Split(content)
	for i := MinBeginningCount; i <= MaxBeginningCount; i++ {
		n := i
		if n > len(sentences) {
			n = len(sentences)
		}
		head := strings.Join(sentences[:n], "")
		if l := Len(head); l >= MinBeginningLength && l <= MaxBeginningLength {
			return head, strings.Join(sentences[n:], ""), true
		}
	}
	return "", "", false
}

// 不需要转换的典型中文标点
const keepFullWidth = "，。；：？！（）"

// ToHalfWidth 将全角字符（U+FF01~U+FF5E 与全角空格）转换为半角，中文标点保持不变
func ToHalfWidth(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case strings.ContainsRune(keepFullWidth, r):
			b.WriteRune(r)
		case r >= 0xFF01 && r <= 0xFF5E, r == '　':
			b.WriteString(width.Narrow.String(string(r)))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
