package utils

import (
	"strings"
	"unicode/utf8"
)

// DebugGlyphWidth ebitenutil 调试字体的字符宽度（像素，等宽）
const DebugGlyphWidth = 6

// DebugLineHeight ebitenutil 调试字体的行高（像素）
const DebugLineHeight = 16

// WrapText 将文本按最大字符数自动换行
// 参数:
//   - textStr: 要换行的文本
//   - maxRunes: 每行最多字符数（按 rune 计）
//
// 换行规则:
//   - 优先在空格处断行
//   - 单词超过一行时强制断开
func WrapText(textStr string, maxRunes int) []string {
	if maxRunes <= 0 || utf8.RuneCountInString(textStr) <= maxRunes {
		return []string{textStr}
	}

	var lines []string
	current := ""

	for _, word := range strings.Fields(textStr) {
		for utf8.RuneCountInString(word) > maxRunes {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			head, tail := splitRunes(word, maxRunes)
			lines = append(lines, head)
			word = tail
		}

		switch {
		case current == "":
			current = word
		case utf8.RuneCountInString(current)+1+utf8.RuneCountInString(word) <= maxRunes:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}

	if current != "" {
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}

// DebugColumns 调试字体在 widthPx 像素内能放下的字符数
func DebugColumns(widthPx int) int {
	if widthPx <= 0 {
		return 0
	}
	return widthPx / DebugGlyphWidth
}

// DebugRows 调试字体在 heightPx 像素内能放下的行数
func DebugRows(heightPx int) int {
	if heightPx <= 0 {
		return 0
	}
	return heightPx / DebugLineHeight
}

func splitRunes(s string, n int) (string, string) {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], s[pos:]
		}
		i++
	}
	return s, ""
}
