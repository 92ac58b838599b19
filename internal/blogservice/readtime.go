package blogservice

import "strings"

const wordsPerMinute = 200

// ReadTime estimates reading time in whole minutes, never less than one.
func ReadTime(content string) int {
	words := len(strings.Fields(content))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute

	return max(minutes, 1)
}
