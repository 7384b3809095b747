package output

import "strings"

const minimumFenceLength = 3

// codeFence returns a backtick fence longer than the longest backtick run in content.
func codeFence(content []byte) string {
	longestRun := 0
	currentRun := 0
	for _, byteValue := range content {
		if byteValue == '`' {
			currentRun++
			if currentRun > longestRun {
				longestRun = currentRun
			}
			continue
		}
		currentRun = 0
	}
	fenceLength := minimumFenceLength
	if longestRun >= fenceLength {
		fenceLength = longestRun + 1
	}
	return strings.Repeat("`", fenceLength)
}
