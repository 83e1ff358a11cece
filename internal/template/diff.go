package template

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// NoDifferences is returned by GenerateDiff for identical input.
const NoDifferences = "No differences found."

// ChangeKind 文件变更类型
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"    // 仅存在于目录
	ChangeRemoved  ChangeKind = "removed"  // 仅存在于模板
	ChangeModified ChangeKind = "modified" // 两边内容不同
)

// FileChange 单个文件的差异
type FileChange struct {
	Path   string
	Kind   ChangeKind
	Binary bool
	Diff   string
}

// GenerateDiff 生成两个文本之间的 unified diff
func GenerateDiff(oldText, newText, oldLabel, newLabel string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldText, newText, false)

	if len(diffs) == 0 || (len(diffs) == 1 && diffs[0].Type == diffmatchpatch.DiffEqual) {
		return NoDifferences
	}

	unified := dmp.PatchToText(dmp.PatchMake(oldText, diffs))
	if unified == "" {
		return NoDifferences
	}

	var result strings.Builder
	fmt.Fprintf(&result, "--- %s\n", oldLabel)
	fmt.Fprintf(&result, "+++ %s\n", newLabel)
	result.WriteString(unified)
	return result.String()
}

// DiffTrees compares a stored file tree with a current one. Changes are
// ordered by path.
func DiffTrees(stored, current map[string][]byte) []FileChange {
	paths := slices.Sorted(maps.Keys(stored))
	for p := range current {
		if _, ok := stored[p]; !ok {
			paths = append(paths, p)
		}
	}
	slices.Sort(paths)

	var changes []FileChange
	for _, p := range paths {
		old, inStored := stored[p]
		cur, inCurrent := current[p]

		change := FileChange{Path: p}
		switch {
		case !inCurrent:
			change.Kind = ChangeRemoved
		case !inStored:
			change.Kind = ChangeAdded
		case bytes.Equal(old, cur):
			continue
		default:
			change.Kind = ChangeModified
		}

		change.Binary = isBinary(old) || isBinary(cur)
		if !change.Binary {
			change.Diff = GenerateDiff(string(old), string(cur), "template/"+p, "directory/"+p)
		}
		changes = append(changes, change)
	}
	return changes
}

// FormatDiffForCLI 为 CLI 输出格式化 diff（带颜色）
func FormatDiffForCLI(diff string) string {
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	var result strings.Builder
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			result.WriteString(bold.Sprint(line))
		case strings.HasPrefix(line, "-"):
			result.WriteString(red.Sprint(line))
		case strings.HasPrefix(line, "+"):
			result.WriteString(green.Sprint(line))
		case strings.HasPrefix(line, "@@"):
			result.WriteString(cyan.Sprint(line))
		default:
			result.WriteString(line)
		}
		result.WriteString("\n")
	}
	return result.String()
}

func isBinary(b []byte) bool {
	return bytes.IndexByte(b, 0) >= 0 || !utf8.Valid(b)
}
