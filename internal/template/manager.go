package template

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

const timeLayout = "2006-01-02 15:04:05 MST"

// AllTemplates 合并本地与远程模板，并按来源标记类型
func AllTemplates(local, remote []Template) []Template {
	all := make([]Template, 0, len(local)+len(remote))
	for _, t := range local {
		t.Type = TypeLocal
		all = append(all, t)
	}
	for _, t := range remote {
		t.Type = TypeRemote
		all = append(all, t)
	}
	return all
}

// Describe 输出模板详情（名称、描述、时间、文件数量），不修改输入
func Describe(w io.Writer, templates []Template) {
	header := color.New(color.FgYellow, color.Bold)
	label := color.New(color.FgHiBlack)

	for i := range templates {
		t := &templates[i]
		if i > 0 {
			fmt.Fprintln(w)
		}

		header.Fprint(w, t.Name)
		fmt.Fprintf(w, " (%s)\n", t.Type)

		desc := t.DescriptionText()
		if desc == "" {
			desc = "-"
		}
		label.Fprint(w, "  Description: ")
		fmt.Fprintln(w, desc)

		if t.Owner != "" {
			label.Fprint(w, "  Owner:       ")
			fmt.Fprintln(w, t.Owner)
		}

		label.Fprint(w, "  Created:     ")
		fmt.Fprintln(w, formatTime(&t.CreatedAt))
		label.Fprint(w, "  Updated:     ")
		fmt.Fprintln(w, formatTime(t.UpdatedAt))

		label.Fprint(w, "  Files:       ")
		fmt.Fprintf(w, "%d (%s)\n", t.FileCount(), humanize.Bytes(t.TotalSize()))
		label.Fprint(w, "  Digest:      ")
		fmt.Fprintln(w, t.Digest()[:16])
	}
}

// PrintList 按来源分组输出模板名称
func PrintList(w io.Writer, templates []Template) {
	section := color.New(color.FgYellow)
	bar := color.New(color.FgHiBlack)

	groups := []struct {
		title string
		typ   Type
	}{
		{"Local Templates", TypeLocal},
		{"Remote Templates", TypeRemote},
	}

	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		section.Fprint(w, ">>")
		fmt.Fprintf(w, " %s\n", g.title)

		count := 0
		for _, t := range templates {
			if t.Type != g.typ {
				continue
			}
			count++
			bar.Fprint(w, "   | ")
			if t.Owner != "" {
				fmt.Fprintf(w, "%s (%s)\n", t.Name, t.Owner)
			} else {
				fmt.Fprintln(w, t.Name)
			}
		}
		if count == 0 {
			bar.Fprint(w, "   | ")
			fmt.Fprintln(w, "(none)")
		}
	}
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}
