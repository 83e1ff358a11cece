package template

import (
	"encoding/binary"
	"encoding/hex"
	"maps"
	"slices"
	"time"

	"github.com/zeebo/blake3"
)

// Type 模板来源
type Type string

const (
	TypeLocal  Type = "local"  // 本机仓库中的模板
	TypeRemote Type = "remote" // 远程索引提供的模板（不作为本地可编辑记录保存）
)

// Template 目录快照
type Template struct {
	ID          string            `json:"id"`                   // 唯一标识（UUID），重命名/更新时保持不变
	Name        string            `json:"name"`                 // 仓库内唯一
	Description *string           `json:"description,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`           // 创建时设置，之后不再变化
	UpdatedAt   *time.Time        `json:"updated_at,omitempty"` // 仅在内容更新时设置
	FileTree    map[string][]byte `json:"file_tree"`            // 相对路径（正斜杠）-> 文件内容
	Type        Type              `json:"template_type"`
	Owner       string            `json:"owner,omitempty"` // 远程模板的发布者
}

// Collection 仓库存储单元的文档格式
type Collection struct {
	Version    int        `json:"version"`
	Repository string     `json:"repository"`
	Templates  []Template `json:"templates"`
}

// CollectionVersion is the current storage document version.
const CollectionVersion = 1

// NewCollection returns an empty collection for a repository.
func NewCollection(repository string) *Collection {
	return &Collection{
		Version:    CollectionVersion,
		Repository: repository,
		Templates:  []Template{},
	}
}

// Index returns the position of the named template, or -1.
func (c *Collection) Index(name string) int {
	return slices.IndexFunc(c.Templates, func(t Template) bool { return t.Name == name })
}

// DescriptionText returns the description or an empty string.
func (t *Template) DescriptionText() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}

func (t *Template) FileCount() int {
	return len(t.FileTree)
}

// TotalSize is the sum of all file sizes in bytes.
func (t *Template) TotalSize() uint64 {
	var total uint64
	for _, content := range t.FileTree {
		total += uint64(len(content))
	}
	return total
}

// Paths returns the file tree keys in lexical order.
func (t *Template) Paths() []string {
	return slices.Sorted(maps.Keys(t.FileTree))
}

// Digest is a blake3 hash over the sorted file tree. Two templates with the
// same files have the same digest regardless of names or timestamps.
func (t *Template) Digest() string {
	h := blake3.New()
	var size [8]byte
	for _, p := range t.Paths() {
		content := t.FileTree[p]
		binary.BigEndian.PutUint64(size[:], uint64(len(p)))
		_, _ = h.Write(size[:])
		_, _ = h.Write([]byte(p))
		binary.BigEndian.PutUint64(size[:], uint64(len(content)))
		_, _ = h.Write(size[:])
		_, _ = h.Write(content)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Clone returns a deep copy.
func (t *Template) Clone() *Template {
	c := *t
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	if t.UpdatedAt != nil {
		u := *t.UpdatedAt
		c.UpdatedAt = &u
	}
	c.FileTree = make(map[string][]byte, len(t.FileTree))
	for p, content := range t.FileTree {
		c.FileTree[p] = slices.Clone(content)
	}
	return &c
}
