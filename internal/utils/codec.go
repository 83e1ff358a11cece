package utils

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
)

// The on-disk format of storage units and the credential file is
// base64(JSON). The encoding only keeps casual readers from editing the
// files by hand; it is not encryption.

// EncodeJSON 序列化为 JSON 后进行 base64 编码
func EncodeJSON(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("序列化 JSON 失败: %w", err)
	}
	out := make([]byte, base64.StdEncoding.EncodedLen(len(data)))
	base64.StdEncoding.Encode(out, data)
	return out, nil
}

// DecodeJSON 还原 EncodeJSON 的输出
func DecodeJSON(data []byte, v any) error {
	raw := make([]byte, base64.StdEncoding.DecodedLen(len(data)))
	n, err := base64.StdEncoding.Decode(raw, bytes.TrimSpace(data))
	if err != nil {
		return fmt.Errorf("base64 解码失败: %w", err)
	}
	if err := json.Unmarshal(raw[:n], v); err != nil {
		return fmt.Errorf("解析 JSON 失败: %w", err)
	}
	return nil
}

// WriteEncodedFile 以 base64(JSON) 格式原子写入文件
func WriteEncodedFile(path string, v any, perm os.FileMode) error {
	data, err := EncodeJSON(v)
	if err != nil {
		return err
	}
	return AtomicWriteFile(path, data, perm)
}

// ReadEncodedFile 读取 base64(JSON) 格式的文件
func ReadEncodedFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return DecodeJSON(data, v)
}
