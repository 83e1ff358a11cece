package portable

import (
	"os"
	"path/filepath"
)

// MarkerFile placed next to the executable switches the tool to portable mode.
const MarkerFile = "portable.ini"

// DataDirName is the data directory created beside the executable in portable mode.
const DataDirName = ".templo"

var portableExecutableFunc = os.Executable

// IsPortableMode 检测是否为便携版模式
// 便携版模式：在程序所在目录下存在 portable.ini 文件
func IsPortableMode() bool {
	execPath, err := portableExecutableFunc()
	if err != nil {
		return false
	}

	info, err := os.Stat(filepath.Join(filepath.Dir(execPath), MarkerFile))
	if err != nil {
		return false
	}

	return !info.IsDir()
}

// GetPortableDataDir 获取便携版数据目录
// 便携版模式下，数据目录为程序所在目录下的 .templo 子目录
func GetPortableDataDir() (string, error) {
	execPath, err := portableExecutableFunc()
	if err != nil {
		return "", err
	}

	return filepath.Join(filepath.Dir(execPath), DataDirName), nil
}

// MarkerPath 返回 portable.ini 的位置（程序所在目录）
func MarkerPath() (string, error) {
	execPath, err := portableExecutableFunc()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(execPath), MarkerFile), nil
}

// Enable 创建 portable.ini；已启用时不做任何事
func Enable() (string, error) {
	marker, err := MarkerPath()
	if err != nil {
		return "", err
	}
	content := []byte("# Templo portable mode\n# Delete this file to keep data in the user folder again.\n")
	if err := os.WriteFile(marker, content, 0644); err != nil {
		return "", err
	}
	return marker, nil
}

// Disable 删除 portable.ini。已有的便携版数据不会被删除。
func Disable() (string, error) {
	marker, err := MarkerPath()
	if err != nil {
		return "", err
	}
	if err := os.Remove(marker); err != nil && !os.IsNotExist(err) {
		return "", err
	}
	return marker, nil
}
