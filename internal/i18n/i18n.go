package i18n

import (
	"fmt"
)

var currentLanguage = "en" // 默认英文

// Message 多语言消息定义
var messages = map[string]map[string]string{
	"en": {
		// Common
		"success": "Success",
		"failed":  "Failed",
		"error":   "Error",
		"warning": "Warning",
		"done_in": "Done in %s.",

		// Template operations
		"template_saved":      "Template %q was saved in %q repository.",
		"template_deleted":    "Template %q was deleted from %q repository.",
		"template_updated":    "Template %q was updated.",
		"template_renamed":    "Template %q was renamed to %q.",
		"description_updated": "Description of %q was updated.",
		"description_cleared": "Description of %q was cleared.",
		"template_created":    "Created %d files from %q in %s.",
		"template_published":  "Template %q was published.",
		"template_fetched":    "Remote template %q was saved as %q in %q repository.",

		// Repositories
		"no_repositories":  "No repositories yet.",
		"repository_empty": "Repository %q is empty.",
		"remote_skipped":   "Remote templates unavailable: %v",

		// Account
		"account_registered": "Account was registered.",
		"logged_in":          "Logged in as %s.",
		"logged_out":         "Logged out.",

		// Backups
		"backup_restored": "Repository %q restored from %s (previous state saved as %s).",
		"no_backups":      "No backups of %q.",

		// Prompts
		"prompt.template_name":    "Template name: ",
		"prompt.repository":       "Repository (main): ",
		"prompt.description":      "Description (optional): ",
		"prompt.username":         "Username: ",
		"prompt.email":            "Email: ",
		"prompt.password":         "Password: ",
		"prompt.confirm_password": "Confirm your password: ",
	},
	"zh": {
		// Common
		"success": "成功",
		"failed":  "失败",
		"error":   "错误",
		"warning": "警告",
		"done_in": "耗时 %s。",

		// Template operations
		"template_saved":      "模板 %q 已保存到仓库 %q。",
		"template_deleted":    "模板 %q 已从仓库 %q 删除。",
		"template_updated":    "模板 %q 已更新。",
		"template_renamed":    "模板 %q 已重命名为 %q。",
		"description_updated": "模板 %q 的描述已更新。",
		"description_cleared": "模板 %q 的描述已清除。",
		"template_created":    "已从 %[2]q 创建 %[1]d 个文件到 %[3]s。",
		"template_published":  "模板 %q 已发布。",
		"template_fetched":    "远程模板 %q 已保存为仓库 %[3]q 中的 %[2]q。",

		// Repositories
		"no_repositories":  "还没有任何仓库。",
		"repository_empty": "仓库 %q 为空。",
		"remote_skipped":   "无法获取远程模板: %v",

		// Account
		"account_registered": "账户注册成功。",
		"logged_in":          "已登录为 %s。",
		"logged_out":         "已退出登录。",

		// Backups
		"backup_restored": "仓库 %q 已从 %s 恢复（恢复前的状态已保存为 %s）。",
		"no_backups":      "仓库 %q 没有备份。",

		// Prompts
		"prompt.template_name":    "模板名称: ",
		"prompt.repository":       "仓库 (main): ",
		"prompt.description":      "描述（可选）: ",
		"prompt.username":         "用户名: ",
		"prompt.email":            "邮箱: ",
		"prompt.password":         "密码: ",
		"prompt.confirm_password": "确认密码: ",
	},
}

// SetLanguage 设置当前语言，不支持的语言被忽略
func SetLanguage(lang string) {
	if lang == "en" || lang == "zh" {
		currentLanguage = lang
	}
}

// GetLanguage 获取当前语言
func GetLanguage() string {
	return currentLanguage
}

// T 翻译消息 (Translation)
func T(key string, args ...any) string {
	langMessages, ok := messages[currentLanguage]
	if !ok {
		langMessages = messages["en"] // 降级到英文
	}

	msg, ok := langMessages[key]
	if !ok {
		return key // 如果找不到翻译，返回 key 本身
	}

	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}

	return msg
}
