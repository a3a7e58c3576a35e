package i18n

// ZhCNMessages 简体中文消息目录
// ZhCNMessages Simplified Chinese message catalog
var ZhCNMessages = map[string]string{
	// TUI - 网格
	"app.title":         "习惯",
	"grid.habit":        "习惯",
	"grid.streak":       "连续",
	"grid.actions":      "操作",
	"grid.empty":        "还没有习惯，按 a 添加。",
	"grid.actions_hint": "空格 打卡 · d 删除",
	"grid.today":        "今天",

	// TUI - 输入
	"input.placeholder": "新习惯名称",
	"input.prompt":      "新习惯：",
	"input.submit_hint": "回车 添加 · esc 取消",

	// TUI - 状态栏
	"status.ready":   "就绪",
	"status.error":   "错误：%s",
	"status.deleted": "已删除 %s",

	// 提示
	"notice.created": "已创建习惯「%s」",

	// TUI - 快捷键
	"keys.move":   "↑↓ 习惯",
	"keys.date":   "←→ 日期",
	"keys.toggle": "空格 打卡",
	"keys.add":    "a 添加",
	"keys.delete": "d 删除",
	"keys.help":   "? 帮助",
	"keys.quit":   "q 退出",

	// 帮助页
	"help.markdown": `# 习惯

记录最近七天的日常习惯。

| 按键 | 操作 |
|------|------|
| ↑ / k, ↓ / j | 选择习惯 |
| ← / h, → / l | 选择日期 |
| 空格 / 回车 | 切换所选日期 |
| a | 添加习惯 |
| d | 删除所选习惯 |
| ? | 关闭帮助 |
| q / ctrl+c | 退出 |

**连续天数**从今天往前数连续完成的天数。
今天还没打卡时连续天数为零。
`,

	// 命令行
	"repl.welcome":  "habits 命令行，输入 help 查看命令。",
	"repl.prompt":   "habits> ",
	"repl.bye":      "再见",
	"repl.unknown":  "未知命令：%s（试试 help）",
	"repl.usage":    "用法：%s",
	"repl.no_match": "没有匹配 %q 的习惯",
	"repl.bad_date": "不是有效日期：%q",
	"repl.no_name":  "名称为空，未添加",
	"repl.done":     "%s 已在 %s 打卡（连续 %d 天）",
	"repl.undone":   "%s 已取消 %s 的打卡（连续 %d 天）",
	"repl.removed":  "已删除 %s",
	"repl.help": `命令：
  add <名称>          添加习惯
  done <编号> [日期]  切换某天（today、yesterday、-N 或 YYYY-MM-DD）
  rm <编号>           删除习惯
  list                显示网格
  help                显示帮助
  quit | exit         退出
<编号> 可以是 list 中的行号或习惯 id。`,

	// 一次性命令
	"print.empty":    "还没有习惯。",
	"print.imported": "已导入 %d 个习惯",
	"print.created":  "已创建习惯「%s」（id %s）",

	// 错误
	"error.generic": "错误：%s",
	"error.storage": "存储错误：%s",
	"error.config":  "配置错误：%s",
}
