package i18n

// EnMessages English message catalog
var EnMessages = map[string]string{
	// UI - Grid
	"app.title":         "Habits",
	"grid.habit":        "Habit",
	"grid.streak":       "Streak",
	"grid.actions":      "Actions",
	"grid.empty":        "No habits yet. Press a to add one.",
	"grid.actions_hint": "space toggle · d delete",
	"grid.today":        "today",

	// UI - Input
	"input.placeholder": "New habit name",
	"input.prompt":      "New habit: ",
	"input.submit_hint": "enter add · esc cancel",

	// UI - Status bar
	"status.ready":   "Ready",
	"status.error":   "Error: %s",
	"status.deleted": "Deleted %s",

	// Notice
	"notice.created": "Created habit \"%s\"",

	// UI - Keybindings (TUI)
	"keys.move":   "↑↓ habit",
	"keys.date":   "←→ date",
	"keys.toggle": "space toggle",
	"keys.add":    "a add",
	"keys.delete": "d delete",
	"keys.help":   "? help",
	"keys.quit":   "q quit",

	// Help page (markdown)
	"help.markdown": `# Habits

Track a few daily habits over the last seven days.

| Key | Action |
|-----|--------|
| ↑ / k, ↓ / j | select habit |
| ← / h, → / l | select date |
| space / enter | toggle the selected day |
| a | add a habit |
| d | delete the selected habit |
| ? | close this page |
| q / ctrl+c | quit |

The **streak** counts consecutive completed days ending today.
A day you have not marked yet keeps the streak at zero.
`,

	// Line shell
	"repl.welcome":  "habits shell. Type help for commands.",
	"repl.prompt":   "habits> ",
	"repl.bye":      "Bye",
	"repl.unknown":  "Unknown command: %s (try help)",
	"repl.usage":    "usage: %s",
	"repl.no_match": "No habit matches %q",
	"repl.bad_date": "Not a date: %q",
	"repl.no_name":  "Name is empty, nothing added",
	"repl.done":     "Marked %s done on %s (streak %d)",
	"repl.undone":   "Cleared %s on %s (streak %d)",
	"repl.removed":  "Removed %s",
	"repl.help": `Commands:
  add <name>          add a habit
  done <ref> [date]   toggle a day (today, yesterday, -N or YYYY-MM-DD)
  rm <ref>            remove a habit
  list                show the grid
  help                show this help
  quit | exit         leave the shell
<ref> is a row number from list or a habit id.`,

	// One-shot commands
	"print.empty":    "No habits yet.",
	"print.imported": "Imported %d habits",
	"print.created":  "Created habit \"%s\" (id %s)",

	// Errors
	"error.generic": "Error: %s",
	"error.storage": "Storage error: %s",
	"error.config":  "Config error: %s",
}
