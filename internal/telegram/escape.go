package telegram

import "strings"

// escapeMarkdownV2 екранує всі зарезервовані символи MarkdownV2,
// щоб довільне ім'я користувача не ламало розмітку повідомлення.
func escapeMarkdownV2(text string) string {
	reserved := []string{
		"_", "*", "[", "]", "(", ")", "~", "`", ">",
		"#", "+", "-", "=", "|", "{", "}", ".", "!",
	}
	escaped := strings.ReplaceAll(text, "\\", "\\\\")
	for _, ch := range reserved {
		escaped = strings.ReplaceAll(escaped, ch, "\\"+ch)
	}
	return escaped
}
