package service

import "fmt"

func reminderDigestTemplate(title, body, appName string) (string, string) {
	subject := fmt.Sprintf("%s: %s", appName, title)
	text := fmt.Sprintf(`%s

Open %s to log events or adjust your goals.

Best,
The %s Team`, body, appName, appName)

	return subject, text
}
