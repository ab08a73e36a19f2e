package utils

import (
	"fmt"
	"time"
)

// Convert month days to contain ordinal indicators
func Ordinal(n int) string {
	suffix := "th"
	switch n % 10 {
	case 1:
		suffix = "st"
	case 2:
		suffix = "nd"
	case 3:
		suffix = "rd"
	}
	if n%100 >= 11 && n%100 <= 13 {
		suffix = "th"
	}
	return fmt.Sprintf("%v%s", n, suffix)
}

// LongDate formats t as "October 19th".
func LongDate(t time.Time) string {
	return fmt.Sprintf("%s %s", t.Month(), Ordinal(t.Day()))
}

func MessageURL(guildId, channelId, messageId string) string {
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guildId, channelId, messageId)
}

// Mention renders the Discord mention syntax for a user ID.
func Mention(userId string) string {
	return fmt.Sprintf("<@%s>", userId)
}
