package responses

import (
	"fmt"
	"time"

	"birthdaybot/bot/models"
	"birthdaybot/utils"
)

// Birthday composes the announcement for user, whose row matched today.
func Birthday(channelId string, row models.BirthdayRow, user models.ResolvedUser, today time.Time) models.AnnouncementMessage {
	return models.AnnouncementMessage{
		ChannelId: channelId,
		Content: fmt.Sprintf("Today, %s, %s (%s) was born!\n\nIt's their birthday 🎉🥳 Drop them a message and help make it a great one!",
			utils.LongDate(today.UTC()), row.Name, utils.Mention(user.UserId)),
	}
}

// CardCaption is the short line drawn on the optional birthday card.
func CardCaption(row models.BirthdayRow) string {
	return fmt.Sprintf("Happy birthday, %s!", row.Name)
}
