package models

import "gorm.io/gorm"

// BirthdayRow is one spreadsheet record, columns A-C in order.
type BirthdayRow struct {
	Name    string
	RawDate string
	Handle  string
}

type ResolvedUser struct {
	Handle string
	UserId string
}

type AnnouncementMessage struct {
	ChannelId string
	Content   string

	// Card is an optional PNG attached to the message.
	Card []byte
}

// Announcement records a posted birthday message so a rerun on the same
// UTC date can skip it.
type Announcement struct {
	gorm.Model
	Day       string `gorm:"index:idx_announcement_day_handle,unique"`
	Handle    string `gorm:"index:idx_announcement_day_handle,unique"`
	UserId    string
	ChannelId string
	MessageId string
}
