package config

import (
	"strings"
	"unicode"

	"birthdaybot/bot/models"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

const (
	BotToken               = "DISCORD_API_TOKEN"
	GuildId                = "DISCORD_GUILD_ID"
	AnnouncementsChannelId = "DISCORD_ANNOUNCEMENTS_CHANNEL_ID"
	SheetsToken            = "GOOGLE_SHEETS_API_TOKEN"
	SpreadsheetId          = "GOOGLE_SHEETS_SPREADSHEET_ID"
	SheetId                = "GOOGLE_SHEETS_SHEET_ID"
	SentryDSN              = "SENTRY_DSN"
	PostgresDSN            = "POSTGRES_DSN"
	CronSchedule           = "CRON_SCHEDULE"
	MetricsAddr            = "METRICS_ADDR"
	AnnounceCard           = "ANNOUNCE_CARD"
	LogLevel               = "LOG_LEVEL"
)

const (
	DefaultCronSchedule = "0 9 * * *"
	birthdayColumns     = "A2:C"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Config is read once per process and passed by value to every component.
type Config struct {
	BotToken               string
	GuildId                string
	AnnouncementsChannelId string
	SheetsToken            string
	SpreadsheetId          string

	SheetId      string
	SentryDSN    string
	PostgresDSN  string
	CronSchedule string
	MetricsAddr  string
	AnnounceCard bool
	LogLevel     string
}

func Load(v *viper.Viper) Config {
	v.SetDefault(CronSchedule, DefaultCronSchedule)
	v.SetDefault(LogLevel, "info")

	return Config{
		BotToken:               strings.TrimSpace(v.GetString(BotToken)),
		GuildId:                strings.TrimSpace(v.GetString(GuildId)),
		AnnouncementsChannelId: strings.TrimSpace(v.GetString(AnnouncementsChannelId)),
		SheetsToken:            strings.TrimSpace(v.GetString(SheetsToken)),
		SpreadsheetId:          strings.TrimSpace(v.GetString(SpreadsheetId)),
		SheetId:                strings.TrimSpace(v.GetString(SheetId)),
		SentryDSN:              strings.TrimSpace(v.GetString(SentryDSN)),
		PostgresDSN:            strings.TrimSpace(v.GetString(PostgresDSN)),
		CronSchedule:           strings.TrimSpace(v.GetString(CronSchedule)),
		MetricsAddr:            strings.TrimSpace(v.GetString(MetricsAddr)),
		AnnounceCard:           v.GetBool(AnnounceCard),
		LogLevel:               strings.TrimSpace(v.GetString(LogLevel)),
	}
}

// Validate reports the first required setting that is empty.
func (c Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{BotToken, c.BotToken},
		{GuildId, c.GuildId},
		{AnnouncementsChannelId, c.AnnouncementsChannelId},
		{SheetsToken, c.SheetsToken},
		{SpreadsheetId, c.SpreadsheetId},
	}

	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return &models.ConfigurationError{Field: field.name}
		}
	}

	return nil
}

// ValidateSchedule checks the cron expression used by the long-running scheduler.
func (c Config) ValidateSchedule() error {
	if c.CronSchedule == "" {
		return &models.ConfigurationError{Field: CronSchedule}
	}

	if _, err := cronParser.Parse(c.CronSchedule); err != nil {
		return &models.ConfigurationError{Field: CronSchedule, Reason: "is not a valid cron expression: " + err.Error()}
	}

	return nil
}

// SheetRange is the A1 range holding the birthday rows, prefixed with the
// sheet name when one is configured.
func (c Config) SheetRange() string {
	if c.SheetId == "" {
		return birthdayColumns
	}
	return quoteSheetName(c.SheetId) + "!" + birthdayColumns
}

// quoteSheetName wraps names that are not plain identifiers in single
// quotes, doubling any quote inside, as A1 notation requires.
func quoteSheetName(name string) string {
	plain := true
	for _, r := range name {
		if !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			plain = false
			break
		}
	}

	if plain {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
