package config

import (
	"testing"

	"birthdaybot/bot/models"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeConfig() Config {
	return Config{
		BotToken:               "bot-token",
		GuildId:                "guild",
		AnnouncementsChannelId: "channel",
		SheetsToken:            "sheets-token",
		SpreadsheetId:          "spreadsheet",
		CronSchedule:           DefaultCronSchedule,
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, completeConfig().Validate())

	tests := []struct {
		field string
		clear func(*Config)
	}{
		{BotToken, func(c *Config) { c.BotToken = "" }},
		{GuildId, func(c *Config) { c.GuildId = "" }},
		{AnnouncementsChannelId, func(c *Config) { c.AnnouncementsChannelId = "   " }},
		{SheetsToken, func(c *Config) { c.SheetsToken = "" }},
		{SpreadsheetId, func(c *Config) { c.SpreadsheetId = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			cfg := completeConfig()
			tt.clear(&cfg)

			err := cfg.Validate()

			var configErr *models.ConfigurationError
			require.True(t, errors.As(err, &configErr), "got %v", err)
			assert.Equal(t, tt.field, configErr.Field)
		})
	}
}

func TestValidateReportsFirstMissingField(t *testing.T) {
	err := Config{SpreadsheetId: "spreadsheet"}.Validate()

	var configErr *models.ConfigurationError
	require.True(t, errors.As(err, &configErr))
	assert.Equal(t, BotToken, configErr.Field)
}

func TestValidateSchedule(t *testing.T) {
	cfg := completeConfig()
	require.NoError(t, cfg.ValidateSchedule())

	cfg.CronSchedule = "every morning"
	var configErr *models.ConfigurationError
	require.True(t, errors.As(cfg.ValidateSchedule(), &configErr))
	assert.Equal(t, CronSchedule, configErr.Field)

	cfg.CronSchedule = ""
	require.Error(t, cfg.ValidateSchedule())
}

func TestLoad(t *testing.T) {
	v := viper.New()
	v.Set(BotToken, " bot-token ")
	v.Set(GuildId, "guild")
	v.Set(AnnouncementsChannelId, "channel")
	v.Set(SheetsToken, "sheets-token")
	v.Set(SpreadsheetId, "spreadsheet")
	v.Set(AnnounceCard, "true")

	cfg := Load(v)

	assert.Equal(t, "bot-token", cfg.BotToken)
	assert.Equal(t, DefaultCronSchedule, cfg.CronSchedule)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.AnnounceCard)
	require.NoError(t, cfg.Validate())
}

func TestSheetRange(t *testing.T) {
	cfg := completeConfig()
	assert.Equal(t, "A2:C", cfg.SheetRange())

	cases := map[string]string{
		"Birthdays":        "Birthdays!A2:C",
		"Team_2026":        "Team_2026!A2:C",
		"Team Birthdays":   "'Team Birthdays'!A2:C",
		"Q1-Birthdays":     "'Q1-Birthdays'!A2:C",
		"Alice's Birthdays": "'Alice''s Birthdays'!A2:C",
	}

	for sheet, want := range cases {
		cfg.SheetId = sheet
		assert.Equal(t, want, cfg.SheetRange(), sheet)
	}
}
