package tasks

import (
	"context"
	"time"

	"birthdaybot/bot/birthdays"
	"birthdaybot/bot/cards"
	"birthdaybot/bot/config"
	"birthdaybot/bot/ledger"
	"birthdaybot/bot/metrics"
	"birthdaybot/bot/models"
	"birthdaybot/bot/responses"
	"birthdaybot/bot/telemetry"
	"birthdaybot/utils"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type RowSource interface {
	FetchRows(ctx context.Context, spreadsheetId, cellRange string) ([]models.BirthdayRow, error)
}

type Messenger interface {
	ResolveUser(ctx context.Context, guildId, handle string) (models.ResolvedUser, error)
	PostMessage(ctx context.Context, msg models.AnnouncementMessage) (string, error)
}

type Ledger interface {
	Announced(ctx context.Context, day, handle string) (bool, error)
	Record(ctx context.Context, announcement models.Announcement) error
}

// CardRenderer draws the image attached to an announcement.
type CardRenderer func(title, subtitle string) ([]byte, error)

type BirthdayCheck struct {
	Config    config.Config
	Sheets    RowSource
	Messenger Messenger
	Sink      telemetry.Sink
	Log       *zap.Logger

	// Ledger is optional. Without it every matching row is announced.
	Ledger Ledger
	// Cards is used only when Config.AnnounceCard is set.
	Cards CardRenderer
	Now   func() time.Time
}

func NewBirthdayCheck(cfg config.Config, sheets RowSource, messenger Messenger, sink telemetry.Sink, log *zap.Logger) *BirthdayCheck {
	return &BirthdayCheck{
		Config:    cfg,
		Sheets:    sheets,
		Messenger: messenger,
		Sink:      sink,
		Log:       log,
		Cards:     cards.Render,
		Now:       time.Now,
	}
}

// Job adapts the check to a scheduler callback running under ctx. Failures
// are already reported by Run, so the job only logs the outcome.
func (b *BirthdayCheck) Job(ctx context.Context) func() {
	return func() {
		if err := b.Run(ctx); err != nil {
			b.logger().Warn("birthday check aborted", zap.Error(err))
		}
	}
}

// Run performs one invocation: validate, fetch, filter, then resolve and
// post each match in order. The first failure is reported once and returned.
func (b *BirthdayCheck) Run(ctx context.Context) (err error) {
	invocationId := uuid.NewString()
	log := b.logger().With(zap.String("invocation_id", invocationId))
	sink := b.sink()

	sink.Begin(invocationId)
	defer func() {
		if err != nil {
			sink.Breadcrumb(err.Error(), "error")
			sink.Capture(err)
			metrics.Invocations.WithLabelValues(models.Kind(err)).Inc()
		} else {
			metrics.Invocations.WithLabelValues("success").Inc()
			metrics.LastSuccess.SetToCurrentTime()
		}
		sink.Flush(2 * time.Second)
	}()

	sink.Breadcrumb("Validating configuration...", "config")
	if err := b.Config.Validate(); err != nil {
		return err
	}

	sink.Breadcrumb("Fetching birthdays from spreadsheet...", "sheets")
	rows, err := b.Sheets.FetchRows(ctx, b.Config.SpreadsheetId, b.Config.SheetRange())
	if err != nil {
		return errors.Wrap(err, "fetch birthdays")
	}
	log.Info("fetched birthdays", zap.Int("rows", len(rows)))

	current := b.now().UTC()
	announced := 0

	for row := range birthdays.Today(current, rows) {
		posted, err := b.announce(ctx, log.With(zap.String("handle", row.Handle)), current, row)
		if err != nil {
			return err
		}
		if posted {
			announced++
		}
	}

	log.Info("birthday check finished", zap.Int("announced", announced))
	return nil
}

func (b *BirthdayCheck) announce(ctx context.Context, log *zap.Logger, current time.Time, row models.BirthdayRow) (bool, error) {
	sink := b.sink()
	day := current.Format(ledger.DayLayout)

	if b.Ledger != nil {
		done, err := b.Ledger.Announced(ctx, day, row.Handle)
		if err != nil {
			return false, errors.Wrapf(err, "check ledger for %s", row.Handle)
		}
		if done {
			log.Info("birthday already announced today")
			metrics.Skipped.Inc()
			return false, nil
		}
	}

	sink.Breadcrumb("Resolving "+row.Handle+"...", "discord")
	user, err := b.Messenger.ResolveUser(ctx, b.Config.GuildId, row.Handle)
	if err != nil {
		return false, errors.Wrapf(err, "resolve %s", row.Handle)
	}

	msg := responses.Birthday(b.Config.AnnouncementsChannelId, row, user, current)

	if b.Config.AnnounceCard && b.Cards != nil {
		card, err := b.Cards(responses.CardCaption(row), utils.LongDate(current))
		if err != nil {
			return false, err
		}
		msg.Card = card
	}

	sink.Breadcrumb("Announcing birthday of "+row.Handle+"...", "discord")
	messageId, err := b.Messenger.PostMessage(ctx, msg)
	if err != nil {
		return false, errors.Wrapf(err, "announce %s", row.Handle)
	}
	metrics.Announcements.Inc()

	log.Info("announced birthday",
		zap.String("user_id", user.UserId),
		zap.String("message_url", utils.MessageURL(b.Config.GuildId, msg.ChannelId, messageId)))

	if b.Ledger != nil {
		err := b.Ledger.Record(ctx, models.Announcement{
			Day:       day,
			Handle:    row.Handle,
			UserId:    user.UserId,
			ChannelId: msg.ChannelId,
			MessageId: messageId,
		})
		if err != nil {
			return false, err
		}
	}

	return true, nil
}

func (b *BirthdayCheck) now() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

func (b *BirthdayCheck) sink() telemetry.Sink {
	if b.Sink == nil {
		return telemetry.Nop{}
	}
	return b.Sink
}

func (b *BirthdayCheck) logger() *zap.Logger {
	if b.Log == nil {
		return zap.NewNop()
	}
	return b.Log
}
