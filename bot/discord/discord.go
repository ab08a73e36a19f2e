package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"birthdaybot/bot/models"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
)

const serviceName = "discord"

// Client resolves member handles and posts announcements over the Discord
// REST API. It never opens a gateway connection.
type Client struct {
	session *discordgo.Session
}

func New(botToken string) (*Client, error) {
	s, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, errors.Wrap(err, "invalid bot parameters")
	}

	return NewWithSession(s), nil
}

// NewWithSession uses an existing session. Neither gateway errors nor rate
// limits are retried, so a failed call surfaces immediately.
func NewWithSession(s *discordgo.Session) *Client {
	s.MaxRestRetries = 0
	s.ShouldRetryOnRateLimit = false

	return &Client{session: s}
}

func (c *Client) Session() *discordgo.Session { return c.session }

// ResolveUser searches the guild's members for handle and expects exactly
// one result.
func (c *Client) ResolveUser(ctx context.Context, guildId, handle string) (models.ResolvedUser, error) {
	if err := ctx.Err(); err != nil {
		return models.ResolvedUser{}, errors.Wrap(err, "resolve user")
	}

	endpoint := discordgo.EndpointGuildMembers(guildId) + "/search"

	query := url.Values{}
	query.Set("query", handle)
	query.Set("limit", strconv.Itoa(1))

	body, err := c.session.RequestWithBucketID(http.MethodGet, endpoint+"?"+query.Encode(), nil, endpoint)
	if err != nil {
		return models.ResolvedUser{}, upstreamError(err)
	}

	var members []*discordgo.Member
	if err := json.Unmarshal(body, &members); err != nil {
		return models.ResolvedUser{}, &models.MalformedResponseError{Service: serviceName, Reason: err.Error()}
	}

	if len(members) != 1 {
		return models.ResolvedUser{}, &models.AmbiguousResolutionError{Handle: handle, Count: len(members)}
	}

	member := members[0]
	if member == nil || member.User == nil || member.User.ID == "" {
		return models.ResolvedUser{}, &models.MalformedResponseError{Service: serviceName, Reason: "member search result has no user id"}
	}

	return models.ResolvedUser{Handle: handle, UserId: member.User.ID}, nil
}

// PostMessage sends msg to its channel and returns the created message ID.
func (c *Client) PostMessage(ctx context.Context, msg models.AnnouncementMessage) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.Wrap(err, "post message")
	}

	send := &discordgo.MessageSend{Content: msg.Content}

	if len(msg.Card) > 0 {
		send.Files = []*discordgo.File{
			{
				ContentType: "image/png",
				Name:        "birthday.png",
				Reader:      bytes.NewReader(msg.Card),
			},
		}
	}

	sent, err := c.session.ChannelMessageSendComplex(msg.ChannelId, send)
	if err != nil {
		return "", upstreamError(err)
	}

	return sent.ID, nil
}

func upstreamError(err error) error {
	if errors.Is(err, discordgo.ErrJSONUnmarshal) {
		return &models.MalformedResponseError{Service: serviceName, Reason: err.Error()}
	}

	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		return &models.UpstreamFetchError{
			Service: serviceName,
			Status:  restErr.Response.StatusCode,
			Body:    string(restErr.ResponseBody),
		}
	}

	return &models.UpstreamFetchError{Service: serviceName, Body: err.Error()}
}
