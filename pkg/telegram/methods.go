package telegram

import "context"

// GetMe returns the bot account behind the client's credential. Doubles as a
// credential check: a bad token comes back as *APIError 401.
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	return call[User](ctx, c, "getMe", nil)
}

// Identity returns the bot account, fetching it on first use and serving the
// cached copy afterwards.
func (c *Client) Identity(ctx context.Context) (*User, error) {
	c.mu.Lock()
	if c.identity != nil {
		u := *c.identity
		c.mu.Unlock()
		return &u, nil
	}
	c.mu.Unlock()

	u, err := c.GetMe(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.identity = u
	c.mu.Unlock()
	return u, nil
}

// GetUpdates performs one raw getUpdates call without touching any cursor.
// offset is sent only when positive, limit only within 1..100, timeout only
// when positive, per the API's defaulting rules.
//
// Prefer Registry/Poller for consuming the queue — a raw call with a stale
// offset redelivers updates.
func (c *Client) GetUpdates(ctx context.Context, offset int64, limit, timeout int) ([]Update, error) {
	p := NewParams()
	p.SetPositive("offset", offset)
	if limit >= 1 && limit <= 100 {
		p.SetInt("limit", int64(limit))
	}
	p.SetPositive("timeout", int64(timeout))

	res, err := call[[]Update](ctx, c, "getUpdates", p)
	if err != nil {
		return nil, err
	}
	return *res, nil
}

// SendMessageOptions carries the optional sendMessage fields. Zero values are
// not sent.
type SendMessageOptions struct {
	ParseMode             ParseMode
	DisableWebPagePreview bool
	DisableNotification   bool
	ReplyToMessageID      int64
	ReplyMarkup           any // keyboard object, forwarded as JSON
}

// SendMessage sends a text message to a chat.
func (c *Client) SendMessage(ctx context.Context, to ChatRef, text string, opts *SendMessageOptions) (*Message, error) {
	p := NewParams().Set("chat_id", string(to)).Set("text", text)
	if opts != nil {
		p.Set("parse_mode", string(opts.ParseMode)).
			SetBool("disable_web_page_preview", opts.DisableWebPagePreview).
			SetBool("disable_notification", opts.DisableNotification).
			SetPositive("reply_to_message_id", opts.ReplyToMessageID).
			SetJSON("reply_markup", opts.ReplyMarkup)
	}
	return call[Message](ctx, c, "sendMessage", p)
}

// ForwardMessage forwards a message from one chat to another.
func (c *Client) ForwardMessage(ctx context.Context, to, from ChatRef, messageID int64, disableNotification bool) (*Message, error) {
	p := NewParams().
		Set("chat_id", string(to)).
		Set("from_chat_id", string(from)).
		SetInt("message_id", messageID).
		SetBool("disable_notification", disableNotification)
	return call[Message](ctx, c, "forwardMessage", p)
}

// EditMessageTextOptions carries the optional editMessageText fields.
type EditMessageTextOptions struct {
	ParseMode             ParseMode
	DisableWebPagePreview bool
	ReplyMarkup           any
}

// EditMessageText replaces the text of a previously sent message.
func (c *Client) EditMessageText(ctx context.Context, to ChatRef, messageID int64, text string, opts *EditMessageTextOptions) (*Message, error) {
	p := NewParams().
		Set("chat_id", string(to)).
		SetInt("message_id", messageID).
		Set("text", text)
	if opts != nil {
		p.Set("parse_mode", string(opts.ParseMode)).
			SetBool("disable_web_page_preview", opts.DisableWebPagePreview).
			SetJSON("reply_markup", opts.ReplyMarkup)
	}
	return call[Message](ctx, c, "editMessageText", p)
}

// MediaOptions carries the optional fields shared by the media send methods.
// Media parameters themselves are file_id values or remote URLs; the server
// fetches URLs on its own.
type MediaOptions struct {
	Caption             string
	ParseMode           ParseMode
	Duration            int // seconds; audio, voice, video
	Performer           string
	Title               string
	DisableNotification bool
	ReplyToMessageID    int64
	ReplyMarkup         any
}

// sendMedia is the shared body of the media send wrappers.
func sendMedia(ctx context.Context, c *Client, method, field, media string, to ChatRef, opts *MediaOptions) (*Message, error) {
	p := NewParams().Set("chat_id", string(to)).Set(field, media)
	if opts != nil {
		p.Set("caption", opts.Caption).
			Set("parse_mode", string(opts.ParseMode)).
			SetPositive("duration", int64(opts.Duration)).
			Set("performer", opts.Performer).
			Set("title", opts.Title).
			SetBool("disable_notification", opts.DisableNotification).
			SetPositive("reply_to_message_id", opts.ReplyToMessageID).
			SetJSON("reply_markup", opts.ReplyMarkup)
	}
	return call[Message](ctx, c, method, p)
}

// SendPhoto sends a photo by file_id or URL.
func (c *Client) SendPhoto(ctx context.Context, to ChatRef, photo string, opts *MediaOptions) (*Message, error) {
	return sendMedia(ctx, c, "sendPhoto", "photo", photo, to, opts)
}

// SendAudio sends an audio file by file_id or URL.
func (c *Client) SendAudio(ctx context.Context, to ChatRef, audio string, opts *MediaOptions) (*Message, error) {
	return sendMedia(ctx, c, "sendAudio", "audio", audio, to, opts)
}

// SendDocument sends a general file by file_id or URL.
func (c *Client) SendDocument(ctx context.Context, to ChatRef, document string, opts *MediaOptions) (*Message, error) {
	return sendMedia(ctx, c, "sendDocument", "document", document, to, opts)
}

// SendSticker sends a sticker by file_id or URL.
func (c *Client) SendSticker(ctx context.Context, to ChatRef, sticker string, opts *MediaOptions) (*Message, error) {
	return sendMedia(ctx, c, "sendSticker", "sticker", sticker, to, opts)
}

// SendVideo sends a video by file_id or URL.
func (c *Client) SendVideo(ctx context.Context, to ChatRef, video string, opts *MediaOptions) (*Message, error) {
	return sendMedia(ctx, c, "sendVideo", "video", video, to, opts)
}

// SendVoice sends a voice note by file_id or URL.
func (c *Client) SendVoice(ctx context.Context, to ChatRef, voice string, opts *MediaOptions) (*Message, error) {
	return sendMedia(ctx, c, "sendVoice", "voice", voice, to, opts)
}

// PlaceOptions carries the optional fields shared by sendLocation, sendVenue
// and sendContact.
type PlaceOptions struct {
	DisableNotification bool
	ReplyToMessageID    int64
	ReplyMarkup         any
}

// apply appends the shared optional fields.
func (o *PlaceOptions) apply(p *Params) {
	if o == nil {
		return
	}
	p.SetBool("disable_notification", o.DisableNotification).
		SetPositive("reply_to_message_id", o.ReplyToMessageID).
		SetJSON("reply_markup", o.ReplyMarkup)
}

// SendLocation sends a point on the map.
func (c *Client) SendLocation(ctx context.Context, to ChatRef, latitude, longitude float64, opts *PlaceOptions) (*Message, error) {
	p := NewParams().
		Set("chat_id", string(to)).
		SetFloat("latitude", latitude).
		SetFloat("longitude", longitude)
	opts.apply(p)
	return call[Message](ctx, c, "sendLocation", p)
}

// SendVenue sends information about a venue.
func (c *Client) SendVenue(ctx context.Context, to ChatRef, latitude, longitude float64, title, address, foursquareID string, opts *PlaceOptions) (*Message, error) {
	p := NewParams().
		Set("chat_id", string(to)).
		SetFloat("latitude", latitude).
		SetFloat("longitude", longitude).
		Set("title", title).
		Set("address", address).
		Set("foursquare_id", foursquareID)
	opts.apply(p)
	return call[Message](ctx, c, "sendVenue", p)
}

// SendContact sends a phone contact.
func (c *Client) SendContact(ctx context.Context, to ChatRef, phoneNumber, firstName, lastName string, opts *PlaceOptions) (*Message, error) {
	p := NewParams().
		Set("chat_id", string(to)).
		Set("phone_number", phoneNumber).
		Set("first_name", firstName).
		Set("last_name", lastName)
	opts.apply(p)
	return call[Message](ctx, c, "sendContact", p)
}

// SendChatAction shows an activity indicator ("typing", ...) to the chat.
func (c *Client) SendChatAction(ctx context.Context, to ChatRef, action ChatAction) error {
	p := NewParams().Set("chat_id", string(to)).Set("action", string(action))
	_, err := call[bool](ctx, c, "sendChatAction", p)
	return err
}

// GetUserProfilePhotos returns a user's profile pictures. offset is sent only
// when positive, limit only within 1..100.
func (c *Client) GetUserProfilePhotos(ctx context.Context, userID int64, offset, limit int) (*UserProfilePhotos, error) {
	p := NewParams().SetInt("user_id", userID)
	p.SetPositive("offset", int64(offset))
	if limit >= 1 && limit <= 100 {
		p.SetInt("limit", int64(limit))
	}
	return call[UserProfilePhotos](ctx, c, "getUserProfilePhotos", p)
}

// GetFile resolves a file_id into a downloadable File (its FilePath feeds
// FileURL / DownloadFile).
func (c *Client) GetFile(ctx context.Context, fileID string) (*File, error) {
	p := NewParams().Set("file_id", fileID)
	return call[File](ctx, c, "getFile", p)
}

// AnswerInlineQueryOptions carries the optional answerInlineQuery fields.
type AnswerInlineQueryOptions struct {
	CacheTime  int // seconds
	IsPersonal bool
	NextOffset string
}

// AnswerInlineQuery replies to an inline query. results is a slice of inline
// result objects, forwarded as JSON without interpretation.
func (c *Client) AnswerInlineQuery(ctx context.Context, inlineQueryID string, results any, opts *AnswerInlineQueryOptions) error {
	p := NewParams().
		Set("inline_query_id", inlineQueryID).
		SetJSON("results", results)
	if opts != nil {
		p.SetPositive("cache_time", int64(opts.CacheTime)).
			SetBool("is_personal", opts.IsPersonal).
			Set("next_offset", opts.NextOffset)
	}
	_, err := call[bool](ctx, c, "answerInlineQuery", p)
	return err
}

// AnswerCallbackQuery acknowledges a callback query, optionally showing text
// to the user.
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackQueryID, text string, showAlert bool) error {
	p := NewParams().
		Set("callback_query_id", callbackQueryID).
		Set("text", text).
		SetBool("show_alert", showAlert)
	_, err := call[bool](ctx, c, "answerCallbackQuery", p)
	return err
}

// SetWebhookOptions carries the optional setWebhook fields.
type SetWebhookOptions struct {
	SecretToken    string
	MaxConnections int
	AllowedUpdates []string
}

// SetWebhook switches the bot to webhook delivery. Polling and webhooks are
// mutually exclusive server-side.
func (c *Client) SetWebhook(ctx context.Context, webhookURL string, opts *SetWebhookOptions) error {
	p := NewParams().Set("url", webhookURL)
	if opts != nil {
		p.Set("secret_token", opts.SecretToken).
			SetPositive("max_connections", int64(opts.MaxConnections))
		if len(opts.AllowedUpdates) > 0 {
			p.SetJSON("allowed_updates", opts.AllowedUpdates)
		}
	}
	_, err := call[bool](ctx, c, "setWebhook", p)
	return err
}

// DeleteWebhook removes any webhook so getUpdates polling can take over. The
// API rejects getUpdates while a webhook is set, so polling setups clear it
// first.
func (c *Client) DeleteWebhook(ctx context.Context) error {
	_, err := call[bool](ctx, c, "deleteWebhook", nil)
	return err
}
