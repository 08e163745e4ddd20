//go:build !integration

package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-data-bot/internal/application"
	"telegram-data-bot/internal/infra/db/memstore"
	"telegram-data-bot/internal/infra/i18n"
	"telegram-data-bot/internal/usecase"
)

type sentMessage struct {
	ChatID   int64
	Text     string
	Markdown bool
}

// recordingBot captures replies; failN makes the first N sends fail.
type recordingBot struct {
	mu    sync.Mutex
	sent  []sentMessage
	calls int
	failN int
}

func (b *recordingBot) SendMessage(ctx context.Context, chatID int64, text string) error {
	return b.record(chatID, text, false)
}

func (b *recordingBot) SendMarkdown(ctx context.Context, chatID int64, text string) error {
	return b.record(chatID, text, true)
}

func (b *recordingBot) record(chatID int64, text string, md bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if b.calls <= b.failN {
		return errors.New("telegram timed out")
	}
	b.sent = append(b.sent, sentMessage{ChatID: chatID, Text: text, Markdown: md})
	return nil
}

func (b *recordingBot) last(t *testing.T) sentMessage {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	require.NotEmpty(t, b.sent, "no message was sent")
	return b.sent[len(b.sent)-1]
}

type dispatcherFixture struct {
	d     *Dispatcher
	bot   *recordingBot
	store *memstore.EntryStore
}

func newDispatcherFixture(t *testing.T) *dispatcherFixture {
	t.Helper()
	logger := zerolog.New(io.Discard)
	store := memstore.NewEntryStore()
	tracker := usecase.NewStatusTracker()
	tr, err := i18n.NewTranslator(i18n.LocalesFS, "en")
	require.NoError(t, err)
	facade := application.NewBotFacade(
		usecase.NewEntryUseCase(store, tracker, 5, &logger),
		usecase.NewStatusUseCase(tracker, store, &logger),
		tr, 5,
	)
	bot := &recordingBot{}
	d, err := NewDispatcher(facade, bot, &logger, false)
	require.NoError(t, err)
	return &dispatcherFixture{d: d, bot: bot, store: store}
}

// commandUpdate builds an update the way Telegram does for "/cmd args".
func commandUpdate(chatID int64, username, text string) tgbotapi.Update {
	cmdLen := len(text)
	if i := strings.IndexByte(text, ' '); i >= 0 {
		cmdLen = i
	}
	return tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			MessageID: 1,
			From:      &tgbotapi.User{ID: chatID, UserName: username},
			Chat:      &tgbotapi.Chat{ID: chatID, Type: "private"},
			Text:      text,
			Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
		},
	}
}

func textUpdate(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 2,
		Message: &tgbotapi.Message{
			MessageID: 2,
			From:      &tgbotapi.User{ID: chatID},
			Chat:      &tgbotapi.Chat{ID: chatID, Type: "private"},
			Text:      text,
		},
	}
}

func TestDispatcher_Start(t *testing.T) {
	f := newDispatcherFixture(t)
	require.NoError(t, f.d.Dispatch(context.Background(), commandUpdate(7, "bob", "/start")))
	msg := f.bot.last(t)
	assert.Equal(t, int64(7), msg.ChatID)
	assert.True(t, strings.HasPrefix(msg.Text, "Welcome!"))
}

func TestDispatcher_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("stores text and confirms", func(t *testing.T) {
		f := newDispatcherFixture(t)
		require.NoError(t, f.d.Dispatch(ctx, commandUpdate(42, "alice", "/save hello world")))
		assert.Equal(t, 1, f.store.Len())
		assert.Equal(t, "✅ Sent and saved successfully!", f.bot.last(t).Text)

		list, err := f.store.ListRecent(ctx, nil, 5)
		require.NoError(t, err)
		assert.Equal(t, "hello world", list[0].Text)
		assert.Equal(t, "alice", list[0].Username)
		assert.Equal(t, int64(42), list[0].ChatID)
	})

	t.Run("missing username uses sentinel", func(t *testing.T) {
		f := newDispatcherFixture(t)
		require.NoError(t, f.d.Dispatch(ctx, commandUpdate(1, "", "/save note")))
		list, _ := f.store.ListRecent(ctx, nil, 5)
		require.Len(t, list, 1)
		assert.Equal(t, "N/A", list[0].Username)
	})

	t.Run("no argument sends usage and stores nothing", func(t *testing.T) {
		f := newDispatcherFixture(t)
		require.NoError(t, f.d.Dispatch(ctx, commandUpdate(1, "a", "/save")))
		assert.Equal(t, 0, f.store.Len())
		assert.Contains(t, f.bot.last(t).Text, "/save My data")
	})

	t.Run("store failure sends a generic reply and swallows the error", func(t *testing.T) {
		f := newDispatcherFixture(t)
		f.store.SetDown(true)
		require.NoError(t, f.d.Dispatch(ctx, commandUpdate(1, "a", "/save x")))
		assert.Contains(t, f.bot.last(t).Text, "something went wrong while saving")
	})

	t.Run("confirmation failure falls back to a failure notice", func(t *testing.T) {
		f := newDispatcherFixture(t)
		f.bot.failN = 1
		require.NoError(t, f.d.Dispatch(ctx, commandUpdate(1, "a", "/save kept")))
		assert.Equal(t, 1, f.store.Len(), "row stays committed")
		assert.Contains(t, f.bot.last(t).Text, "something went wrong while saving")
	})

	t.Run("both sends failing still returns nil", func(t *testing.T) {
		f := newDispatcherFixture(t)
		f.bot.failN = 2
		assert.NoError(t, f.d.Dispatch(ctx, commandUpdate(1, "a", "/save kept")))
	})
}

func TestDispatcher_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		f := newDispatcherFixture(t)
		require.NoError(t, f.d.Dispatch(ctx, commandUpdate(1, "a", "/fetch")))
		assert.Equal(t, "❌ There are no records in the database.", f.bot.last(t).Text)
	})

	t.Run("lists newest five", func(t *testing.T) {
		f := newDispatcherFixture(t)
		for i := 1; i <= 6; i++ {
			require.NoError(t, f.d.Dispatch(ctx, commandUpdate(1, "a", fmt.Sprintf("/save n%d", i))))
		}
		require.NoError(t, f.d.Dispatch(ctx, commandUpdate(1, "a", "/fetch")))
		lines := strings.Split(f.bot.last(t).Text, "\n")
		require.Len(t, lines, 6)
		assert.Contains(t, lines[1], "Text: n6")
		assert.Contains(t, lines[5], "Text: n2")
	})

	t.Run("store failure is swallowed", func(t *testing.T) {
		f := newDispatcherFixture(t)
		f.store.SetDown(true)
		require.NoError(t, f.d.Dispatch(ctx, commandUpdate(1, "a", "/fetch")))
		assert.Contains(t, f.bot.last(t).Text, "something went wrong while fetching")
	})
}

func TestDispatcher_Status(t *testing.T) {
	ctx := context.Background()
	f := newDispatcherFixture(t)
	require.NoError(t, f.d.Dispatch(ctx, commandUpdate(1, "a", "/save x")))
	require.NoError(t, f.d.Dispatch(ctx, commandUpdate(1, "a", "/status")))

	msg := f.bot.last(t)
	assert.True(t, msg.Markdown)
	assert.Contains(t, msg.Text, "```json")
	assert.Contains(t, msg.Text, `"status": "success"`)
	assert.Contains(t, msg.Text, `"db_connected": true`)

	t.Run("send failure propagates", func(t *testing.T) {
		f := newDispatcherFixture(t)
		f.bot.failN = 1
		assert.Error(t, f.d.Dispatch(ctx, commandUpdate(1, "a", "/status")))
	})
}

func TestDispatcher_EchoAndRouting(t *testing.T) {
	ctx := context.Background()

	t.Run("plain text is echoed", func(t *testing.T) {
		f := newDispatcherFixture(t)
		require.NoError(t, f.d.Dispatch(ctx, textUpdate(5, "hi there")))
		assert.Equal(t, "You said: hi there", f.bot.last(t).Text)
	})

	t.Run("echo send failure propagates", func(t *testing.T) {
		f := newDispatcherFixture(t)
		f.bot.failN = 1
		assert.Error(t, f.d.Dispatch(ctx, textUpdate(5, "hi")))
	})

	t.Run("unknown command is dropped", func(t *testing.T) {
		f := newDispatcherFixture(t)
		require.NoError(t, f.d.Dispatch(ctx, commandUpdate(5, "a", "/frobnicate now")))
		assert.Empty(t, f.bot.sent)
	})

	t.Run("slash text without entities is still routed", func(t *testing.T) {
		f := newDispatcherFixture(t)
		require.NoError(t, f.d.Dispatch(ctx, textUpdate(5, "/save@data_bot  spaced  note ")))
		list, _ := f.store.ListRecent(ctx, nil, 5)
		require.Len(t, list, 1)
		assert.Equal(t, "spaced  note", list[0].Text)
	})

	t.Run("updates without a message are ignored", func(t *testing.T) {
		f := newDispatcherFixture(t)
		require.NoError(t, f.d.Dispatch(ctx, tgbotapi.Update{UpdateID: 9}))
		require.NoError(t, f.d.Dispatch(ctx, tgbotapi.Update{UpdateID: 10, EditedMessage: &tgbotapi.Message{Text: "x"}}))
		assert.Empty(t, f.bot.sent)
	})
}

func TestParseCommand(t *testing.T) {
	cases := []struct {
		name     string
		msg      *tgbotapi.Message
		wantCmd  string
		wantArgs string
		wantIs   bool
	}{
		{"entity", commandUpdate(1, "", "/save a b").Message, "save", "a b", true},
		{"entity with bot name", commandUpdate(1, "", "/fetch@data_bot").Message, "fetch", "", true},
		{"plain slash", &tgbotapi.Message{Text: "/status"}, "status", "", true},
		{"newline args", &tgbotapi.Message{Text: "/save\nline"}, "save", "line", true},
		{"not a command", &tgbotapi.Message{Text: "hello /save"}, "", "", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cmd, args, is := parseCommand(c.msg)
			assert.Equal(t, c.wantCmd, cmd)
			assert.Equal(t, c.wantArgs, args)
			assert.Equal(t, c.wantIs, is)
		})
	}
}
