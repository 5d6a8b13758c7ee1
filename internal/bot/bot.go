package bot

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"familiar/internal/config"

	"github.com/sirupsen/logrus"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
	"golang.org/x/time/rate"
	"google.golang.org/protobuf/proto"

	_ "github.com/mattn/go-sqlite3"
)

// Bot bridges WhatsApp chats to the command pipeline. It is single-tenant:
// only JIDs on the allowlist are ever answered, everyone else is ignored
// silently.
type Bot struct {
	client    *whatsmeow.Client
	assistant *config.Assistant
	limiter   *senderLimiter
	allowed   map[string]bool
	log       *logrus.Logger
}

func New(assistant *config.Assistant, logger *logrus.Logger) (*Bot, error) {
	dbPath := os.Getenv("WHATSAPP_DB_PATH")
	if dbPath == "" {
		dbPath = "familiar-wa.db"
	}

	dbLog := waLog.Stdout("Database", "INFO", true)
	container, err := sqlstore.New(context.Background(), "sqlite3",
		fmt.Sprintf("file:%s?_foreign_keys=on", dbPath), dbLog)
	if err != nil {
		return nil, fmt.Errorf("failed to open device store: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get device store: %w", err)
	}

	client := whatsmeow.NewClient(deviceStore, waLog.Stdout("Client", "INFO", true))

	allowed := make(map[string]bool)
	for _, jid := range strings.Split(os.Getenv("WHATSAPP_ALLOWED_JIDS"), ",") {
		jid = strings.TrimSpace(jid)
		if jid != "" {
			allowed[jid] = true
		}
	}
	if len(allowed) == 0 {
		logger.Warn("WHATSAPP_ALLOWED_JIDS is empty, the bot will answer nobody")
	}

	bot := &Bot{
		client:    client,
		assistant: assistant,
		limiter:   newSenderLimiter(rate.Every(2*time.Second), 3),
		allowed:   allowed,
		log:       logger,
	}
	client.AddEventHandler(bot.handleEvent)

	return bot, nil
}

// Connect brings the client online, printing a pairing QR code on first run.
func (b *Bot) Connect(ctx context.Context) error {
	if b.client.Store.ID == nil {
		qrChan, _ := b.client.GetQRChannel(ctx)
		if err := b.client.Connect(); err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}

		for evt := range qrChan {
			if evt.Event == "code" {
				fmt.Println("QR Code:", evt.Code)
			} else {
				b.log.Infof("Pairing event: %s", evt.Event)
				break
			}
		}
		return nil
	}

	if err := b.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	return nil
}

func (b *Bot) Disconnect() {
	b.client.Disconnect()
}

func (b *Bot) handleEvent(evt interface{}) {
	switch e := evt.(type) {
	case *events.Connected:
		b.log.Info("WhatsApp connected")
	case *events.Message:
		go b.handleMessage(e)
	}
}

func (b *Bot) handleMessage(evt *events.Message) {
	if evt.Info.IsFromMe || evt.Info.IsGroup {
		return
	}

	sender := evt.Info.Sender.ToNonAD().String()
	if !b.allowed[sender] {
		b.log.WithFields(logrus.Fields{
			"sender": sender,
		}).Debug("Ignoring message from sender outside the allowlist")
		return
	}

	if !b.limiter.Allow(sender) {
		b.log.Warnf("too many requests from %s", sender)
		b.reply(evt.Info.Chat, "Easy, I am still working on your previous commands.")
		return
	}

	text, err := b.extractText(evt)
	if err != nil {
		b.log.WithFields(logrus.Fields{
			"sender": sender,
			"error":  err.Error(),
		}).Error("Failed to extract command text from message")
		b.reply(evt.Info.Chat, "Sorry, I could not make out that message.")
		return
	}
	if text == "" {
		return
	}

	reply := b.assistant.HandleUtterance(context.Background(), text)
	b.reply(evt.Info.Chat, reply)
}

// extractText returns the command carried by a message: plain or extended
// text as is, voice notes through the transcription service.
func (b *Bot) extractText(evt *events.Message) (string, error) {
	if text := evt.Message.GetConversation(); text != "" {
		return strings.TrimSpace(text), nil
	}
	if extended := evt.Message.GetExtendedTextMessage(); extended != nil {
		return strings.TrimSpace(extended.GetText()), nil
	}

	if voice := evt.Message.GetAudioMessage(); voice != nil {
		transcriber := b.assistant.Transcriber()
		if transcriber == nil {
			return "", fmt.Errorf("voice note received but transcription is not configured")
		}

		data, err := b.client.Download(context.Background(), voice)
		if err != nil {
			return "", fmt.Errorf("failed to download voice note: %w", err)
		}

		text, err := transcriber.Transcribe(context.Background(), data, "voice-note.ogg")
		if err != nil {
			return "", fmt.Errorf("failed to transcribe voice note: %w", err)
		}
		return strings.TrimSpace(text), nil
	}

	return "", nil
}

func (b *Bot) reply(chat types.JID, text string) {
	msg := &waE2E.Message{
		Conversation: proto.String(text),
	}
	if _, err := b.client.SendMessage(context.Background(), chat, msg); err != nil {
		b.log.WithFields(logrus.Fields{
			"chat":  chat.String(),
			"error": err.Error(),
		}).Error("Failed to send reply")
	}
}
