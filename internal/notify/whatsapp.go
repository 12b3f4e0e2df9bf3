package notify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"civicbot/backend/internal/config"
	"civicbot/backend/internal/localization"
	"civicbot/backend/internal/models"
)

// DefaultGraphURL is the Meta Graph API base the Cloud API lives under.
const DefaultGraphURL = "https://graph.facebook.com/v19.0"

// TextSender sends one WhatsApp text message. Satisfied by WhatsAppClient;
// tests substitute their own.
type TextSender interface {
	SendText(to, body string) error
}

// WhatsAppClient is a thin wrapper over the WhatsApp Cloud API messages
// endpoint.
type WhatsAppClient struct {
	BaseURL       string
	Token         string
	PhoneNumberID string
	HTTPClient    *http.Client
}

// NewWhatsAppClient creates a client for the given Cloud API credentials.
func NewWhatsAppClient(token, phoneNumberID string) *WhatsAppClient {
	return &WhatsAppClient{
		BaseURL:       DefaultGraphURL,
		Token:         token,
		PhoneNumberID: phoneNumberID,
		HTTPClient:    &http.Client{Timeout: config.WhatsAppTimeout},
	}
}

type textMessage struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

// SendText delivers a plain text message to the citizen's phone number.
func (c *WhatsAppClient) SendText(to, body string) error {
	payload := textMessage{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             textBody{Body: body},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/messages", c.BaseURL, c.PhoneNumberID)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("whatsapp send to %s failed: %s: %s", to, resp.Status, detail)
	}
	return nil
}

// statusNotice is one queued outbound notification.
type statusNotice struct {
	Kind    models.RecordKind
	ID      string
	To      string
	Lang    string
	Status  models.Status
	Remarks string
}

// WhatsAppDispatcher renders localized status-change messages and pushes
// them through a send pump, keeping the Cloud API round trip off the
// request path.
type WhatsAppDispatcher struct {
	Client    TextSender
	Localizer *localization.Localizer

	queue chan statusNotice
	done  chan struct{}
}

// NewWhatsAppDispatcher creates a dispatcher; call Run to start the pump.
func NewWhatsAppDispatcher(client TextSender, localizer *localization.Localizer) *WhatsAppDispatcher {
	return &WhatsAppDispatcher{
		Client:    client,
		Localizer: localizer,
		queue:     make(chan statusNotice, config.NotifyQueueSize),
		done:      make(chan struct{}),
	}
}

// NotifyStatusChange enqueues a notification for the record's citizen
// contact. It never blocks; when the queue is full the notice is rejected
// and the caller logs it.
func (d *WhatsAppDispatcher) NotifyStatusChange(rec models.WorkflowRecord, newStatus models.Status, remarks string) error {
	if rec.GetCitizenPhone() == "" {
		return errors.New("record has no citizen contact")
	}
	notice := statusNotice{
		Kind:    rec.Kind(),
		ID:      rec.GetID(),
		To:      rec.GetCitizenPhone(),
		Lang:    rec.GetCitizenLang(),
		Status:  newStatus,
		Remarks: remarks,
	}
	select {
	case d.queue <- notice:
		return nil
	default:
		return fmt.Errorf("notification queue full, dropping notice for %s %s", notice.Kind, notice.ID)
	}
}

// Run is the send pump. It drains the queue until Stop is called, logging
// failed sends with enough context for operational follow-up.
func (d *WhatsAppDispatcher) Run() {
	defer close(d.done)
	for notice := range d.queue {
		body := d.renderBody(notice)
		if err := d.Client.SendText(notice.To, body); err != nil {
			log.Printf("ERROR: Failed to notify citizen %s about %s %s: %v",
				notice.To, notice.Kind, notice.ID, err)
		}
	}
}

// Stop closes the queue and waits for in-flight sends to finish.
func (d *WhatsAppDispatcher) Stop() {
	close(d.queue)
	<-d.done
}

func (d *WhatsAppDispatcher) renderBody(notice statusNotice) string {
	lang := notice.Lang
	if lang == "" {
		lang = config.DefaultCitizenLang
	}
	key := fmt.Sprintf("%s.status.%s", notice.Kind, notice.Status)
	return d.Localizer.Format(lang, key, map[string]string{
		"id":      notice.ID,
		"status":  string(notice.Status),
		"remarks": notice.Remarks,
	})
}
