package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MartinRAM24/app-gestion-citas/internal/config"
)

const graphAPIBase = "https://graph.facebook.com/v19.0"

// WhatsAppSender delivers the clinic's reminder template through the Meta
// Graph API. One template, three body parameters: name, date, time.
type WhatsAppSender struct {
	cfg    config.WhatsAppConfig
	client *http.Client
	base   string
}

func NewWhatsAppSender(cfg config.WhatsAppConfig) *WhatsAppSender {
	return &WhatsAppSender{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
		base:   graphAPIBase,
	}
}

type templatePayload struct {
	MessagingProduct string          `json:"messaging_product"`
	To               string          `json:"to"`
	Type             string          `json:"type"`
	Template         templateMessage `json:"template"`
}

type templateMessage struct {
	Name       string              `json:"name"`
	Language   templateLanguage    `json:"language"`
	Components []templateComponent `json:"components"`
}

type templateLanguage struct {
	Code string `json:"code"`
}

type templateComponent struct {
	Type       string          `json:"type"`
	Parameters []templateParam `json:"parameters"`
}

type templateParam struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Send posts one reminder to an E.164 number. A failure affects only that
// recipient; the caller decides how to aggregate.
func (s *WhatsAppSender) Send(
	ctx context.Context,
	toE164 string,
	name string,
	dateTxt string,
	timeTxt string,
) error {

	if !s.cfg.Complete() {
		return fmt.Errorf("whatsapp config incomplete (token, phone number id and template are required)")
	}

	if name == "" {
		name = "Paciente"
	}

	payload := templatePayload{
		MessagingProduct: "whatsapp",
		To:               toE164,
		Type:             "template",
		Template: templateMessage{
			Name:     s.cfg.Template,
			Language: templateLanguage{Code: s.cfg.Lang},
			Components: []templateComponent{
				{
					Type: "body",
					Parameters: []templateParam{
						{Type: "text", Text: name},
						{Type: "text", Text: dateTxt},
						{Type: "text", Text: timeTxt},
					},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/messages", s.base, s.cfg.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("whatsapp send failed: status %d: %s", resp.StatusCode, detail)
	}

	return nil
}
