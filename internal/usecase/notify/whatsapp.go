package notify

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"salon-scheduler/internal/domain/appointment"
	"salon-scheduler/internal/domain/catalog"

	"github.com/google/uuid"
)

const KindWhatsApp = "WHATSAPP"

type Topic string

const (
	TopicConfirmation Topic = "CONFIRMATION"
	TopicCancellation Topic = "CANCELLATION"
	TopicRescheduled  Topic = "RESCHEDULED"
)

// Message is a prefilled WhatsApp conversation. It is only generated and
// queued, delivery happens by hand from the salon's phone.
type Message struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	BusinessID    uuid.UUID `json:"business_id"`
	Topic         Topic     `json:"topic"`
	TargetPhone   string    `json:"target_phone"`
	Text          string    `json:"text"`
	Link          string    `json:"wa_link,omitempty"`
}

func (m Message) Payload() ([]byte, error) {
	return json.Marshal(m)
}

var templates = map[Topic]string{
	TopicConfirmation: "👋 Olá %[1]s! Tudo bem? Aqui é do *%[2]s*. Estamos confirmando seu agendamento de *%[3]s* para 📅 %[4]s às ⏰ %[5]s. Se precisar cancelar ou remarcar, é só avisar. Até breve! ✨",
	TopicCancellation: "Olá %[1]s. Seu agendamento de *%[3]s* para 📅 %[4]s às ⏰ %[5]s no *%[2]s* foi cancelado. Para reagendar, é só entrar em contato. ✨",
	TopicRescheduled:  "👋 Olá %[1]s! Seu agendamento foi remarcado para *%[3]s* em 📅 %[4]s às ⏰ %[5]s no *%[2]s*. Confirmado? ✨",
}

// Compose renders the message for appt in the business timezone. The client
// phone is preferred, the salon number is the fallback. Link is empty when
// neither is known.
func Compose(topic Topic, biz *catalog.Business, serviceName string, appt *appointment.Appointment) Message {
	start := appt.Slot().Start.In(biz.Location())
	text := fmt.Sprintf(templates[topic],
		appt.Client().Name,
		biz.Name(),
		serviceName,
		start.Format("02/01/2006"),
		start.Format("15:04"),
	)

	target := appt.Client().Phone
	if strings.TrimSpace(target) == "" {
		target = biz.WhatsApp()
	}

	return Message{
		AppointmentID: appt.ID(),
		BusinessID:    biz.ID(),
		Topic:         topic,
		TargetPhone:   target,
		Text:          text,
		Link:          WhatsAppLink(target, text),
	}
}

// WhatsAppLink builds https://wa.me/<digits>?text=<message>.
func WhatsAppLink(phone, text string) string {
	digits := onlyDigits(phone)
	if digits == "" {
		return ""
	}
	// wa.me expects %20, QueryEscape emits '+' for spaces.
	encoded := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return "https://wa.me/" + digits + "?text=" + encoded
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
