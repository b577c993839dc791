package notify

import (
	"errors"
	"strings"
	"testing"
	"time"
)

type capture struct {
	To      string
	Subject string
	Body    string
}

// chanMailer reports each Send on a channel; err (if set) is returned every time.
type chanMailer struct {
	sent chan capture
	err  error
}

func (m *chanMailer) Send(to, subject, htmlBody string) error {
	m.sent <- capture{To: to, Subject: subject, Body: htmlBody}
	return m.err
}

func sampleEmail() OrderEmail {
	return OrderEmail{
		OrderID:       "order-1",
		CustomerName:  "Asha <script>",
		CustomerEmail: "asha@jadimart.test",
		Phone:         "+977-9800000000",
		Address:       "12 Herb Lane",
		Guest:         false,
		Total:         897,
		Items: []LineDetail{
			{Name: "Organic Chamomile Tea", Price: 299, Qty: 3, Total: 897},
		},
	}
}

func waitSend(t *testing.T, ch chan capture) capture {
	t.Helper()
	select {
	case c := <-ch:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("no message dispatched")
		return capture{}
	}
}

func TestOrderPlacedSendsOperatorThenBuyer(t *testing.T) {
	mail := &chanMailer{sent: make(chan capture, 2)}
	d := NewDispatcher(mail, "Jadimart", "orders@jadimart.test")

	d.OrderPlaced(sampleEmail())

	op := waitSend(t, mail.sent)
	if op.To != "orders@jadimart.test" {
		t.Fatalf("operator alert went to %q", op.To)
	}
	if !strings.Contains(op.Subject, "New Order Placed") {
		t.Fatalf("operator subject = %q", op.Subject)
	}
	if !strings.Contains(op.Body, "order-1") {
		t.Fatal("operator body missing order id")
	}

	buyer := waitSend(t, mail.sent)
	if buyer.To != "asha@jadimart.test" {
		t.Fatalf("confirmation went to %q", buyer.To)
	}
	if !strings.Contains(buyer.Subject, "Order Confirmation") {
		t.Fatalf("buyer subject = %q", buyer.Subject)
	}
	if !strings.Contains(buyer.Body, "Organic Chamomile Tea") {
		t.Fatal("buyer body missing line item")
	}
}

func TestEmailBodiesEscapeHTML(t *testing.T) {
	m := sampleEmail()
	for name, body := range map[string]string{
		"operator": operatorBody("Jadimart", m),
		"buyer":    buyerBody("Jadimart", "orders@jadimart.test", m),
	} {
		if strings.Contains(body, "<script>") {
			t.Fatalf("%s body carries unescaped markup", name)
		}
		if !strings.Contains(body, "&lt;script&gt;") {
			t.Fatalf("%s body lost the customer name", name)
		}
	}
}

func TestDispatchSwallowsMailerErrors(t *testing.T) {
	mail := &chanMailer{sent: make(chan capture, 2), err: errors.New("relay down")}
	d := NewDispatcher(mail, "Jadimart", "orders@jadimart.test")

	// plain call, not the goroutine: a panic here would fail the test directly
	d.dispatch(sampleEmail())

	if len(mail.sent) != 2 {
		t.Fatalf("want both messages attempted despite errors, got %d", len(mail.sent))
	}
}

func TestLogMailerNeverFails(t *testing.T) {
	if err := (LogMailer{}).Send("x@y.test", "subject", "<p>hi</p>"); err != nil {
		t.Fatalf("LogMailer.Send: %v", err)
	}
}
