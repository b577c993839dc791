package notify

import (
	"fmt"
	"html"
	"strings"
)

func itemList(items []LineDetail, background string) string {
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b,
			`<li style="margin:8px 0;padding:12px;background:%s;border-radius:6px;">
  <strong>%s</strong><br>
  <span style="color:#6b7280;">Quantity: %d &times; Rs. %.2f = Rs. %.2f</span>
</li>`,
			background, html.EscapeString(it.Name), it.Qty, it.Price, it.Total)
	}
	return b.String()
}

func operatorBody(storeName string, m OrderEmail) string {
	kind := "Registered"
	if m.Guest {
		kind = "Guest"
	}
	return fmt.Sprintf(`<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;">
  <div style="background:#16a34a;color:white;padding:30px;text-align:center;">
    <h1 style="margin:0;">New Order Alert</h1>
    <p style="margin:10px 0 0 0;">A new order has been placed on %[1]s</p>
  </div>
  <div style="padding:30px;background:#f8fafc;">
    <h2 style="color:#16a34a;">Customer Information</h2>
    <table style="width:100%%;border-collapse:collapse;">
      <tr><td style="padding:8px 0;"><strong>Name:</strong></td><td>%[2]s</td></tr>
      <tr><td style="padding:8px 0;"><strong>Email:</strong></td><td>%[3]s (%[4]s)</td></tr>
      <tr><td style="padding:8px 0;"><strong>Phone:</strong></td><td>%[5]s</td></tr>
      <tr><td style="padding:8px 0;"><strong>Address:</strong></td><td>%[6]s</td></tr>
    </table>
    <h2 style="color:#16a34a;">Ordered Items</h2>
    <ul style="list-style:none;padding:0;margin:0;">%[7]s</ul>
    <div style="margin-top:20px;padding-top:15px;border-top:2px solid #16a34a;text-align:right;">
      <span style="font-size:20px;font-weight:bold;color:#16a34a;">Total: Rs. %[8].2f</span>
    </div>
    <p style="font-size:12px;color:#6b7280;">Order ID: %[9]s</p>
  </div>
</div>`,
		html.EscapeString(storeName),
		html.EscapeString(m.CustomerName),
		html.EscapeString(m.CustomerEmail),
		kind,
		html.EscapeString(m.Phone),
		html.EscapeString(m.Address),
		itemList(m.Items, "#ffffff"),
		m.Total,
		html.EscapeString(m.OrderID))
}

func buyerBody(storeName, operatorEmail string, m OrderEmail) string {
	return fmt.Sprintf(`<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;">
  <div style="background:#16a34a;color:white;padding:30px;text-align:center;">
    <h1 style="margin:0;">Order Confirmed!</h1>
    <p style="margin:10px 0 0 0;">Thank you for choosing %[1]s</p>
  </div>
  <div style="padding:30px;background:#f8fafc;">
    <h2 style="color:#16a34a;">Hello %[2]s!</h2>
    <p style="color:#374151;line-height:1.6;">
      We're excited to confirm that your order has been successfully placed!
      Our team is now preparing your products with utmost care.
    </p>
    <h2 style="color:#16a34a;">Your Order Details</h2>
    <ul style="list-style:none;padding:0;margin:0;">%[3]s</ul>
    <div style="margin-top:20px;padding-top:15px;border-top:2px solid #16a34a;text-align:right;">
      <span style="font-size:18px;font-weight:bold;color:#16a34a;">Total Paid: Rs. %[4].2f</span>
    </div>
    <h2 style="color:#16a34a;">Shipping Information</h2>
    <div style="background:#f1f5f9;padding:15px;border-radius:8px;color:#374151;">
      %[2]s<br>%[5]s<br>%[6]s
    </div>
    <p style="color:#6b7280;font-size:14px;">
      Estimated delivery: 2-3 business days. Questions? Email
      <a href="mailto:%[7]s">%[7]s</a>.
    </p>
    <p style="font-size:12px;color:#6b7280;">Order ID: %[8]s</p>
  </div>
</div>`,
		html.EscapeString(storeName),
		html.EscapeString(m.CustomerName),
		itemList(m.Items, "#f8fafc"),
		m.Total,
		html.EscapeString(m.Phone),
		html.EscapeString(m.Address),
		html.EscapeString(operatorEmail),
		html.EscapeString(m.OrderID))
}
