package notifier

import (
	"fmt"
	"html"
	"strings"
)

// Email templates mirror the booking/payment messages guests already
// receive from the platform: a subject, a plain-text body, and a minimal
// HTML variant.

func composeEmail(j job) (subject, plain, htmlBody string) {
	switch j.Kind {
	case KindPaymentSuccess:
		subject = "Payment Confirmation - Travel Booking"
		plain = fmt.Sprintf(`Payment Confirmation

Dear %s,

Your payment has been successfully processed. Your booking is confirmed!

Payment Details:
Booking ID: %s
Listing: %s
Location: %s
Check-in: %s
Check-out: %s
Amount Paid: %s %s
Payment ID: %s
Transaction ID: %s

If you have any questions, please contact our support team.

Best regards,
The Travel Booking Team
`, j.Notice.GuestName, j.Notice.BookingID, j.Notice.ListingTitle, j.Notice.ListingLocation,
			j.Notice.CheckInDate, j.Notice.CheckOutDate, j.Notice.Amount, j.Notice.Currency,
			j.Notice.PaymentID, j.Notice.TransactionID)

	case KindPaymentFailure:
		subject = "Payment Failed - Travel Booking"
		plain = fmt.Sprintf(`Payment Failed

Dear %s,

Unfortunately, your payment could not be processed. Please try again or contact support for assistance.

Booking Information:
Booking ID: %s
Listing: %s
Error: %s

Best regards,
The Travel Booking Team
`, j.Notice.GuestName, j.Notice.BookingID, j.Notice.ListingTitle, j.ErrorMessage)

	case KindBookingConfirmation:
		subject = "Booking Confirmation - Travel Booking"
		plain = fmt.Sprintf(`Booking Confirmation

Dear %s,

Thank you for booking with us! Your reservation has been confirmed.

Booking Details:
Listing: %s
Location: %s
Check-in Date: %s
Check-out Date: %s
Total Price: %s %s

If you have any questions, please contact our support team.

Best regards,
The Travel Booking Team
`, j.Notice.GuestName, j.Notice.ListingTitle, j.Notice.ListingLocation,
			j.Notice.CheckInDate, j.Notice.CheckOutDate, j.Notice.Amount, j.Notice.Currency)

	default:
		subject = "Travel Booking Notification"
		plain = fmt.Sprintf("Dear %s,\n\nThere is an update on booking %s.\n", j.Notice.GuestName, j.Notice.BookingID)
	}

	htmlBody = plainToHTML(subject, plain)
	return subject, plain, htmlBody
}

func plainToHTML(title, plain string) string {
	var b strings.Builder
	b.WriteString("<html><body style=\"font-family: Arial, sans-serif; line-height: 1.6; color: #333;\">")
	b.WriteString("<div style=\"max-width: 600px; margin: 0 auto; padding: 20px;\">")
	b.WriteString("<h2>" + html.EscapeString(title) + "</h2>")
	for _, line := range strings.Split(strings.TrimSpace(plain), "\n") {
		b.WriteString("<p>" + html.EscapeString(line) + "</p>")
	}
	b.WriteString("</div></body></html>")
	return b.String()
}
