package notify

import (
	"fmt"
	"time"
)

// FormatScheduleDate renders a schedule date the way the emails show it,
// e.g. "Saturday, June 14, 2025".
func FormatScheduleDate(t time.Time) string {
	return t.Format("Monday, January 2, 2006")
}

func registrationEmail(name, serviceTitle, scheduleDate, scheduleTime string) (subject, html, text string) {
	subject = fmt.Sprintf("Registration Confirmed: %s - TMFG", serviceTitle)

	details := ""
	if scheduleDate != "" {
		details += fmt.Sprintf("<p><strong>Date:</strong> %s</p>", scheduleDate)
	}
	if scheduleTime != "" {
		details += fmt.Sprintf("<p><strong>Time:</strong> %s</p>", scheduleTime)
	}

	html = fmt.Sprintf(`<h2>Registration Confirmed!</h2>
<p>Dear %s,</p>
<p>Thank you for registering for our workshop. We're excited to have you join us!</p>
<h3>Event Details</h3>
<p><strong>Workshop:</strong> %s</p>
%s
<p>We'll send you a reminder 24 hours before the event.</p>
<p>See you soon!<br>The Morning Family Garden Team</p>`, name, serviceTitle, details)

	text = fmt.Sprintf("Dear %s,\n\nYou're registered for: %s", name, serviceTitle)
	if scheduleDate != "" {
		text += fmt.Sprintf("\nDate: %s", scheduleDate)
	}
	if scheduleTime != "" {
		text += fmt.Sprintf("\nTime: %s", scheduleTime)
	}
	text += "\n\nWe'll send you a reminder 24 hours before the event.\n\nThe Morning Family Garden Team"

	return subject, html, text
}

func registrationSMS(name, serviceTitle, scheduleDate, scheduleTime string) string {
	body := fmt.Sprintf("Hi %s!\n\nYou're registered for: %s", name, serviceTitle)
	if scheduleDate != "" && scheduleTime != "" {
		body += fmt.Sprintf("\n\nDate: %s\nTime: %s", scheduleDate, scheduleTime)
	}
	body += "\n\nThank you for joining us!\n- The Morning Family Garden"
	return body
}

func reminderEmail(name, serviceTitle, scheduleDate, scheduleTime string) (subject, html, text string) {
	subject = fmt.Sprintf("Reminder: %s is tomorrow! - TMFG", serviceTitle)

	html = fmt.Sprintf(`<h2>See You Tomorrow!</h2>
<p>Hi %s,</p>
<p>This is a friendly reminder that <strong>%s</strong> is happening tomorrow.</p>
<p><strong>Date:</strong> %s<br><strong>Time:</strong> %s</p>
<p>See you there!<br>The Morning Family Garden Team</p>`, name, serviceTitle, scheduleDate, scheduleTime)

	text = fmt.Sprintf("Hi %s,\n\nReminder: %s is tomorrow!\n\nDate: %s\nTime: %s\n\nSee you there!\nThe Morning Family Garden Team",
		name, serviceTitle, scheduleDate, scheduleTime)

	return subject, html, text
}

func reminderSMS(name, serviceTitle, scheduleDate, scheduleTime string) string {
	return fmt.Sprintf("Hi %s!\n\nReminder: %s is tomorrow!\n\nDate: %s\nTime: %s\n\nSee you there!\n- The Morning Family Garden",
		name, serviceTitle, scheduleDate, scheduleTime)
}

func volunteerWelcomeEmail(name string) (subject, html, text string) {
	subject = "Welcome to The Morning Family Garden Volunteer Team!"

	html = fmt.Sprintf(`<h2>Thank You for Volunteering!</h2>
<p>Dear %s,</p>
<p>Thank you for applying to volunteer with The Morning Family Garden. We've received your application and will be in touch soon.</p>
<p>With gratitude,<br>The Morning Family Garden Team</p>`, name)

	text = fmt.Sprintf("Dear %s,\n\nThank you for applying to volunteer with The Morning Family Garden. We've received your application and will be in touch soon.\n\nThe Morning Family Garden Team", name)

	return subject, html, text
}

func donationThankYouEmail(name string, amount float64) (subject, html, text string) {
	subject = "Thank You for Your Donation - TMFG"

	html = fmt.Sprintf(`<h2>Thank You!</h2>
<p>Dear %s,</p>
<p>Thank you for your generous donation of <strong>$%.2f</strong> to The Morning Family Garden.</p>
<p>Your support helps us grow food, community, and opportunity.</p>
<p>With gratitude,<br>The Morning Family Garden Team</p>`, name, amount)

	text = fmt.Sprintf("Dear %s,\n\nThank you for your generous donation of $%.2f to The Morning Family Garden.\n\nYour support helps us grow food, community, and opportunity.\n\nThe Morning Family Garden Team", name, amount)

	return subject, html, text
}
