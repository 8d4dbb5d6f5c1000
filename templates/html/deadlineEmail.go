package templates

import "fmt"

// RenderDeadlineReminderEmail generates the HTML for the task deadline
// reminder email sent to team members the day before a deadline.
func RenderDeadlineReminderEmail(displayName, taskTitle, deadline string) string {
	return fmt.Sprintf(`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1, minimum-scale=1, maximum-scale=1">
  <title>Deadline Reminder - MentorLink</title>
  <style type="text/css">
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 0; background-color: #0a0a0f; }
    .container { max-width: 600px; margin: 0 auto; background-color: #12121f; }
    .header { background: linear-gradient(135deg, #60a5fa 0%%, #2563eb 100%%); padding: 40px 30px; text-align: center; }
    .header h1 { color: #fff; margin: 0; font-size: 24px; font-weight: 700; }
    .content { padding: 40px 30px; color: #e5e7eb; }
    .content h2 { color: #fff; margin-top: 0; }
    .highlight-box { background: rgba(96, 165, 250, 0.1); border: 1px solid rgba(96, 165, 250, 0.3); border-radius: 12px; padding: 20px; margin: 20px 0; }
    .highlight-box h3 { color: #60a5fa; margin-top: 0; font-size: 16px; }
    .footer { padding: 30px; text-align: center; color: #6b7280; font-size: 12px; border-top: 1px solid rgba(255,255,255,0.1); }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>⏰ Deadline Approaching</h1>
    </div>
    <div class="content">
      <h2>Hi %s,</h2>
      <p>This is a reminder that the deadline for your task is less than 24 hours away.</p>
      <div class="highlight-box">
        <h3>%s</h3>
        <p>Due: %s</p>
      </div>
      <p>Make sure your team submits its work before the deadline. If you have already submitted, you can ignore this email.</p>
    </div>
    <div class="footer">
      <p>MentorLink &middot; You are receiving this email because your team has an in-progress submission for this task.</p>
    </div>
  </div>
</body>
</html>`, displayName, taskTitle, deadline)
}
