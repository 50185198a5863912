package templates

import (
	"fmt"
	"html"
)

// RenderOTP generates branded HTML displaying the one-time verification code
func RenderOTP(code string) string {
	safeCode := html.EscapeString(code)

	return fmt.Sprintf(`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1, minimum-scale=1, maximum-scale=1">
  <title>Email Verification</title>
  <style type="text/css">
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 0; background-color: #f4f6fb; }
    .container { max-width: 600px; margin: 0 auto; background-color: #ffffff; }
    .header { background: linear-gradient(135deg, #1e3a8a 0%%, #3b82f6 100%%); padding: 40px 30px; text-align: center; }
    .header h1 { color: #fff; margin: 0; font-size: 24px; font-weight: 700; }
    .content { padding: 40px 30px; color: #1f2937; line-height: 1.6; font-size: 15px; text-align: center; }
    .code { display: inline-block; margin: 20px 0; padding: 16px 32px; background-color: #eff6ff; border-radius: 8px; color: #1e3a8a; font-size: 32px; font-weight: 700; letter-spacing: 8px; }
    .footer { padding: 30px; text-align: center; color: #6b7280; font-size: 12px; border-top: 1px solid #e5e7eb; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>Verify your email</h1>
    </div>
    <div class="content">
      <p>Use the code below to verify your AlumniConnect account.</p>
      <div class="code">%s</div>
      <p>If you did not register, you can safely ignore this email.</p>
    </div>
    <div class="footer">AlumniConnect &middot; KGCAS Alumni Network</div>
  </div>
</body>
</html>`, safeCode)
}
