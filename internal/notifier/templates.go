package notifier

import (
	"bytes"
	"html/template"

	"github.com/Masterminds/sprig/v3"
)

type activationEmailData struct {
	FullName      string
	Email         string
	Role          string
	Token         string
	ActivationURL string
	FromName      string
}

type welcomeEmailData struct {
	FullName string
	Role     string
	City     string
	FromName string
}

var (
	activationTmpl = template.Must(template.New("activation").Funcs(sprig.FuncMap()).Parse(activationHTML))
	welcomeTmpl    = template.Must(template.New("welcome").Funcs(sprig.FuncMap()).Parse(welcomeHTML))
)

func render(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const activationHTML = `<!DOCTYPE html>
<html>
<head>
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
				  color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
		.content { background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px; }
		.footer { text-align: center; margin-top: 20px; color: #888; font-size: 12px; }
		.role-badge { display: inline-block; background: #667eea; color: white;
					  padding: 5px 15px; border-radius: 20px; font-weight: bold; }
		.button { display: inline-block; background: #667eea; color: white; padding: 12px 30px;
				  border-radius: 5px; text-decoration: none; font-weight: bold; margin: 15px 0; }
		.token-box { background: #eee; border: 1px dashed #aaa; padding: 12px; margin: 15px 0;
					 font-family: monospace; word-break: break-all; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Activate your ReStockr account</h1>
		</div>
		<div class="content">
			<p>Hi {{ .FullName | trim }},</p>

			<p>Thanks for signing up to <strong>ReStockr</strong> as a
			<span class="role-badge">{{ .Role | upper }}</span>!</p>

			<p>Your account is almost ready. Activate it within the next
			<strong>7 days</strong> using the button below:</p>

			{{ if .ActivationURL }}
			<p style="text-align: center;">
				<a class="button" href="{{ .ActivationURL }}?email={{ .Email }}&token={{ .Token }}">Activate my account</a>
			</p>
			{{ end }}

			<p>Or enter this activation code manually:</p>
			<div class="token-box">{{ .Token }}</div>

			<p>If you did not create this account, you can safely ignore this email.</p>

			<p>Best regards,<br>
			<strong>{{ .FromName }}</strong></p>
		</div>
		<div class="footer">
			<p>This is an automated message. Please do not reply to this email.</p>
			<p>&copy; {{ now | date "2006" }} ReStockr by Akodu Resources Limited. All rights reserved.</p>
		</div>
	</div>
</body>
</html>
`

const welcomeHTML = `<!DOCTYPE html>
<html>
<head>
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
				  color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
		.content { background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px; }
		.footer { text-align: center; margin-top: 20px; color: #888; font-size: 12px; }
		.role-badge { display: inline-block; background: #667eea; color: white;
					  padding: 5px 15px; border-radius: 20px; font-weight: bold; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>&#127881; Welcome to ReStockr!</h1>
		</div>
		<div class="content">
			<p>Hi {{ .FullName | trim }},</p>

			<p>Your account is now active. Welcome to <strong>ReStockr</strong> as a
			<span class="role-badge">{{ .Role | upper }}</span>!</p>

			<p>We're building Nigeria's first hyper-local restocking platform, starting in
			<strong>{{ .City | default "Abuja" }}</strong>.</p>

			<h3>What happens next?</h3>
			<ul>
				<li>&#9989; Log in with your email and password</li>
				<li>&#128231; We'll send you exclusive updates</li>
				<li>&#128640; Early access to new features</li>
				<li>&#127873; Special offers for early adopters</li>
			</ul>

			<p>Stay tuned for more updates!</p>

			<p>Best regards,<br>
			<strong>{{ .FromName }}</strong><br>
			Akodu Resources Limited</p>
		</div>
		<div class="footer">
			<p>This is an automated message. Please do not reply to this email.</p>
			<p>&copy; {{ now | date "2006" }} ReStockr by Akodu Resources Limited. All rights reserved.</p>
		</div>
	</div>
</body>
</html>
`
