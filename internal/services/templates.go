package services

import (
	"bytes"
	"embed"
	"html/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var emailTemplates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

const (
	SubjectPasswordResetRequest = "Password Reset Request"
	SubjectPasswordResetSuccess = "Password Reset Successful"
)

type ResetRequestEmail struct {
	Name string
	Link string
}

type ResetSuccessEmail struct {
	Name string
}

func RenderResetRequestEmail(data ResetRequestEmail) (string, error) {
	return render("reset_request.html.tmpl", data)
}

func RenderResetSuccessEmail(data ResetSuccessEmail) (string, error) {
	return render("reset_success.html.tmpl", data)
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
