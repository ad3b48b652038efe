package mailer

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed templates/*.html templates/*.txt
var templateFS embed.FS

// RenderTemplate loads templates/<name>.<ext> and substitutes
// {{key}} placeholders with the given variables.
func RenderTemplate(name string, vars map[string]string, ext string) (string, error) {
	raw, err := templateFS.ReadFile("templates/" + name + "." + ext)
	if err != nil {
		return "", fmt.Errorf("unknown email template %q: %w", name, err)
	}

	body := string(raw)
	for key, val := range vars {
		body = strings.ReplaceAll(body, "{{"+key+"}}", val)
	}
	return body, nil
}
