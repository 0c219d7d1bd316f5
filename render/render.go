// Package render turns views into HTML and terminal text.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"skyfetch/view"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("skyfetch").ParseFS(templateFS, "templates/*.html"))

// Templates returns the parsed template set ("page" is the full document,
// "display" the current state fragment)
func Templates() *template.Template {
	return templates
}

// Page writes a complete HTML document for v
func Page(w io.Writer, v view.View) error {
	return templates.ExecuteTemplate(w, "page", v)
}

// Fragment writes only the markup for v's state
func Fragment(w io.Writer, v view.View) error {
	return templates.ExecuteTemplate(w, "display", v)
}

// Text writes v for a terminal
func Text(w io.Writer, v view.View) error {
	var b strings.Builder
	switch v.State {
	case view.Welcome:
		b.WriteString("Welcome to SkyFetch!\n")
		b.WriteString("Enter a city to see the current weather and 5-day forecast.\n")
	case view.Loading:
		b.WriteString("Loading weather data...\n")
	case view.Error:
		fmt.Fprintf(&b, "Error: %s\n", v.Message)
	case view.Result:
		writeReport(&b, v)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeReport(b *strings.Builder, v view.View) {
	title := cases.Title(language.English)
	current := v.Report.Current

	header := fmt.Sprintf("Weather for %s:", current.CityName)
	fmt.Fprintf(b, "%s\n%s\n", header, underline(header))
	fmt.Fprintf(b, "Conditions:  %s\n", title.String(current.Description))
	fmt.Fprintf(b, "Temperature: %d°C\n", current.TemperatureCelsius)
	fmt.Fprintf(b, "Icon:        %s\n", current.IconURL())

	if len(v.Report.Forecast) == 0 {
		return
	}

	header = "5-Day Forecast:"
	fmt.Fprintf(b, "\n%s\n%s\n", header, underline(header))
	for _, day := range v.Report.Forecast {
		fmt.Fprintf(b, "%s %s: %-25s %4d°C\n",
			day.DayLabel,
			day.Timestamp.Format("2006-01-02"),
			title.String(day.Description),
			day.TemperatureCelsius)
	}
}

// underline is a rule as wide as header in characters, not bytes
func underline(header string) string {
	return strings.Repeat("-", utf8.RuneCountInString(header))
}
