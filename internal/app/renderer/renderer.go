package renderer

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

//go:embed templates/*.html
var templateFS embed.FS

// Amounts render with Indian digit grouping (1,00,000 not 100,000).
var inrPrinter = message.NewPrinter(language.MustParse("en-IN"))

// INR formats a rupee amount for display.
func INR(v float64) string {
	return inrPrinter.Sprintf("₹%v", number.Decimal(v, number.MaxFractionDigits(0)))
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"inr":  INR,
		"add1": func(i int) int { return i + 1 },
	}
}

// Register parses the embedded templates and installs them on the router.
func Register(r *gin.Engine) error {
	tmpl, err := template.New("").Funcs(funcMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)
	return nil
}
