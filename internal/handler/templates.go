package handler

import (
	"html/template"
	"time"

	"github.com/dohyunlee/seoultee/internal/domain"
)

// TemplateFuncs returns a FuncMap with custom template functions
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"mul": func(a int64, b int) int64 {
			return a * int64(b)
		},
		"year": func() int {
			return time.Now().Year()
		},
		"formatPrice": domain.FormatPrice,
	}
}
