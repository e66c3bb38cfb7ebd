package handler

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"docket/internal/checklist/models"
)

var categoryLabels = map[string]string{
	models.CategoryIdentification: "Documentos de identificação",
	models.CategoryAddress:        "Comprovante de endereço",
	models.CategoryBanking:        "Dados bancários",
	models.CategoryHealth:         "Saúde ocupacional",
	models.CategoryCertifications: "Certidões",
	models.CategoryPhoto:          "Foto",
	models.CategoryContract:       "Contrato",
}

var titleCaser = cases.Title(language.BrazilianPortuguese)

// CategoryLabel returns the display label for a category key. Keys without a
// label are title-cased with underscores as spaces, so new categories render
// sensibly before anyone translates them.
func CategoryLabel(key string) string {
	if label, ok := categoryLabels[key]; ok {
		return label
	}
	key = strings.TrimSpace(strings.ReplaceAll(key, "_", " "))
	if key == "" {
		return ""
	}
	return titleCaser.String(key)
}
