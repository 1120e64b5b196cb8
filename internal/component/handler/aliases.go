package handler

import "github.com/arnvold/parts-catalog-service/config"

// aliasTable resolves the different field-name spellings legacy upload forms
// use for the same logical input. Which spellings exist is configuration, not
// code; resolution happens once here at the API boundary and the core only
// ever sees canonical inputs.
type aliasTable struct {
	productNumber []string
	order         []string
	variant       []string
}

func newAliasTable(cfg config.UploadConfig) aliasTable {
	return aliasTable{
		productNumber: cfg.ProductNumberAliases,
		order:         cfg.OrderAliases,
		variant:       cfg.VariantAliases,
	}
}

// resolve returns the value of the first alias present with a non-empty
// value, in configured order.
func resolve(get func(string) (string, bool), aliases []string) string {
	for _, name := range aliases {
		if v, ok := get(name); ok && v != "" {
			return v
		}
	}
	return ""
}
