package validators

import (
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/qtyoffers/pkg/errors"
	"github.com/angelmondragon/qtyoffers/pkg/tiers"
)

// Admin form field names.
const (
	FieldEnable       = "sqp_enable"
	FieldQuantity     = "sqp_offer_quantity"
	FieldPrice        = "sqp_offer_price"
	FieldActive       = "sqp_offer_active"
	FieldFeatured     = "sqp_offer_best_seller"
	legacyFieldEnable = "_sqp_enable"
)

// MaxFormRows caps how many tier rows one submission may carry.
const MaxFormRows = 50

var indexedKey = regexp.MustCompile(`^(.+)\[(\d+)\]$`)

// ParseOfferForm reads the url-encoded admin form into a raw submission.
// Row fields may be sent as name[] lists or as name[i] keys; indexed keys
// keep unchecked checkboxes from shifting later rows.
func ParseOfferForm(r *http.Request) (tiers.RawInput, error) {
	if err := r.ParseForm(); err != nil {
		return tiers.RawInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form body")
	}
	form := r.PostForm

	in := tiers.RawInput{
		Enabled:       formEnabled(form),
		Quantities:    formList(form, FieldQuantity),
		Prices:        formList(form, FieldPrice),
		Actives:       formList(form, FieldActive),
		FeaturedIndex: tiers.ParseFeaturedIndex(form.Get(FieldFeatured)),
	}
	if len(in.Quantities) > MaxFormRows {
		return tiers.RawInput{}, pkgerrors.New(pkgerrors.CodeValidation, "too many offer rows").
			WithDetails(map[string]any{"field": FieldQuantity, "max": MaxFormRows})
	}
	return in, nil
}

func formEnabled(form url.Values) bool {
	for _, key := range []string{FieldEnable, legacyFieldEnable} {
		if _, ok := form[key]; !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(form.Get(key))) {
		case "no", "0", "false", "off":
			return false
		}
		return true
	}
	return false
}

func formList(form url.Values, name string) []string {
	if values, ok := form[name+"[]"]; ok {
		return values
	}
	if values, ok := form[name]; ok {
		return values
	}

	indexed := map[int]string{}
	maxIdx := -1
	for key, values := range form {
		m := indexedKey.FindStringSubmatch(key)
		if m == nil || m[1] != name || len(values) == 0 {
			continue
		}
		idx, err := strconv.Atoi(m[2])
		if err != nil || idx >= MaxFormRows*2 {
			continue
		}
		indexed[idx] = values[0]
		if idx > maxIdx {
			maxIdx = idx
		}
	}
	if maxIdx < 0 {
		return nil
	}
	out := make([]string, maxIdx+1)
	for idx, value := range indexed {
		out[idx] = value
	}
	return out
}
