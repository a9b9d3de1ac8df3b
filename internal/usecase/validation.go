package usecase

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yourusername/po-workflow/internal/domain/schema"
	"github.com/yourusername/po-workflow/internal/workflow"
)

var validate = validator.New()

// validateRequest struct teglari bo'yicha tekshiradi
func validateRequest(req any) error {
	if err := validate.Struct(req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return workflow.Invalid("%s %s", strings.ToLower(ve[0].Field()), tagReason(ve[0].Tag()))
		}
		return workflow.Invalid("%v", err)
	}
	return nil
}

// validateValues bosqichning majburiy va sonli maydonlarini tekshiradi
func validateValues(st workflow.StageDefinition, values map[schema.Field]string) error {
	rules := make(map[string]any)
	for _, f := range st.Required {
		rules[string(f)] = "required"
	}
	for _, f := range st.Numeric {
		if _, ok := rules[string(f)]; ok {
			rules[string(f)] = "required,numeric"
		} else {
			rules[string(f)] = "omitempty,numeric"
		}
	}
	if len(rules) == 0 {
		return nil
	}
	data := make(map[string]any, len(rules))
	for name := range rules {
		v := strings.TrimSpace(values[schema.Field(name)])
		if v == workflow.MissingMarker {
			v = ""
		}
		data[name] = v
	}
	errs := validate.ValidateMap(data, rules)
	if len(errs) == 0 {
		return nil
	}
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)
	first := names[0]
	reason := fmt.Sprint(errs[first])
	if err, ok := errs[first].(error); ok {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			reason = tagReason(ve[0].Tag())
		}
	}
	return &workflow.FieldError{Field: schema.Field(first), Reason: reason}
}

func tagReason(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "numeric":
		return "must be a number"
	case "min":
		return "is too short"
	}
	return "failed " + tag
}
