package telegram

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/yourusername/po-workflow/internal/domain/entity"
)

// extractCommand "/pending@poflow_bot dispatch" -> "pending"
func extractCommand(text string) string {
	txt := strings.TrimSpace(text)
	if !strings.HasPrefix(txt, "/") {
		return ""
	}
	first := strings.Fields(txt)[0]
	first = strings.TrimPrefix(first, "/")
	if first == "" {
		return ""
	}
	parts := strings.SplitN(first, "@", 2)
	return strings.ToLower(parts[0])
}

// commandArgs komandadan keyingi tokenlar
func commandArgs(text string) ([]string, error) {
	tokens, err := tokenize(text)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, nil
	}
	return tokens[1:], nil
}

// tokenize bo'shliq bo'yicha bo'ladi, qo'shtirnoq ichidagi bo'shliqlar saqlanadi:
// transporter="Fast Roadways" bitta token.
func tokenize(s string) ([]string, error) {
	var (
		tokens  []string
		current strings.Builder
		inQuote bool
		started bool
	)
	for _, r := range s {
		switch {
		case r == '"' || r == '“' || r == '”':
			inQuote = !inQuote
			started = true
		case unicode.IsSpace(r) && !inQuote:
			if started {
				tokens = append(tokens, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("yopilmagan qo'shtirnoq")
	}
	if started {
		tokens = append(tokens, current.String())
	}
	return tokens, nil
}

// parseKeys "IN-1,IN-2, IN-3" -> [IN-1 IN-2 IN-3]
func parseKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// parseAssignments field=value tokenlari. "KEY.field=value" faqat shu qatorga.
func parseAssignments(tokens []string) (map[string]string, map[string]map[string]string, error) {
	values := make(map[string]string)
	perRow := make(map[string]map[string]string)
	for _, tok := range tokens {
		name, value, ok := strings.Cut(tok, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, nil, fmt.Errorf("%q: field=value kutilgan", tok)
		}
		if dot := strings.LastIndex(name, "."); dot > 0 {
			key, field := name[:dot], strings.ToLower(name[dot+1:])
			if field == "" {
				return nil, nil, fmt.Errorf("%q: maydon nomi yo'q", tok)
			}
			if perRow[key] == nil {
				perRow[key] = make(map[string]string)
			}
			perRow[key][field] = value
			continue
		}
		values[strings.ToLower(name)] = value
	}
	return values, perRow, nil
}

// completeArgs /complete <stage> <key,key,...> field=value ...
type completeArgs struct {
	StageID string
	Keys    []string
	Values  map[string]string
	PerRow  map[string]map[string]string
}

func parseCompleteArgs(args []string) (completeArgs, error) {
	if len(args) < 2 {
		return completeArgs{}, fmt.Errorf("foydalanish: /complete <stage> <key,key,...> field=value ...")
	}
	keys := parseKeys(args[1])
	if len(keys) == 0 {
		return completeArgs{}, fmt.Errorf("kamida bitta qator kaliti kerak")
	}
	values, perRow, err := parseAssignments(args[2:])
	if err != nil {
		return completeArgs{}, err
	}
	return completeArgs{
		StageID: strings.ToLower(strings.TrimSpace(args[0])),
		Keys:    keys,
		Values:  values,
		PerRow:  perRow,
	}, nil
}

// parseLiftArgs /lift <indent> <qty> [transporter] [vehicle] key=value ...
// Kalitlar: transporter, vehicle, driver, freight, advance, date, bilty, remarks.
func parseLiftArgs(args []string) (entity.LiftRequest, error) {
	if len(args) < 2 {
		return entity.LiftRequest{}, fmt.Errorf("foydalanish: /lift <indent> <qty> [transporter] [vehicle] freight=... advance=...")
	}
	qty, err := parseAmount(args[1])
	if err != nil {
		return entity.LiftRequest{}, fmt.Errorf("miqdor noto'g'ri %q", args[1])
	}
	req := entity.LiftRequest{IndentID: strings.TrimSpace(args[0]), Qty: qty}

	positional := 0
	for _, tok := range args[2:] {
		name, value, ok := strings.Cut(tok, "=")
		if !ok {
			switch positional {
			case 0:
				req.Transporter = tok
			case 1:
				req.VehicleNumber = tok
			default:
				return entity.LiftRequest{}, fmt.Errorf("ortiqcha argument %q", tok)
			}
			positional++
			continue
		}
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "transporter":
			req.Transporter = value
		case "vehicle":
			req.VehicleNumber = value
		case "driver":
			req.DriverMobile = value
		case "freight":
			if req.Freight, err = parseAmount(value); err != nil {
				return entity.LiftRequest{}, fmt.Errorf("freight noto'g'ri %q", value)
			}
		case "advance":
			if req.Advance, err = parseAmount(value); err != nil {
				return entity.LiftRequest{}, fmt.Errorf("advance noto'g'ri %q", value)
			}
		case "date":
			req.DispatchDate = value
		case "bilty":
			req.BiltyNumber = value
		case "remarks":
			req.Remarks = value
		default:
			return entity.LiftRequest{}, fmt.Errorf("noma'lum parametr %q", name)
		}
	}
	return req, nil
}

// parseAmount "1,250.50" -> 1250.50
func parseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
}
