package workflow

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/yourusername/po-workflow/internal/domain/schema"
	"gopkg.in/yaml.v3"
)

//go:embed stages.yaml
var defaultStagesYAML []byte

// StageKind bosqich qanday yakunlanadi
type StageKind string

const (
	// KindUpdate mavjud qatorga patch
	KindUpdate StageKind = "update"
	// KindLift LIFT sheetga yangi qator + ota qatorga patch
	KindLift StageKind = "lift"
)

// Gate tayyorlikni sana o'rniga qiymat bo'yicha aniqlaydi
type Gate struct {
	Field schema.Field `yaml:"field"`
	Token string       `yaml:"token"`
}

// Split umumiy summani qatorlar orasida vazn bo'yicha bo'lish
type Split struct {
	Field  schema.Field `yaml:"field"`
	Weight schema.Field `yaml:"weight"`
}

// StageDefinition bitta bosqichning ustunlari va qoidalari
type StageDefinition struct {
	ID         string         `yaml:"id"`
	Name       string         `yaml:"name"`
	Sheet      string         `yaml:"sheet"`
	Kind       StageKind      `yaml:"kind"`
	Planned    schema.Field   `yaml:"planned"`
	Actual     schema.Field   `yaml:"actual"`
	Delay      schema.Field   `yaml:"delay"`
	Release    schema.Field   `yaml:"release"`
	Remaining  schema.Field   `yaml:"remaining"`
	Upstream   string         `yaml:"upstream"`
	Gate       *Gate          `yaml:"gate"`
	Owns       []schema.Field `yaml:"owns"`
	Required   []schema.Field `yaml:"required"`
	Numeric    []schema.Field `yaml:"numeric"`
	Grouping   bool           `yaml:"grouping"`
	Attachment schema.Field   `yaml:"attachment"`
	Split      *Split         `yaml:"split"`
}

// Writable bosqich yozishi mumkin bo'lgan barcha ustunlar
func (s StageDefinition) Writable() []schema.Field {
	out := make([]schema.Field, 0, len(s.Owns)+3)
	for _, f := range []schema.Field{s.Actual, s.Delay, s.Release} {
		if f != "" {
			out = append(out, f)
		}
	}
	return append(out, s.Owns...)
}

// OwnsField maydon shu bosqichga tegishlimi
func (s StageDefinition) OwnsField(f schema.Field) bool {
	for _, o := range s.Owns {
		if o == f {
			return true
		}
	}
	return false
}

// IsNumeric maydon son bo'lishi kerakmi
func (s StageDefinition) IsNumeric(f schema.Field) bool {
	for _, n := range s.Numeric {
		if n == f {
			return true
		}
	}
	return false
}

func concatFields(lists ...[]schema.Field) []schema.Field {
	var out []schema.Field
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

type namedField struct {
	what string
	f    schema.Field
}

// Definitions bosqichlar ro'yxati (pipeline tartibida)
type Definitions struct {
	Version int               `yaml:"version"`
	Stages  []StageDefinition `yaml:"stages"`
}

// Get ID bo'yicha bosqich
func (d Definitions) Get(id string) (StageDefinition, bool) {
	id = strings.TrimSpace(strings.ToLower(id))
	for _, s := range d.Stages {
		if s.ID == id {
			return s, true
		}
	}
	return StageDefinition{}, false
}

// Upstream bosqichning oldingi bosqichi (yo'q bo'lsa nil)
func (d Definitions) Upstream(s StageDefinition) *StageDefinition {
	if s.Upstream == "" {
		return nil
	}
	up, ok := d.Get(s.Upstream)
	if !ok {
		return nil
	}
	return &up
}

// Validate har bir maydon nomini sheet layout iga bir marta bog'laydi
func (d Definitions) Validate(reg schema.Registry) error {
	if len(d.Stages) == 0 {
		return fmt.Errorf("stages: no stages defined")
	}
	seen := make(map[string]bool, len(d.Stages))
	owners := make(map[string]string) // sheet/field -> stage
	for i, s := range d.Stages {
		if s.ID == "" {
			return fmt.Errorf("stages[%d]: id is required", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("stages: duplicate stage %s", s.ID)
		}
		seen[s.ID] = true

		l, ok := reg.Get(s.Sheet)
		if !ok {
			return fmt.Errorf("stage %s: unknown sheet %q", s.ID, s.Sheet)
		}
		switch s.Kind {
		case KindUpdate, KindLift:
		default:
			return fmt.Errorf("stage %s: unknown kind %q", s.ID, s.Kind)
		}
		if s.Actual == "" {
			return fmt.Errorf("stage %s: actual field is required", s.ID)
		}
		if s.Planned == "" && s.Gate == nil {
			return fmt.Errorf("stage %s: planned field or gate is required", s.ID)
		}

		check := func(what string, f schema.Field) error {
			if f != "" && !l.Has(f) {
				return fmt.Errorf("stage %s: %s field %q not in %s layout", s.ID, what, f, s.Sheet)
			}
			return nil
		}
		fields := []namedField{
			{"planned", s.Planned}, {"actual", s.Actual}, {"delay", s.Delay},
			{"release", s.Release}, {"remaining", s.Remaining}, {"attachment", s.Attachment},
		}
		if s.Gate != nil {
			fields = append(fields, namedField{"gate", s.Gate.Field})
		}
		if s.Split != nil {
			fields = append(fields, namedField{"split", s.Split.Field}, namedField{"split weight", s.Split.Weight})
		}
		for _, x := range fields {
			if err := check(x.what, x.f); err != nil {
				return err
			}
		}
		for _, f := range concatFields(s.Owns, s.Required, s.Numeric) {
			if err := check("owned", f); err != nil {
				return err
			}
		}
		for _, f := range concatFields(s.Required, s.Numeric) {
			if !s.OwnsField(f) {
				return fmt.Errorf("stage %s: field %s is not owned by the stage", s.ID, f)
			}
		}
		if s.Attachment != "" && !s.OwnsField(s.Attachment) {
			return fmt.Errorf("stage %s: attachment field %s is not owned by the stage", s.ID, s.Attachment)
		}
		if s.Split != nil && !s.OwnsField(s.Split.Field) {
			return fmt.Errorf("stage %s: split field %s is not owned by the stage", s.ID, s.Split.Field)
		}
		for _, f := range s.Writable() {
			k := s.Sheet + "/" + string(f)
			if other, dup := owners[k]; dup {
				return fmt.Errorf("stage %s: column %s already written by stage %s", s.ID, f, other)
			}
			owners[k] = s.ID
		}
	}
	for _, s := range d.Stages {
		if s.Upstream == "" {
			continue
		}
		up, ok := d.Get(s.Upstream)
		if !ok {
			return fmt.Errorf("stage %s: unknown upstream stage %q", s.ID, s.Upstream)
		}
		if up.Sheet != s.Sheet {
			return fmt.Errorf("stage %s: upstream %s lives on another sheet", s.ID, up.ID)
		}
	}
	return nil
}

// ParseDefinitions YAML ni o'qiydi; kind bo'sh bo'lsa update.
func ParseDefinitions(data []byte) (Definitions, error) {
	var d Definitions
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Definitions{}, fmt.Errorf("parse stages: %w", err)
	}
	for i := range d.Stages {
		s := &d.Stages[i]
		s.ID = strings.TrimSpace(strings.ToLower(s.ID))
		s.Upstream = strings.TrimSpace(strings.ToLower(s.Upstream))
		if s.Kind == "" {
			s.Kind = KindUpdate
		}
		if s.Name == "" {
			s.Name = s.ID
		}
	}
	return d, nil
}

// LoadDefinitions path bo'sh bo'lsa ichki (embed) ta'riflarni ishlatadi
func LoadDefinitions(path string, reg schema.Registry) (Definitions, error) {
	data := defaultStagesYAML
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Definitions{}, fmt.Errorf("read stages file: %w", err)
		}
		data = b
	}
	d, err := ParseDefinitions(data)
	if err != nil {
		return Definitions{}, err
	}
	if err := d.Validate(reg); err != nil {
		return Definitions{}, err
	}
	return d, nil
}

// DefaultDefinitions ichki pipeline; xato bo'lsa panic
func DefaultDefinitions() Definitions {
	d, err := LoadDefinitions("", schema.Default())
	if err != nil {
		panic(err)
	}
	return d
}
